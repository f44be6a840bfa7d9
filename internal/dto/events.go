package dto

import "time"

type CardIssuedEvent struct {
	EventID      string    `json:"event_id"`
	CardNumber   string    `json:"card_number"`
	CardType     string    `json:"card_type"`
	NationalCode string    `json:"national_code"`
	IssuerCode   string    `json:"issuer_code"`
	IssuedAt     time.Time `json:"issued_at"`
}
