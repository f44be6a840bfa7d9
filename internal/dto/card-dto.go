package dto

import "github.com/iscsolutions/card_service/internal/domain"

type CreateCardRequest struct {
	CardNumber      string `json:"card_number"`
	CardType        string `json:"card_type"`
	AccountNumber   string `json:"account_number"`
	IssuerCode      string `json:"issuer_code"`
	ExpirationMonth string `json:"expiration_month"`
	ExpirationYear  string `json:"expiration_year"`
}

type CardResponse struct {
	CardNumber      string `json:"card_number"`
	CardType        string `json:"card_type"`
	Active          bool   `json:"active"`
	ExpirationMonth string `json:"expiration_month"`
	ExpirationYear  string `json:"expiration_year"`
	IssuerCode      string `json:"issuer_code,omitempty"`
	IssuerName      string `json:"issuer_name,omitempty"`
	AccountNumber   string `json:"account_number,omitempty"`
	NationalCode    string `json:"national_code,omitempty"`
}

func CardResponseFrom(card *domain.Card) CardResponse {
	resp := CardResponse{
		CardNumber:      card.CardNumber,
		CardType:        string(card.CardType),
		Active:          card.Active,
		ExpirationMonth: card.ExpirationMonth,
		ExpirationYear:  card.ExpirationYear,
	}
	if card.Issuer != nil {
		resp.IssuerCode = card.Issuer.IssuerCode
		resp.IssuerName = card.Issuer.Name
	}
	if card.Account != nil {
		resp.AccountNumber = card.Account.AccountNumber
		if card.Account.Owner != nil {
			resp.NationalCode = card.Account.Owner.NationalCode
		}
	}
	return resp
}
