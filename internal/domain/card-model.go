package domain

import (
	"strconv"
	"time"
)

type Card struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	CardNumber      string   `gorm:"type:varchar(16);uniqueIndex;not null" json:"card_number"`
	CardType        CardType `gorm:"type:varchar(10);not null" json:"card_type"`
	Active          bool     `gorm:"not null;default:true" json:"active"`
	ExpirationMonth string   `gorm:"type:varchar(2);not null" json:"expiration_month"`
	ExpirationYear  string   `gorm:"type:varchar(4);not null" json:"expiration_year"`
	AccountID       uint     `gorm:"index;not null" json:"-"`
	Account         *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	IssuerID        uint     `gorm:"index;not null" json:"-"`
	Issuer          *Issuer  `gorm:"foreignKey:IssuerID" json:"issuer,omitempty"`
}

// IsExpired reports whether the card is past the last day of its
// expiration month. Unparseable dates count as expired.
func (c *Card) IsExpired() bool {
	year, err := strconv.Atoi(c.ExpirationYear)
	if err != nil {
		return true
	}
	month, err := strconv.Atoi(c.ExpirationMonth)
	if err != nil || month < 1 || month > 12 {
		return true
	}
	end := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0).AddDate(0, 0, -1)
	return time.Now().After(end)
}
