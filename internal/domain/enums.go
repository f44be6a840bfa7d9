package domain

import (
	"fmt"
	"strings"
)

type AccountType string

const (
	AccountTypeCurrent  AccountType = "CURRENT"
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeLongTerm AccountType = "LONG_TERM"
)

func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(strings.ToUpper(strings.TrimSpace(s))) {
	case AccountTypeCurrent:
		return AccountTypeCurrent, nil
	case AccountTypeSavings:
		return AccountTypeSavings, nil
	case AccountTypeLongTerm:
		return AccountTypeLongTerm, nil
	}
	return "", fmt.Errorf("invalid account type: %s", s)
}

type CardType string

const (
	CardTypeDebit  CardType = "DEBIT"
	CardTypeCredit CardType = "CREDIT"
)

func ParseCardType(s string) (CardType, error) {
	switch CardType(strings.ToUpper(strings.TrimSpace(s))) {
	case CardTypeDebit:
		return CardTypeDebit, nil
	case CardTypeCredit:
		return CardTypeCredit, nil
	}
	return "", fmt.Errorf("invalid card type: %s", s)
}
