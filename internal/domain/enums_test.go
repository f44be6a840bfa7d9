package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountType(t *testing.T) {
	for raw, want := range map[string]AccountType{
		"CURRENT":    AccountTypeCurrent,
		"savings":    AccountTypeSavings,
		" long_term": AccountTypeLongTerm,
	} {
		got, err := ParseAccountType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseAccountType("CHECKING")
	assert.Error(t, err)
}

func TestParseCardType(t *testing.T) {
	got, err := ParseCardType("credit")
	require.NoError(t, err)
	assert.Equal(t, CardTypeCredit, got)

	_, err = ParseCardType("GIFT")
	assert.Error(t, err)
}

func TestCardIsExpired(t *testing.T) {
	expired := &Card{ExpirationMonth: "01", ExpirationYear: "2001"}
	assert.True(t, expired.IsExpired())

	future := &Card{ExpirationMonth: "12", ExpirationYear: "2999"}
	assert.False(t, future.IsExpired())

	garbage := &Card{ExpirationMonth: "xx", ExpirationYear: "2999"}
	assert.True(t, garbage.IsExpired())
}
