package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func decimalOf(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestNewCard_NeverKeepsPAN(t *testing.T) {
	owner := primitive.NewObjectID()
	card := NewCard(owner, "4111111111111111", time.Now())

	require.Equal(t, owner, card.CustomerID)
	require.Equal(t, "1111", card.Last4)
	require.Equal(t, "411111", card.BIN)
	require.Equal(t, "************1111", card.PANMasked)
	require.False(t, card.ID.IsZero())
	require.NotContains(t, card.PANMasked, "4111111111111111")
}

func TestMaskPAN(t *testing.T) {
	cases := map[string]string{
		"4111111111111111":    "************1111",
		"4222222222222":       "*********2222",
		"6011000990139424123": "***************4123",
		"123":                 "***",
	}
	for in, want := range cases {
		got := MaskPAN(in)
		require.Equal(t, want, got)
		require.Equal(t, len(in), len(got))
		if len(in) > 4 {
			require.True(t, strings.HasSuffix(got, in[len(in)-4:]))
		}
	}
}

func TestCardUpdate(t *testing.T) {
	require.True(t, CardUpdate{}.IsEmpty())

	alias := "work"
	u := CardUpdate{Alias: &alias}
	require.False(t, u.IsEmpty())
	require.Equal(t, "work", u.Fields()["alias"])
	_, ok := u.Fields()["holder_name"]
	require.False(t, ok)

	c := NewCard(primitive.NewObjectID(), "4111111111111111", time.Now())
	u.Apply(c)
	require.Equal(t, "work", c.Alias)
	require.Empty(t, c.HolderName)
}
