package tiers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Bands(t *testing.T) {
	cases := []struct {
		amount string
		want   ID
		ok     bool
	}{
		{"0", None, false},
		{"999.99", None, false},
		{"1000", Bronze, true},
		{"2499.99", Bronze, true},
		{"2500", Silver, true},
		{"4999.99", Silver, true},
		{"5000", Gold, true},
		{"250000", Gold, true},
		{"-10", None, false},
	}

	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			band, ok := Classify(decimal.RequireFromString(tc.amount))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, band.ID)
		})
	}
}

func TestClassify_ExactlyOneBandPerAmount(t *testing.T) {
	for cents := int64(0); cents <= 700000; cents += 137 {
		amount := decimal.New(cents, -2)
		matches := 0
		for _, b := range All() {
			if b.Contains(amount) {
				matches++
			}
		}
		_, ok := Classify(amount)
		if ok {
			require.Equal(t, 1, matches, "amount %s", amount)
		} else {
			require.Equal(t, 0, matches, "amount %s", amount)
		}
	}
}

func TestLookup_UnknownIsNone(t *testing.T) {
	band, ok := Lookup("eagle")
	assert.False(t, ok)
	assert.Equal(t, NoneBand, band)

	band, ok = Lookup(Silver)
	assert.True(t, ok)
	assert.Equal(t, 4, band.VIPTickets)
}

func TestEffective_OverrideWins(t *testing.T) {
	gold := Gold
	assert.Equal(t, Gold, Effective(&gold, decimal.Zero).ID)
	assert.Equal(t, Silver, Effective(nil, decimal.NewFromInt(3000)).ID)

	bogus := ID("platinum")
	assert.Equal(t, Bronze, Effective(&bogus, decimal.NewFromInt(1200)).ID)
}

func TestAll_ReturnsCopy(t *testing.T) {
	list := All()
	list[0].Name = "changed"
	assert.Equal(t, "Gold Sponsor", All()[0].Name)
}

func TestRank_FollowsTableOrder(t *testing.T) {
	list := All()
	for i := 1; i < len(list); i++ {
		assert.Greater(t, list[i-1].Rank(), list[i].Rank())
	}
	assert.Equal(t, 0, NoneBand.Rank())
}
