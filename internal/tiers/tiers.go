// Package tiers holds the sponsorship band table and the pure functions that
// classify a contribution amount into a band.
package tiers

import (
	"github.com/shopspring/decimal"
)

// ID is the persisted tier identifier.
type ID string

const (
	Gold   ID = "gold"
	Silver ID = "silver"
	Bronze ID = "bronze"
	None   ID = ""
)

// Band describes one contribution band. MaxAmount is nil for the open top band.
type Band struct {
	ID         ID               `json:"id"`
	Name       string           `json:"name"`
	MinAmount  decimal.Decimal  `json:"minAmount"`
	MaxAmount  *decimal.Decimal `json:"maxAmount"`
	VIPTickets int              `json:"vipTickets"`
	Benefits   []string         `json:"benefits"`
	Color      string           `json:"color"`
}

// Contains reports whether amount (rounded to cents) falls inside [min, max].
func (b Band) Contains(amount decimal.Decimal) bool {
	a := amount.Round(2)
	if a.LessThan(b.MinAmount) {
		return false
	}
	return b.MaxAmount == nil || a.LessThanOrEqual(*b.MaxAmount)
}

// Rank orders bands for display: gold highest, none 0.
func (b Band) Rank() int {
	switch b.ID {
	case Gold:
		return 3
	case Silver:
		return 2
	case Bronze:
		return 1
	default:
		return 0
	}
}

// NoneBand is what callers render when a sponsor has no tier.
var NoneBand = Band{ID: None, Name: "None", MinAmount: decimal.Zero, Color: "gray"}

func cents(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// bands is ordered from highest to lowest. Bands must not overlap.
var bands = []Band{
	{
		ID:         Gold,
		Name:       "Gold Sponsor",
		MinAmount:  decimal.NewFromInt(5000),
		VIPTickets: 8,
		Benefits: []string{
			"Logo on event banners and the website homepage",
			"Recognition from the stage at the annual gala",
			"Eight VIP event tickets",
		},
		Color: "amber",
	},
	{
		ID:         Silver,
		Name:       "Silver Sponsor",
		MinAmount:  decimal.NewFromInt(2500),
		MaxAmount:  cents("4999.99"),
		VIPTickets: 4,
		Benefits: []string{
			"Logo on the sponsors page",
			"Four VIP event tickets",
		},
		Color: "slate",
	},
	{
		ID:         Bronze,
		Name:       "Bronze Sponsor",
		MinAmount:  decimal.NewFromInt(1000),
		MaxAmount:  cents("2499.99"),
		VIPTickets: 2,
		Benefits: []string{
			"Name listed on the sponsors page",
			"Two VIP event tickets",
		},
		Color: "orange",
	},
}

// All returns a copy of the band table, highest band first.
func All() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// Classify maps an amount to its band. ok is false below the lowest band
// and for negative amounts.
func Classify(amount decimal.Decimal) (Band, bool) {
	if amount.IsNegative() {
		return NoneBand, false
	}
	for _, b := range bands {
		if b.Contains(amount) {
			return b, true
		}
	}
	return NoneBand, false
}

// Lookup finds a band by its stored identifier. Unknown or empty ids yield
// NoneBand without error.
func Lookup(id ID) (Band, bool) {
	for _, b := range bands {
		if b.ID == id {
			return b, true
		}
	}
	return NoneBand, false
}

// Parse accepts only identifiers present in the band table.
func Parse(s string) (ID, bool) {
	b, ok := Lookup(ID(s))
	return b.ID, ok
}

// Effective is the tier shown for a sponsor: the manual override when set,
// otherwise the band computed from the running total.
func Effective(override *ID, total decimal.Decimal) Band {
	if override != nil {
		if b, ok := Lookup(*override); ok {
			return b
		}
	}
	b, _ := Classify(total)
	return b
}
