package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string           `json:"name" validate:"notblank,max=10"`
	Email  string           `json:"contactEmail" validate:"required,email"`
	Tier   string           `json:"tier" validate:"required,oneof=gold silver bronze"`
	Amount *decimal.Decimal `json:"amount" validate:"omitempty,gte=0"`
}

func TestValidator_UsesJSONNames(t *testing.T) {
	v := New()
	neg := decimal.NewFromInt(-5)

	err := v.Struct(sample{Name: "   ", Email: "nope", Tier: "platinum", Amount: &neg})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "This field is required", ve.Errors["name"])
	assert.Equal(t, "Must be a valid email address", ve.Errors["contactEmail"])
	assert.Equal(t, "Must be one of: gold, silver, bronze", ve.Errors["tier"])
	assert.Equal(t, "Must be at least 0", ve.Errors["amount"])
}

func TestValidator_Valid(t *testing.T) {
	v := New()
	amt := decimal.NewFromInt(2500)
	assert.NoError(t, v.Struct(sample{Name: "Acme", Email: "jane@acme.com", Tier: "gold", Amount: &amt}))
	assert.NoError(t, v.Struct(sample{Name: "Acme", Email: "jane@acme.com", Tier: "gold"}))
}

func TestValidator_Partial(t *testing.T) {
	v := New()
	err := v.Partial(sample{Tier: "gold"}, "Tier")
	assert.NoError(t, err)

	err = v.Partial(sample{Tier: "gold"}, "Tier", "Email")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 1)
	assert.Contains(t, ve.Errors, "contactEmail")
}
