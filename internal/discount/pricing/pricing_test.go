package pricing

import (
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApply(t *testing.T) {
	tests := []struct {
		price, pct, want string
	}{
		{"100", "10", "90"},
		{"19.99", "15", "16.9915"},
		{"50", "0", "50"},
		{"50", "100", "0"},
		{"0", "25", "0"},
		{"10", "33.3", "6.67"},
	}
	for _, tt := range tests {
		t.Run(tt.price+"-"+tt.pct, func(t *testing.T) {
			got := Apply(d(tt.price), d(tt.pct))
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestRevert_RoundTrip(t *testing.T) {
	epsilon := d("0.000001")
	for _, price := range []string{"100", "19.99", "0.01", "12345.6789", "7"} {
		for _, pct := range []string{"0", "10", "15", "33", "33.3333", "66.6", "99.99"} {
			discounted := Apply(d(price), d(pct))
			back, err := Revert(discounted, d(pct))
			require.NoError(t, err)
			assert.True(t, back.Sub(d(price)).Abs().LessThan(epsilon), "price %s pct %s came back as %s", price, pct, back)
		}
	}
}

func TestRevert_FullDiscount(t *testing.T) {
	_, err := Revert(d("0"), d("100"))

	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestStacking(t *testing.T) {
	price := d("200")

	stacked := Apply(Apply(price, d("10")), d("20"))
	assert.True(t, d("144").Equal(stacked))

	// Reverse order restores the original price.
	back, err := Revert(stacked, d("20"))
	require.NoError(t, err)
	back, err = Revert(back, d("10"))
	require.NoError(t, err)
	assert.True(t, price.Equal(back))
}

func TestStacking_DoubleApplicationCompounds(t *testing.T) {
	twice := Apply(Apply(d("100"), d("50")), d("50"))

	assert.True(t, d("25").Equal(twice))
}

func TestValidatePercentage(t *testing.T) {
	assert.NoError(t, ValidatePercentage(d("0")))
	assert.NoError(t, ValidatePercentage(d("100")))
	assert.NoError(t, ValidatePercentage(d("12.5")))
	assert.True(t, apperr.Is(ValidatePercentage(d("-0.1")), apperr.KindValidation))
	assert.True(t, apperr.Is(ValidatePercentage(d("100.01")), apperr.KindValidation))
}
