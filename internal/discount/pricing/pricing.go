// Package pricing holds the discount arithmetic. Applying discounts compounds,
// so reverting them in an order other than the reverse of application does
// not restore the original price.
package pricing

import (
	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept after a division.
const Precision = 16

var hundred = decimal.NewFromInt(100)

func ValidatePercentage(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return apperr.Validation("percentage must be between 0 and 100, got %s", pct)
	}
	return nil
}

// Apply returns price * (1 - pct/100).
func Apply(price, pct decimal.Decimal) decimal.Decimal {
	return price.Mul(hundred.Sub(pct)).DivRound(hundred, Precision)
}

// Revert returns price / (1 - pct/100). A full discount cannot be reverted.
func Revert(price, pct decimal.Decimal) (decimal.Decimal, error) {
	if pct.Equal(hundred) {
		return decimal.Zero, apperr.InvalidState("a 100%% discount cannot be reverted")
	}
	return price.Mul(hundred).DivRound(hundred.Sub(pct), Precision), nil
}
