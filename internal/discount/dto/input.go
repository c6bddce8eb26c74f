package dto

import "github.com/shopspring/decimal"

type CreateDiscountInput struct {
	Percentage  decimal.Decimal
	Description *string
}

// UpdateDiscountInput carries the fields to change; nil fields are kept.
type UpdateDiscountInput struct {
	ID          int64
	Percentage  *decimal.Decimal
	Description *string
	Active      *bool
}
