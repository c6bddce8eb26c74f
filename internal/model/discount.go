package model

import "github.com/shopspring/decimal"

type Discount struct {
	ID          int64           `db:"id" json:"id"`
	Percentage  decimal.Decimal `db:"percentage" json:"percentage"`
	Description *string         `db:"description" json:"description"`
	Active      bool            `db:"active" json:"active"`
}

// ProductDiscount records that a discount was applied to a product's price.
type ProductDiscount struct {
	ID         int64 `db:"id" json:"id"`
	ProductID  int64 `db:"product_id" json:"product_id"`
	DiscountID int64 `db:"discount_id" json:"discount_id"`
}
