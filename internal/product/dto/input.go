package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	Name       string
	Price      decimal.Decimal
	Stock      int64
	CategoryID int64
}

// UpdateProductInput carries the fields to change; nil fields are kept.
type UpdateProductInput struct {
	ID         int64
	Name       *string
	Stock      *int64
	CategoryID *int64
}

// ProductChanges lists the columns an update writes; nil columns are left
// untouched. A Stock write lands only while the row still holds
// ExpectedStock and ExpectedReserved.
type ProductChanges struct {
	Name             *string
	Stock            *int64
	CategoryID       *int64
	ExpectedStock    int64
	ExpectedReserved int64
}

func (c *ProductChanges) Empty() bool {
	return c.Name == nil && c.Stock == nil && c.CategoryID == nil
}
