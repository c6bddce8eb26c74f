package model

import "github.com/shopspring/decimal"

type Product struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Stock         int64           `db:"stock" json:"stock"`
	ReservedStock int64           `db:"reserved_stock" json:"reserved_stock"`
	CategoryID    int64           `db:"category_id" json:"category_id"`
	CategoryName  *string         `db:"category_name" json:"category_name"` // Joined, nil once the category is removed
	Version       int64           `db:"version" json:"-"`
}
