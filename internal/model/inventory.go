package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationReserved  ReservationStatus = "reserved"
	ReservationCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	ID        int64             `db:"id" json:"id"`
	ProductID int64             `db:"product_id" json:"product_id"`
	Quantity  int64             `db:"quantity" json:"quantity"`
	Status    ReservationStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// Sale is immutable once written.
type Sale struct {
	ID        int64           `db:"id" json:"id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int64           `db:"quantity" json:"quantity"`
	SalePrice decimal.Decimal `db:"sale_price" json:"sale_price"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
