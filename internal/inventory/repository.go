package inventory

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Stock counters. Each guarded update reports false when the guard did
	// not hold or the product does not exist.
	ReserveStock(ctx context.Context, productID, quantity int64) (bool, error)
	ReleaseStock(ctx context.Context, productID, quantity int64) (bool, error)
	SellStock(ctx context.Context, productID, quantity int64) (decimal.Decimal, bool, error)
	CurrentStock(ctx context.Context, productID int64) (int64, error)

	// Reservations
	CreateReservation(ctx context.Context, reservation *model.Reservation) error
	FindReservationByID(ctx context.Context, id int64) (*model.Reservation, error)
	FindReservations(ctx context.Context, filters *dto.ReservationFilters) ([]model.Reservation, error)
	MarkReservationCancelled(ctx context.Context, id int64) (bool, error)

	// Sales
	CreateSale(ctx context.Context, sale *model.Sale) error
	FindSales(ctx context.Context, filters *dto.SalesFilters) ([]model.Sale, error)
}
