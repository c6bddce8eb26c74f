package inventory

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pagination"
)

type UseCase interface {
	ReserveProduct(ctx context.Context, input *dto.StockInput) (*model.Reservation, error)
	CancelReservation(ctx context.Context, id int64) (*model.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*model.Reservation, error)
	ListReservations(ctx context.Context, page pagination.Params) ([]model.Reservation, error)
	ListActiveReservations(ctx context.Context, page pagination.Params) ([]model.Reservation, error)

	SellProduct(ctx context.Context, input *dto.StockInput) (*model.Sale, error)
	SalesReport(ctx context.Context, filters *dto.SalesFilters) ([]model.Sale, error)
}

// CategoryReader and ProductReader validate the optional sales report filters.
type CategoryReader interface {
	FindByID(ctx context.Context, id int64) (*model.Category, error)
}

type ProductReader interface {
	FindByID(ctx context.Context, id int64) (*model.Product, error)
}
