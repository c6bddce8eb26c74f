package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	// Update writes the supplied columns and reports whether the row matched.
	Update(ctx context.Context, id int64, changes *dto.ProductChanges) (bool, error)
	Delete(ctx context.Context, id int64) error

	// UpdatePrice writes price only while the row still carries version and
	// reports whether it did.
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal, version int64) (bool, error)
	DeleteDiscountLinks(ctx context.Context, productID int64) error
}
