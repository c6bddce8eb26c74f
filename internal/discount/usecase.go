package discount

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	CreateDiscount(ctx context.Context, input *dto.CreateDiscountInput) (*model.Discount, error)
	GetDiscount(ctx context.Context, id int64) (*model.Discount, error)
	ListDiscounts(ctx context.Context, filters *dto.DiscountFilters) ([]model.Discount, error)
	UpdateDiscount(ctx context.Context, input *dto.UpdateDiscountInput) (*model.Discount, error)
	DeleteDiscount(ctx context.Context, id int64) (*model.Discount, error)

	ApplyDiscount(ctx context.Context, productID, discountID int64) (*model.Product, error)
	RemoveDiscountFromProduct(ctx context.Context, productID, discountID int64) (*model.Product, error)
}

// ProductStore is the part of the product repository price mutations need.
type ProductStore interface {
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal, version int64) (bool, error)
}
