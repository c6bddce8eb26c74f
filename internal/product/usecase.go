package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pagination"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	GetProductByName(ctx context.Context, name string) (*model.Product, error)
	ListProducts(ctx context.Context, page pagination.Params) ([]model.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int64, page pagination.Params) ([]model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*model.Product, error)
	RemoveProduct(ctx context.Context, id int64) (*model.Product, error)
}

// CategoryReader is the part of the category store products depend on.
type CategoryReader interface {
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	SubtreeIDs(ctx context.Context, ancestorID int64) ([]int64, error)
}
