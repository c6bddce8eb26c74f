package discount

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, discount *model.Discount) error
	FindByID(ctx context.Context, id int64) (*model.Discount, error)
	FindAll(ctx context.Context, filters *dto.DiscountFilters) ([]model.Discount, error)
	Update(ctx context.Context, discount *model.Discount) error
	Delete(ctx context.Context, id int64) error

	// Product links
	CreateLink(ctx context.Context, link *model.ProductDiscount) error
	FindLink(ctx context.Context, productID, discountID int64) (*model.ProductDiscount, error)
	DeleteLink(ctx context.Context, id int64) error
	CountLinks(ctx context.Context, discountID int64) (int, error)
}
