package category

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int64) error
	DetachChildren(ctx context.Context, parentID int64) error

	// Closure table
	AncestorRelations(ctx context.Context, descendantID int64) ([]model.CategoryRelation, error)
	AddRelations(ctx context.Context, relations []model.CategoryRelation) error
	DeleteRelations(ctx context.Context, categoryID int64) error
	SubtreeIDs(ctx context.Context, ancestorID int64) ([]int64, error)
	Subtree(ctx context.Context, ancestorID int64) ([]model.Category, error)
}
