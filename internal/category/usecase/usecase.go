package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	tx     *database.TxManager
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, tx *database.TxManager, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}

	cat := &model.Category{
		Name:     name,
		ParentID: input.ParentID,
	}

	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var ancestors []model.CategoryRelation
		if cat.ParentID != nil {
			if _, err := uc.repo.FindByID(ctx, *cat.ParentID); err != nil {
				if apperr.Is(err, apperr.KindNotFound) {
					return apperr.InvalidReference("parent category %d does not exist", *cat.ParentID)
				}
				return err
			}

			var err error
			ancestors, err = uc.repo.AncestorRelations(ctx, *cat.ParentID)
			if err != nil {
				return err
			}
		}

		if err := uc.repo.Create(ctx, cat); err != nil {
			return err
		}
		return uc.repo.AddRelations(ctx, closureRows(cat, ancestors))
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("category created", zap.Int64("category_id", cat.ID), zap.Any("parent_id", cat.ParentID))
	return cat, nil
}

// closureRows returns the closure rows for a freshly inserted category: one
// per ancestor of its parent at depth+1, the direct parent edge and the
// reflexive row.
func closureRows(cat *model.Category, parentAncestors []model.CategoryRelation) []model.CategoryRelation {
	rows := make([]model.CategoryRelation, 0, len(parentAncestors)+2)
	hasParentEdge := false
	for _, rel := range parentAncestors {
		if cat.ParentID != nil && rel.AncestorID == *cat.ParentID {
			hasParentEdge = true
		}
		rows = append(rows, model.CategoryRelation{
			AncestorID:   rel.AncestorID,
			DescendantID: cat.ID,
			Depth:        rel.Depth + 1,
		})
	}
	if cat.ParentID != nil && !hasParentEdge {
		rows = append(rows, model.CategoryRelation{
			AncestorID:   *cat.ParentID,
			DescendantID: cat.ID,
			Depth:        1,
		})
	}
	return append(rows, model.CategoryRelation{
		AncestorID:   cat.ID,
		DescendantID: cat.ID,
		Depth:        0,
	})
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *categoryUseCase) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	return uc.repo.FindByName(ctx, name)
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error) {
	if err := filters.Pagination.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}

	var cat *model.Category
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		cat, err = uc.repo.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}

		if input.ParentSet && !sameParent(cat.ParentID, input.ParentID) {
			return apperr.Validation("category %d cannot be moved to another parent", cat.ID)
		}

		cat.Name = name
		return uc.repo.Update(ctx, cat)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("category updated", zap.Int64("category_id", cat.ID), zap.String("name", cat.Name))
	return cat, nil
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (uc *categoryUseCase) RemoveCategory(ctx context.Context, id int64) (*model.Category, error) {
	var cat *model.Category
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		cat, err = uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := uc.repo.DeleteRelations(ctx, id); err != nil {
			return err
		}
		if err := uc.repo.DetachChildren(ctx, id); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("category removed", zap.Int64("category_id", id))
	return cat, nil
}

func (uc *categoryUseCase) GetSubtreeIDs(ctx context.Context, id int64) ([]int64, error) {
	if _, err := uc.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return uc.repo.SubtreeIDs(ctx, id)
}

func (uc *categoryUseCase) GetSubtree(ctx context.Context, id int64) ([]model.Category, error) {
	if _, err := uc.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return uc.repo.Subtree(ctx, id)
}
