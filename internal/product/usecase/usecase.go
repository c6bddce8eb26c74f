package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pagination"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const updateAttempts = 3

// errStaleStock aborts an update whose stock counters moved after they were read.
var errStaleStock = errors.New("product stock changed")

type productUseCase struct {
	repo       product.Repository
	categories product.CategoryReader
	tx         *database.TxManager
	locker     cache.Locker
	logger     logger.ZapLogger
}

func NewProductUseCase(
	repo product.Repository,
	categories product.CategoryReader,
	tx *database.TxManager,
	locker cache.Locker,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:       repo,
		categories: categories,
		tx:         tx,
		locker:     locker,
		logger:     log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if input.Price.IsNegative() {
		return nil, apperr.Validation("price must be greater or equal to 0, got %s", input.Price)
	}
	if input.Stock < 0 {
		return nil, apperr.Validation("stock must be greater or equal to 0, got %d", input.Stock)
	}

	var created *model.Product
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := uc.checkCategory(ctx, input.CategoryID); err != nil {
			return err
		}

		p := &model.Product{
			Name:       name,
			Price:      input.Price,
			Stock:      input.Stock,
			CategoryID: input.CategoryID,
		}
		if err := uc.repo.Create(ctx, p); err != nil {
			return err
		}

		var err error
		created, err = uc.repo.FindByID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product created", zap.Int64("product_id", created.ID), zap.Int64("category_id", created.CategoryID))
	return created, nil
}

func (uc *productUseCase) checkCategory(ctx context.Context, id int64) error {
	if _, err := uc.categories.FindByID(ctx, id); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.InvalidReference("category %d does not exist", id)
		}
		return err
	}
	return nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *productUseCase) GetProductByName(ctx context.Context, name string) (*model.Product, error) {
	return uc.repo.FindByName(ctx, name)
}

func (uc *productUseCase) ListProducts(ctx context.Context, page pagination.Params) ([]model.Product, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.FindAll(ctx, &dto.ProductFilters{Pagination: page})
}

func (uc *productUseCase) ListProductsByCategory(ctx context.Context, categoryID int64, page pagination.Params) ([]model.Product, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if _, err := uc.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	ids, err := uc.categories.SubtreeIDs(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return uc.repo.FindAll(ctx, &dto.ProductFilters{CategoryIDs: ids, Pagination: page})
}

// UpdateProduct writes only the supplied fields. A stock overwrite is guarded
// by the counters it was read with and retried when the ledger moved them.
func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	changes := &dto.ProductChanges{Stock: input.Stock}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.Validation("product name is required")
		}
		changes.Name = &name
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, apperr.Validation("stock must be greater or equal to 0, got %d", *input.Stock)
	}

	release, err := uc.locker.Lock(ctx, cache.ProductLockKey(input.ID))
	if err != nil {
		return nil, err
	}
	defer release()

	for attempt := 1; attempt <= updateAttempts; attempt++ {
		var updated *model.Product
		err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
			p, err := uc.repo.FindByID(ctx, input.ID)
			if err != nil {
				return err
			}

			changes.CategoryID = nil
			if input.CategoryID != nil && *input.CategoryID != p.CategoryID {
				if err := uc.checkCategory(ctx, *input.CategoryID); err != nil {
					return err
				}
				changes.CategoryID = input.CategoryID
			}
			changes.ExpectedStock = p.Stock
			changes.ExpectedReserved = p.ReservedStock

			if !changes.Empty() {
				ok, err := uc.repo.Update(ctx, p.ID, changes)
				if err != nil {
					return err
				}
				if !ok {
					if changes.Stock != nil {
						return errStaleStock
					}
					return apperr.NotFound("product with id %d not found", p.ID)
				}
			}

			updated, err = uc.repo.FindByID(ctx, p.ID)
			return err
		})
		if errors.Is(err, errStaleStock) {
			uc.logger.Debug("stale product stock", zap.Int64("product_id", input.ID), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		uc.logger.Info("product updated", zap.Int64("product_id", updated.ID))
		return updated, nil
	}
	return nil, apperr.Conflict("product %d was modified concurrently, please retry", input.ID)
}

// UpdatePrice overwrites the price with optimistic concurrency on the row
// version, retrying a few times before giving up with a conflict.
func (uc *productUseCase) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*model.Product, error) {
	if price.IsNegative() {
		return nil, apperr.Validation("price must be greater or equal to 0, got %s", price)
	}

	release, err := uc.locker.Lock(ctx, cache.ProductLockKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	for attempt := 1; attempt <= updateAttempts; attempt++ {
		p, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		ok, err := uc.repo.UpdatePrice(ctx, id, price, p.Version)
		if err != nil {
			return nil, err
		}
		if ok {
			p.Price = price
			p.Version++
			uc.logger.Info("product price updated", zap.Int64("product_id", id), zap.String("price", price.String()))
			return p, nil
		}
		uc.logger.Debug("stale product version", zap.Int64("product_id", id), zap.Int("attempt", attempt))
	}
	return nil, apperr.Conflict("product %d was modified concurrently, please retry", id)
}

// RemoveProduct deletes the product and its discount links. Reservations and
// sales that reference it are kept.
func (uc *productUseCase) RemoveProduct(ctx context.Context, id int64) (*model.Product, error) {
	var removed *model.Product
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		removed, err = uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := uc.repo.DeleteDiscountLinks(ctx, id); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product removed", zap.Int64("product_id", id))
	return removed, nil
}
