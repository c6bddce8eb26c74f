package usecase

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/discount"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/pricing"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const priceUpdateAttempts = 3

// errStaleProduct aborts a price transaction whose product row changed after
// it was read.
var errStaleProduct = errors.New("product version changed")

type discountUseCase struct {
	repo     discount.Repository
	products discount.ProductStore
	tx       *database.TxManager
	locker   cache.Locker
	logger   logger.ZapLogger
}

func NewDiscountUseCase(
	repo discount.Repository,
	products discount.ProductStore,
	tx *database.TxManager,
	locker cache.Locker,
	log logger.ZapLogger,
) discount.UseCase {
	return &discountUseCase{
		repo:     repo,
		products: products,
		tx:       tx,
		locker:   locker,
		logger:   log,
	}
}

func (uc *discountUseCase) CreateDiscount(ctx context.Context, input *dto.CreateDiscountInput) (*model.Discount, error) {
	if err := pricing.ValidatePercentage(input.Percentage); err != nil {
		return nil, err
	}

	d := &model.Discount{
		Percentage:  input.Percentage,
		Description: input.Description,
		Active:      true,
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	uc.logger.Info("discount created", zap.Int64("discount_id", d.ID), zap.String("percentage", d.Percentage.String()))
	return d, nil
}

func (uc *discountUseCase) GetDiscount(ctx context.Context, id int64) (*model.Discount, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *discountUseCase) ListDiscounts(ctx context.Context, filters *dto.DiscountFilters) ([]model.Discount, error) {
	if err := filters.Pagination.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *discountUseCase) UpdateDiscount(ctx context.Context, input *dto.UpdateDiscountInput) (*model.Discount, error) {
	if input.Percentage != nil {
		if err := pricing.ValidatePercentage(*input.Percentage); err != nil {
			return nil, err
		}
	}

	var d *model.Discount
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		d, err = uc.repo.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}

		if input.Percentage != nil && !input.Percentage.Equal(d.Percentage) {
			if err := uc.checkUnlinked(ctx, d.ID); err != nil {
				return err
			}
			d.Percentage = *input.Percentage
		}
		if input.Description != nil {
			d.Description = input.Description
		}
		if input.Active != nil {
			d.Active = *input.Active
		}
		return uc.repo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("discount updated", zap.Int64("discount_id", d.ID))
	return d, nil
}

// checkUnlinked fails while the discount is applied to any product: removing
// it later reverts the price with the percentage it was applied with.
func (uc *discountUseCase) checkUnlinked(ctx context.Context, id int64) error {
	links, err := uc.repo.CountLinks(ctx, id)
	if err != nil {
		return err
	}
	if links > 0 {
		return apperr.InvalidState("discount %d is still applied to %d product(s)", id, links)
	}
	return nil
}

// DeleteDiscount refuses to delete a discount still applied to a product.
func (uc *discountUseCase) DeleteDiscount(ctx context.Context, id int64) (*model.Discount, error) {
	var d *model.Discount
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		d, err = uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := uc.checkUnlinked(ctx, id); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("discount deleted", zap.Int64("discount_id", id))
	return d, nil
}

func (uc *discountUseCase) ApplyDiscount(ctx context.Context, productID, discountID int64) (*model.Product, error) {
	p, err := uc.mutatePrice(ctx, productID, func(ctx context.Context, p *model.Product) (decimal.Decimal, func(context.Context) error, error) {
		d, err := uc.repo.FindByID(ctx, discountID)
		if err != nil {
			return decimal.Zero, nil, err
		}

		record := func(ctx context.Context) error {
			return uc.repo.CreateLink(ctx, &model.ProductDiscount{ProductID: productID, DiscountID: discountID})
		}
		return pricing.Apply(p.Price, d.Percentage), record, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("discount applied",
		zap.Int64("product_id", productID),
		zap.Int64("discount_id", discountID),
		zap.String("price", p.Price.String()),
	)
	return p, nil
}

func (uc *discountUseCase) RemoveDiscountFromProduct(ctx context.Context, productID, discountID int64) (*model.Product, error) {
	p, err := uc.mutatePrice(ctx, productID, func(ctx context.Context, p *model.Product) (decimal.Decimal, func(context.Context) error, error) {
		d, err := uc.repo.FindByID(ctx, discountID)
		if err != nil {
			return decimal.Zero, nil, err
		}
		link, err := uc.repo.FindLink(ctx, productID, discountID)
		if err != nil {
			return decimal.Zero, nil, err
		}

		original, err := pricing.Revert(p.Price, d.Percentage)
		if err != nil {
			return decimal.Zero, nil, err
		}

		record := func(ctx context.Context) error {
			return uc.repo.DeleteLink(ctx, link.ID)
		}
		return original, record, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("discount removed",
		zap.Int64("product_id", productID),
		zap.Int64("discount_id", discountID),
		zap.String("price", p.Price.String()),
	)
	return p, nil
}

// priceChange computes the new price of p and the link bookkeeping that must
// commit together with it.
type priceChange func(ctx context.Context, p *model.Product) (decimal.Decimal, func(context.Context) error, error)

// mutatePrice runs change in one transaction guarded by the product version,
// retrying when a concurrent writer got there first.
func (uc *discountUseCase) mutatePrice(ctx context.Context, productID int64, change priceChange) (*model.Product, error) {
	release, err := uc.locker.Lock(ctx, cache.ProductLockKey(productID))
	if err != nil {
		return nil, err
	}
	defer release()

	for attempt := 1; attempt <= priceUpdateAttempts; attempt++ {
		var p *model.Product
		err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
			var err error
			p, err = uc.products.FindByID(ctx, productID)
			if err != nil {
				return err
			}

			price, record, err := change(ctx, p)
			if err != nil {
				return err
			}

			ok, err := uc.products.UpdatePrice(ctx, productID, price, p.Version)
			if err != nil {
				return err
			}
			if !ok {
				return errStaleProduct
			}
			if err := record(ctx); err != nil {
				return err
			}

			p.Price = price
			p.Version++
			return nil
		})
		if errors.Is(err, errStaleProduct) {
			uc.logger.Debug("stale product version", zap.Int64("product_id", productID), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, apperr.Conflict("product %d was modified concurrently, please retry", productID)
}
