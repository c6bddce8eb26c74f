package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pagination"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo       inventory.Repository
	products   inventory.ProductReader
	categories inventory.CategoryReader
	tx         *database.TxManager
	locker     cache.Locker
	logger     logger.ZapLogger
	now        func() time.Time
}

func NewInventoryUseCase(
	repo inventory.Repository,
	products inventory.ProductReader,
	categories inventory.CategoryReader,
	tx *database.TxManager,
	locker cache.Locker,
	log logger.ZapLogger,
) inventory.UseCase {
	return &inventoryUseCase{
		repo:       repo,
		products:   products,
		categories: categories,
		tx:         tx,
		locker:     locker,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func validateQuantity(quantity int64) error {
	if quantity <= 0 {
		return apperr.Validation("quantity must be greater than 0, got %d", quantity)
	}
	return nil
}

// insufficientStock reports the stock left after a guarded update failed, or
// NotFound when the product is gone.
func (uc *inventoryUseCase) insufficientStock(ctx context.Context, productID int64) error {
	stock, err := uc.repo.CurrentStock(ctx, productID)
	if err != nil {
		return err
	}
	return apperr.InsufficientStock("not enough stock for product %d, %d units remain", productID, stock)
}

func (uc *inventoryUseCase) ReserveProduct(ctx context.Context, input *dto.StockInput) (*model.Reservation, error) {
	if err := validateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	release, err := uc.locker.Lock(ctx, cache.ProductLockKey(input.ProductID))
	if err != nil {
		return nil, err
	}
	defer release()

	reservation := &model.Reservation{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Status:    model.ReservationReserved,
		CreatedAt: uc.now(),
	}

	err = uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := uc.repo.ReserveStock(ctx, input.ProductID, input.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return uc.insufficientStock(ctx, input.ProductID)
		}
		return uc.repo.CreateReservation(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("reservation created",
		zap.Int64("reservation_id", reservation.ID),
		zap.Int64("product_id", reservation.ProductID),
		zap.Int64("quantity", reservation.Quantity),
	)
	return reservation, nil
}

// CancelReservation returns the held units to stock. A reservation can be
// cancelled once.
func (uc *inventoryUseCase) CancelReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	reservation, err := uc.repo.FindReservationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	release, err := uc.locker.Lock(ctx, cache.ProductLockKey(reservation.ProductID))
	if err != nil {
		return nil, err
	}
	defer release()

	err = uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := uc.repo.MarkReservationCancelled(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState("reservation %d is already cancelled", id)
		}

		ok, err = uc.repo.ReleaseStock(ctx, reservation.ProductID, reservation.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState("product %d no longer holds the %d units of reservation %d",
				reservation.ProductID, reservation.Quantity, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reservation.Status = model.ReservationCancelled
	uc.logger.Info("reservation cancelled",
		zap.Int64("reservation_id", id),
		zap.Int64("product_id", reservation.ProductID),
	)
	return reservation, nil
}

func (uc *inventoryUseCase) GetReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	return uc.repo.FindReservationByID(ctx, id)
}

func (uc *inventoryUseCase) ListReservations(ctx context.Context, page pagination.Params) ([]model.Reservation, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return uc.repo.FindReservations(ctx, &dto.ReservationFilters{Pagination: page})
}

func (uc *inventoryUseCase) ListActiveReservations(ctx context.Context, page pagination.Params) ([]model.Reservation, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	status := model.ReservationReserved
	return uc.repo.FindReservations(ctx, &dto.ReservationFilters{Status: &status, Pagination: page})
}

// SellProduct takes units from unreserved stock and records the sale at the
// price the product had when its stock was decremented.
func (uc *inventoryUseCase) SellProduct(ctx context.Context, input *dto.StockInput) (*model.Sale, error) {
	if err := validateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	release, err := uc.locker.Lock(ctx, cache.ProductLockKey(input.ProductID))
	if err != nil {
		return nil, err
	}
	defer release()

	sale := &model.Sale{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		CreatedAt: uc.now(),
	}

	err = uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		price, ok, err := uc.repo.SellStock(ctx, input.ProductID, input.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return uc.insufficientStock(ctx, input.ProductID)
		}
		sale.SalePrice = price
		return uc.repo.CreateSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("sale recorded",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("product_id", sale.ProductID),
		zap.Int64("quantity", sale.Quantity),
		zap.String("sale_price", sale.SalePrice.String()),
	)
	return sale, nil
}

func (uc *inventoryUseCase) SalesReport(ctx context.Context, filters *dto.SalesFilters) ([]model.Sale, error) {
	if err := filters.Pagination.Validate(); err != nil {
		return nil, err
	}
	if filters.CategoryID != nil {
		if _, err := uc.categories.FindByID(ctx, *filters.CategoryID); err != nil {
			return nil, err
		}
	}
	if filters.ProductID != nil {
		if _, err := uc.products.FindByID(ctx, *filters.ProductID); err != nil {
			return nil, err
		}
	}
	return uc.repo.FindSales(ctx, filters)
}
