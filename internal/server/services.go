package server

import (
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	catHandler "github.com/fekuna/omnipos-catalog-service/internal/category/handler"
	catRepo "github.com/fekuna/omnipos-catalog-service/internal/category/repository"
	catUC "github.com/fekuna/omnipos-catalog-service/internal/category/usecase"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/discount"
	discHandler "github.com/fekuna/omnipos-catalog-service/internal/discount/handler"
	discRepo "github.com/fekuna/omnipos-catalog-service/internal/discount/repository"
	discUC "github.com/fekuna/omnipos-catalog-service/internal/discount/usecase"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	invHandler "github.com/fekuna/omnipos-catalog-service/internal/inventory/handler"
	invRepo "github.com/fekuna/omnipos-catalog-service/internal/inventory/repository"
	invUC "github.com/fekuna/omnipos-catalog-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	prodHandler "github.com/fekuna/omnipos-catalog-service/internal/product/handler"
	prodRepo "github.com/fekuna/omnipos-catalog-service/internal/product/repository"
	prodUC "github.com/fekuna/omnipos-catalog-service/internal/product/usecase"
	"github.com/jmoiron/sqlx"
)

// Services holds the usecases built over one database.
type Services struct {
	Categories category.UseCase
	Products   product.UseCase
	Inventory  inventory.UseCase
	Discounts  discount.UseCase
}

func NewServices(db *sqlx.DB, locker cache.Locker, log logger.ZapLogger) *Services {
	tx := database.NewTxManager(db)

	categoryRepo := catRepo.NewSQLRepository(db)
	productRepo := prodRepo.NewSQLRepository(db)
	inventoryRepo := invRepo.NewSQLRepository(db)
	discountRepo := discRepo.NewSQLRepository(db)

	return &Services{
		Categories: catUC.NewCategoryUseCase(categoryRepo, tx, log),
		Products:   prodUC.NewProductUseCase(productRepo, categoryRepo, tx, locker, log),
		Inventory:  invUC.NewInventoryUseCase(inventoryRepo, productRepo, categoryRepo, tx, locker, log),
		Discounts:  discUC.NewDiscountUseCase(discountRepo, productRepo, tx, locker, log),
	}
}

func (s *Services) Handlers(log logger.ZapLogger) []RouteRegistrar {
	return []RouteRegistrar{
		catHandler.NewCategoryHandler(s.Categories, log),
		prodHandler.NewProductHandler(s.Products, log),
		invHandler.NewInventoryHandler(s.Inventory, log),
		discHandler.NewDiscountHandler(s.Discounts, log),
	}
}
