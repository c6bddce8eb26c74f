package usecase_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	catdto "github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	catrepo "github.com/fekuna/omnipos-catalog-service/internal/category/repository"
	catuc "github.com/fekuna/omnipos-catalog-service/internal/category/usecase"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pagination"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/product/repository"
	"github.com/fekuna/omnipos-catalog-service/internal/product/usecase"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db         *sqlx.DB
	repo       *repository.SQLRepository
	products   product.UseCase
	categories category.UseCase
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	tx := database.NewTxManager(db)
	log := logger.NewNop()
	categoryRepo := catrepo.NewSQLRepository(db)
	repo := repository.NewSQLRepository(db)
	return &fixture{
		db:         db,
		repo:       repo,
		products:   usecase.NewProductUseCase(repo, categoryRepo, tx, cache.NopLocker{}, log),
		categories: catuc.NewCategoryUseCase(categoryRepo, tx, log),
	}
}

func (f *fixture) category(t *testing.T, name string, parent *int64) int64 {
	t.Helper()
	c, err := f.categories.CreateCategory(context.Background(), &catdto.CreateCategoryInput{Name: name, ParentID: parent})
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) product(t *testing.T, name, price string, stock, categoryID int64) int64 {
	t.Helper()
	p, err := f.products.CreateProduct(context.Background(), &dto.CreateProductInput{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return p.ID
}

func TestCreateProduct(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	phones := f.category(t, "Phones", nil)

	p, err := f.products.CreateProduct(ctx, &dto.CreateProductInput{
		Name:       "Pixel",
		Price:      decimal.RequireFromString("699.99"),
		Stock:      5,
		CategoryID: phones,
	})
	require.NoError(t, err)

	assert.NotZero(t, p.ID)
	assert.True(t, decimal.RequireFromString("699.99").Equal(p.Price))
	assert.Equal(t, int64(5), p.Stock)
	assert.Zero(t, p.ReservedStock)
	require.NotNil(t, p.CategoryName)
	assert.Equal(t, "Phones", *p.CategoryName)
}

func TestCreateProduct_Invalid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	phones := f.category(t, "Phones", nil)

	tests := []struct {
		name  string
		input dto.CreateProductInput
		kind  apperr.Kind
	}{
		{"empty name", dto.CreateProductInput{Price: decimal.NewFromInt(1), CategoryID: phones}, apperr.KindValidation},
		{"negative price", dto.CreateProductInput{Name: "x", Price: decimal.NewFromInt(-1), CategoryID: phones}, apperr.KindValidation},
		{"negative stock", dto.CreateProductInput{Name: "x", Price: decimal.NewFromInt(1), Stock: -1, CategoryID: phones}, apperr.KindValidation},
		{"missing category", dto.CreateProductInput{Name: "x", Price: decimal.NewFromInt(1), CategoryID: phones + 10}, apperr.KindInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := f.products.CreateProduct(ctx, &input)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestListProducts_HidesZeroStock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cat := f.category(t, "Books", nil)
	inStock := f.product(t, "Dune", "9.50", 3, cat)
	soldOut := f.product(t, "Emma", "7.25", 0, cat)

	list, err := f.products.ListProducts(ctx, pagination.Default())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inStock, list[0].ID)

	p, err := f.products.GetProduct(ctx, soldOut)
	require.NoError(t, err)
	assert.Equal(t, "Emma", p.Name)

	byName, err := f.products.GetProductByName(ctx, "Emma")
	require.NoError(t, err)
	assert.Equal(t, soldOut, byName.ID)
}

func TestListProducts_Pagination(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cat := f.category(t, "Books", nil)
	for _, name := range []string{"a", "b", "c"} {
		f.product(t, name, "1", 1, cat)
	}

	list, err := f.products.ListProducts(ctx, pagination.Params{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].Name)

	_, err = f.products.ListProducts(ctx, pagination.Params{Limit: 1, Offset: -1})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestListProductsByCategory_Subtree(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	electronics := f.category(t, "Electronics", nil)
	phones := f.category(t, "Phones", &electronics)
	books := f.category(t, "Books", nil)
	pixel := f.product(t, "Pixel", "699", 5, phones)
	f.product(t, "Radio", "20", 2, electronics)
	f.product(t, "Dune", "9", 1, books)
	f.product(t, "Nokia", "50", 0, phones)

	list, err := f.products.ListProductsByCategory(ctx, electronics, pagination.Default())
	require.NoError(t, err)
	names := []string{}
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Pixel", "Radio"}, names)

	list, err = f.products.ListProductsByCategory(ctx, phones, pagination.Default())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pixel, list[0].ID)

	_, err = f.categories.RemoveCategory(ctx, electronics)
	require.NoError(t, err)

	_, err = f.products.ListProductsByCategory(ctx, electronics, pagination.Default())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	p, err := f.products.GetProduct(ctx, pixel)
	require.NoError(t, err)
	assert.Equal(t, "Pixel", p.Name)
}

func TestGetProduct_DanglingCategory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cat := f.category(t, "Toys", nil)
	id := f.product(t, "Yo-yo", "3", 4, cat)

	_, err := f.categories.RemoveCategory(ctx, cat)
	require.NoError(t, err)

	p, err := f.products.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, cat, p.CategoryID)
	assert.Nil(t, p.CategoryName)
}

func TestUpdateProduct(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	toys := f.category(t, "Toys", nil)
	games := f.category(t, "Games", nil)
	id := f.product(t, "Chess", "15", 2, toys)

	name := "Chess Deluxe"
	stock := int64(8)
	p, err := f.products.UpdateProduct(ctx, &dto.UpdateProductInput{ID: id, Name: &name, Stock: &stock, CategoryID: &games})
	require.NoError(t, err)
	assert.Equal(t, name, p.Name)
	assert.Equal(t, stock, p.Stock)
	assert.Equal(t, games, p.CategoryID)
	assert.Equal(t, "Games", *p.CategoryName)
	assert.True(t, decimal.NewFromInt(15).Equal(p.Price))

	missing := games + 100
	_, err = f.products.UpdateProduct(ctx, &dto.UpdateProductInput{ID: id, CategoryID: &missing})
	assert.True(t, apperr.Is(err, apperr.KindInvalidReference))

	negative := int64(-3)
	_, err = f.products.UpdateProduct(ctx, &dto.UpdateProductInput{ID: id, Stock: &negative})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.products.UpdateProduct(ctx, &dto.UpdateProductInput{ID: id + 100, Name: &name})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

// racingRepository moves four units into reserved stock right before the
// update lands, the way a reserve committed between read and write would.
type racingRepository struct {
	product.Repository
	db    *sqlx.DB
	every bool
	calls int
}

func (r *racingRepository) Update(ctx context.Context, id int64, c *dto.ProductChanges) (bool, error) {
	r.calls++
	if r.every || r.calls == 1 {
		conn := database.Conn(ctx, r.db)
		query := conn.Rebind(`UPDATE products SET stock = stock - 4, reserved_stock = reserved_stock + 4 WHERE id = ?`)
		if _, err := conn.ExecContext(ctx, query, id); err != nil {
			return false, err
		}
	}
	return r.Repository.Update(ctx, id, c)
}

func (f *fixture) racingUseCase(every bool) (product.UseCase, *racingRepository) {
	racing := &racingRepository{Repository: f.repo, db: f.db, every: every}
	uc := usecase.NewProductUseCase(racing, catrepo.NewSQLRepository(f.db), database.NewTxManager(f.db), cache.NopLocker{}, logger.NewNop())
	return uc, racing
}

func TestUpdateProduct_NameOnlyKeepsConcurrentReserve(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.product(t, "Lamp", "30", 10, f.category(t, "Home", nil))
	uc, _ := f.racingUseCase(false)

	name := "Desk Lamp"
	p, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: id, Name: &name})
	require.NoError(t, err)

	assert.Equal(t, name, p.Name)
	assert.Equal(t, int64(6), p.Stock)
	assert.Equal(t, int64(4), p.ReservedStock)
}

func TestUpdateProduct_CategoryOnlyLeavesCounters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	home := f.category(t, "Home", nil)
	garden := f.category(t, "Garden", nil)
	id := f.product(t, "Hose", "12", 10, home)
	uc, _ := f.racingUseCase(false)

	p, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: id, CategoryID: &garden})
	require.NoError(t, err)

	assert.Equal(t, garden, p.CategoryID)
	assert.Equal(t, int64(6), p.Stock)
	assert.Equal(t, int64(4), p.ReservedStock)
}

func TestUpdateProduct_StockConflictsWhileLedgerKeepsMoving(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.product(t, "Rake", "8", 10, f.category(t, "Garden", nil))
	uc, racing := f.racingUseCase(true)

	stock := int64(50)
	_, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: id, Stock: &stock})

	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, 3, racing.calls)
	p, err := f.products.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Stock)
	assert.Equal(t, int64(0), p.ReservedStock)
}

func TestSQLRepository_UpdateStockGuard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.product(t, "Spade", "20", 10, f.category(t, "Garden", nil))

	stock := int64(3)
	ok, err := f.repo.Update(ctx, id, &dto.ProductChanges{Stock: &stock, ExpectedStock: 9, ExpectedReserved: 0})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.repo.Update(ctx, id, &dto.ProductChanges{Stock: &stock, ExpectedStock: 10, ExpectedReserved: 0})
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := f.repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Stock)
}

func TestUpdatePrice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cat := f.category(t, "Food", nil)
	id := f.product(t, "Bread", "2.50", 10, cat)

	p, err := f.products.UpdatePrice(ctx, id, decimal.RequireFromString("3.10"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.10").Equal(p.Price))

	stored, err := f.products.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.10").Equal(stored.Price))
	assert.Equal(t, int64(1), stored.Version)

	_, err = f.products.UpdatePrice(ctx, id, decimal.NewFromInt(-1))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.products.UpdatePrice(ctx, id+1, decimal.NewFromInt(1))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRepositoryUpdatePrice_StaleVersion(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cat := f.category(t, "Food", nil)
	id := f.product(t, "Milk", "1", 1, cat)

	ok, err := f.repo.UpdatePrice(ctx, id, decimal.NewFromInt(2), 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.repo.UpdatePrice(ctx, id, decimal.NewFromInt(3), 0)
	require.NoError(t, err)
	assert.False(t, ok)

	p, err := f.repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(p.Price))
}

func TestRemoveProduct_DeletesDiscountLinks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cat := f.category(t, "Food", nil)
	id := f.product(t, "Cheese", "12", 3, cat)

	var discountID int64
	require.NoError(t, f.db.Get(&discountID, `INSERT INTO discounts (percentage, active) VALUES ('10', 1) RETURNING id`))
	f.db.MustExec(`INSERT INTO product_discounts (product_id, discount_id) VALUES (?, ?)`, id, discountID)

	removed, err := f.products.RemoveProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Cheese", removed.Name)

	var links int
	require.NoError(t, f.db.Get(&links, `SELECT COUNT(*) FROM product_discounts WHERE product_id = ?`, id))
	assert.Zero(t, links)

	_, err = f.products.GetProduct(ctx, id)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.products.RemoveProduct(ctx, id)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
