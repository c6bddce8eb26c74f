package usecase_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-catalog-service/internal/discount"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/repository"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/usecase"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/pagination"
	prodrepo "github.com/fekuna/omnipos-catalog-service/internal/product/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *sqlx.DB
	uc       discount.UseCase
	products *prodrepo.SQLRepository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	products := prodrepo.NewSQLRepository(db)
	uc := usecase.NewDiscountUseCase(
		repository.NewSQLRepository(db),
		products,
		database.NewTxManager(db),
		cache.NopLocker{},
		logger.NewNop(),
	)
	return &fixture{db: db, uc: uc, products: products}
}

func (f *fixture) product(t *testing.T, price string) int64 {
	t.Helper()
	var categoryID int64
	require.NoError(t, f.db.Get(&categoryID, `INSERT INTO categories (name) VALUES ('c') RETURNING id`))
	p := &model.Product{Name: "p", Price: decimal.RequireFromString(price), Stock: 1, CategoryID: categoryID}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p.ID
}

func (f *fixture) discount(t *testing.T, pct string) int64 {
	t.Helper()
	d, err := f.uc.CreateDiscount(context.Background(), &dto.CreateDiscountInput{Percentage: decimal.RequireFromString(pct)})
	require.NoError(t, err)
	return d.ID
}

func (f *fixture) price(t *testing.T, productID int64) decimal.Decimal {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Price
}

func (f *fixture) links(t *testing.T, productID int64) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Get(&n, `SELECT COUNT(*) FROM product_discounts WHERE product_id = ?`, productID))
	return n
}

func TestDiscountCRUD(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	desc := "summer sale"

	created, err := f.uc.CreateDiscount(ctx, &dto.CreateDiscountInput{Percentage: decimal.NewFromInt(15), Description: &desc})
	require.NoError(t, err)
	assert.True(t, created.Active)

	got, err := f.uc.GetDiscount(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(got.Percentage))
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)

	inactive := false
	pct := decimal.RequireFromString("12.5")
	updated, err := f.uc.UpdateDiscount(ctx, &dto.UpdateDiscountInput{ID: created.ID, Percentage: &pct, Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.True(t, pct.Equal(updated.Percentage))
	assert.Equal(t, desc, *updated.Description)

	list, err := f.uc.ListDiscounts(ctx, &dto.DiscountFilters{Pagination: pagination.Default()})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Active)

	deleted, err := f.uc.DeleteDiscount(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = f.uc.GetDiscount(ctx, created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDiscount_InvalidPercentage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.uc.CreateDiscount(ctx, &dto.CreateDiscountInput{Percentage: decimal.NewFromInt(101)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	id := f.discount(t, "10")
	negative := decimal.NewFromInt(-5)
	_, err = f.uc.UpdateDiscount(ctx, &dto.UpdateDiscountInput{ID: id, Percentage: &negative})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.uc.UpdateDiscount(ctx, &dto.UpdateDiscountInput{ID: id + 1})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestApplyAndRemove_RoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	productID := f.product(t, "19.99")
	discountID := f.discount(t, "15")

	p, err := f.uc.ApplyDiscount(ctx, productID, discountID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("16.9915").Equal(p.Price))
	assert.True(t, p.Price.Equal(f.price(t, productID)))
	assert.Equal(t, 1, f.links(t, productID))

	p, err = f.uc.RemoveDiscountFromProduct(ctx, productID, discountID)
	require.NoError(t, err)
	assert.True(t, p.Price.Sub(decimal.RequireFromString("19.99")).Abs().LessThan(decimal.RequireFromString("0.000001")))
	assert.Zero(t, f.links(t, productID))
}

func TestApply_StackingCompounds(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	productID := f.product(t, "200")
	tenPct := f.discount(t, "10")
	twentyPct := f.discount(t, "20")

	_, err := f.uc.ApplyDiscount(ctx, productID, tenPct)
	require.NoError(t, err)
	_, err = f.uc.ApplyDiscount(ctx, productID, twentyPct)
	require.NoError(t, err)
	_, err = f.uc.ApplyDiscount(ctx, productID, tenPct)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("129.6").Equal(f.price(t, productID)))
	assert.Equal(t, 3, f.links(t, productID))

	_, err = f.uc.RemoveDiscountFromProduct(ctx, productID, tenPct)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(144).Equal(f.price(t, productID)))
	assert.Equal(t, 2, f.links(t, productID))
}

func TestApply_InactiveDiscountStillApplies(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	productID := f.product(t, "10")
	discountID := f.discount(t, "50")
	inactive := false
	_, err := f.uc.UpdateDiscount(ctx, &dto.UpdateDiscountInput{ID: discountID, Active: &inactive})
	require.NoError(t, err)

	p, err := f.uc.ApplyDiscount(ctx, productID, discountID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(p.Price))
}

func TestApply_MissingEntities(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	productID := f.product(t, "10")
	discountID := f.discount(t, "10")

	_, err := f.uc.ApplyDiscount(ctx, productID+1, discountID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.uc.ApplyDiscount(ctx, productID, discountID+1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	assert.True(t, decimal.NewFromInt(10).Equal(f.price(t, productID)))
	assert.Zero(t, f.links(t, productID))
}

func TestRemove_WithoutLink(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	productID := f.product(t, "10")
	discountID := f.discount(t, "10")

	_, err := f.uc.RemoveDiscountFromProduct(ctx, productID, discountID)

	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, decimal.NewFromInt(10).Equal(f.price(t, productID)))
}

func TestRemove_FullDiscount(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	productID := f.product(t, "10")
	discountID := f.discount(t, "100")

	p, err := f.uc.ApplyDiscount(ctx, productID, discountID)
	require.NoError(t, err)
	assert.True(t, p.Price.IsZero())

	_, err = f.uc.RemoveDiscountFromProduct(ctx, productID, discountID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	assert.Equal(t, 1, f.links(t, productID))
}

func TestDeleteDiscount_StillLinked(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	productID := f.product(t, "10")
	discountID := f.discount(t, "10")
	_, err := f.uc.ApplyDiscount(ctx, productID, discountID)
	require.NoError(t, err)

	_, err = f.uc.DeleteDiscount(ctx, discountID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	_, err = f.uc.RemoveDiscountFromProduct(ctx, productID, discountID)
	require.NoError(t, err)
	_, err = f.uc.DeleteDiscount(ctx, discountID)
	assert.NoError(t, err)
}

func TestUpdateDiscount_PercentageLockedWhileLinked(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	productID := f.product(t, "80")
	discountID := f.discount(t, "50")
	_, err := f.uc.ApplyDiscount(ctx, productID, discountID)
	require.NoError(t, err)

	changed := decimal.NewFromInt(20)
	_, err = f.uc.UpdateDiscount(ctx, &dto.UpdateDiscountInput{ID: discountID, Percentage: &changed})
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	same := decimal.RequireFromString("50.0")
	desc := "half off"
	d, err := f.uc.UpdateDiscount(ctx, &dto.UpdateDiscountInput{ID: discountID, Percentage: &same, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, *d.Description)

	_, err = f.uc.RemoveDiscountFromProduct(ctx, productID, discountID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(80).Equal(f.price(t, productID)))

	d, err = f.uc.UpdateDiscount(ctx, &dto.UpdateDiscountInput{ID: discountID, Percentage: &changed})
	require.NoError(t, err)
	assert.True(t, changed.Equal(d.Percentage))
}

func TestApply_BumpsVersion(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	productID := f.product(t, "10")
	discountID := f.discount(t, "10")

	_, err := f.uc.ApplyDiscount(ctx, productID, discountID)
	require.NoError(t, err)

	p, err := f.products.FindByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Version)
}
