package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const selectProducts = `
    SELECT p.id, p.name, p.price, p.stock, p.reserved_stock, p.category_id, p.version,
           c.name AS category_name
    FROM products p
    LEFT JOIN categories c ON c.id = p.category_id
`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, p *model.Product) error {
	conn := database.Conn(ctx, r.DB)
	query := conn.Rebind(`
        INSERT INTO products (name, price, stock, reserved_stock, category_id, version)
        VALUES (?, ?, ?, ?, ?, 0)
        RETURNING id
    `)
	err := conn.QueryRowxContext(ctx, query, p.Name, p.Price, p.Stock, p.ReservedStock, p.CategoryID).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	conn := database.Conn(ctx, r.DB)
	var p model.Product
	query := conn.Rebind(selectProducts + ` WHERE p.id = ?`)
	if err := sqlx.GetContext(ctx, conn, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("product with id %d not found", id)
		}
		return nil, err
	}
	return &p, nil
}

func (r *SQLRepository) FindByName(ctx context.Context, name string) (*model.Product, error) {
	conn := database.Conn(ctx, r.DB)
	var p model.Product
	query := conn.Rebind(selectProducts + ` WHERE p.name = ? ORDER BY p.id LIMIT 1`)
	if err := sqlx.GetContext(ctx, conn, &p, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("product with name %q not found", name)
		}
		return nil, err
	}
	return &p, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, error) {
	conn := database.Conn(ctx, r.DB)

	query := selectProducts + ` WHERE p.stock > 0`
	args := []interface{}{}
	if len(f.CategoryIDs) > 0 {
		query += ` AND p.category_id IN (?)`
		args = append(args, f.CategoryIDs)
	}
	query += ` ORDER BY p.id LIMIT ? OFFSET ?`
	args = append(args, f.Pagination.Limit, f.Pagination.Offset)

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}

	products := []model.Product{}
	if err := sqlx.SelectContext(ctx, conn, &products, conn.Rebind(query), args...); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *SQLRepository) Update(ctx context.Context, id int64, c *dto.ProductChanges) (bool, error) {
	conn := database.Conn(ctx, r.DB)

	sets := []string{}
	args := []interface{}{}
	if c.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *c.Name)
	}
	if c.Stock != nil {
		sets = append(sets, "stock = ?")
		args = append(args, *c.Stock)
	}
	if c.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, *c.CategoryID)
	}
	if len(sets) == 0 {
		return false, fmt.Errorf("update product %d: no columns supplied", id)
	}

	query := `UPDATE products SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)
	if c.Stock != nil {
		// Reserve, cancel and sell move these counters in place.
		query += ` AND stock = ? AND reserved_stock = ?`
		args = append(args, c.ExpectedStock, c.ExpectedReserved)
	}

	res, err := conn.ExecContext(ctx, conn.Rebind(query), args...)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *SQLRepository) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal, version int64) (bool, error) {
	conn := database.Conn(ctx, r.DB)
	query := conn.Rebind(`
        UPDATE products
        SET price = ?, version = version + 1
        WHERE id = ? AND version = ?
    `)
	res, err := conn.ExecContext(ctx, query, price, id, version)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	conn := database.Conn(ctx, r.DB)
	_, err := conn.ExecContext(ctx, conn.Rebind(`DELETE FROM products WHERE id = ?`), id)
	return err
}

func (r *SQLRepository) DeleteDiscountLinks(ctx context.Context, productID int64) error {
	conn := database.Conn(ctx, r.DB)
	_, err := conn.ExecContext(ctx, conn.Rebind(`DELETE FROM product_discounts WHERE product_id = ?`), productID)
	return err
}
