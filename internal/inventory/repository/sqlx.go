package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) ReserveStock(ctx context.Context, productID, quantity int64) (bool, error) {
	return r.guardedUpdate(ctx, `
        UPDATE products
        SET stock = stock - ?, reserved_stock = reserved_stock + ?
        WHERE id = ? AND stock >= ?
    `, quantity, quantity, productID, quantity)
}

func (r *SQLRepository) ReleaseStock(ctx context.Context, productID, quantity int64) (bool, error) {
	return r.guardedUpdate(ctx, `
        UPDATE products
        SET stock = stock + ?, reserved_stock = reserved_stock - ?
        WHERE id = ? AND reserved_stock >= ?
    `, quantity, quantity, productID, quantity)
}

func (r *SQLRepository) guardedUpdate(ctx context.Context, query string, args ...interface{}) (bool, error) {
	conn := database.Conn(ctx, r.DB)
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

// SellStock decrements unreserved stock and returns the price the row held at
// that moment.
func (r *SQLRepository) SellStock(ctx context.Context, productID, quantity int64) (decimal.Decimal, bool, error) {
	conn := database.Conn(ctx, r.DB)
	query := conn.Rebind(`
        UPDATE products
        SET stock = stock - ?
        WHERE id = ? AND stock >= ?
        RETURNING price
    `)
	var price decimal.Decimal
	if err := conn.QueryRowxContext(ctx, query, quantity, productID, quantity).Scan(&price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return price, true, nil
}

func (r *SQLRepository) CurrentStock(ctx context.Context, productID int64) (int64, error) {
	conn := database.Conn(ctx, r.DB)
	var stock int64
	err := sqlx.GetContext(ctx, conn, &stock, conn.Rebind(`SELECT stock FROM products WHERE id = ?`), productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("product with id %d not found", productID)
		}
		return 0, err
	}
	return stock, nil
}

func (r *SQLRepository) CreateReservation(ctx context.Context, res *model.Reservation) error {
	conn := database.Conn(ctx, r.DB)
	query := conn.Rebind(`
        INSERT INTO reservations (product_id, quantity, status, created_at)
        VALUES (?, ?, ?, ?)
        RETURNING id
    `)
	err := conn.QueryRowxContext(ctx, query, res.ProductID, res.Quantity, res.Status, res.CreatedAt).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindReservationByID(ctx context.Context, id int64) (*model.Reservation, error) {
	conn := database.Conn(ctx, r.DB)
	var res model.Reservation
	query := conn.Rebind(`SELECT id, product_id, quantity, status, created_at FROM reservations WHERE id = ?`)
	if err := sqlx.GetContext(ctx, conn, &res, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("reservation with id %d not found", id)
		}
		return nil, err
	}
	return &res, nil
}

func (r *SQLRepository) FindReservations(ctx context.Context, f *dto.ReservationFilters) ([]model.Reservation, error) {
	conn := database.Conn(ctx, r.DB)

	query := `SELECT id, product_id, quantity, status, created_at FROM reservations`
	args := []interface{}{}
	if f.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, *f.Status)
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, f.Pagination.Limit, f.Pagination.Offset)

	reservations := []model.Reservation{}
	if err := sqlx.SelectContext(ctx, conn, &reservations, conn.Rebind(query), args...); err != nil {
		return nil, err
	}
	return reservations, nil
}

// MarkReservationCancelled flips a reserved reservation to cancelled and
// reports whether it did.
func (r *SQLRepository) MarkReservationCancelled(ctx context.Context, id int64) (bool, error) {
	return r.guardedUpdate(ctx, `
        UPDATE reservations
        SET status = ?
        WHERE id = ? AND status = ?
    `, model.ReservationCancelled, id, model.ReservationReserved)
}

func (r *SQLRepository) CreateSale(ctx context.Context, s *model.Sale) error {
	conn := database.Conn(ctx, r.DB)
	query := conn.Rebind(`
        INSERT INTO sales (product_id, quantity, sale_price, created_at)
        VALUES (?, ?, ?, ?)
        RETURNING id
    `)
	err := conn.QueryRowxContext(ctx, query, s.ProductID, s.Quantity, s.SalePrice, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindSales(ctx context.Context, f *dto.SalesFilters) ([]model.Sale, error) {
	conn := database.Conn(ctx, r.DB)

	query := `
        SELECT s.id, s.product_id, s.quantity, s.sale_price, s.created_at
        FROM sales s
        LEFT JOIN products p ON p.id = s.product_id
        WHERE 1 = 1
    `
	args := []interface{}{}
	if f.CategoryID != nil {
		query += ` AND p.category_id = ?`
		args = append(args, *f.CategoryID)
	}
	if f.ProductID != nil {
		query += ` AND s.product_id = ?`
		args = append(args, *f.ProductID)
	}
	query += ` ORDER BY s.id LIMIT ? OFFSET ?`
	args = append(args, f.Pagination.Limit, f.Pagination.Offset)

	sales := []model.Sale{}
	if err := sqlx.SelectContext(ctx, conn, &sales, conn.Rebind(query), args...); err != nil {
		return nil, err
	}
	return sales, nil
}
