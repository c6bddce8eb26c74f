package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const discountColumns = `id, percentage, description, active`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, d *model.Discount) error {
	conn := database.Conn(ctx, r.DB)
	query := conn.Rebind(`
        INSERT INTO discounts (percentage, description, active)
        VALUES (?, ?, ?)
        RETURNING id
    `)
	if err := conn.QueryRowxContext(ctx, query, d.Percentage, d.Description, d.Active).Scan(&d.ID); err != nil {
		return fmt.Errorf("insert discount: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Discount, error) {
	conn := database.Conn(ctx, r.DB)
	var d model.Discount
	query := conn.Rebind(`SELECT ` + discountColumns + ` FROM discounts WHERE id = ?`)
	if err := sqlx.GetContext(ctx, conn, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("discount with id %d not found", id)
		}
		return nil, err
	}
	return &d, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.DiscountFilters) ([]model.Discount, error) {
	conn := database.Conn(ctx, r.DB)
	discounts := []model.Discount{}
	query := conn.Rebind(`SELECT ` + discountColumns + ` FROM discounts ORDER BY id LIMIT ? OFFSET ?`)
	if err := sqlx.SelectContext(ctx, conn, &discounts, query, f.Pagination.Limit, f.Pagination.Offset); err != nil {
		return nil, err
	}
	return discounts, nil
}

func (r *SQLRepository) Update(ctx context.Context, d *model.Discount) error {
	conn := database.Conn(ctx, r.DB)
	query := `
        UPDATE discounts
        SET percentage = :percentage,
            description = :description,
            active = :active
        WHERE id = :id
    `
	res, err := sqlx.NamedExecContext(ctx, conn, query, d)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("discount with id %d not found", d.ID)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	conn := database.Conn(ctx, r.DB)
	_, err := conn.ExecContext(ctx, conn.Rebind(`DELETE FROM discounts WHERE id = ?`), id)
	return err
}

func (r *SQLRepository) CreateLink(ctx context.Context, link *model.ProductDiscount) error {
	conn := database.Conn(ctx, r.DB)
	query := conn.Rebind(`INSERT INTO product_discounts (product_id, discount_id) VALUES (?, ?) RETURNING id`)
	if err := conn.QueryRowxContext(ctx, query, link.ProductID, link.DiscountID).Scan(&link.ID); err != nil {
		return fmt.Errorf("insert product discount: %w", err)
	}
	return nil
}

// FindLink returns the earliest link between the product and the discount.
func (r *SQLRepository) FindLink(ctx context.Context, productID, discountID int64) (*model.ProductDiscount, error) {
	conn := database.Conn(ctx, r.DB)
	var link model.ProductDiscount
	query := conn.Rebind(`
        SELECT id, product_id, discount_id
        FROM product_discounts
        WHERE product_id = ? AND discount_id = ?
        ORDER BY id
        LIMIT 1
    `)
	if err := sqlx.GetContext(ctx, conn, &link, query, productID, discountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("discount %d is not applied to product %d", discountID, productID)
		}
		return nil, err
	}
	return &link, nil
}

func (r *SQLRepository) DeleteLink(ctx context.Context, id int64) error {
	conn := database.Conn(ctx, r.DB)
	_, err := conn.ExecContext(ctx, conn.Rebind(`DELETE FROM product_discounts WHERE id = ?`), id)
	return err
}

func (r *SQLRepository) CountLinks(ctx context.Context, discountID int64) (int, error) {
	conn := database.Conn(ctx, r.DB)
	var count int
	query := conn.Rebind(`SELECT COUNT(*) FROM product_discounts WHERE discount_id = ?`)
	if err := sqlx.GetContext(ctx, conn, &count, query, discountID); err != nil {
		return 0, err
	}
	return count, nil
}
