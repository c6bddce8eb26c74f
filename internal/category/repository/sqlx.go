package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/database"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const categoryColumns = `id, name, parent_id`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *model.Category) error {
	conn := database.Conn(ctx, r.DB)
	query := conn.Rebind(`INSERT INTO categories (name, parent_id) VALUES (?, ?) RETURNING id`)
	if err := conn.QueryRowxContext(ctx, query, c.Name, c.ParentID).Scan(&c.ID); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	conn := database.Conn(ctx, r.DB)
	var c model.Category
	query := conn.Rebind(`SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`)
	if err := sqlx.GetContext(ctx, conn, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("category with id %d not found", id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	conn := database.Conn(ctx, r.DB)
	var c model.Category
	query := conn.Rebind(`SELECT ` + categoryColumns + ` FROM categories WHERE name = ? ORDER BY id LIMIT 1`)
	if err := sqlx.GetContext(ctx, conn, &c, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("category with name %q not found", name)
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, error) {
	conn := database.Conn(ctx, r.DB)
	categories := []model.Category{}
	query := conn.Rebind(`SELECT ` + categoryColumns + ` FROM categories ORDER BY id LIMIT ? OFFSET ?`)
	if err := sqlx.SelectContext(ctx, conn, &categories, query, f.Pagination.Limit, f.Pagination.Offset); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *model.Category) error {
	conn := database.Conn(ctx, r.DB)
	res, err := sqlx.NamedExecContext(ctx, conn, `UPDATE categories SET name = :name WHERE id = :id`, c)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("category with id %d not found", c.ID)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	conn := database.Conn(ctx, r.DB)
	_, err := conn.ExecContext(ctx, conn.Rebind(`DELETE FROM categories WHERE id = ?`), id)
	return err
}

// DetachChildren turns the direct children of parentID into roots.
func (r *SQLRepository) DetachChildren(ctx context.Context, parentID int64) error {
	conn := database.Conn(ctx, r.DB)
	_, err := conn.ExecContext(ctx, conn.Rebind(`UPDATE categories SET parent_id = NULL WHERE parent_id = ?`), parentID)
	return err
}

func (r *SQLRepository) AncestorRelations(ctx context.Context, descendantID int64) ([]model.CategoryRelation, error) {
	conn := database.Conn(ctx, r.DB)
	relations := []model.CategoryRelation{}
	query := conn.Rebind(`
        SELECT id, ancestor_id, descendant_id, depth
        FROM category_relations
        WHERE descendant_id = ?
        ORDER BY depth
    `)
	if err := sqlx.SelectContext(ctx, conn, &relations, query, descendantID); err != nil {
		return nil, err
	}
	return relations, nil
}

func (r *SQLRepository) AddRelations(ctx context.Context, relations []model.CategoryRelation) error {
	conn := database.Conn(ctx, r.DB)
	query := `
        INSERT INTO category_relations (ancestor_id, descendant_id, depth)
        VALUES (:ancestor_id, :descendant_id, :depth)
    `
	for i := range relations {
		if _, err := sqlx.NamedExecContext(ctx, conn, query, &relations[i]); err != nil {
			return fmt.Errorf("insert relation %d->%d: %w", relations[i].AncestorID, relations[i].DescendantID, err)
		}
	}
	return nil
}

func (r *SQLRepository) DeleteRelations(ctx context.Context, categoryID int64) error {
	conn := database.Conn(ctx, r.DB)
	query := conn.Rebind(`DELETE FROM category_relations WHERE ancestor_id = ? OR descendant_id = ?`)
	_, err := conn.ExecContext(ctx, query, categoryID, categoryID)
	return err
}

func (r *SQLRepository) SubtreeIDs(ctx context.Context, ancestorID int64) ([]int64, error) {
	conn := database.Conn(ctx, r.DB)
	ids := []int64{}
	query := conn.Rebind(`
        SELECT descendant_id
        FROM category_relations
        WHERE ancestor_id = ?
        ORDER BY depth, descendant_id
    `)
	if err := sqlx.SelectContext(ctx, conn, &ids, query, ancestorID); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SQLRepository) Subtree(ctx context.Context, ancestorID int64) ([]model.Category, error) {
	conn := database.Conn(ctx, r.DB)
	categories := []model.Category{}
	query := conn.Rebind(`
        SELECT c.id, c.name, c.parent_id
        FROM categories c
        JOIN category_relations r ON r.descendant_id = c.id
        WHERE r.ancestor_id = ?
        ORDER BY r.depth, c.id
    `)
	if err := sqlx.SelectContext(ctx, conn, &categories, query, ancestorID); err != nil {
		return nil, err
	}
	return categories, nil
}
