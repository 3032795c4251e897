package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fekuna/omnipos-jewellery-service/internal/category/dto"
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// SQLRepository works with both postgres and mysql; positional queries are
// written with ? and rebound for the driver.
type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, name, name_bn, image, created_at, updated_at)
        VALUES (:id, :name, :name_bn, :image, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return errors.Wrap(err, "insert category")
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	query := r.DB.Rebind(`SELECT id, name, name_bn, image, created_at, updated_at FROM categories WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select category")
	}
	return &category, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	categories := []model.Category{}
	query := "SELECT id, name, name_bn, image, created_at, updated_at FROM categories ORDER BY created_at ASC, name ASC"
	if f != nil && f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}
	if err := r.DB.SelectContext(ctx, &categories, query); err != nil {
		return nil, 0, errors.Wrap(err, "select categories")
	}
	return categories, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET name = :name,
            name_bn = :name_bn,
            image = :image,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return errors.Wrap(err, "update category")
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind("DELETE FROM categories WHERE id = ?"), id)
	return errors.Wrap(err, "delete category")
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, "SELECT count(*) FROM categories")
	return count, errors.Wrap(err, "count categories")
}
