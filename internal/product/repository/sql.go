package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const productColumns = `id, name, name_bn, description, description_bn, category_id, purity,
        weight, making_charge, stock_status, images, created_at, updated_at`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, name, name_bn, description, description_bn, category_id, purity,
            weight, making_charge, stock_status, images, created_at, updated_at
        )
        VALUES (
            :id, :name, :name_bn, :description, :description_bn, :category_id, :purity,
            :weight, :making_charge, :stock_status, :images, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return errors.Wrap(err, "insert product")
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := r.DB.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select product")
	}
	return &product, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	if f == nil {
		f = &dto.ProductFilters{}
	}
	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.StockStatus != "" {
		conditions = append(conditions, "stock_status = :stock_status")
		args["stock_status"] = f.StockStatus
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(LOWER(name) LIKE :search OR name_bn LIKE :search)")
		args["search"] = "%" + strings.ToLower(f.SearchQuery) + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery, countArgs, err := r.DB.BindNamed("SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "bind product count")
	}
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	// Whitelisted to keep the clause injection free.
	orderBy := "created_at"
	switch f.SortBy {
	case "name":
		orderBy = "name"
	case "weight":
		orderBy = "weight"
	}
	if strings.ToLower(f.SortOrder) == "desc" {
		orderBy += " DESC"
	} else {
		orderBy += " ASC"
	}

	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s, id ASC", productColumns, whereClause, orderBy)
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := r.DB.BindNamed(query, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "bind product list")
	}
	products := []model.Product{}
	if err := r.DB.SelectContext(ctx, &products, listQuery, listArgs...); err != nil {
		return nil, 0, errors.Wrap(err, "select products")
	}
	return products, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            name_bn = :name_bn,
            description = :description,
            description_bn = :description_bn,
            category_id = :category_id,
            purity = :purity,
            weight = :weight,
            making_charge = :making_charge,
            stock_status = :stock_status,
            images = :images,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return errors.Wrap(err, "update product")
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind("DELETE FROM products WHERE id = ?"), id)
	return errors.Wrap(err, "delete product")
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, "SELECT count(*) FROM products")
	return count, errors.Wrap(err, "count products")
}

func (r *SQLRepository) FindByCategory(ctx context.Context, categoryID string) ([]model.Product, error) {
	products := []model.Product{}
	query := r.DB.Rebind(`SELECT ` + productColumns + ` FROM products WHERE category_id = ?`)
	err := r.DB.SelectContext(ctx, &products, query, categoryID)
	return products, errors.Wrap(err, "select category products")
}

func (r *SQLRepository) DeleteByCategory(ctx context.Context, categoryID string) ([]model.Product, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	products := []model.Product{}
	query := tx.Rebind(`SELECT ` + productColumns + ` FROM products WHERE category_id = ?`)
	if err := tx.SelectContext(ctx, &products, query, categoryID); err != nil {
		return nil, errors.Wrap(err, "select category products")
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM products WHERE category_id = ?"), categoryID); err != nil {
		return nil, errors.Wrap(err, "delete category products")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit tx")
	}
	return products, nil
}
