package category

import (
	"context"

	"github.com/fekuna/omnipos-jewellery-service/internal/category/dto"
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("category not found")
	ErrInvalidInput = errors.New("invalid category")
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	// DeleteCategory removes the category's products before the category.
	DeleteCategory(ctx context.Context, id string) error
	CountCategories(ctx context.Context) (int, error)
}

// ProductCleaner lists and removes the products that belong to a category.
type ProductCleaner interface {
	FindByCategory(ctx context.Context, categoryID string) ([]model.Product, error)
	DeleteByCategory(ctx context.Context, categoryID string) ([]model.Product, error)
}

// ImageRemover deletes stored upload files.
type ImageRemover interface {
	RemoveAll(paths ...string)
}
