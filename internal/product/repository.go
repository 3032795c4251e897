package product

import (
	"context"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)

	FindByCategory(ctx context.Context, categoryID string) ([]model.Product, error)
	// DeleteByCategory removes and returns every product of a category.
	DeleteByCategory(ctx context.Context, categoryID string) ([]model.Product, error)
}
