package product

import (
	"context"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/product/dto"
	ratedto "github.com/fekuna/omnipos-jewellery-service/internal/rate/dto"
	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidInput = errors.New("invalid product")
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CountProducts(ctx context.Context) (int, error)

	// Priced reads compute the price from the rates current at call time.
	GetPricedProduct(ctx context.Context, id string) (*dto.PricedProduct, error)
	ListPricedProducts(ctx context.Context, filters *dto.ProductFilters) ([]dto.PricedProduct, int, error)
}

type CategoryFinder interface {
	FindByID(ctx context.Context, id string) (*model.Category, error)
}

type RateResolver interface {
	Resolve(ctx context.Context) (*ratedto.ResolvedRates, error)
}

type ImageRemover interface {
	RemoveAll(paths ...string)
}
