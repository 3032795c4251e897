package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/pricing"
	"github.com/fekuna/omnipos-jewellery-service/internal/product"
	"github.com/fekuna/omnipos-jewellery-service/internal/product/dto"
	ratedto "github.com/fekuna/omnipos-jewellery-service/internal/rate/dto"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type productUseCase struct {
	repo       product.Repository
	categories product.CategoryFinder
	rates      product.RateResolver
	images     product.ImageRemover
	currency   string
	logger     logger.ZapLogger
	now        func() time.Time
}

func NewProductUseCase(
	repo product.Repository,
	categories product.CategoryFinder,
	rates product.RateResolver,
	images product.ImageRemover,
	currency string,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:       repo,
		categories: categories,
		rates:      rates,
		images:     images,
		currency:   currency,
		logger:     log,
		now:        time.Now,
	}
}

// fields is the validated form shared by create and update.
type fields struct {
	name, nameBN         string
	description          *string
	descriptionBN        *string
	categoryID, purity   string
	weight, makingCharge decimal.Decimal
	stockStatus          string
	images               model.ImagePaths
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(product.ErrInvalidInput, format, args...)
}

func (uc *productUseCase) validate(ctx context.Context, in *dto.CreateProductInput) (*fields, error) {
	f := &fields{
		name:          strings.TrimSpace(in.Name),
		nameBN:        strings.TrimSpace(in.NameBN),
		description:   optional(in.Description),
		descriptionBN: optional(in.DescriptionBN),
		categoryID:    strings.TrimSpace(in.CategoryID),
		purity:        strings.TrimSpace(in.Purity),
		stockStatus:   strings.TrimSpace(in.StockStatus),
		images:        in.Images,
	}
	switch {
	case f.name == "":
		return nil, invalid("name is required")
	case f.nameBN == "":
		return nil, invalid("name_bn is required")
	case f.purity == "":
		return nil, invalid("purity is required")
	case f.categoryID == "":
		return nil, invalid("category_id is required")
	}
	if f.stockStatus == "" {
		f.stockStatus = model.StockInStock
	}
	if !model.ValidStockStatus(f.stockStatus) {
		return nil, invalid("unknown stock_status %q", f.stockStatus)
	}
	if len(f.images) > model.MaxProductImages {
		return nil, invalid("at most %d images are allowed", model.MaxProductImages)
	}

	var err error
	if f.weight, err = pricing.ParseDecimal("weight", in.Weight); err != nil {
		return nil, invalid("%v", err)
	}
	if !f.weight.IsPositive() {
		return nil, invalid("weight must be greater than zero")
	}
	if f.makingCharge, err = pricing.ParseNonNegative("making_charge", in.MakingCharge); err != nil {
		return nil, invalid("%v", err)
	}

	cat, err := uc.categories.FindByID(ctx, f.categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "find category")
	}
	if cat == nil {
		return nil, invalid("category %s does not exist", f.categoryID)
	}
	return f, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	f, err := uc.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC().Truncate(time.Microsecond)
	p := &model.Product{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:          f.name,
		NameBN:        f.nameBN,
		Description:   f.description,
		DescriptionBN: f.descriptionBN,
		CategoryID:    f.categoryID,
		Purity:        f.purity,
		Weight:        f.weight,
		MakingCharge:  f.makingCharge,
		StockStatus:   f.stockStatus,
		Images:        f.images,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Info("product created", zap.String("id", p.ID), zap.String("category_id", p.CategoryID))
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	f, err := uc.validate(ctx, &input.CreateProductInput)
	if err != nil {
		return nil, err
	}

	var replaced model.ImagePaths
	if len(f.images) > 0 {
		replaced, p.Images = p.Images, f.images
	}
	p.Name, p.NameBN = f.name, f.nameBN
	p.Description, p.DescriptionBN = f.description, f.descriptionBN
	p.CategoryID, p.Purity = f.categoryID, f.purity
	p.Weight, p.MakingCharge = f.weight, f.makingCharge
	p.StockStatus = f.stockStatus
	p.UpdatedAt = uc.now().UTC().Truncate(time.Microsecond)

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.images.RemoveAll(replaced...)
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.images.RemoveAll(p.Images...)

	uc.logger.Info("product deleted", zap.String("id", id))
	return nil
}

func (uc *productUseCase) CountProducts(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

func (uc *productUseCase) GetPricedProduct(ctx context.Context, id string) (*dto.PricedProduct, error) {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	rates, err := uc.rates.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	priced, err := uc.price(*p, rates)
	if err != nil {
		return nil, err
	}
	return &priced, nil
}

func (uc *productUseCase) ListPricedProducts(ctx context.Context, filters *dto.ProductFilters) ([]dto.PricedProduct, int, error) {
	products, total, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	// One resolve per request so every row is priced from the same rates.
	rates, err := uc.rates.Resolve(ctx)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.PricedProduct, 0, len(products))
	for _, p := range products {
		priced, err := uc.price(p, rates)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, priced)
	}
	return out, total, nil
}

// price applies the current gold rate to every product, silver items included.
func (uc *productUseCase) price(p model.Product, rates *ratedto.ResolvedRates) (dto.PricedProduct, error) {
	q, err := pricing.Breakdown(p.Weight, rates.Gold22K, p.MakingCharge, rates.GSTPercent)
	if err != nil {
		return dto.PricedProduct{}, errors.Wrapf(err, "price product %s", p.ID)
	}
	return dto.PricedProduct{
		Product:        p,
		Quote:          q,
		PriceDisplay:   pricing.FormatPrice(q.Price, uc.currency),
		PriceDisplayBN: pricing.LocalizedPrice(q.Price, pricing.Symbol(uc.currency), language.Bengali),
		RateDefaulted:  rates.RateDefaulted,
		TaxDefaulted:   rates.TaxDefaulted,
	}, nil
}
