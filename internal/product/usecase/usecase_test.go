package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catrepo "github.com/fekuna/omnipos-jewellery-service/internal/category/repository"
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/product"
	"github.com/fekuna/omnipos-jewellery-service/internal/product/dto"
	"github.com/fekuna/omnipos-jewellery-service/internal/product/repository"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate"
	raterepo "github.com/fekuna/omnipos-jewellery-service/internal/rate/repository"
	rateuc "github.com/fekuna/omnipos-jewellery-service/internal/rate/usecase"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/shopspring/decimal"
)

type fakeImages struct{ removed []string }

func (f *fakeImages) RemoveAll(paths ...string) { f.removed = append(f.removed, paths...) }

type fixture struct {
	uc     product.UseCase
	rates  rate.UseCase
	images *fakeImages
	catID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cats := catrepo.NewMemoryRepository()
	now := time.Now()
	cat := &model.Category{BaseModel: model.BaseModel{ID: "cat-ring", CreatedAt: now, UpdatedAt: now}, Name: "Ring", NameBN: "রিং"}
	if err := cats.Create(context.Background(), cat); err != nil {
		t.Fatal(err)
	}

	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatal(err)
	}
	defaults, _ := rateuc.ParseDefaults("6450", "78", "3")
	rates := rateuc.NewRateUseCase(raterepo.NewMemoryRepository(), node, defaults, logger.NewNop())

	images := &fakeImages{}
	uc := NewProductUseCase(repository.NewMemoryRepository(), cats, rates, images, "INR", logger.NewNop())
	return &fixture{uc: uc, rates: rates, images: images, catID: cat.ID}
}

func (f *fixture) ringInput() *dto.CreateProductInput {
	return &dto.CreateProductInput{
		Name:         "Gold Ring",
		NameBN:       "সোনার আংটি",
		CategoryID:   f.catID,
		Purity:       "22K",
		Weight:       "10",
		MakingCharge: "500",
	}
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testCases := []struct {
		name   string
		modify func(in *dto.CreateProductInput)
	}{
		{name: "missing name", modify: func(in *dto.CreateProductInput) { in.Name = " " }},
		{name: "missing bengali name", modify: func(in *dto.CreateProductInput) { in.NameBN = "" }},
		{name: "missing purity", modify: func(in *dto.CreateProductInput) { in.Purity = "" }},
		{name: "unknown category", modify: func(in *dto.CreateProductInput) { in.CategoryID = "nope" }},
		{name: "zero weight", modify: func(in *dto.CreateProductInput) { in.Weight = "0" }},
		{name: "weight not a number", modify: func(in *dto.CreateProductInput) { in.Weight = "ten" }},
		{name: "negative making charge", modify: func(in *dto.CreateProductInput) { in.MakingCharge = "-1" }},
		{name: "bad stock status", modify: func(in *dto.CreateProductInput) { in.StockStatus = "Sold" }},
		{name: "too many images", modify: func(in *dto.CreateProductInput) { in.Images = []string{"a", "b", "c", "d"} }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := f.ringInput()
			tc.modify(in)
			if _, err := f.uc.CreateProduct(ctx, in); !errors.Is(err, product.ErrInvalidInput) {
				t.Errorf("CreateProduct() error = %v want ErrInvalidInput", err)
			}
		})
	}

	p, err := f.uc.CreateProduct(ctx, f.ringInput())
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if p.StockStatus != model.StockInStock {
		t.Errorf("StockStatus = %q want default %q", p.StockStatus, model.StockInStock)
	}
	if p.Description != nil {
		t.Errorf("Description = %v want nil for empty input", *p.Description)
	}

	zeroMaking := f.ringInput()
	zeroMaking.MakingCharge = "0"
	if _, err := f.uc.CreateProduct(ctx, zeroMaking); err != nil {
		t.Errorf("CreateProduct(making_charge 0) error = %v", err)
	}
}

func TestPricedReadsFollowCurrentRates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.uc.CreateProduct(ctx, f.ringInput())
	if err != nil {
		t.Fatal(err)
	}

	priced, err := f.uc.GetPricedProduct(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if priced.Quote.Price != 71585 {
		t.Errorf("price with default rates = %d want 71585", priced.Quote.Price)
	}
	if !priced.RateDefaulted || !priced.TaxDefaulted {
		t.Errorf("defaulted flags = %v/%v want true/true", priced.RateDefaulted, priced.TaxDefaulted)
	}
	if priced.PriceDisplayBN == "" || priced.PriceDisplay == "" {
		t.Errorf("price displays are empty: %+v", priced)
	}

	if _, err := f.rates.AppendRate(ctx, decimal.NewFromInt(7000), decimal.NewFromInt(80)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.rates.AppendTax(ctx, decimal.Zero); err != nil {
		t.Fatal(err)
	}

	list, total, err := f.uc.ListPricedProducts(ctx, &dto.ProductFilters{CategoryID: f.catID})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("ListPricedProducts() = %d rows want 1", total)
	}
	// 10 * 7000 + 10 * 500, no tax
	if list[0].Quote.Price != 75000 {
		t.Errorf("price after rate update = %d want 75000", list[0].Quote.Price)
	}

	if _, total, _ := f.uc.ListPricedProducts(ctx, &dto.ProductFilters{CategoryID: "other"}); total != 0 {
		t.Errorf("ListPricedProducts(other category) total = %d want 0", total)
	}
	if _, err := f.uc.GetPricedProduct(ctx, "missing"); !errors.Is(err, product.ErrNotFound) {
		t.Errorf("GetPricedProduct(missing) error = %v want ErrNotFound", err)
	}
}

func TestUpdateAndDeleteProductImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.ringInput()
	in.Images = []string{"uploads/products/1.png", "uploads/products/2.png"}
	p, err := f.uc.CreateProduct(ctx, in)
	if err != nil {
		t.Fatal(err)
	}

	update := &dto.UpdateProductInput{ID: p.ID, CreateProductInput: *f.ringInput()}
	update.Weight = "12.5"
	update.StockStatus = model.StockOnOrder
	got, err := f.uc.UpdateProduct(ctx, update)
	if err != nil {
		t.Fatalf("UpdateProduct() error = %v", err)
	}
	if len(got.Images) != 2 || len(f.images.removed) != 0 {
		t.Errorf("images = %v removed = %v want kept without new uploads", got.Images, f.images.removed)
	}
	if !got.Weight.Equal(decimal.RequireFromString("12.5")) || got.StockStatus != model.StockOnOrder {
		t.Errorf("UpdateProduct() = %+v", got)
	}

	update.Images = []string{"uploads/products/3.png"}
	if got, err = f.uc.UpdateProduct(ctx, update); err != nil {
		t.Fatal(err)
	}
	if len(got.Images) != 1 || len(f.images.removed) != 2 {
		t.Errorf("images = %v removed = %v want replaced", got.Images, f.images.removed)
	}

	if err := f.uc.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if len(f.images.removed) != 3 || f.images.removed[2] != "uploads/products/3.png" {
		t.Errorf("removed = %v want 3.png removed on delete", f.images.removed)
	}
	if err := f.uc.DeleteProduct(ctx, p.ID); !errors.Is(err, product.ErrNotFound) {
		t.Errorf("second DeleteProduct error = %v want ErrNotFound", err)
	}
	if n, _ := f.uc.CountProducts(ctx); n != 0 {
		t.Errorf("CountProducts() = %d want 0", n)
	}
}
