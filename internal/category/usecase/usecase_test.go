package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-jewellery-service/internal/category"
	"github.com/fekuna/omnipos-jewellery-service/internal/category/dto"
	"github.com/fekuna/omnipos-jewellery-service/internal/category/repository"
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
)

type fakeProducts struct {
	byCategory map[string][]model.Product
	calls      []string
}

func (f *fakeProducts) FindByCategory(_ context.Context, categoryID string) ([]model.Product, error) {
	return append([]model.Product(nil), f.byCategory[categoryID]...), nil
}

func (f *fakeProducts) DeleteByCategory(_ context.Context, categoryID string) ([]model.Product, error) {
	f.calls = append(f.calls, categoryID)
	out := f.byCategory[categoryID]
	delete(f.byCategory, categoryID)
	return out, nil
}

type fakeImages struct{ removed []string }

func (f *fakeImages) RemoveAll(paths ...string) { f.removed = append(f.removed, paths...) }

func strPtr(s string) *string { return &s }

func newTestUseCase() (category.UseCase, *fakeProducts, *fakeImages) {
	products := &fakeProducts{byCategory: map[string][]model.Product{}}
	images := &fakeImages{}
	return NewCategoryUseCase(repository.NewMemoryRepository(), products, images, logger.NewNop()), products, images
}

func TestCreateCategory(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()

	testCases := []struct {
		name    string
		input   dto.CreateCategoryInput
		wantErr bool
	}{
		{name: "valid", input: dto.CreateCategoryInput{Name: " Ring ", NameBN: "রিং"}},
		{name: "with image", input: dto.CreateCategoryInput{Name: "Chain", NameBN: "চেইন", Image: strPtr("uploads/categories/a.png")}},
		{name: "missing name", input: dto.CreateCategoryInput{NameBN: "হার"}, wantErr: true},
		{name: "missing bengali name", input: dto.CreateCategoryInput{Name: "Necklace", NameBN: "  "}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cat, err := uc.CreateCategory(ctx, &tc.input)
			if tc.wantErr {
				if !errors.Is(err, category.ErrInvalidInput) {
					t.Errorf("CreateCategory() error = %v want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateCategory() error = %v", err)
			}
			if cat.ID == "" || cat.CreatedAt.IsZero() {
				t.Errorf("CreateCategory() = %+v want id and timestamps", cat)
			}
			got, err := uc.GetCategory(ctx, cat.ID)
			if err != nil || got.Name != cat.Name {
				t.Errorf("GetCategory(%s) = %v, %v", cat.ID, got, err)
			}
		})
	}

	if _, total, _ := uc.ListCategories(ctx, &dto.CategoryFilters{}); total != 2 {
		t.Errorf("ListCategories() total = %d want 2", total)
	}
	cats, _, _ := uc.ListCategories(ctx, nil)
	names := map[string]bool{}
	for _, c := range cats {
		names[c.Name] = true
	}
	if !names["Ring"] || !names["Chain"] {
		t.Errorf("ListCategories() names = %v want trimmed Ring and Chain", names)
	}
}

func TestUpdateCategoryReplacesImage(t *testing.T) {
	uc, _, images := newTestUseCase()
	ctx := context.Background()
	cat, _ := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Ring", NameBN: "রিং", Image: strPtr("uploads/categories/old.png")})

	updated, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: cat.ID, Name: "Rings", NameBN: "রিং"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Image == nil || *updated.Image != "uploads/categories/old.png" {
		t.Errorf("image = %v want kept when no upload", updated.Image)
	}
	if len(images.removed) != 0 {
		t.Errorf("removed = %v want none", images.removed)
	}

	updated, err = uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: cat.ID, Name: "Rings", NameBN: "রিং", Image: strPtr("uploads/categories/new.png")})
	if err != nil {
		t.Fatal(err)
	}
	if *updated.Image != "uploads/categories/new.png" {
		t.Errorf("image = %v want new.png", *updated.Image)
	}
	if len(images.removed) != 1 || images.removed[0] != "uploads/categories/old.png" {
		t.Errorf("removed = %v want old image", images.removed)
	}

	if _, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "missing", Name: "x", NameBN: "y"}); !errors.Is(err, category.ErrNotFound) {
		t.Errorf("UpdateCategory(missing) error = %v want ErrNotFound", err)
	}
}

type failingDeletes struct {
	*repository.MemoryRepository
}

func (failingDeletes) Delete(context.Context, string) error { return errors.New("connection reset") }

func TestDeleteCategoryFailureKeepsProducts(t *testing.T) {
	products := &fakeProducts{byCategory: map[string][]model.Product{}}
	images := &fakeImages{}
	uc := NewCategoryUseCase(failingDeletes{repository.NewMemoryRepository()}, products, images, logger.NewNop())
	ctx := context.Background()

	cat, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Ring", NameBN: "রিং", Image: strPtr("uploads/categories/r.png")})
	if err != nil {
		t.Fatal(err)
	}
	products.byCategory[cat.ID] = []model.Product{{Images: model.ImagePaths{"uploads/products/1.png"}}}

	if err := uc.DeleteCategory(ctx, cat.ID); err == nil {
		t.Fatal("DeleteCategory() error = nil want the store failure")
	}
	if len(products.calls) != 0 {
		t.Errorf("DeleteByCategory calls = %v want none", products.calls)
	}
	if len(products.byCategory[cat.ID]) != 1 {
		t.Errorf("products of the category were removed")
	}
	if len(images.removed) != 0 {
		t.Errorf("removed images = %v want none", images.removed)
	}
	if _, err := uc.GetCategory(ctx, cat.ID); err != nil {
		t.Errorf("GetCategory after failed delete error = %v", err)
	}
}

func TestDeleteCategoryRemovesProducts(t *testing.T) {
	uc, products, images := newTestUseCase()
	ctx := context.Background()
	cat, _ := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Bangle", NameBN: "চুড়ি", Image: strPtr("uploads/categories/b.png")})
	products.byCategory[cat.ID] = []model.Product{
		{Images: model.ImagePaths{"uploads/products/1.png", "uploads/products/2.png"}},
		{},
	}

	if err := uc.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	if len(products.calls) != 1 || products.calls[0] != cat.ID {
		t.Errorf("DeleteByCategory calls = %v want [%s]", products.calls, cat.ID)
	}
	if len(images.removed) != 3 {
		t.Errorf("removed images = %v want 3", images.removed)
	}
	if _, err := uc.GetCategory(ctx, cat.ID); !errors.Is(err, category.ErrNotFound) {
		t.Errorf("GetCategory after delete error = %v want ErrNotFound", err)
	}
	if err := uc.DeleteCategory(ctx, cat.ID); !errors.Is(err, category.ErrNotFound) {
		t.Errorf("second DeleteCategory error = %v want ErrNotFound", err)
	}
	if n, _ := uc.CountCategories(ctx); n != 0 {
		t.Errorf("CountCategories() = %d want 0", n)
	}
}
