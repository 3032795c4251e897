package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-jewellery-service/internal/category"
	"github.com/fekuna/omnipos-jewellery-service/internal/category/dto"
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo     category.Repository
	products category.ProductCleaner
	images   category.ImageRemover
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewCategoryUseCase(repo category.Repository, products category.ProductCleaner, images category.ImageRemover, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:     repo,
		products: products,
		images:   images,
		logger:   log,
		now:      time.Now,
	}
}

func validateNames(name, nameBN string) (string, string, error) {
	name, nameBN = strings.TrimSpace(name), strings.TrimSpace(nameBN)
	if name == "" {
		return "", "", errors.Wrap(category.ErrInvalidInput, "name is required")
	}
	if nameBN == "" {
		return "", "", errors.Wrap(category.ErrInvalidInput, "name_bn is required")
	}
	return name, nameBN, nil
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name, nameBN, err := validateNames(input.Name, input.NameBN)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC().Truncate(time.Microsecond)
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:   name,
		NameBN: nameBN,
		Image:  input.Image,
	}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}

	uc.logger.Info("category created", zap.String("id", cat.ID), zap.String("name", cat.Name))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, category.ErrNotFound
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	cat, err := uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	name, nameBN, err := validateNames(input.Name, input.NameBN)
	if err != nil {
		return nil, err
	}

	var replaced *string
	if input.Image != nil {
		replaced, cat.Image = cat.Image, input.Image
	}
	cat.Name, cat.NameBN = name, nameBN
	cat.UpdatedAt = uc.now().UTC().Truncate(time.Microsecond)

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	if replaced != nil && *replaced != *cat.Image {
		uc.images.RemoveAll(*replaced)
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	cat, err := uc.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	listed, err := uc.products.FindByCategory(ctx, id)
	if err != nil {
		return errors.Wrap(err, "find category products")
	}
	// The category row goes first. SQL stores cascade its products in the
	// same statement, so a failure here leaves both untouched.
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	removed, err := uc.products.DeleteByCategory(ctx, id)
	if err != nil {
		uc.logger.Error("failed to clear products of deleted category", zap.String("id", id), zap.Error(err))
	}

	seen := map[string]bool{}
	var paths []string
	for _, p := range append(listed, removed...) {
		for _, img := range p.Images {
			if !seen[img] {
				seen[img] = true
				paths = append(paths, img)
			}
		}
	}
	if cat.Image != nil {
		paths = append(paths, *cat.Image)
	}
	uc.images.RemoveAll(paths...)

	uc.logger.Info("category deleted", zap.String("id", id), zap.Int("products_removed", max(len(listed), len(removed))))
	return nil
}

func (uc *categoryUseCase) CountCategories(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}
