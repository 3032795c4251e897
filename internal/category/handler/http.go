package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-jewellery-service/internal/category"
	"github.com/fekuna/omnipos-jewellery-service/internal/category/dto"
	"github.com/fekuna/omnipos-jewellery-service/internal/httpapi"
	"github.com/fekuna/omnipos-jewellery-service/internal/media"
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ImageStore saves and removes uploaded images.
type ImageStore interface {
	SaveFile(kind string, fh *multipart.FileHeader, index int) (string, error)
	RemoveAll(paths ...string)
}

type CategoryHandler struct {
	uc     category.UseCase
	images ImageStore
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, images ImageStore, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{uc: uc, images: images, logger: log}
}

func (h *CategoryHandler) RegisterRoutes(public, admin *echo.Group) {
	public.GET("/categories", h.ListCategories)
	public.GET("/categories/:id", h.GetCategory)

	admin.GET("/categories", h.ListCategories)
	admin.POST("/categories", h.CreateCategory)
	admin.PUT("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)
}

type categoryRequest struct {
	Name   string `json:"name" form:"name"`
	NameBN string `json:"name_bn" form:"name_bn"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NameBN    string    `json:"name_bn"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func mapCategory(m *model.Category) categoryResponse {
	return categoryResponse{
		ID:        m.ID,
		Name:      m.Name,
		NameBN:    m.NameBN,
		Image:     m.Image,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	page, pageSize, err := httpapi.Pagination(c)
	if err != nil {
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	}
	filters := &dto.CategoryFilters{Page: page, PageSize: pageSize}

	cats, total, err := h.uc.ListCategories(c.Request().Context(), filters)
	if err != nil {
		return h.fail(c, err, "Failed to list categories")
	}

	out := make([]categoryResponse, len(cats))
	for i := range cats {
		out[i] = mapCategory(&cats[i])
	}
	return httpapi.Paged(c, out, total, filters.Page, filters.PageSize)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	cat, err := h.uc.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err, "Failed to load category")
	}
	return httpapi.OK(c, mapCategory(cat))
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	image, err := h.saveImage(c)
	if err != nil {
		return h.fail(c, err, "Failed to store image")
	}

	cat, err := h.uc.CreateCategory(c.Request().Context(), &dto.CreateCategoryInput{
		Name:   req.Name,
		NameBN: req.NameBN,
		Image:  image,
	})
	if err != nil {
		h.discard(image)
		return h.fail(c, err, "Failed to create category")
	}
	return httpapi.Created(c, mapCategory(cat))
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	image, err := h.saveImage(c)
	if err != nil {
		return h.fail(c, err, "Failed to store image")
	}

	cat, err := h.uc.UpdateCategory(c.Request().Context(), &dto.UpdateCategoryInput{
		ID:     c.Param("id"),
		Name:   req.Name,
		NameBN: req.NameBN,
		Image:  image,
	})
	if err != nil {
		h.discard(image)
		return h.fail(c, err, "Failed to update category")
	}
	return httpapi.OK(c, mapCategory(cat))
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	if err := h.uc.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err, "Failed to delete category")
	}
	return c.NoContent(http.StatusNoContent)
}

// saveImage stores the optional "image" upload and returns its path.
func (h *CategoryHandler) saveImage(c echo.Context) (*string, error) {
	fh, err := httpapi.FormFile(c, "image")
	if err != nil || fh == nil {
		return nil, err
	}
	rel, err := h.images.SaveFile(media.KindCategory, fh, 0)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (h *CategoryHandler) discard(image *string) {
	if image != nil {
		h.images.RemoveAll(*image)
	}
}

func (h *CategoryHandler) fail(c echo.Context, err error, msg string) error {
	switch {
	case errors.Is(err, category.ErrNotFound):
		return httpapi.Fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	case errors.Is(err, category.ErrInvalidInput):
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	case errors.Is(err, media.ErrUnsupportedImage), errors.Is(err, media.ErrTooLarge):
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_IMAGE", err.Error(), nil)
	}
	h.logger.Error(msg, zap.Error(err))
	return httpapi.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", msg, nil)
}
