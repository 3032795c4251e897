package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-jewellery-service/internal/httpapi"
	"github.com/fekuna/omnipos-jewellery-service/internal/media"
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/product"
	"github.com/fekuna/omnipos-jewellery-service/internal/product/dto"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ImageStore interface {
	SaveFile(kind string, fh *multipart.FileHeader, index int) (string, error)
	RemoveAll(paths ...string)
}

type ProductHandler struct {
	uc     product.UseCase
	images ImageStore
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, images ImageStore, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{uc: uc, images: images, logger: log}
}

func (h *ProductHandler) RegisterRoutes(public, admin *echo.Group) {
	public.GET("/products", h.ListProducts)
	public.GET("/products/:id", h.GetProduct)

	admin.GET("/products", h.ListProducts)
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
}

type productRequest struct {
	Name          string      `json:"name" form:"name"`
	NameBN        string      `json:"name_bn" form:"name_bn"`
	Description   string      `json:"description" form:"description"`
	DescriptionBN string      `json:"description_bn" form:"description_bn"`
	CategoryID    string      `json:"category_id" form:"category_id"`
	Purity        string      `json:"purity" form:"purity"`
	Weight        json.Number `json:"weight" form:"weight"`
	MakingCharge  json.Number `json:"making_charge" form:"making_charge"`
	StockStatus   string      `json:"stock_status" form:"stock_status"`
}

func (r productRequest) toInput(images []string) dto.CreateProductInput {
	return dto.CreateProductInput{
		Name:          r.Name,
		NameBN:        r.NameBN,
		Description:   r.Description,
		DescriptionBN: r.DescriptionBN,
		CategoryID:    r.CategoryID,
		Purity:        r.Purity,
		Weight:        r.Weight.String(),
		MakingCharge:  r.MakingCharge.String(),
		StockStatus:   r.StockStatus,
		Images:        images,
	}
}

type productResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	NameBN          string    `json:"name_bn"`
	Description     *string   `json:"description"`
	DescriptionBN   *string   `json:"description_bn"`
	CategoryID      string    `json:"category_id"`
	Purity          string    `json:"purity"`
	Weight          float64   `json:"weight"`
	MakingCharge    float64   `json:"making_charge"`
	StockStatus     string    `json:"stock_status"`
	Images          []string  `json:"images"`
	CalculatedPrice *int64    `json:"calculated_price,omitempty"`
	PriceDisplay    string    `json:"price_display,omitempty"`
	PriceDisplayBN  string    `json:"price_display_bn,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func mapProduct(p *model.Product) productResponse {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		NameBN:        p.NameBN,
		Description:   p.Description,
		DescriptionBN: p.DescriptionBN,
		CategoryID:    p.CategoryID,
		Purity:        p.Purity,
		Weight:        p.Weight.InexactFloat64(),
		MakingCharge:  p.MakingCharge.InexactFloat64(),
		StockStatus:   p.StockStatus,
		Images:        images,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func mapPriced(p *dto.PricedProduct) productResponse {
	out := mapProduct(&p.Product)
	price := p.Quote.Price
	out.CalculatedPrice = &price
	out.PriceDisplay = p.PriceDisplay
	out.PriceDisplayBN = p.PriceDisplayBN
	return out
}

func listFilters(c echo.Context) (*dto.ProductFilters, error) {
	page, pageSize, err := httpapi.Pagination(c)
	if err != nil {
		return nil, err
	}
	return &dto.ProductFilters{
		CategoryID:  c.QueryParam("category_id"),
		StockStatus: c.QueryParam("stock_status"),
		SearchQuery: c.QueryParam("q"),
		SortBy:      c.QueryParam("sort_by"),
		SortOrder:   c.QueryParam("sort_order"),
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	filters, err := listFilters(c)
	if err != nil {
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	}
	products, total, err := h.uc.ListPricedProducts(c.Request().Context(), filters)
	if err != nil {
		return h.fail(c, err, "Failed to list products")
	}

	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = mapPriced(&products[i])
	}
	return httpapi.Paged(c, out, total, filters.Page, filters.PageSize)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	p, err := h.uc.GetPricedProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err, "Failed to load product")
	}
	return httpapi.OK(c, mapPriced(p))
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	images, err := h.saveImages(c)
	if err != nil {
		return h.fail(c, err, "Failed to store images")
	}

	input := req.toInput(images)
	p, err := h.uc.CreateProduct(c.Request().Context(), &input)
	if err != nil {
		h.images.RemoveAll(images...)
		return h.fail(c, err, "Failed to create product")
	}
	return httpapi.Created(c, mapProduct(p))
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	images, err := h.saveImages(c)
	if err != nil {
		return h.fail(c, err, "Failed to store images")
	}

	p, err := h.uc.UpdateProduct(c.Request().Context(), &dto.UpdateProductInput{
		ID:                 c.Param("id"),
		CreateProductInput: req.toInput(images),
	})
	if err != nil {
		h.images.RemoveAll(images...)
		return h.fail(c, err, "Failed to update product")
	}
	return httpapi.OK(c, mapProduct(p))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.uc.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err, "Failed to delete product")
	}
	return httpapi.OK(c, map[string]bool{"success": true})
}

// saveImages stores the image_1..image_3 uploads in field order.
func (h *ProductHandler) saveImages(c echo.Context) ([]string, error) {
	var saved []string
	for i := 1; i <= model.MaxProductImages; i++ {
		fh, err := httpapi.FormFile(c, fmt.Sprintf("image_%d", i))
		if err == nil && fh != nil {
			var rel string
			if rel, err = h.images.SaveFile(media.KindProduct, fh, i); err == nil {
				saved = append(saved, rel)
			}
		}
		if err != nil {
			h.images.RemoveAll(saved...)
			return nil, err
		}
	}
	return saved, nil
}

func (h *ProductHandler) fail(c echo.Context, err error, msg string) error {
	switch {
	case errors.Is(err, product.ErrNotFound):
		return httpapi.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	case errors.Is(err, product.ErrInvalidInput):
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	case errors.Is(err, media.ErrUnsupportedImage), errors.Is(err, media.ErrTooLarge):
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_IMAGE", err.Error(), nil)
	}
	h.logger.Error(msg, zap.Error(err))
	return httpapi.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", msg, nil)
}
