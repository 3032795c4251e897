package handler

import (
	"context"
	"net/http"

	"github.com/fekuna/omnipos-jewellery-service/internal/httpapi"
	"github.com/fekuna/omnipos-jewellery-service/internal/product"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CategoryCounter interface {
	CountCategories(ctx context.Context) (int, error)
}

// DashboardHandler serves the admin summary.
type DashboardHandler struct {
	categories CategoryCounter
	products   product.UseCase
	rates      product.RateResolver
	logger     logger.ZapLogger
}

func NewDashboardHandler(categories CategoryCounter, products product.UseCase, rates product.RateResolver, log logger.ZapLogger) *DashboardHandler {
	return &DashboardHandler{categories: categories, products: products, rates: rates, logger: log}
}

func (h *DashboardHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/dashboard", h.Summary)
}

type dashboardResponse struct {
	TotalCategories int     `json:"total_categories"`
	TotalProducts   int     `json:"total_products"`
	Gold22K         float64 `json:"gold_22k"`
	Silver          float64 `json:"silver"`
	GST             float64 `json:"gst"`
	RateDefaulted   bool    `json:"rate_defaulted"`
	GSTDefaulted    bool    `json:"gst_defaulted"`
}

func (h *DashboardHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	cats, err := h.categories.CountCategories(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	prods, err := h.products.CountProducts(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	rates, err := h.rates.Resolve(ctx)
	if err != nil {
		return h.fail(c, err)
	}

	return httpapi.OK(c, dashboardResponse{
		TotalCategories: cats,
		TotalProducts:   prods,
		Gold22K:         rates.Gold22K.InexactFloat64(),
		Silver:          rates.Silver.InexactFloat64(),
		GST:             rates.GSTPercent.InexactFloat64(),
		RateDefaulted:   rates.RateDefaulted,
		GSTDefaulted:    rates.TaxDefaulted,
	})
}

func (h *DashboardHandler) fail(c echo.Context, err error) error {
	h.logger.Error("failed to load dashboard", zap.Error(err))
	return httpapi.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load dashboard", nil)
}
