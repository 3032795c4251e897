package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-jewellery-service/internal/httpapi"
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/pricing"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate/dto"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	displayTimeLayout  = "03:04 PM"
	defaultHistorySize = 50
)

type RateHandler struct {
	uc     rate.UseCase
	logger logger.ZapLogger
}

func NewRateHandler(uc rate.UseCase, log logger.ZapLogger) *RateHandler {
	return &RateHandler{uc: uc, logger: log}
}

func (h *RateHandler) RegisterRoutes(public, admin *echo.Group) {
	public.GET("/rates", h.GetRates)
	admin.POST("/update-rates", h.UpdateRates)
	admin.POST("/update-gst", h.UpdateGST)
	admin.GET("/rates/history", h.History)
	admin.GET("/rates/history.csv", h.HistoryCSV)
}

type ratesResponse struct {
	Gold22K       float64    `json:"gold_22k"`
	Silver        float64    `json:"silver"`
	GST           float64    `json:"gst"`
	UpdatedAt     string     `json:"updated_at"`
	RecordedAt    *time.Time `json:"recorded_at"`
	GSTRecordedAt *time.Time `json:"gst_recorded_at"`
	RateDefaulted bool       `json:"rate_defaulted"`
	GSTDefaulted  bool       `json:"gst_defaulted"`
}

func (h *RateHandler) GetRates(c echo.Context) error {
	r, err := h.uc.Resolve(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to resolve rates", zap.Error(err))
		return httpapi.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load rates", nil)
	}
	return httpapi.OK(c, mapResolved(r))
}

func mapResolved(r *dto.ResolvedRates) ratesResponse {
	out := ratesResponse{
		Gold22K:       r.Gold22K.InexactFloat64(),
		Silver:        r.Silver.InexactFloat64(),
		GST:           r.GSTPercent.InexactFloat64(),
		RecordedAt:    r.RateRecordedAt,
		GSTRecordedAt: r.TaxRecordedAt,
		RateDefaulted: r.RateDefaulted,
		GSTDefaulted:  r.TaxDefaulted,
	}
	if r.RateRecordedAt != nil {
		out.UpdatedAt = r.RateRecordedAt.Local().Format(displayTimeLayout)
	}
	return out
}

// Both JSON numbers and numeric strings are accepted.
type updateRatesRequest struct {
	Gold22K json.Number `json:"gold_22k" form:"gold_22k"`
	Silver  json.Number `json:"silver" form:"silver"`
}

type updateGSTRequest struct {
	Percentage json.Number `json:"gst_percentage" form:"gst_percentage"`
}

func (h *RateHandler) UpdateRates(c echo.Context) error {
	var req updateRatesRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse rates", err.Error())
	}
	s, err := h.uc.RecordRate(c.Request().Context(), &dto.RecordRateInput{
		Gold22K: req.Gold22K.String(),
		Silver:  req.Silver.String(),
	})
	if err != nil {
		return h.fail(c, err, "Failed to update rates")
	}
	return httpapi.OK(c, map[string]interface{}{"success": true, "rate": mapSnapshot(*s)})
}

func (h *RateHandler) UpdateGST(c echo.Context) error {
	var req updateGSTRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse gst", err.Error())
	}
	s, err := h.uc.RecordTax(c.Request().Context(), &dto.RecordTaxInput{Percentage: req.Percentage.String()})
	if err != nil {
		return h.fail(c, err, "Failed to update gst")
	}
	return httpapi.OK(c, map[string]interface{}{"success": true, "gst": mapTax(*s)})
}

type snapshotResponse struct {
	ID         string    `json:"id"`
	Gold22K    float64   `json:"gold_22k"`
	Silver     float64   `json:"silver"`
	RecordedAt time.Time `json:"recorded_at"`
}

type taxResponse struct {
	ID         string    `json:"id"`
	Percentage float64   `json:"percentage"`
	RecordedAt time.Time `json:"recorded_at"`
}

func mapSnapshot(s model.RateSnapshot) snapshotResponse {
	return snapshotResponse{ID: s.ID, Gold22K: s.Gold22K.InexactFloat64(), Silver: s.Silver.InexactFloat64(), RecordedAt: s.RecordedAt}
}

func mapTax(s model.TaxSetting) taxResponse {
	return taxResponse{ID: s.ID, Percentage: s.Percentage.InexactFloat64(), RecordedAt: s.RecordedAt}
}

func historyFilters(c echo.Context) *dto.HistoryFilters {
	limit := defaultHistorySize
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l >= 0 {
		limit = l
	}
	return &dto.HistoryFilters{Limit: limit}
}

func (h *RateHandler) History(c echo.Context) error {
	ctx := c.Request().Context()
	filters := historyFilters(c)

	rates, err := h.uc.RateHistory(ctx, filters)
	if err != nil {
		return h.fail(c, err, "Failed to load rate history")
	}
	taxes, err := h.uc.TaxHistory(ctx, filters)
	if err != nil {
		return h.fail(c, err, "Failed to load gst history")
	}

	rateOut := make([]snapshotResponse, len(rates))
	for i, s := range rates {
		rateOut[i] = mapSnapshot(s)
	}
	taxOut := make([]taxResponse, len(taxes))
	for i, s := range taxes {
		taxOut[i] = mapTax(s)
	}
	return httpapi.OK(c, map[string]interface{}{"rates": rateOut, "gst": taxOut})
}

// HistoryCSV exports one ledger; ?ledger=gst selects the tax ledger.
func (h *RateHandler) HistoryCSV(c echo.Context) error {
	ctx := c.Request().Context()
	filters := historyFilters(c)

	var (
		body     string
		err      error
		filename = "gold_rates.csv"
	)
	if c.QueryParam("ledger") == "gst" {
		filename = "gst.csv"
		var taxes []model.TaxSetting
		if taxes, err = h.uc.TaxHistory(ctx, filters); err == nil {
			body, err = gocsv.MarshalString(&taxes)
		}
	} else {
		var rates []model.RateSnapshot
		if rates, err = h.uc.RateHistory(ctx, filters); err == nil {
			body, err = gocsv.MarshalString(&rates)
		}
	}
	if err != nil {
		return h.fail(c, err, "Failed to export history")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}

func (h *RateHandler) fail(c echo.Context, err error, msg string) error {
	if errors.Is(err, pricing.ErrInvalidArgument) {
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	}
	h.logger.Error(msg, zap.Error(err))
	return httpapi.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", msg, nil)
}
