package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate/repository"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate/usecase"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

func newTestRateUseCase(t *testing.T) rate.UseCase {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}
	defaults, err := usecase.ParseDefaults("6450", "78", "3")
	if err != nil {
		t.Fatal(err)
	}
	return usecase.NewRateUseCase(repository.NewMemoryRepository(), node, defaults, logger.NewNop())
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	h := NewRateHandler(newTestRateUseCase(t), logger.NewNop())
	h.RegisterRoutes(e.Group("/api"), e.Group("/api/admin"))
	return e
}

func do(e *echo.Echo, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetRates_DefaultsWhenEmpty(t *testing.T) {
	e := newTestServer(t)
	rec := do(e, http.MethodGet, "/api/rates", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/rates status = %d body = %s", rec.Code, rec.Body)
	}

	var got ratesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Gold22K != 6450 || got.Silver != 78 || got.GST != 3 {
		t.Errorf("rates = %+v want defaults 6450/78/3", got)
	}
	if !got.RateDefaulted || !got.GSTDefaulted {
		t.Errorf("defaulted flags = %v/%v want true/true", got.RateDefaulted, got.GSTDefaulted)
	}
}

func TestUpdateRates(t *testing.T) {
	testCases := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{name: "json numbers", contentType: echo.MIMEApplicationJSON, body: `{"gold_22k": 6500.5, "silver": 80}`, wantStatus: http.StatusOK},
		{name: "json strings", contentType: echo.MIMEApplicationJSON, body: `{"gold_22k": "6500.5", "silver": "80"}`, wantStatus: http.StatusOK},
		{name: "form", contentType: echo.MIMEApplicationForm, body: url.Values{"gold_22k": {"6500.5"}, "silver": {"80"}}.Encode(), wantStatus: http.StatusOK},
		{name: "missing silver", contentType: echo.MIMEApplicationJSON, body: `{"gold_22k": 6500}`, wantStatus: http.StatusBadRequest},
		{name: "negative", contentType: echo.MIMEApplicationJSON, body: `{"gold_22k": -1, "silver": 80}`, wantStatus: http.StatusBadRequest},
		{name: "not a number", contentType: echo.MIMEApplicationForm, body: "gold_22k=abc&silver=80", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestServer(t)
			rec := do(e, http.MethodPost, "/api/admin/update-rates", tc.contentType, tc.body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("POST update-rates status = %d want %d body = %s", rec.Code, tc.wantStatus, rec.Body)
			}
			if tc.wantStatus != http.StatusOK {
				return
			}

			rec = do(e, http.MethodGet, "/api/rates", "", "")
			var got ratesResponse
			json.Unmarshal(rec.Body.Bytes(), &got)
			if got.Gold22K != 6500.5 || got.Silver != 80 || got.RateDefaulted {
				t.Errorf("rates after update = %+v want 6500.5/80", got)
			}
			if got.UpdatedAt == "" {
				t.Errorf("updated_at is empty")
			}
		})
	}
}

func TestUpdateGSTDoesNotTouchRates(t *testing.T) {
	e := newTestServer(t)
	if rec := do(e, http.MethodPost, "/api/admin/update-gst", echo.MIMEApplicationJSON, `{"gst_percentage": 5}`); rec.Code != http.StatusOK {
		t.Fatalf("POST update-gst status = %d body = %s", rec.Code, rec.Body)
	}

	rec := do(e, http.MethodGet, "/api/rates", "", "")
	var got ratesResponse
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.GST != 5 || got.GSTDefaulted {
		t.Errorf("gst = %v defaulted = %v want 5 false", got.GST, got.GSTDefaulted)
	}
	if !got.RateDefaulted || got.Gold22K != 6450 {
		t.Errorf("rate = %v defaulted = %v want untouched default", got.Gold22K, got.RateDefaulted)
	}
}

func TestHistory(t *testing.T) {
	e := newTestServer(t)
	for _, body := range []string{`{"gold_22k":6400,"silver":77}`, `{"gold_22k":6450,"silver":78}`} {
		do(e, http.MethodPost, "/api/admin/update-rates", echo.MIMEApplicationJSON, body)
	}

	rec := do(e, http.MethodGet, "/api/admin/rates/history?limit=1", "", "")
	var got struct {
		Rates []snapshotResponse `json:"rates"`
		GST   []taxResponse      `json:"gst"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Rates) != 1 || got.Rates[0].Gold22K != 6450 {
		t.Errorf("history rates = %+v want newest only (6450)", got.Rates)
	}
	if len(got.GST) != 0 {
		t.Errorf("history gst = %+v want empty", got.GST)
	}

	rec = do(e, http.MethodGet, "/api/admin/rates/history.csv", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET history.csv status = %d", rec.Code)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d want header + 2 rows:\n%s", len(lines), rec.Body)
	}
	if !strings.HasPrefix(lines[0], "id,seq,gold_22k,silver,recorded_at") {
		t.Errorf("csv header = %q", lines[0])
	}
	if !strings.Contains(lines[1], ",6450,78,") {
		t.Errorf("csv first row = %q want newest snapshot", lines[1])
	}
}
