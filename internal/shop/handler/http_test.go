package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-jewellery-service/internal/shop"
	"github.com/labstack/echo/v4"
)

func TestGetShop(t *testing.T) {
	testCases := []struct {
		name    string
		info    shop.Info
		wantURL string
	}{
		{
			name:    "full",
			info:    shop.Info{Name: "মানালী জুয়েলার্স", Area: "কুথানগর, নজিরা", Phone: "+919876543210", WhatsApp: "919876543210"},
			wantURL: "https://wa.me/919876543210",
		},
		{name: "plus prefixed", info: shop.Info{Name: "Shop", WhatsApp: "+15550100"}, wantURL: "https://wa.me/15550100"},
		{name: "no whatsapp", info: shop.Info{Name: "Shop"}, wantURL: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			NewShopHandler(tc.info).RegisterRoutes(e.Group("/api"))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shop", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("GET /api/shop status = %d want 200", rec.Code)
			}
			var got shopResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if got.Name != tc.info.Name || got.Area != tc.info.Area || got.Phone != tc.info.Phone {
				t.Errorf("GET /api/shop = %+v want %+v", got, tc.info)
			}
			if got.WhatsAppURL != tc.wantURL {
				t.Errorf("whatsapp_url = %q want %q", got.WhatsAppURL, tc.wantURL)
			}
		})
	}
}
