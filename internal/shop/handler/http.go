package handler

import (
	"github.com/fekuna/omnipos-jewellery-service/internal/httpapi"
	"github.com/fekuna/omnipos-jewellery-service/internal/shop"
	"github.com/labstack/echo/v4"
)

type ShopHandler struct {
	info shop.Info
}

func NewShopHandler(info shop.Info) *ShopHandler {
	return &ShopHandler{info: info}
}

func (h *ShopHandler) RegisterRoutes(public *echo.Group) {
	public.GET("/shop", h.GetShop)
}

type shopResponse struct {
	Name        string `json:"name"`
	Area        string `json:"area"`
	Phone       string `json:"phone"`
	WhatsApp    string `json:"whatsapp"`
	WhatsAppURL string `json:"whatsapp_url,omitempty"`
}

func (h *ShopHandler) GetShop(c echo.Context) error {
	return httpapi.OK(c, shopResponse{
		Name:        h.info.Name,
		Area:        h.info.Area,
		Phone:       h.info.Phone,
		WhatsApp:    h.info.WhatsApp,
		WhatsAppURL: h.info.WhatsAppURL(),
	})
}
