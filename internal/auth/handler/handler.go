package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-jewellery-service/internal/auth"
	"github.com/fekuna/omnipos-jewellery-service/internal/httpapi"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	verifier auth.Verifier
	throttle *auth.Throttle
	logger   logger.ZapLogger
}

func NewAuthHandler(verifier auth.Verifier, throttle *auth.Throttle, log logger.ZapLogger) *AuthHandler {
	return &AuthHandler{verifier: verifier, throttle: throttle, logger: log}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/admin/login", h.Login)
	e.POST("/admin/logout", h.Logout)
	e.GET("/admin/session", h.Session)
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	if !h.throttle.Allow(c.RealIP()) {
		return httpapi.Fail(c, http.StatusTooManyRequests, "THROTTLED", auth.ErrThrottled.Error(), nil)
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return httpapi.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	if err := h.verifier.Verify(req.Username, req.Password); err != nil {
		h.logger.Warn("admin login rejected", zap.String("ip", c.RealIP()))
		return httpapi.Fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}
	if err := auth.StartSession(c); err != nil {
		h.logger.Error("failed to start admin session", zap.Error(err))
		return httpapi.Fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to start session", nil)
	}

	h.logger.Info("admin logged in", zap.String("ip", c.RealIP()))
	return httpapi.OK(c, map[string]bool{"success": true})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := auth.EndSession(c); err != nil {
		h.logger.Error("failed to end admin session", zap.Error(err))
	}
	return httpapi.OK(c, map[string]bool{"success": true})
}

func (h *AuthHandler) Session(c echo.Context) error {
	return httpapi.OK(c, map[string]bool{"admin_logged_in": auth.IsAdmin(c)})
}
