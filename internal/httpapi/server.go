package httpapi

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Config struct {
	SessionSecret string
	SessionSecure bool
	SessionMaxAge int
	BodyLimit     string // e.g. "50M"
	StaticPrefix  string // URL prefix serving uploaded files
	StaticDir     string
}

// Router exposes the two route groups handlers register on.
type Router struct {
	Echo   *echo.Echo
	Public *echo.Group // /api
	Admin  *echo.Group // /api/admin, gate added by the caller
}

func NewServer(cfg Config, log logger.ZapLogger) *Router {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(log))
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	if cfg.StaticDir != "" {
		e.Static(cfg.StaticPrefix, cfg.StaticDir)
	}

	e.GET("/healthz", func(c echo.Context) error {
		return OK(c, map[string]string{"status": "ok"})
	})

	return &Router{
		Echo:   e,
		Public: e.Group("/api"),
		Admin:  e.Group("/api/admin"),
	}
}

func requestLogger(log logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			log.Debug("http request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return nil
		}
	}
}

func errorHandler(log logger.ZapLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if he, ok := err.(*echo.HTTPError); ok {
			msg := http.StatusText(he.Code)
			if s, ok := he.Message.(string); ok {
				msg = s
			}
			_ = Fail(c, he.Code, "HTTP_ERROR", msg, nil)
			return
		}
		log.Error("unhandled request error", zap.Error(err), zap.String("path", c.Request().URL.Path))
		_ = Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
