package auth

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	sessionName = "jewellery_admin"
	adminKey    = "admin_logged_in"
)

func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	ok, _ := sess.Values[adminKey].(bool)
	return ok
}

// StartSession marks the caller's session as an authenticated admin.
func StartSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[adminKey] = true
	return sess.Save(c.Request(), c.Response())
}

func EndSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	delete(sess.Values, adminKey)
	if sess.Options != nil {
		sess.Options.MaxAge = -1
	}
	return sess.Save(c.Request(), c.Response())
}

// RequireAdmin rejects requests without an admin session.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
		return next(c)
	}
}
