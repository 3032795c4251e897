package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

type pageBody struct {
	Data     interface{} `json:"data"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// OK writes data as the JSON body.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// Fail writes the error envelope used by every endpoint.
func Fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, errorBody{Code: code, Message: message, Detail: detail})
}

func Paged(c echo.Context, data interface{}, total, page, pageSize int) error {
	return c.JSON(http.StatusOK, pageBody{Data: data, Total: total, Page: page, PageSize: pageSize})
}
