package httpapi

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const MaxPageSize = 100

var ErrInvalidPage = errors.New("invalid pagination")

// Pagination reads page and page_size. A zero page_size lists everything;
// larger sizes are capped at MaxPageSize.
func Pagination(c echo.Context) (page, pageSize int, err error) {
	if page, err = queryInt(c, "page"); err != nil {
		return 0, 0, err
	}
	if pageSize, err = queryInt(c, "page_size"); err != nil {
		return 0, 0, err
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if pageSize > 0 && page > 1 && page-1 > math.MaxInt/pageSize {
		return 0, 0, errors.Wrapf(ErrInvalidPage, "page %d is out of range", page)
	}
	return page, pageSize, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.Wrapf(ErrInvalidPage, "%s must be a non-negative integer", name)
	}
	return n, nil
}
