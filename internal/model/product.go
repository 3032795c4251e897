package model

import (
	"database/sql/driver"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const MaxProductImages = 3

const (
	StockInStock    = "In Stock"
	StockOutOfStock = "Out of Stock"
	StockOnOrder    = "On Order"
)

// ValidStockStatus reports whether s is one of the known stock states.
func ValidStockStatus(s string) bool {
	switch s {
	case StockInStock, StockOutOfStock, StockOnOrder:
		return true
	}
	return false
}

type Product struct {
	BaseModel
	Name          string          `db:"name" json:"name"`
	NameBN        string          `db:"name_bn" json:"name_bn"`
	Description   *string         `db:"description" json:"description"`
	DescriptionBN *string         `db:"description_bn" json:"description_bn"`
	CategoryID    string          `db:"category_id" json:"category_id"`
	Purity        string          `db:"purity" json:"purity"` // 22K, 18K, ...
	Weight        decimal.Decimal `db:"weight" json:"weight"` // grams
	MakingCharge  decimal.Decimal `db:"making_charge" json:"making_charge"`
	StockStatus   string          `db:"stock_status" json:"stock_status"`
	Images        ImagePaths      `db:"images" json:"images"`
}

// ImagePaths is stored as a comma separated column.
type ImagePaths []string

func (p ImagePaths) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return strings.Join(p, ","), nil
}

func (p *ImagePaths) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return errors.Errorf("images: cannot scan %T", src)
	}

	out := ImagePaths{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*p = out
	return nil
}
