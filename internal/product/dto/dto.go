package dto

import (
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/pricing"
)

type ProductFilters struct {
	CategoryID  string
	StockStatus string
	SearchQuery string // matches name or name_bn
	SortBy      string // name, weight, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}

type PricedProduct struct {
	model.Product
	Quote          pricing.Quote
	PriceDisplay   string
	PriceDisplayBN string
	RateDefaulted  bool
	TaxDefaulted   bool
}
