package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults are used only while the matching ledger has no entry.
type Defaults struct {
	Gold22K    decimal.Decimal
	Silver     decimal.Decimal
	GSTPercent decimal.Decimal
}

type ResolvedRates struct {
	Gold22K    decimal.Decimal
	Silver     decimal.Decimal
	GSTPercent decimal.Decimal

	RateRecordedAt *time.Time // nil when defaulted
	TaxRecordedAt  *time.Time
	RateDefaulted  bool
	TaxDefaulted   bool
}

type HistoryFilters struct {
	Limit int
}
