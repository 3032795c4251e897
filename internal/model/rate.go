package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSnapshot is one immutable entry of the gold/silver rate ledger.
// Seq breaks ties between snapshots recorded at the same instant.
type RateSnapshot struct {
	ID         string          `db:"id" json:"id" csv:"id"`
	Seq        int64           `db:"seq" json:"seq" csv:"seq"`
	Gold22K    decimal.Decimal `db:"gold_22k" json:"gold_22k" csv:"gold_22k"`
	Silver     decimal.Decimal `db:"silver" json:"silver" csv:"silver"`
	RecordedAt time.Time       `db:"recorded_at" json:"recorded_at" csv:"recorded_at"`
}

// TaxSetting is one immutable entry of the GST ledger.
type TaxSetting struct {
	ID         string          `db:"id" json:"id" csv:"id"`
	Seq        int64           `db:"seq" json:"seq" csv:"seq"`
	Percentage decimal.Decimal `db:"percentage" json:"percentage" csv:"percentage"`
	RecordedAt time.Time       `db:"recorded_at" json:"recorded_at" csv:"recorded_at"`
}
