package rate

import (
	"context"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate/dto"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	AppendRate(ctx context.Context, gold22K, silver decimal.Decimal) (*model.RateSnapshot, error)
	AppendTax(ctx context.Context, percentage decimal.Decimal) (*model.TaxSetting, error)

	// RecordRate and RecordTax parse operator input, then append.
	RecordRate(ctx context.Context, input *dto.RecordRateInput) (*model.RateSnapshot, error)
	RecordTax(ctx context.Context, input *dto.RecordTaxInput) (*model.TaxSetting, error)

	// CurrentRate and CurrentTax return nil, nil for an empty ledger.
	CurrentRate(ctx context.Context) (*model.RateSnapshot, error)
	CurrentTax(ctx context.Context) (*model.TaxSetting, error)

	// Resolve returns the current values with configured defaults filled in.
	Resolve(ctx context.Context) (*dto.ResolvedRates, error)

	RateHistory(ctx context.Context, filters *dto.HistoryFilters) ([]model.RateSnapshot, error)
	TaxHistory(ctx context.Context, filters *dto.HistoryFilters) ([]model.TaxSetting, error)
}
