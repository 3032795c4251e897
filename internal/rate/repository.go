package rate

import (
	"context"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
)

// Repository persists the two append-only ledgers. Entries are never updated
// or deleted. Latest* return nil, nil while a ledger is empty.
type Repository interface {
	AppendRate(ctx context.Context, snapshot *model.RateSnapshot) error
	AppendTax(ctx context.Context, setting *model.TaxSetting) error

	LatestRate(ctx context.Context) (*model.RateSnapshot, error)
	LatestTax(ctx context.Context) (*model.TaxSetting, error)

	// Newest first. limit <= 0 returns the whole ledger.
	RateHistory(ctx context.Context, limit int) ([]model.RateSnapshot, error)
	TaxHistory(ctx context.Context, limit int) ([]model.TaxSetting, error)
}
