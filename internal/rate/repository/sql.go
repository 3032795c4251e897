package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// SQLRepository stores the ledgers in gold_rates and gst. Rows are only ever
// inserted; the current entry is the one with the greatest (recorded_at, seq).
type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) AppendRate(ctx context.Context, s *model.RateSnapshot) error {
	query := `
        INSERT INTO gold_rates (id, seq, gold_22k, silver, recorded_at)
        VALUES (:id, :seq, :gold_22k, :silver, :recorded_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return errors.Wrap(err, "insert gold rate")
}

func (r *SQLRepository) AppendTax(ctx context.Context, s *model.TaxSetting) error {
	query := `
        INSERT INTO gst (id, seq, percentage, recorded_at)
        VALUES (:id, :seq, :percentage, :recorded_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return errors.Wrap(err, "insert gst")
}

func (r *SQLRepository) LatestRate(ctx context.Context) (*model.RateSnapshot, error) {
	var s model.RateSnapshot
	query := `SELECT id, seq, gold_22k, silver, recorded_at FROM gold_rates ORDER BY recorded_at DESC, seq DESC LIMIT 1`
	err := r.DB.GetContext(ctx, &s, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select latest gold rate")
	}
	return &s, nil
}

func (r *SQLRepository) LatestTax(ctx context.Context) (*model.TaxSetting, error) {
	var s model.TaxSetting
	query := `SELECT id, seq, percentage, recorded_at FROM gst ORDER BY recorded_at DESC, seq DESC LIMIT 1`
	err := r.DB.GetContext(ctx, &s, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select latest gst")
	}
	return &s, nil
}

func (r *SQLRepository) RateHistory(ctx context.Context, limit int) ([]model.RateSnapshot, error) {
	items := []model.RateSnapshot{}
	query := "SELECT id, seq, gold_22k, silver, recorded_at FROM gold_rates ORDER BY recorded_at DESC, seq DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	err := r.DB.SelectContext(ctx, &items, query)
	return items, errors.Wrap(err, "select gold rate history")
}

func (r *SQLRepository) TaxHistory(ctx context.Context, limit int) ([]model.TaxSetting, error) {
	items := []model.TaxSetting{}
	query := "SELECT id, seq, percentage, recorded_at FROM gst ORDER BY recorded_at DESC, seq DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	err := r.DB.SelectContext(ctx, &items, query)
	return items, errors.Wrap(err, "select gst history")
}
