package usecase

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/pricing"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate/dto"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type rateUseCase struct {
	repo     rate.Repository
	node     *snowflake.Node
	defaults dto.Defaults
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewRateUseCase(repo rate.Repository, node *snowflake.Node, defaults dto.Defaults, log logger.ZapLogger) rate.UseCase {
	return &rateUseCase{
		repo:     repo,
		node:     node,
		defaults: defaults,
		logger:   log,
		now:      time.Now,
	}
}

// stamp returns the recording time and the tie-break sequence for a new entry.
// Times are kept at microsecond precision so they survive a database round trip.
func (uc *rateUseCase) stamp() (time.Time, int64) {
	return uc.now().UTC().Truncate(time.Microsecond), uc.node.Generate().Int64()
}

func (uc *rateUseCase) AppendRate(ctx context.Context, gold22K, silver decimal.Decimal) (*model.RateSnapshot, error) {
	if err := pricing.NonNegative("gold_22k", gold22K); err != nil {
		return nil, err
	}
	if err := pricing.NonNegative("silver", silver); err != nil {
		return nil, err
	}

	at, seq := uc.stamp()
	s := &model.RateSnapshot{
		ID:         uuid.New().String(),
		Seq:        seq,
		Gold22K:    gold22K,
		Silver:     silver,
		RecordedAt: at,
	}
	if err := uc.repo.AppendRate(ctx, s); err != nil {
		return nil, err
	}

	uc.logger.Info("rate appended",
		zap.String("id", s.ID),
		zap.String("gold_22k", s.Gold22K.String()),
		zap.String("silver", s.Silver.String()),
	)
	return s, nil
}

func (uc *rateUseCase) AppendTax(ctx context.Context, percentage decimal.Decimal) (*model.TaxSetting, error) {
	if err := pricing.NonNegative("gst_percentage", percentage); err != nil {
		return nil, err
	}

	at, seq := uc.stamp()
	s := &model.TaxSetting{
		ID:         uuid.New().String(),
		Seq:        seq,
		Percentage: percentage,
		RecordedAt: at,
	}
	if err := uc.repo.AppendTax(ctx, s); err != nil {
		return nil, err
	}

	uc.logger.Info("tax appended", zap.String("id", s.ID), zap.String("percentage", s.Percentage.String()))
	return s, nil
}

func (uc *rateUseCase) RecordRate(ctx context.Context, input *dto.RecordRateInput) (*model.RateSnapshot, error) {
	gold, err := pricing.ParseDecimal("gold_22k", input.Gold22K)
	if err != nil {
		return nil, err
	}
	silver, err := pricing.ParseDecimal("silver", input.Silver)
	if err != nil {
		return nil, err
	}
	return uc.AppendRate(ctx, gold, silver)
}

func (uc *rateUseCase) RecordTax(ctx context.Context, input *dto.RecordTaxInput) (*model.TaxSetting, error) {
	pct, err := pricing.ParseDecimal("gst_percentage", input.Percentage)
	if err != nil {
		return nil, err
	}
	return uc.AppendTax(ctx, pct)
}

func (uc *rateUseCase) CurrentRate(ctx context.Context) (*model.RateSnapshot, error) {
	return uc.repo.LatestRate(ctx)
}

func (uc *rateUseCase) CurrentTax(ctx context.Context) (*model.TaxSetting, error) {
	return uc.repo.LatestTax(ctx)
}

func (uc *rateUseCase) Resolve(ctx context.Context) (*dto.ResolvedRates, error) {
	current, err := uc.repo.LatestRate(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "resolve rate")
	}
	tax, err := uc.repo.LatestTax(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "resolve tax")
	}

	out := &dto.ResolvedRates{}
	if current != nil {
		at := current.RecordedAt
		out.Gold22K, out.Silver, out.RateRecordedAt = current.Gold22K, current.Silver, &at
	} else {
		out.Gold22K, out.Silver, out.RateDefaulted = uc.defaults.Gold22K, uc.defaults.Silver, true
	}
	if tax != nil {
		at := tax.RecordedAt
		out.GSTPercent, out.TaxRecordedAt = tax.Percentage, &at
	} else {
		out.GSTPercent, out.TaxDefaulted = uc.defaults.GSTPercent, true
	}
	return out, nil
}

func (uc *rateUseCase) RateHistory(ctx context.Context, filters *dto.HistoryFilters) ([]model.RateSnapshot, error) {
	return uc.repo.RateHistory(ctx, filters.Limit)
}

func (uc *rateUseCase) TaxHistory(ctx context.Context, filters *dto.HistoryFilters) ([]model.TaxSetting, error) {
	return uc.repo.TaxHistory(ctx, filters.Limit)
}

// ParseDefaults builds the fallback values from configuration text.
func ParseDefaults(gold22K, silver, gstPercent string) (dto.Defaults, error) {
	var d dto.Defaults
	var err error
	if d.Gold22K, err = pricing.ParseNonNegative("default gold rate", gold22K); err != nil {
		return d, err
	}
	if d.Silver, err = pricing.ParseNonNegative("default silver rate", silver); err != nil {
		return d, err
	}
	if d.GSTPercent, err = pricing.ParseNonNegative("default gst", gstPercent); err != nil {
		return d, err
	}
	return d, nil
}
