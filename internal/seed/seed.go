// Package seed fills an empty store with the shop's starting data.
package seed

import (
	"context"

	"github.com/fekuna/omnipos-jewellery-service/internal/category"
	catdto "github.com/fekuna/omnipos-jewellery-service/internal/category/dto"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate"
	ratedto "github.com/fekuna/omnipos-jewellery-service/internal/rate/dto"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var DefaultCategories = []catdto.CreateCategoryInput{
	{Name: "Ring", NameBN: "রিং"},
	{Name: "Chain", NameBN: "চেইন"},
	{Name: "Necklace", NameBN: "হার"},
	{Name: "Bangle", NameBN: "চুড়ি"},
	{Name: "Silver Items", NameBN: "সিলভার আইটেম"},
}

type Seeder struct {
	rates      rate.UseCase
	categories category.UseCase
	defaults   ratedto.Defaults
	logger     logger.ZapLogger
}

func NewSeeder(rates rate.UseCase, categories category.UseCase, defaults ratedto.Defaults, log logger.ZapLogger) *Seeder {
	return &Seeder{rates: rates, categories: categories, defaults: defaults, logger: log}
}

// Run only writes into empty ledgers and an empty category table, so it is
// safe on every boot.
func (s *Seeder) Run(ctx context.Context) error {
	current, err := s.rates.CurrentRate(ctx)
	if err != nil {
		return errors.Wrap(err, "seed rate")
	}
	if current == nil {
		if _, err := s.rates.AppendRate(ctx, s.defaults.Gold22K, s.defaults.Silver); err != nil {
			return errors.Wrap(err, "seed rate")
		}
	}

	tax, err := s.rates.CurrentTax(ctx)
	if err != nil {
		return errors.Wrap(err, "seed tax")
	}
	if tax == nil {
		if _, err := s.rates.AppendTax(ctx, s.defaults.GSTPercent); err != nil {
			return errors.Wrap(err, "seed tax")
		}
	}

	n, err := s.categories.CountCategories(ctx)
	if err != nil {
		return errors.Wrap(err, "seed categories")
	}
	if n > 0 {
		return nil
	}
	for i := range DefaultCategories {
		in := DefaultCategories[i]
		if _, err := s.categories.CreateCategory(ctx, &in); err != nil {
			return errors.Wrapf(err, "seed category %s", in.Name)
		}
	}
	s.logger.Info("default data seeded", zap.Int("categories", len(DefaultCategories)))
	return nil
}
