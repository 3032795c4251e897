package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/shopspring/decimal"
)

var t0 = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

func snapshot(id string, seq int64, at time.Time, gold int64) *model.RateSnapshot {
	return &model.RateSnapshot{ID: id, Seq: seq, Gold22K: decimal.NewFromInt(gold), Silver: decimal.NewFromInt(78), RecordedAt: at}
}

func TestMemoryRepository_LatestRate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	got, err := repo.LatestRate(ctx)
	if err != nil || got != nil {
		t.Fatalf("LatestRate() on empty ledger = %v, %v want nil, nil", got, err)
	}

	testCases := []struct {
		name   string
		append *model.RateSnapshot
		wantID string
	}{
		{name: "first", append: snapshot("A", 1, t0, 6400), wantID: "A"},
		{name: "later", append: snapshot("B", 2, t0.Add(time.Minute), 6450), wantID: "B"},
		{name: "same instant higher seq wins", append: snapshot("C", 3, t0.Add(time.Minute), 6500), wantID: "C"},
		{name: "late arriving older entry does not win", append: snapshot("D", 4, t0.Add(-time.Hour), 6000), wantID: "C"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := repo.AppendRate(ctx, tc.append); err != nil {
				t.Fatalf("AppendRate() error = %v", err)
			}
			got, err := repo.LatestRate(ctx)
			if err != nil {
				t.Fatalf("LatestRate() error = %v", err)
			}
			if got == nil || got.ID != tc.wantID {
				t.Errorf("LatestRate() = %v want %s", got, tc.wantID)
			}
		})
	}

	history, _ := repo.RateHistory(ctx, 0)
	wantOrder := []string{"C", "B", "A", "D"}
	if len(history) != len(wantOrder) {
		t.Fatalf("RateHistory() len = %d want %d", len(history), len(wantOrder))
	}
	for i, id := range wantOrder {
		if history[i].ID != id {
			t.Errorf("RateHistory()[%d] = %s want %s", i, history[i].ID, id)
		}
	}

	limited, _ := repo.RateHistory(ctx, 2)
	if len(limited) != 2 || limited[0].ID != "C" || limited[1].ID != "B" {
		t.Errorf("RateHistory(2) = %v want [C B]", limited)
	}
}

func TestMemoryRepository_LedgersAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	repo.AppendTax(ctx, &model.TaxSetting{ID: "T1", Seq: 1, Percentage: decimal.NewFromInt(3), RecordedAt: t0})
	if got, _ := repo.LatestRate(ctx); got != nil {
		t.Errorf("LatestRate() after AppendTax = %v want nil", got)
	}

	repo.AppendRate(ctx, snapshot("R1", 2, t0.Add(time.Second), 6450))
	tax, _ := repo.LatestTax(ctx)
	if tax == nil || tax.ID != "T1" {
		t.Errorf("LatestTax() after AppendRate = %v want T1", tax)
	}
}

func TestMemoryRepository_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(seq int64) {
			defer wg.Done()
			repo.AppendRate(ctx, snapshot("x", seq, t0, 6000+seq))
		}(int64(i))
	}
	wg.Wait()

	got, _ := repo.LatestRate(ctx)
	if got == nil || got.Seq != 50 {
		t.Errorf("LatestRate() after concurrent appends = %v want seq 50", got)
	}
	history, _ := repo.RateHistory(ctx, 0)
	if len(history) != 50 {
		t.Errorf("RateHistory() len = %d want 50", len(history))
	}
}
