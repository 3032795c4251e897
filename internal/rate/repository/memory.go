package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
)

// appendLog keeps entries sorted by (time, seq) so the latest is always last.
type appendLog[T any] struct {
	items []T
	key   func(T) (time.Time, int64)
}

func (l *appendLog[T]) cmp(a, b T) int {
	ta, sa := l.key(a)
	tb, sb := l.key(b)
	if c := ta.Compare(tb); c != 0 {
		return c
	}
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func (l *appendLog[T]) append(v T) {
	n := len(l.items)
	if n == 0 || l.cmp(l.items[n-1], v) <= 0 {
		l.items = append(l.items, v)
		return
	}
	// Out of order clock: insert after every entry that does not sort after v.
	i, _ := slices.BinarySearchFunc(l.items, v, func(e, t T) int {
		if l.cmp(e, t) <= 0 {
			return -1
		}
		return 1
	})
	l.items = slices.Insert(l.items, i, v)
}

func (l *appendLog[T]) latest() (T, bool) {
	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	return l.items[len(l.items)-1], true
}

func (l *appendLog[T]) newestFirst(limit int) []T {
	n := len(l.items)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]T, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.items[i])
	}
	return out
}

// MemoryRepository is an in-process ledger used by the memory driver and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	rates appendLog[model.RateSnapshot]
	taxes appendLog[model.TaxSetting]
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rates: appendLog[model.RateSnapshot]{key: func(s model.RateSnapshot) (time.Time, int64) { return s.RecordedAt, s.Seq }},
		taxes: appendLog[model.TaxSetting]{key: func(s model.TaxSetting) (time.Time, int64) { return s.RecordedAt, s.Seq }},
	}
}

func (r *MemoryRepository) AppendRate(_ context.Context, s *model.RateSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates.append(*s)
	return nil
}

func (r *MemoryRepository) AppendTax(_ context.Context, s *model.TaxSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.taxes.append(*s)
	return nil
}

func (r *MemoryRepository) LatestRate(_ context.Context) (*model.RateSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.rates.latest()
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *MemoryRepository) LatestTax(_ context.Context) (*model.TaxSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.taxes.latest()
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *MemoryRepository) RateHistory(_ context.Context, limit int) ([]model.RateSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rates.newestFirst(limit), nil
}

func (r *MemoryRepository) TaxHistory(_ context.Context, limit int) ([]model.TaxSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.taxes.newestFirst(limit), nil
}
