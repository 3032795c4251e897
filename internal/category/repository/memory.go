package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fekuna/omnipos-jewellery-service/internal/category/dto"
	"github.com/fekuna/omnipos-jewellery-service/internal/model"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]model.Category
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: map[string]model.Category{}}
}

func (r *MemoryRepository) Create(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = *c
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryRepository) FindAll(_ context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	r.mu.RLock()
	out := make([]model.Category, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	total := len(out)
	if f != nil && f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := total
		if page-1 < (total+f.PageSize-1)/f.PageSize {
			start = (page - 1) * f.PageSize
		}
		out = out[start:min(start+f.PageSize, total)]
	}
	return out, total, nil
}

func (r *MemoryRepository) Update(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[c.ID]; ok {
		r.rows[c.ID] = *c
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows), nil
}
