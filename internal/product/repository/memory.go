package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fekuna/omnipos-jewellery-service/internal/model"
	"github.com/fekuna/omnipos-jewellery-service/internal/product/dto"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]model.Product
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: map[string]model.Product{}}
}

func clone(p model.Product) model.Product {
	p.Images = append(model.ImagePaths(nil), p.Images...)
	return p
}

func (r *MemoryRepository) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ID] = clone(*p)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	p = clone(p)
	return &p, nil
}

func matches(p model.Product, f *dto.ProductFilters) bool {
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.StockStatus != "" && p.StockStatus != f.StockStatus {
		return false
	}
	if q := strings.ToLower(f.SearchQuery); q != "" {
		return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(p.NameBN, f.SearchQuery)
	}
	return true
}

func (r *MemoryRepository) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	if f == nil {
		f = &dto.ProductFilters{}
	}
	r.mu.RLock()
	out := []model.Product{}
	for _, p := range r.rows {
		if matches(p, f) {
			out = append(out, clone(p))
		}
	}
	r.mu.RUnlock()

	compare := func(a, b model.Product) int {
		switch f.SortBy {
		case "name":
			return strings.Compare(a.Name, b.Name)
		case "weight":
			return a.Weight.Cmp(b.Weight)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	desc := strings.ToLower(f.SortOrder) == "desc"
	sort.Slice(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})

	total := len(out)
	if f.PageSize > 0 {
		// Pages past the end are empty; the offset is only computed when it fits.
		start, page := total, max(f.Page, 1)
		if page-1 < (total+f.PageSize-1)/f.PageSize {
			start = (page - 1) * f.PageSize
		}
		out = out[start:min(start+f.PageSize, total)]
	}
	return out, total, nil
}

func (r *MemoryRepository) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[p.ID]; ok {
		r.rows[p.ID] = clone(*p)
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

func (r *MemoryRepository) FindByCategory(_ context.Context, categoryID string) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Product{}
	for _, p := range r.rows {
		if p.CategoryID == categoryID {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

func (r *MemoryRepository) DeleteByCategory(_ context.Context, categoryID string) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := []model.Product{}
	for id, p := range r.rows {
		if p.CategoryID == categoryID {
			removed = append(removed, p)
			delete(r.rows, id)
		}
	}
	return removed, nil
}
