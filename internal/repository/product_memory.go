package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abdul977/muahibstores/internal/model"
)

type memoryProduct struct {
	row model.Product
	seq int
}

// MemoryProductRepository keeps product rows in process memory.
// Used with STORE_DRIVER=memory and in tests.
type MemoryProductRepository struct {
	mu   sync.RWMutex
	rows map[string]*memoryProduct
	seq  int
	now  func() time.Time
}

// NewMemoryProductRepository returns an empty in-memory product store
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		rows: make(map[string]*memoryProduct),
		now:  time.Now,
	}
}

func (r *MemoryProductRepository) List(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*memoryProduct, 0, len(r.rows))
	for _, p := range r.rows {
		if matchesProductQuery(&p.row, q) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.row.CreatedAt.Equal(b.row.CreatedAt) {
			return a.row.CreatedAt.After(b.row.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]model.Product, len(matched))
	for i, p := range matched {
		out[i] = cloneProduct(p.row)
	}
	return out, nil
}

func matchesProductQuery(row *model.Product, q ProductQuery) bool {
	if q.VisibleOnly && row.IsHidden {
		return false
	}
	if q.FeaturedOnly && !row.IsFeatured {
		return false
	}
	if q.Category != "" && row.Category != q.Category {
		return false
	}
	if q.Search != "" {
		nameMatch := strings.Contains(strings.ToLower(row.Name), strings.ToLower(q.Search))
		featureMatch := slices.ContainsFunc(row.Features, func(f string) bool {
			return strings.EqualFold(f, q.Search)
		})
		if !nameMatch && !featureMatch {
			return false
		}
	}
	return true
}

func (r *MemoryProductRepository) FindByOriginalID(ctx context.Context, originalID string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.rows[originalID]
	if !ok {
		return nil, nil
	}
	row := cloneProduct(p.row)
	return &row, nil
}

func (r *MemoryProductRepository) Categories(ctx context.Context, visibleOnly bool) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range r.rows {
		if visibleOnly && p.row.IsHidden {
			continue
		}
		if _, ok := seen[p.row.Category]; ok {
			continue
		}
		seen[p.row.Category] = struct{}{}
		categories = append(categories, p.row.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *MemoryProductRepository) Create(ctx context.Context, row *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row.EnsureID()
	key := row.BusinessID()
	if _, exists := r.rows[key]; exists {
		return fmt.Errorf("product %s: %w", key, ErrDuplicate)
	}
	now := r.now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	r.seq++
	r.rows[key] = &memoryProduct{row: cloneProduct(*row), seq: r.seq}
	return nil
}

func (r *MemoryProductRepository) Save(ctx context.Context, row *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := row.BusinessID()
	existing, ok := r.rows[key]
	if !ok {
		return fmt.Errorf("product %s not found", key)
	}
	row.UpdatedAt = r.now()
	existing.row = cloneProduct(*row)
	return nil
}

func (r *MemoryProductRepository) Delete(ctx context.Context, originalID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[originalID]; !ok {
		return false, nil
	}
	delete(r.rows, originalID)
	return true, nil
}

func (r *MemoryProductRepository) SetHidden(ctx context.Context, originalIDs []string, hidden bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	now := r.now()
	for _, id := range originalIDs {
		if p, ok := r.rows[id]; ok {
			p.row.IsHidden = hidden
			p.row.UpdatedAt = now
			affected++
		}
	}
	return affected, nil
}

// cloneProduct copies the slice columns so callers cannot mutate stored rows
func cloneProduct(row model.Product) model.Product {
	row.ImageURLs = slices.Clone(row.ImageURLs)
	row.VideoURLs = slices.Clone(row.VideoURLs)
	row.OrderedMedia = slices.Clone(row.OrderedMedia)
	row.Features = slices.Clone(row.Features)
	return row
}
