package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abdul977/muahibstores/internal/model"
)

// MemoryWhatsAppRepository keeps captured numbers in process memory
type MemoryWhatsAppRepository struct {
	mu   sync.RWMutex
	rows []model.WhatsAppNumber
	now  func() time.Time
}

// NewMemoryWhatsAppRepository returns an empty in-memory lead store
func NewMemoryWhatsAppRepository() *MemoryWhatsAppRepository {
	return &MemoryWhatsAppRepository{now: time.Now}
}

func (r *MemoryWhatsAppRepository) ExistsSince(ctx context.Context, number string, since time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.WhatsAppNumber == number && !row.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryWhatsAppRepository) Insert(ctx context.Context, row *model.WhatsAppNumber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row.EnsureID()
	now := r.now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	r.rows = append(r.rows, *row)
	return nil
}

// newestFirst returns a copy of the stored rows ordered by creation time, latest insert winning ties
func (r *MemoryWhatsAppRepository) newestFirst() []model.WhatsAppNumber {
	out := make([]model.WhatsAppNumber, len(r.rows))
	for i := range r.rows {
		out[len(r.rows)-1-i] = r.rows[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *MemoryWhatsAppRepository) List(ctx context.Context, f WhatsAppFilters) ([]model.WhatsAppNumber, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []model.WhatsAppNumber
	for _, row := range r.newestFirst() {
		if matchesWhatsAppFilters(&row, f) {
			matched = append(matched, row)
		}
	}
	total := int64(len(matched))

	offset, limit := f.window()
	if offset >= len(matched) {
		return []model.WhatsAppNumber{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func matchesWhatsAppFilters(row *model.WhatsAppNumber, f WhatsAppFilters) bool {
	if f.DateFrom != nil && row.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && row.CreatedAt.After(*f.DateTo) {
		return false
	}
	if f.SourcePage != "" && row.SourcePage != f.SourcePage {
		return false
	}
	if f.DeviceType != "" && row.DeviceType != f.DeviceType {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(row.WhatsAppNumber), needle) &&
			!strings.Contains(strings.ToLower(row.SourcePage), needle) {
			return false
		}
	}
	return true
}

func (r *MemoryWhatsAppRepository) Count(ctx context.Context, q WhatsAppCountQuery) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, row := range r.rows {
		if q.Since != nil && row.CreatedAt.Before(*q.Since) {
			continue
		}
		if q.MobileOnly && !row.IsMobile {
			continue
		}
		count++
	}
	return count, nil
}

func (r *MemoryWhatsAppRepository) SourcePages(ctx context.Context, limit int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.newestFirst()
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	pages := make([]string, len(rows))
	for i, row := range rows {
		pages[i] = row.SourcePage
	}
	return pages, nil
}

func (r *MemoryWhatsAppRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, row := range r.rows {
		if row.ID.String() == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
