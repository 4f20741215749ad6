package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abdul977/muahibstores/internal/model"
)

// ErrDuplicate is returned when a row with the same business key already exists
var ErrDuplicate = errors.New("duplicate key")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term as a literal substring
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// ProductQuery narrows a product listing. Zero values disable a filter.
type ProductQuery struct {
	VisibleOnly  bool
	FeaturedOnly bool
	Category     string
	// Search matches a name substring or a whole feature entry, ignoring case
	Search string
}

// ProductRepository persists product rows keyed by their original id.
// Listings are ordered newest first.
type ProductRepository interface {
	List(ctx context.Context, q ProductQuery) ([]model.Product, error)
	// FindByOriginalID returns nil, nil when no row matches
	FindByOriginalID(ctx context.Context, originalID string) (*model.Product, error)
	// Categories lists distinct categories, optionally of visible rows only
	Categories(ctx context.Context, visibleOnly bool) ([]string, error)
	Create(ctx context.Context, row *model.Product) error
	Save(ctx context.Context, row *model.Product) error
	// Delete reports whether a row was removed
	Delete(ctx context.Context, originalID string) (bool, error)
	SetHidden(ctx context.Context, originalIDs []string, hidden bool) (int64, error)
}

// WhatsAppFilters narrows an admin listing of captured numbers
type WhatsAppFilters struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	SourcePage string
	DeviceType string
	Search     string
	// Offset takes precedence over Limit; with an offset the page size defaults to 50
	Limit  int
	Offset int
}

// DefaultPageSize is the page size applied when an offset is given without a limit
const DefaultPageSize = 50

// window resolves the offset and limit to apply. A zero limit means unbounded.
func (f WhatsAppFilters) window() (offset, limit int) {
	if f.Offset > 0 {
		limit = f.Limit
		if limit <= 0 {
			limit = DefaultPageSize
		}
		return f.Offset, limit
	}
	if f.Limit > 0 {
		return 0, f.Limit
	}
	return 0, 0
}

// WhatsAppCountQuery narrows a count of captured numbers
type WhatsAppCountQuery struct {
	Since      *time.Time
	MobileOnly bool
}

// WhatsAppNumberRepository persists captured leads, newest first
type WhatsAppNumberRepository interface {
	ExistsSince(ctx context.Context, number string, since time.Time) (bool, error)
	Insert(ctx context.Context, row *model.WhatsAppNumber) error
	// List returns the requested page and the number of rows matching the filters
	List(ctx context.Context, f WhatsAppFilters) ([]model.WhatsAppNumber, int64, error)
	Count(ctx context.Context, q WhatsAppCountQuery) (int64, error)
	SourcePages(ctx context.Context, limit int) ([]string, error)
	Delete(ctx context.Context, id string) (bool, error)
}
