package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abdul977/muahibstores/internal/media"
	"github.com/abdul977/muahibstores/internal/repository"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/abdul977/muahibstores/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by mutations whose target product does not exist
	ErrNotFound = errors.New("product not found")
	// ErrNoProductsSelected is returned by a bulk visibility change without ids
	ErrNoProductsSelected = errors.New("no products selected")
)

// MediaFiles is the stored-file side of the catalogue
type MediaFiles interface {
	// RemoveURL deletes the stored object behind a public URL.
	// URLs not served by the store are ignored.
	RemoveURL(ctx context.Context, url string) error
	CountFiles(ctx context.Context) (int, error)
}

// Service is the catalogue query and mutation layer
type Service struct {
	repo  repository.ProductRepository
	files MediaFiles
}

// NewService creates a catalogue service. files may be nil, in which case
// deleting a product leaves its media untouched.
func NewService(repo repository.ProductRepository, files MediaFiles) *Service {
	return &Service{repo: repo, files: files}
}

func (s *Service) list(ctx context.Context, q repository.ProductQuery, op string) ([]Product, error) {
	rows, err := s.repo.List(ctx, q)
	metrics.RecordProductOperation(op, err)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	products := make([]Product, len(rows))
	for i := range rows {
		products[i] = RowToProduct(&rows[i])
	}
	return products, nil
}

// GetAllProducts returns every product, hidden ones included, newest first
func (s *Service) GetAllProducts(ctx context.Context) ([]Product, error) {
	return s.list(ctx, repository.ProductQuery{}, "fetch products")
}

// GetVisibleProducts returns the products shown on public pages
func (s *Service) GetVisibleProducts(ctx context.Context) ([]Product, error) {
	return s.list(ctx, repository.ProductQuery{VisibleOnly: true}, "fetch visible products")
}

// GetProductByID returns nil, nil when no product has the given business id
func (s *Service) GetProductByID(ctx context.Context, id string) (*Product, error) {
	row, err := s.repo.FindByOriginalID(ctx, id)
	metrics.RecordProductOperation("fetch product", err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	p := RowToProduct(row)
	return &p, nil
}

func (s *Service) GetProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.list(ctx, repository.ProductQuery{Category: category}, "fetch products by category")
}

func (s *Service) GetVisibleProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.list(ctx, repository.ProductQuery{Category: category, VisibleOnly: true}, "fetch products by category")
}

// GetFeaturedProducts returns the visible featured products for the home page
func (s *Service) GetFeaturedProducts(ctx context.Context) ([]Product, error) {
	return s.list(ctx, repository.ProductQuery{FeaturedOnly: true, VisibleOnly: true}, "fetch featured products")
}

// SearchProducts matches a name substring or a whole feature, ignoring case
func (s *Service) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	return s.list(ctx, repository.ProductQuery{Search: query}, "search products")
}

// ListProducts combines the catalogue filters
func (s *Service) ListProducts(ctx context.Context, opts ListOptions) ([]Product, error) {
	return s.list(ctx, repository.ProductQuery{
		VisibleOnly:  !opts.IncludeHidden,
		FeaturedOnly: opts.FeaturedOnly,
		Category:     opts.Category,
		Search:       opts.Search,
	}, "fetch products")
}

// GetCategories returns the distinct categories across all products, in store order
func (s *Service) GetCategories(ctx context.Context) ([]string, error) {
	return s.categories(ctx, false)
}

// GetVisibleCategories only counts products shown on public pages
func (s *Service) GetVisibleCategories(ctx context.Context) ([]string, error) {
	return s.categories(ctx, true)
}

func (s *Service) categories(ctx context.Context, visibleOnly bool) ([]string, error) {
	categories, err := s.repo.Categories(ctx, visibleOnly)
	metrics.RecordProductOperation("fetch categories", err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// CreateProduct validates and stores a new product.
// An empty ID is replaced by one derived from the name.
func (s *Service) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	if err := ValidateProduct(&p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = generateProductID(p.Name)
	}

	row := ProductToRow(&p)
	err := s.repo.Create(ctx, &row)
	metrics.RecordProductOperation("create product", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.FromContext(ctx).Info("Product created",
		zap.String("product_id", p.ID),
		zap.String("category", p.Category))

	created := RowToProduct(&row)
	return &created, nil
}

// UpdateProduct applies a partial update. Media files no longer referenced are removed best-effort.
func (s *Service) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	row, err := s.repo.FindByOriginalID(ctx, id)
	if err != nil {
		metrics.RecordProductOperation("update product", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	before := mediaURLs(row)
	ApplyUpdate(row, &update)

	merged := RowToProduct(row)
	if err := ValidateUpdate(&update, &merged); err != nil {
		return nil, err
	}

	err = s.repo.Save(ctx, row)
	metrics.RecordProductOperation("update product", err)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if update.touchesMedia() {
		s.removeFiles(ctx, id, unreferenced(before, mediaURLs(row)))
	}

	updated := RowToProduct(row)
	return &updated, nil
}

// DeleteProduct removes the product, then its media files best-effort
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	row, err := s.repo.FindByOriginalID(ctx, id)
	if err != nil {
		metrics.RecordProductOperation("delete product", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if row == nil {
		return ErrNotFound
	}

	deleted, err := s.repo.Delete(ctx, id)
	metrics.RecordProductOperation("delete product", err)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	logger.FromContext(ctx).Info("Product deleted", zap.String("product_id", id))
	s.removeFiles(ctx, id, mediaURLs(row))
	return nil
}

// ToggleProductVisibility flips isHidden. Read and write are not atomic; last write wins.
func (s *Service) ToggleProductVisibility(ctx context.Context, id string) (*Product, error) {
	row, err := s.repo.FindByOriginalID(ctx, id)
	if err != nil {
		metrics.RecordProductOperation("toggle visibility", err)
		return nil, fmt.Errorf("failed to toggle product visibility: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	_, err = s.repo.SetHidden(ctx, []string{id}, !row.IsHidden)
	metrics.RecordProductOperation("toggle visibility", err)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle product visibility: %w", err)
	}

	row.IsHidden = !row.IsHidden
	p := RowToProduct(row)
	return &p, nil
}

// BulkToggleVisibility sets the same hidden state on every id. Unknown ids are ignored.
func (s *Service) BulkToggleVisibility(ctx context.Context, ids []string, hidden bool) error {
	if len(ids) == 0 {
		return ErrNoProductsSelected
	}

	affected, err := s.repo.SetHidden(ctx, ids, hidden)
	metrics.RecordProductOperation("bulk visibility", err)
	if err != nil {
		return fmt.Errorf("failed to update product visibility: %w", err)
	}

	logger.FromContext(ctx).Info("Bulk visibility updated",
		zap.Int("requested", len(ids)),
		zap.Int64("affected", affected),
		zap.Bool("hidden", hidden))
	return nil
}

// Stats counts products and media across the whole catalogue
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	products, err := s.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalProducts: len(products)}
	for i := range products {
		if products[i].IsHidden {
			stats.HiddenProducts++
		}
		for _, item := range products[i].AllMedia() {
			switch item.Type {
			case media.TypeImage:
				stats.TotalImages++
			case media.TypeVideo:
				stats.TotalVideos++
			case media.TypeYouTube:
				stats.TotalYouTube++
			}
		}
	}

	if s.files != nil {
		count, err := s.files.CountFiles(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count stored files: %w", err)
		}
		stats.StoredFiles = count
	}
	return stats, nil
}

// removeFiles deletes stored files. Failures are logged and dropped; orphaned files are accepted.
func (s *Service) removeFiles(ctx context.Context, productID string, urls []string) {
	if s.files == nil {
		return
	}
	log := logger.FromContext(ctx)
	for _, u := range urls {
		if err := s.files.RemoveURL(ctx, u); err != nil {
			log.Warn("Failed to delete media file",
				zap.String("product_id", productID),
				zap.String("url", u),
				zap.Error(err))
		}
	}
}

func unreferenced(before, after []string) []string {
	kept := make(map[string]struct{}, len(after))
	for _, u := range after {
		kept[u] = struct{}{}
	}
	var gone []string
	for _, u := range before {
		if _, ok := kept[u]; !ok {
			gone = append(gone, u)
		}
	}
	return gone
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// generateProductID builds a readable business id such as "i20-ultra-smartwatch-3f2a1c9e"
func generateProductID(name string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if len(slug) > 48 {
		slug = strings.TrimRight(slug[:48], "-")
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
