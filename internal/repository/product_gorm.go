package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdul977/muahibstores/internal/model"
	"github.com/abdul977/muahibstores/pkg/metrics"
	"gorm.io/gorm"
)

type gormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository returns a postgres backed ProductRepository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

func (r *gormProductRepository) List(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	defer metrics.TrackDBOperation("product_list")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.Product{})
	if q.VisibleOnly {
		query = query.Where("is_hidden = ?", false)
	}
	if q.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Search != "" {
		query = query.Where(
			"name ILIKE ? OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(features) AS f(value) WHERE lower(f.value) = lower(?))",
			containsPattern(q.Search), q.Search,
		)
	}

	var rows []model.Product
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormProductRepository) FindByOriginalID(ctx context.Context, originalID string) (*model.Product, error) {
	defer metrics.TrackDBOperation("product_get")(time.Now())

	var row model.Product
	err := r.db.WithContext(ctx).Where("original_id = ?", originalID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *gormProductRepository) Categories(ctx context.Context, visibleOnly bool) ([]string, error) {
	defer metrics.TrackDBOperation("product_categories")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.Product{})
	if visibleOnly {
		query = query.Where("is_hidden = ?", false)
	}

	var categories []string
	err := query.
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *gormProductRepository) Create(ctx context.Context, row *model.Product) error {
	defer metrics.TrackDBOperation("product_create")(time.Now())

	err := r.db.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("product %s: %w", row.BusinessID(), ErrDuplicate)
	}
	return err
}

func (r *gormProductRepository) Save(ctx context.Context, row *model.Product) error {
	defer metrics.TrackDBOperation("product_update")(time.Now())
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *gormProductRepository) Delete(ctx context.Context, originalID string) (bool, error) {
	defer metrics.TrackDBOperation("product_delete")(time.Now())

	result := r.db.WithContext(ctx).Where("original_id = ?", originalID).Delete(&model.Product{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormProductRepository) SetHidden(ctx context.Context, originalIDs []string, hidden bool) (int64, error) {
	defer metrics.TrackDBOperation("product_visibility")(time.Now())

	if len(originalIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("original_id IN ?", originalIDs).
		Update("is_hidden", hidden)
	return result.RowsAffected, result.Error
}
