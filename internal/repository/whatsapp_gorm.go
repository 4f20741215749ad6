package repository

import (
	"context"
	"time"

	"github.com/abdul977/muahibstores/internal/model"
	"github.com/abdul977/muahibstores/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormWhatsAppRepository struct {
	db *gorm.DB
}

// NewWhatsAppNumberRepository returns a postgres backed WhatsAppNumberRepository
func NewWhatsAppNumberRepository(db *gorm.DB) WhatsAppNumberRepository {
	return &gormWhatsAppRepository{db: db}
}

func (r *gormWhatsAppRepository) ExistsSince(ctx context.Context, number string, since time.Time) (bool, error) {
	defer metrics.TrackDBOperation("whatsapp_exists")(time.Now())

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WhatsAppNumber{}).
		Where("whatsapp_number = ? AND created_at >= ?", number, since).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormWhatsAppRepository) Insert(ctx context.Context, row *model.WhatsAppNumber) error {
	defer metrics.TrackDBOperation("whatsapp_insert")(time.Now())
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *gormWhatsAppRepository) filtered(ctx context.Context, f WhatsAppFilters) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.WhatsAppNumber{})
	if f.DateFrom != nil {
		query = query.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("created_at <= ?", *f.DateTo)
	}
	if f.SourcePage != "" {
		query = query.Where("source_page = ?", f.SourcePage)
	}
	if f.DeviceType != "" {
		query = query.Where("device_type = ?", f.DeviceType)
	}
	if f.Search != "" {
		like := containsPattern(f.Search)
		query = query.Where("whatsapp_number ILIKE ? OR source_page ILIKE ?", like, like)
	}
	return query
}

func (r *gormWhatsAppRepository) List(ctx context.Context, f WhatsAppFilters) ([]model.WhatsAppNumber, int64, error) {
	defer metrics.TrackDBOperation("whatsapp_list")(time.Now())

	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.filtered(ctx, f).Order("created_at DESC")
	offset, limit := f.window()
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.WhatsAppNumber
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *gormWhatsAppRepository) Count(ctx context.Context, q WhatsAppCountQuery) (int64, error) {
	defer metrics.TrackDBOperation("whatsapp_count")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.WhatsAppNumber{})
	if q.Since != nil {
		query = query.Where("created_at >= ?", *q.Since)
	}
	if q.MobileOnly {
		query = query.Where("is_mobile = ?", true)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gormWhatsAppRepository) SourcePages(ctx context.Context, limit int) ([]string, error) {
	defer metrics.TrackDBOperation("whatsapp_sources")(time.Now())

	var pages []string
	err := r.db.WithContext(ctx).
		Model(&model.WhatsAppNumber{}).
		Order("created_at DESC").
		Limit(limit).
		Pluck("source_page", &pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *gormWhatsAppRepository) Delete(ctx context.Context, id string) (bool, error) {
	// ids are uuids; anything else cannot match a row
	rowID, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	defer metrics.TrackDBOperation("whatsapp_delete")(time.Now())

	result := r.db.WithContext(ctx).Where("id = ?", rowID).Delete(&model.WhatsAppNumber{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
