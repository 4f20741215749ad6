package model

import (
	"time"

	"github.com/abdul977/muahibstores/internal/media"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is the storage row of the products table.
// ID is storage-internal; OriginalID is the business key the application exposes.
type Product struct {
	ID            uuid.UUID                       `json:"id" gorm:"type:uuid;primaryKey"`
	OriginalID    *string                         `json:"original_id" gorm:"column:original_id;type:varchar(255);uniqueIndex"`
	Name          string                          `json:"name" gorm:"type:varchar(255);not null"`
	Price         float64                         `json:"price" gorm:"type:numeric(12,2);not null;check:price >= 0"`
	OriginalPrice *float64                        `json:"original_price" gorm:"column:original_price;type:numeric(12,2)"`
	ImageURL      *string                         `json:"image_url" gorm:"column:image_url;type:text"`
	ImageURLs     datatypes.JSONSlice[string]     `json:"image_urls" gorm:"column:image_urls;type:jsonb"`
	VideoURLs     datatypes.JSONSlice[string]     `json:"video_urls" gorm:"column:video_urls;type:jsonb"`
	OrderedMedia  datatypes.JSONSlice[media.Item] `json:"ordered_media" gorm:"column:ordered_media;type:jsonb"`
	Features      datatypes.JSONSlice[string]     `json:"features" gorm:"column:features;type:jsonb;not null"`
	Description   *string                         `json:"description" gorm:"column:description;type:text"`
	WhatsAppLink  string                          `json:"whatsapp_link" gorm:"column:whatsapp_link;type:text;not null"`
	Category      string                          `json:"category" gorm:"type:varchar(100);not null;index"`
	IsNew         bool                            `json:"is_new" gorm:"column:is_new;default:false"`
	IsFeatured    bool                            `json:"is_featured" gorm:"column:is_featured;default:false"`
	IsHidden      bool                            `json:"is_hidden" gorm:"column:is_hidden;default:false;index"`
	CreatedAt     time.Time                       `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time                       `json:"updated_at"`
}

// TableName pins the table name shared with the hosted schema
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns the storage id
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.EnsureID()
	return nil
}

// EnsureID assigns a random storage id when none is set
func (p *Product) EnsureID() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
}

// BusinessID returns the original id, falling back to the storage id
func (p *Product) BusinessID() string {
	if p.OriginalID != nil && *p.OriginalID != "" {
		return *p.OriginalID
	}
	return p.ID.String()
}
