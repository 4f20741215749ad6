package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WhatsAppNumber is one captured lead. Rows are append-only from the storefront.
type WhatsAppNumber struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	WhatsAppNumber     string    `json:"whatsapp_number" gorm:"column:whatsapp_number;type:varchar(20);not null;index:idx_whatsapp_number_created,priority:1"`
	CountryCode        string    `json:"country_code" gorm:"column:country_code;type:varchar(8);not null"`
	SourcePage         string    `json:"source_page" gorm:"column:source_page;type:text;index"`
	SourceURL          string    `json:"source_url" gorm:"column:source_url;type:text"`
	UserAgent          string    `json:"user_agent" gorm:"column:user_agent;type:text"`
	IPAddress          *string   `json:"ip_address,omitempty" gorm:"column:ip_address;type:varchar(64)"`
	BrowserFingerprint string    `json:"browser_fingerprint" gorm:"column:browser_fingerprint;type:varchar(32)"`
	Referrer           string    `json:"referrer" gorm:"column:referrer;type:text"`
	UTMSource          *string   `json:"utm_source,omitempty" gorm:"column:utm_source;type:varchar(255)"`
	UTMMedium          *string   `json:"utm_medium,omitempty" gorm:"column:utm_medium;type:varchar(255)"`
	UTMCampaign        *string   `json:"utm_campaign,omitempty" gorm:"column:utm_campaign;type:varchar(255)"`
	DeviceType         string    `json:"device_type" gorm:"column:device_type;type:varchar(16);index"`
	IsMobile           bool      `json:"is_mobile" gorm:"column:is_mobile"`
	CreatedAt          time.Time `json:"created_at" gorm:"index:idx_whatsapp_number_created,priority:2;index"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName pins the table name shared with the hosted schema
func (WhatsAppNumber) TableName() string {
	return "visitor_whatsapp_numbers"
}

// BeforeCreate assigns the row id
func (w *WhatsAppNumber) BeforeCreate(tx *gorm.DB) error {
	w.EnsureID()
	return nil
}

// EnsureID assigns a random id when none is set
func (w *WhatsAppNumber) EnsureID() {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
}
