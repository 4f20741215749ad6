// Package visitor tracks returning browsers and decides when the
// WhatsApp lead capture popup may be shown.
package visitor

import (
	"context"
	"time"
)

// Info is the persisted state of one browser
type Info struct {
	IsFirstTime           bool       `json:"isFirstTime"`
	VisitCount            int        `json:"visitCount"`
	FirstVisitDate        time.Time  `json:"firstVisitDate"`
	LastVisitDate         time.Time  `json:"lastVisitDate"`
	HasSeenPopup          bool       `json:"hasSeenPopup"`
	PopupShownDate        *time.Time `json:"popupShownDate,omitempty"`
	WhatsAppSubmitted     bool       `json:"whatsappSubmitted"`
	WhatsAppSubmittedDate *time.Time `json:"whatsappSubmittedDate,omitempty"`
	BrowserFingerprint    string     `json:"browserFingerprint"`
}

// Store persists one Info per visitor key.
// Writes are plain overwrites: two concurrent read-modify-write cycles on
// the same key can lose an update.
type Store interface {
	// Load returns nil, nil when nothing is stored for key
	Load(ctx context.Context, key string) (*Info, error)
	Save(ctx context.Context, key string, info *Info) error
	Delete(ctx context.Context, key string) error
}
