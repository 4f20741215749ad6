package visitor

import (
	"context"
	"strings"
	"time"

	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/abdul977/muahibstores/pkg/metrics"
	"go.uber.org/zap"
)

// Tracker runs the popup state machine over a Store.
// Store failures never reach callers: they are logged and the in-memory
// record is still returned, so a broken store degrades to "new visitor".
type Tracker struct {
	store    Store
	cooldown time.Duration
	delay    time.Duration
	now      func() time.Time
}

// NewTracker creates a tracker with a popup cooldown in days and the
// delay clients wait before asking for a popup decision
func NewTracker(store Store, cooldownDays int, popupDelay time.Duration) *Tracker {
	return &Tracker{
		store:    store,
		cooldown: time.Duration(cooldownDays) * 24 * time.Hour,
		delay:    popupDelay,
		now:      time.Now,
	}
}

// Visit records a visit and returns the updated record.
// A missing record starts a new visitor; an existing one gets its count bumped.
func (t *Tracker) Visit(ctx context.Context, visitorID string, b Browser) *Info {
	log := logger.FromContext(ctx)
	now := t.now()

	info, err := t.store.Load(ctx, visitorID)
	if err != nil {
		log.Warn("Error reading visitor info", zap.String("visitor_id", visitorID), zap.Error(err))
		info = nil
	}

	if info == nil {
		info = &Info{
			IsFirstTime:        true,
			VisitCount:         1,
			FirstVisitDate:     now,
			LastVisitDate:      now,
			BrowserFingerprint: Fingerprint(b),
		}
	} else {
		info.VisitCount++
		info.LastVisitDate = now
	}

	t.save(ctx, visitorID, info)
	return info
}

// ShouldShow applies the popup policy to a record without touching the store
func (t *Tracker) ShouldShow(info *Info) bool {
	if info.WhatsAppSubmitted {
		return false
	}
	if info.HasSeenPopup && info.PopupShownDate != nil {
		if t.now().Sub(*info.PopupShownDate) < t.cooldown {
			return false
		}
	}
	return true
}

// ShouldShowPopup counts as a visit, then applies the popup policy
func (t *Tracker) ShouldShowPopup(ctx context.Context, visitorID string, b Browser) bool {
	return t.ShouldShow(t.Visit(ctx, visitorID, b))
}

// Decision is the answer to a client asking whether to show the popup
type Decision struct {
	Show    bool  `json:"show"`
	DelayMs int64 `json:"delayMs"`
	Info    *Info `json:"visitorInfo,omitempty"`
}

// Decide answers a popup request for a page path. Admin pages never get the
// popup and do not count as visits.
func (t *Tracker) Decide(ctx context.Context, visitorID string, b Browser, path string) Decision {
	d := Decision{DelayMs: t.delay.Milliseconds()}
	if isAdminPath(path) {
		return d
	}
	d.Info = t.Visit(ctx, visitorID, b)
	d.Show = t.ShouldShow(d.Info)
	metrics.RecordPopupDecision(d.Show)
	return d
}

func isAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// MarkPopupShown records that the popup was presented, whether or not it converted
func (t *Tracker) MarkPopupShown(ctx context.Context, visitorID string, b Browser) *Info {
	info := t.Visit(ctx, visitorID, b)
	now := t.now()
	info.HasSeenPopup = true
	info.PopupShownDate = &now
	info.IsFirstTime = false
	t.save(ctx, visitorID, info)
	return info
}

// MarkWhatsAppSubmitted suppresses the popup for good
func (t *Tracker) MarkWhatsAppSubmitted(ctx context.Context, visitorID string, b Browser) *Info {
	info := t.Visit(ctx, visitorID, b)
	now := t.now()
	info.WhatsAppSubmitted = true
	info.WhatsAppSubmittedDate = &now
	info.IsFirstTime = false
	t.save(ctx, visitorID, info)
	return info
}

// Reset forgets a visitor
func (t *Tracker) Reset(ctx context.Context, visitorID string) {
	if err := t.store.Delete(ctx, visitorID); err != nil {
		logger.FromContext(ctx).Warn("Error resetting visitor tracking",
			zap.String("visitor_id", visitorID),
			zap.Error(err))
	}
}

// Stats is the visitor snapshot shown on the admin page
type Stats struct {
	VisitorInfo *Info      `json:"visitorInfo"`
	DeviceInfo  DeviceInfo `json:"deviceInfo"`
	PageInfo    PageInfo   `json:"pageInfo"`
	UTMParams   UTM        `json:"utmParams"`
}

// Stats records a visit and bundles it with device, page and campaign details
func (t *Tracker) Stats(ctx context.Context, visitorID string, b Browser, page PageInfo) Stats {
	return Stats{
		VisitorInfo: t.Visit(ctx, visitorID, b),
		DeviceInfo:  DetectDevice(b),
		PageInfo:    page,
		UTMParams:   UTMFromURL(page.URL),
	}
}

func (t *Tracker) save(ctx context.Context, visitorID string, info *Info) {
	if err := t.store.Save(ctx, visitorID, info); err != nil {
		logger.FromContext(ctx).Warn("Error saving visitor info",
			zap.String("visitor_id", visitorID),
			zap.Error(err))
	}
}
