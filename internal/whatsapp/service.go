package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/abdul977/muahibstores/internal/model"
	"github.com/abdul977/muahibstores/internal/repository"
	"github.com/abdul977/muahibstores/internal/visitor"
	"github.com/abdul977/muahibstores/pkg/config"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/abdul977/muahibstores/pkg/metrics"
	"go.uber.org/zap"
)

// Messages returned to visitors
const (
	MsgDuplicate        = "This WhatsApp number was already submitted recently."
	MsgCheckFailed      = "Failed to validate submission. Please try again."
	MsgSaveFailed       = "Failed to save your WhatsApp number. Please try again."
	MsgUnexpectedFailed = "An unexpected error occurred. Please try again."
)

// ErrNotFound is returned when deleting an entry that does not exist
var ErrNotFound = errors.New("whatsapp number not found")

// Submission is the popup form
type Submission struct {
	WhatsAppNumber string `json:"whatsappNumber"`
	CountryCode    string `json:"countryCode,omitempty"`
}

// Visit is the request context captured alongside a submission
type Visit struct {
	VisitorID string
	Browser   visitor.Browser
	Page      visitor.PageInfo
	IPAddress string
}

// Result is the outcome of a submission. Error is user-facing.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Service records WhatsApp numbers left by visitors
type Service struct {
	repo           repository.WhatsAppNumberRepository
	tracker        *visitor.Tracker
	countryCode    string
	window         time.Duration
	businessNumber string
	now            func() time.Time
}

// NewService creates the intake service. Successful submissions are
// reported to tracker so the popup stops showing.
func NewService(repo repository.WhatsAppNumberRepository, tracker *visitor.Tracker, cfg *config.WhatsAppConfig) *Service {
	countryCode := cfg.DefaultCountryCode
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return &Service{
		repo:           repo,
		tracker:        tracker,
		countryCode:    countryCode,
		window:         cfg.DuplicateWindow,
		businessNumber: cfg.BusinessNumber,
		now:            time.Now,
	}
}

// Submit validates, de-duplicates and stores a number. It never returns raw errors;
// failures come back as a Result with a user-facing message.
func (s *Service) Submit(ctx context.Context, sub Submission, v Visit) (result Result) {
	log := logger.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Error submitting WhatsApp number", zap.Any("panic", r))
			result = Result{Error: MsgUnexpectedFailed}
		}
		metrics.RecordWhatsAppSubmission(outcome(result))
	}()

	countryCode := sub.CountryCode
	if countryCode == "" {
		countryCode = s.countryCode
	}
	number, err := ValidateNumber(sub.WhatsAppNumber, countryCode)
	if err != nil {
		return Result{Error: err.Error()}
	}

	device := visitor.DetectDevice(v.Browser)
	utm := visitor.UTMFromURL(v.Page.URL)
	fingerprint := s.fingerprint(ctx, v)
	row := &model.WhatsAppNumber{
		WhatsAppNumber:     number,
		CountryCode:        countryCode,
		SourcePage:         v.Page.Pathname,
		SourceURL:          v.Page.URL,
		UserAgent:          device.UserAgent,
		BrowserFingerprint: fingerprint,
		Referrer:           v.Page.Referrer,
		UTMSource:          utm.Source,
		UTMMedium:          utm.Medium,
		UTMCampaign:        utm.Campaign,
		DeviceType:         device.DeviceType,
		IsMobile:           device.IsMobile,
	}
	if v.IPAddress != "" {
		ip := v.IPAddress
		row.IPAddress = &ip
	}

	now := s.now()
	exists, err := s.repo.ExistsSince(ctx, number, now.Add(-s.window))
	if err != nil {
		log.Error("Error checking existing entries", zap.Error(err))
		return Result{Error: MsgCheckFailed}
	}
	if exists {
		return Result{Error: MsgDuplicate}
	}

	row.CreatedAt = now
	if err := s.repo.Insert(ctx, row); err != nil {
		log.Error("Error inserting WhatsApp number", zap.Error(err))
		return Result{Error: MsgSaveFailed}
	}

	if s.tracker != nil && v.VisitorID != "" {
		s.tracker.MarkWhatsAppSubmitted(ctx, v.VisitorID, v.Browser)
	}

	log.Info("WhatsApp number captured",
		zap.String("source_page", row.SourcePage),
		zap.String("device_type", row.DeviceType))
	return Result{Success: true}
}

// fingerprint prefers the one saved on the visitor record, so a lead matches
// the visitor it came from even when the client sends fewer browser traits
func (s *Service) fingerprint(ctx context.Context, v Visit) string {
	if s.tracker != nil && v.VisitorID != "" {
		if fp := s.tracker.Visit(ctx, v.VisitorID, v.Browser).BrowserFingerprint; fp != "" {
			return fp
		}
	}
	return visitor.Fingerprint(v.Browser)
}

func outcome(r Result) string {
	switch {
	case r.Success:
		return "success"
	case r.Error == MsgDuplicate:
		return "duplicate"
	case r.Error == ErrInvalidNumber.Error():
		return "invalid"
	default:
		return "error"
	}
}

// List returns a filtered page of entries, newest first, and the total matching count
func (s *Service) List(ctx context.Context, f repository.WhatsAppFilters) ([]model.WhatsAppNumber, int64, error) {
	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch WhatsApp numbers: %w", err)
	}
	if rows == nil {
		rows = []model.WhatsAppNumber{}
	}
	return rows, total, nil
}

// SourceCount is the number of submissions from one page
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Stats summarises captured numbers for the admin dashboard
type Stats struct {
	TotalNumbers      int64                  `json:"totalNumbers"`
	TodayNumbers      int64                  `json:"todayNumbers"`
	WeekNumbers       int64                  `json:"weekNumbers"`
	MonthNumbers      int64                  `json:"monthNumbers"`
	MobilePercentage  int                    `json:"mobilePercentage"`
	TopSources        []SourceCount          `json:"topSources"`
	RecentSubmissions []model.WhatsAppNumber `json:"recentSubmissions"`
}

const (
	statsSourceSample = 1000
	statsTopSources   = 5
	statsRecent       = 10
)

// Stats counts submissions since local midnight, over the last 7 and 30 days,
// the share from mobile devices and the busiest source pages
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	stats := &Stats{}
	counts := []struct {
		dst *int64
		q   repository.WhatsAppCountQuery
	}{
		{&stats.TotalNumbers, repository.WhatsAppCountQuery{}},
		{&stats.TodayNumbers, repository.WhatsAppCountQuery{Since: &today}},
		{&stats.WeekNumbers, repository.WhatsAppCountQuery{Since: &weekAgo}},
		{&stats.MonthNumbers, repository.WhatsAppCountQuery{Since: &monthAgo}},
	}
	for _, c := range counts {
		n, err := s.repo.Count(ctx, c.q)
		if err != nil {
			return nil, fmt.Errorf("failed to count WhatsApp numbers: %w", err)
		}
		*c.dst = n
	}

	mobile, err := s.repo.Count(ctx, repository.WhatsAppCountQuery{MobileOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to count WhatsApp numbers: %w", err)
	}
	if stats.TotalNumbers > 0 {
		stats.MobilePercentage = int(float64(mobile)/float64(stats.TotalNumbers)*100 + 0.5)
	}

	pages, err := s.repo.SourcePages(ctx, statsSourceSample)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source pages: %w", err)
	}
	stats.TopSources = topSources(pages, statsTopSources)

	recent, _, err := s.repo.List(ctx, repository.WhatsAppFilters{Limit: statsRecent})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent submissions: %w", err)
	}
	if recent == nil {
		recent = []model.WhatsAppNumber{}
	}
	stats.RecentSubmissions = recent
	return stats, nil
}

// topSources counts pages and keeps the n busiest. Ties keep first-seen order.
func topSources(pages []string, n int) []SourceCount {
	index := make(map[string]int)
	sources := []SourceCount{}
	for _, p := range pages {
		if i, ok := index[p]; ok {
			sources[i].Count++
			continue
		}
		index[p] = len(sources)
		sources = append(sources, SourceCount{Source: p, Count: 1})
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Count > sources[j].Count
	})
	if len(sources) > n {
		sources = sources[:n]
	}
	return sources
}

// Delete removes one entry by id
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	logger.FromContext(ctx).Info("WhatsApp number deleted", zap.String("id", id))
	return nil
}
