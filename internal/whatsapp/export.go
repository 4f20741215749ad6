package whatsapp

import (
	"context"
	"strings"

	"github.com/abdul977/muahibstores/internal/model"
	"github.com/abdul977/muahibstores/internal/repository"
)

// ExportLimit caps the rows of one CSV export
const ExportLimit = 10000

// CSVHeader is the first line of an export
const CSVHeader = "WhatsApp Number,Country Code,Source Page,Device Type,Is Mobile,UTM Source,UTM Medium,UTM Campaign,Referrer,Created At"

const exportTimeLayout = "1/2/2006, 3:04:05 PM"

// Export renders the filtered entries as CSV. Every field is wrapped in double
// quotes; quotes inside a field are written as-is.
func (s *Service) Export(ctx context.Context, f repository.WhatsAppFilters) (string, error) {
	f.Limit = ExportLimit
	rows, _, err := s.List(ctx, f)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, CSVHeader)
	for i := range rows {
		lines = append(lines, csvLine(&rows[i]))
	}
	return strings.Join(lines, "\n"), nil
}

func csvLine(row *model.WhatsAppNumber) string {
	mobile := "No"
	if row.IsMobile {
		mobile = "Yes"
	}
	fields := []string{
		row.WhatsAppNumber,
		row.CountryCode,
		row.SourcePage,
		row.DeviceType,
		mobile,
		deref(row.UTMSource),
		deref(row.UTMMedium),
		deref(row.UTMCampaign),
		row.Referrer,
		row.CreatedAt.Local().Format(exportTimeLayout),
	}
	for i, field := range fields {
		fields[i] = `"` + field + `"`
	}
	return strings.Join(fields, ",")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
