package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abdul977/muahibstores/internal/media"
)

// ValidationErrors maps a form field to its message
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + v[field]
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

// ValidateProduct checks the fields the admin form requires.
// It returns nil when the product is acceptable.
func ValidateProduct(p *Product) error {
	errs := ValidationErrors{}

	checkName(errs, p.Name)
	checkPrice(errs, p)
	checkCategory(errs, p.Category)
	checkFeatures(errs, p.Features)
	checkWhatsAppLink(errs, p.WhatsAppLink)
	checkMedia(errs, p)

	return errs.orNil()
}

// ValidateUpdate checks only the fields an update sets, against the merged product.
// Untouched fields are accepted as stored.
func ValidateUpdate(u *ProductUpdate, merged *Product) error {
	errs := ValidationErrors{}

	if u.Name != nil {
		checkName(errs, merged.Name)
	}
	if u.Price != nil || u.OriginalPrice != nil {
		checkPrice(errs, merged)
	}
	if u.Category != nil {
		checkCategory(errs, merged.Category)
	}
	if u.Features != nil {
		checkFeatures(errs, merged.Features)
	}
	if u.WhatsAppLink != nil {
		checkWhatsAppLink(errs, merged.WhatsAppLink)
	}
	if u.touchesMedia() {
		checkMedia(errs, merged)
	}

	return errs.orNil()
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func checkName(errs ValidationErrors, name string) {
	if strings.TrimSpace(name) == "" {
		errs["name"] = "Product name is required"
	}
}

func checkPrice(errs ValidationErrors, p *Product) {
	if p.Price <= 0 {
		errs["price"] = "Price must be greater than 0"
	}
	if p.OriginalPrice != nil && *p.OriginalPrice > 0 && *p.OriginalPrice <= p.Price {
		errs["originalPrice"] = "Original price must be greater than current price"
	}
}

func checkCategory(errs ValidationErrors, category string) {
	if strings.TrimSpace(category) == "" {
		errs["category"] = "Category is required"
	}
}

func checkFeatures(errs ValidationErrors, features []string) {
	if len(features) == 0 {
		errs["features"] = "At least one feature is required"
	}
}

func checkWhatsAppLink(errs ValidationErrors, link string) {
	if strings.TrimSpace(link) == "" {
		errs["whatsappLink"] = "WhatsApp link is required"
	}
}

func checkMedia(errs ValidationErrors, p *Product) {
	if len(p.ImageURLs()) == 0 {
		errs["media"] = "At least one product image is required"
	}
	if p.EnhancedMedia != nil {
		for i, item := range p.EnhancedMedia.Items {
			if msg := validateItem(item); msg != "" {
				errs[fmt.Sprintf("media.items[%d]", i)] = msg
			}
		}
	}
}

func validateItem(item media.Item) string {
	switch {
	case !item.Type.Valid():
		return fmt.Sprintf("Unknown media type %q", item.Type)
	case strings.TrimSpace(item.URL) == "":
		return "Media URL is required"
	case item.Type == media.TypeYouTube && !media.IsValidYouTubeURL(item.URL):
		return "Please enter a valid YouTube URL"
	}
	return ""
}
