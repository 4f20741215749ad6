// Package catalog is the product catalogue: the application shape of a product,
// its mapping to storage rows and the query and mutation service over them.
package catalog

import (
	"github.com/abdul977/muahibstores/internal/media"
)

// Product is a catalogue entry as the storefront and admin panel see it.
// ID is the business key; Image is always derived from the media.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         float64         `json:"price"`
	OriginalPrice *float64        `json:"originalPrice,omitempty"`
	Image         string          `json:"image"`
	Media         *media.Legacy   `json:"media,omitempty"`
	EnhancedMedia *media.Enhanced `json:"enhancedMedia,omitempty"`
	Features      []string        `json:"features"`
	Description   string          `json:"description,omitempty"`
	WhatsAppLink  string          `json:"whatsappLink"`
	Category      string          `json:"category"`
	IsNew         bool            `json:"isNew"`
	IsFeatured    bool            `json:"isFeatured"`
	IsHidden      bool            `json:"isHidden"`
}

// MediaShape returns the authoritative media shape of the product
func (p *Product) MediaShape() media.Shape {
	return media.ShapeOf(p.EnhancedMedia, p.Media)
}

// AllMedia returns every media item of the product in display order
func (p *Product) AllMedia() []media.Item {
	return media.InOrder(p.MediaShape())
}

// ImageURLs returns the image URLs in display order, falling back to Image
func (p *Product) ImageURLs() []string {
	images := media.URLsOfType(p.AllMedia(), media.TypeImage)
	if len(images) == 0 && p.Image != "" {
		images = []string{p.Image}
	}
	return images
}

// ProductUpdate is a partial update. Nil fields are left untouched.
// The business id is not part of it and can never change.
type ProductUpdate struct {
	Name *string `json:"name,omitempty"`
	// Price and OriginalPrice: a non-positive OriginalPrice clears it
	Price         *float64        `json:"price,omitempty"`
	OriginalPrice *float64        `json:"originalPrice,omitempty"`
	Image         *string         `json:"image,omitempty"`
	Media         *media.Legacy   `json:"media,omitempty"`
	EnhancedMedia *media.Enhanced `json:"enhancedMedia,omitempty"`
	Features      []string        `json:"features,omitempty"`
	Description   *string         `json:"description,omitempty"`
	WhatsAppLink  *string         `json:"whatsappLink,omitempty"`
	Category      *string         `json:"category,omitempty"`
	IsNew         *bool           `json:"isNew,omitempty"`
	IsFeatured    *bool           `json:"isFeatured,omitempty"`
	IsHidden      *bool           `json:"isHidden,omitempty"`
}

// touchesMedia reports whether the update replaces any media column
func (u *ProductUpdate) touchesMedia() bool {
	return u.Image != nil || u.Media != nil || u.EnhancedMedia != nil
}

// ListOptions narrows a catalogue listing
type ListOptions struct {
	IncludeHidden bool
	FeaturedOnly  bool
	Category      string
	Search        string
}

// Stats summarises the catalogue for the admin settings page
type Stats struct {
	TotalProducts  int `json:"totalProducts"`
	HiddenProducts int `json:"hiddenProducts"`
	TotalImages    int `json:"totalImages"`
	TotalVideos    int `json:"totalVideos"`
	TotalYouTube   int `json:"totalYouTube"`
	StoredFiles    int `json:"storedFiles"`
}
