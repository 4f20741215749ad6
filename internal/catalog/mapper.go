package catalog

import (
	"slices"

	"github.com/abdul977/muahibstores/internal/media"
	"github.com/abdul977/muahibstores/internal/model"
)

// RowToProduct maps a storage row to a Product.
// Stored ordered media wins over the flat image and video columns.
func RowToProduct(row *model.Product) Product {
	legacy := media.Legacy{
		Images: []string(row.ImageURLs),
		Videos: []string(row.VideoURLs),
	}
	if len(legacy.Images) == 0 {
		legacy.Images = []string{}
		if row.ImageURL != nil && *row.ImageURL != "" {
			legacy.Images = []string{*row.ImageURL}
		}
	}
	if legacy.Videos == nil {
		legacy.Videos = []string{}
	}

	var enhanced media.Enhanced
	if len(row.OrderedMedia) > 0 {
		items := slices.Clone([]media.Item(row.OrderedMedia))
		for i := range items {
			if items[i].ID == "" {
				items[i].ID = media.GenerateID()
			}
		}
		items = media.SortByOrder(items)
		enhanced = media.Enhanced{
			Items:  items,
			Images: media.URLsOfType(items, media.TypeImage),
			Videos: media.URLsOfType(items, media.TypeVideo),
		}
	} else {
		enhanced = media.LegacyToEnhanced(&legacy)
	}

	image := media.FirstImageURL(enhanced.Items)
	if image == "" && len(legacy.Images) > 0 {
		image = legacy.Images[0]
	}

	p := Product{
		ID:            row.BusinessID(),
		Name:          row.Name,
		Price:         row.Price,
		OriginalPrice: row.OriginalPrice,
		Image:         image,
		Media:         &legacy,
		EnhancedMedia: &enhanced,
		Features:      slices.Clone([]string(row.Features)),
		WhatsAppLink:  row.WhatsAppLink,
		Category:      row.Category,
		IsNew:         row.IsNew,
		IsFeatured:    row.IsFeatured,
		IsHidden:      row.IsHidden,
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if row.Description != nil {
		p.Description = *row.Description
	}
	return p
}

// ProductToRow maps a Product to a new storage row keyed by p.ID
func ProductToRow(p *Product) model.Product {
	row := model.Product{
		Name:         p.Name,
		Price:        p.Price,
		Features:     slices.Clone(p.Features),
		WhatsAppLink: p.WhatsAppLink,
		Category:     p.Category,
		IsNew:        p.IsNew,
		IsFeatured:   p.IsFeatured,
		IsHidden:     p.IsHidden,
	}
	if row.Features == nil {
		row.Features = []string{}
	}
	if p.ID != "" {
		id := p.ID
		row.OriginalID = &id
	}
	row.OriginalPrice = positiveOrNil(p.OriginalPrice)
	if p.Description != "" {
		description := p.Description
		row.Description = &description
	}
	setMediaColumns(&row, p.EnhancedMedia, p.Media, p.Image)
	return row
}

// ApplyUpdate writes the fields present in u onto row.
// Media columns are recomputed only when the update carries media; OriginalID is never touched.
func ApplyUpdate(row *model.Product, u *ProductUpdate) {
	if u.Name != nil {
		row.Name = *u.Name
	}
	if u.Price != nil {
		row.Price = *u.Price
	}
	if u.OriginalPrice != nil {
		row.OriginalPrice = positiveOrNil(u.OriginalPrice)
	}
	if u.Features != nil {
		row.Features = slices.Clone(u.Features)
	}
	if u.Description != nil {
		if *u.Description == "" {
			row.Description = nil
		} else {
			description := *u.Description
			row.Description = &description
		}
	}
	if u.WhatsAppLink != nil {
		row.WhatsAppLink = *u.WhatsAppLink
	}
	if u.Category != nil {
		row.Category = *u.Category
	}
	if u.IsNew != nil {
		row.IsNew = *u.IsNew
	}
	if u.IsFeatured != nil {
		row.IsFeatured = *u.IsFeatured
	}
	if u.IsHidden != nil {
		row.IsHidden = *u.IsHidden
	}
	if u.touchesMedia() {
		image := ""
		if u.Image != nil {
			image = *u.Image
		}
		setMediaColumns(row, u.EnhancedMedia, u.Media, image)
	}
}

func setMediaColumns(row *model.Product, enhanced *media.Enhanced, legacy *media.Legacy, image string) {
	var images, videos []string
	switch {
	case enhanced != nil && len(enhanced.Items) > 0:
		images = media.URLsOfType(enhanced.Items, media.TypeImage)
		videos = media.URLsOfType(enhanced.Items, media.TypeVideo)
		row.OrderedMedia = slices.Clone(enhanced.Items)
	case legacy != nil:
		images = slices.Clone(legacy.Images)
		videos = slices.Clone(legacy.Videos)
		row.OrderedMedia = nil
	default:
		if image != "" {
			images = []string{image}
		}
		row.OrderedMedia = nil
	}
	if images == nil {
		images = []string{}
	}
	if videos == nil {
		videos = []string{}
	}

	row.ImageURLs = images
	row.VideoURLs = videos
	row.ImageURL = nil
	if len(images) > 0 {
		first := images[0]
		row.ImageURL = &first
	}
}

func positiveOrNil(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	price := *v
	return &price
}

// mediaURLs lists every stored file URL a row references
func mediaURLs(row *model.Product) []string {
	seen := make(map[string]struct{})
	var urls []string
	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	if row.ImageURL != nil {
		add(*row.ImageURL)
	}
	for _, u := range row.ImageURLs {
		add(u)
	}
	for _, u := range row.VideoURLs {
		add(u)
	}
	for _, item := range row.OrderedMedia {
		if item.Type == media.TypeYouTube {
			continue
		}
		add(item.URL)
		add(item.Thumbnail)
	}
	return urls
}
