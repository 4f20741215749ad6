// Package media models a product's images, videos and YouTube links in two shapes:
// the legacy fixed image/video lists and the enhanced ordered item list.
package media

import (
	"cmp"
	"math/rand"
	"slices"
	"strconv"
	"time"
)

// Type is the kind of a media item
type Type string

const (
	TypeImage   Type = "image"
	TypeVideo   Type = "video"
	TypeYouTube Type = "youtube"
)

// Valid reports whether t is one of the known media types
func (t Type) Valid() bool {
	switch t {
	case TypeImage, TypeVideo, TypeYouTube:
		return true
	}
	return false
}

// Item is one entry of an ordered media collection
type Item struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	URL       string `json:"url"`
	Order     int    `json:"order"`
	Title     string `json:"title,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Legacy is the pre-enhanced "few images plus videos" shape
type Legacy struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

// Enhanced is the ordered item shape. Items is authoritative when non-empty;
// Images and Videos are derived views for older consumers.
type Enhanced struct {
	Items  []Item   `json:"items"`
	Images []string `json:"images,omitempty"`
	Videos []string `json:"videos,omitempty"`
}

// GenerateID returns an id unique enough for one product's media list
func GenerateID() string {
	return "media_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + strconv.FormatUint(rand.Uint64(), 36)
}

// LegacyToEnhanced maps images then videos, in array order, to items ordered 0..n-1.
// Ids are freshly generated on every call.
func LegacyToEnhanced(m *Legacy) Enhanced {
	if m == nil {
		return Enhanced{Items: []Item{}, Images: []string{}, Videos: []string{}}
	}

	items := make([]Item, 0, len(m.Images)+len(m.Videos))
	order := 0
	for _, url := range m.Images {
		items = append(items, Item{ID: GenerateID(), Type: TypeImage, URL: url, Order: order})
		order++
	}
	for _, url := range m.Videos {
		items = append(items, Item{ID: GenerateID(), Type: TypeVideo, URL: url, Order: order})
		order++
	}

	return Enhanced{
		Items:  items,
		Images: nonNil(m.Images),
		Videos: nonNil(m.Videos),
	}
}

// EnhancedToLegacy projects items back to flat image and video lists sorted by order.
// YouTube items have no legacy representation and are dropped.
func EnhancedToLegacy(m *Enhanced) Legacy {
	if m == nil {
		return Legacy{Images: []string{}, Videos: []string{}}
	}
	return Legacy{
		Images: URLsOfType(m.Items, TypeImage),
		Videos: URLsOfType(m.Items, TypeVideo),
	}
}

// SortByOrder returns a copy of items sorted ascending by Order. Ties keep their input order.
func SortByOrder(items []Item) []Item {
	sorted := slices.Clone(items)
	if sorted == nil {
		sorted = []Item{}
	}
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return sorted
}

// URLsOfType returns the URLs of items of type t in display order
func URLsOfType(items []Item, t Type) []string {
	urls := []string{}
	for _, item := range SortByOrder(items) {
		if item.Type == t {
			urls = append(urls, item.URL)
		}
	}
	return urls
}

// FirstImageURL returns the URL of the first image item in display order, or ""
func FirstImageURL(items []Item) string {
	for _, item := range SortByOrder(items) {
		if item.Type == TypeImage {
			return item.URL
		}
	}
	return ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
