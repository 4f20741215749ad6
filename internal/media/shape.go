package media

// Shape is the media a product carries: either a Legacy or an Enhanced value.
// The interface is sealed; only this package's types implement it.
type Shape interface {
	orderedItems() []Item
}

func (m Legacy) orderedItems() []Item {
	return LegacyToEnhanced(&m).Items
}

func (m Enhanced) orderedItems() []Item {
	return SortByOrder(m.Items)
}

// ShapeOf picks the authoritative shape: enhanced items when present and non-empty,
// otherwise the legacy lists (an absent legacy value is treated as empty).
func ShapeOf(enhanced *Enhanced, legacy *Legacy) Shape {
	if enhanced != nil && len(enhanced.Items) > 0 {
		return *enhanced
	}
	if legacy != nil {
		return *legacy
	}
	return Legacy{}
}

// InOrder returns the shape's media items in display order.
// Every media-rendering path goes through here.
func InOrder(s Shape) []Item {
	if s == nil {
		return []Item{}
	}
	return s.orderedItems()
}
