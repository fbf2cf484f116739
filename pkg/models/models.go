package models

// GalleryItem represents a single image shown in the gallery
type GalleryItem struct {
	Title        string `json:"title" yaml:"title"`
	Src          string `json:"src" yaml:"src"`
	Group        string `json:"group" yaml:"group"`
	OriginalPath string `json:"originalPath,omitempty" yaml:"-"`
}

// GalleryCatalog is the indexed, sorted set of gallery items and their groups
type GalleryCatalog struct {
	Items  []GalleryItem `json:"items" yaml:"items"`
	Groups []string      `json:"groups" yaml:"groups"`
}

// Empty reports whether the catalog has no items
func (c GalleryCatalog) Empty() bool {
	return len(c.Items) == 0
}

// ItemsInGroup returns the items belonging to group, in catalog order
func (c GalleryCatalog) ItemsInGroup(group string) []GalleryItem {
	items := make([]GalleryItem, 0)
	for _, item := range c.Items {
		if item.Group == group {
			items = append(items, item)
		}
	}
	return items
}

// HasGroup reports whether group is one of the catalog groups
func (c GalleryCatalog) HasGroup(group string) bool {
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}
