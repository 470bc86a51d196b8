package extractor

import (
	"strconv"
	"strings"
)

// ItemSet collects items for a single extraction call. It drops items whose
// DownloadURL was already seen and applies the shared normalization rules.
type ItemSet struct {
	items []MediaItem
	seen  map[string]struct{}
}

func NewItemSet() *ItemSet {
	return &ItemSet{seen: make(map[string]struct{})}
}

// Add normalizes and appends item. It reports false if the item was dropped.
func (s *ItemSet) Add(item MediaItem) bool {
	item.DownloadURL = strings.TrimSpace(item.DownloadURL)
	if item.DownloadURL == "" {
		return false
	}
	if _, ok := s.seen[item.DownloadURL]; ok {
		return false
	}
	s.seen[item.DownloadURL] = struct{}{}

	if item.Type == "" {
		item.Type = TypeImage
	}
	if IsGIF(item.DownloadURL) {
		item.Type = TypeAnimation
		item.Ext = "gif"
	}
	if item.Ext == "" {
		item.Ext = ExtFromURL(item.DownloadURL)
	}
	item.Ext = strings.ToLower(strings.TrimPrefix(item.Ext, "."))
	if strings.TrimSpace(item.Title) == "" {
		item.Title = Placeholder(item.Type, len(s.items)+1)
	}
	if item.ID == "" {
		item.ID = "item-" + strconv.Itoa(len(s.items)+1)
	}
	s.items = append(s.items, item)
	return true
}

func (s *ItemSet) Len() int {
	return len(s.items)
}

// Items returns the collected items, never nil.
func (s *ItemSet) Items() []MediaItem {
	if s.items == nil {
		return []MediaItem{}
	}
	return s.items
}

// Normalize runs items through a fresh ItemSet.
func Normalize(items []MediaItem) []MediaItem {
	set := NewItemSet()
	for _, it := range items {
		set.Add(it)
	}
	return set.Items()
}
