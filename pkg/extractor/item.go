package extractor

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

type MediaType string

const (
	TypeImage     MediaType = "image"
	TypeVideo     MediaType = "video"
	TypeAnimation MediaType = "animation"
)

const DefaultExt = "jpg"

type Variant struct {
	Resolution  string `json:"resolution"`
	DownloadURL string `json:"downloadUrl"`
}

// MediaItem is one downloadable asset discovered on a source page.
type MediaItem struct {
	ID          string    `json:"id"`
	Type        MediaType `json:"type"`
	Title       string    `json:"title"`
	ThumbURL    string    `json:"thumbUrl"`
	DownloadURL string    `json:"downloadUrl"`
	Ext         string    `json:"ext"`
	Resolution  string    `json:"resolution,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
}

// UseVariant points the item at Variants[i]. The ID is kept; a .gif
// variant turns the item into an animation.
func (m *MediaItem) UseVariant(i int) error {
	if len(m.Variants) < 2 {
		return fmt.Errorf("item %s has no alternative variants", m.ID)
	}
	if i < 0 || i >= len(m.Variants) {
		return fmt.Errorf("variant index %d out of range [0,%d)", i, len(m.Variants))
	}
	v := m.Variants[i]
	m.DownloadURL = v.DownloadURL
	m.Resolution = v.Resolution
	switch {
	case IsGIF(v.DownloadURL):
		m.Type = TypeAnimation
		m.Ext = "gif"
	case m.Type != TypeVideo:
		m.Ext = ExtFromURL(v.DownloadURL)
	}
	return nil
}

// ExtFromURL returns the lower-cased extension of the last path segment,
// or DefaultExt when there is none.
func ExtFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	} else if i := strings.IndexAny(raw, "?#"); i >= 0 {
		p = raw[:i]
	}
	ext := strings.TrimPrefix(path.Ext(path.Base(p)), ".")
	if ext == "" {
		return DefaultExt
	}
	return strings.ToLower(ext)
}

// IsGIF reports whether the URL path ends in .gif, ignoring case and query.
func IsGIF(raw string) bool {
	return ExtFromURL(raw) == "gif"
}

func Placeholder(t MediaType, n int) string {
	switch t {
	case TypeVideo:
		return fmt.Sprintf("Video %d", n)
	case TypeAnimation:
		return fmt.Sprintf("Animation %d", n)
	default:
		return fmt.Sprintf("Image %d", n)
	}
}
