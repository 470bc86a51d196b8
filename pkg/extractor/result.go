package extractor

import "time"

type Meta struct {
	SourceURL   string    `json:"sourceUrl"`
	AssetCount  int       `json:"assetCount"`
	Platform    string    `json:"platform"`
	ExtractedAt time.Time `json:"extractedAt"`
	Cached      bool      `json:"cached"`
	ElapsedMs   int64     `json:"elapsedMs"`
	Source      string    `json:"source,omitempty"`
}

type Result struct {
	Items []MediaItem `json:"items"`
	Meta  Meta        `json:"meta"`
}

// Clone returns a copy whose item slice can be modified independently.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := &Result{Meta: r.Meta, Items: make([]MediaItem, len(r.Items))}
	for i, it := range r.Items {
		if it.Variants != nil {
			it.Variants = append([]Variant(nil), it.Variants...)
		}
		out.Items[i] = it
	}
	return out
}
