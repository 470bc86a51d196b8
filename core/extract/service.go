package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/pkg/extractor"
	"github.com/krau/SaveFolio/pkg/guard"
)

const SourcePrecache = "extension_precache"

var ErrInvalidURL = errors.New("invalid or non-public URL")

type Selector interface {
	Select(url string) (extractor.Extractor, error)
}

type Cache interface {
	Get(key string) (*extractor.Result, bool)
	Set(key string, r *extractor.Result) error
}

type Service struct {
	selector Selector
	cache    Cache
	now      func() time.Time
}

// NewService returns a Service. cache may be nil to disable caching.
func NewService(selector Selector, cache Cache) *Service {
	return &Service{selector: selector, cache: cache, now: time.Now}
}

// Extract returns the media items of the page at rawURL, from cache when
// possible. Only non-empty results are cached.
func (s *Service) Extract(ctx context.Context, rawURL string) (*extractor.Result, error) {
	start := s.now()
	url := strings.TrimSpace(rawURL)
	if !guard.IsPublicInput(url) {
		return nil, ErrInvalidURL
	}
	logger := log.FromContext(ctx).WithPrefix("extract")

	if s.cache != nil {
		if r, ok := s.cache.Get(url); ok {
			r.Meta.ElapsedMs = s.now().Sub(start).Milliseconds()
			logger.Debug("Cache hit", "url", url, "count", len(r.Items))
			return r, nil
		}
	}

	ext, err := s.selector.Select(url)
	if err != nil {
		return nil, err
	}
	items, err := ext.Extract(ctx, url)
	if err != nil {
		logger.Warn("Extraction failed", "platform", ext.Platform(), "url", url, "err", err)
		return nil, err
	}
	if items == nil {
		items = []extractor.MediaItem{}
	}
	r := &extractor.Result{
		Items: items,
		Meta: extractor.Meta{
			SourceURL:   url,
			AssetCount:  len(items),
			Platform:    ext.Platform(),
			ExtractedAt: s.now().UTC(),
			ElapsedMs:   s.now().Sub(start).Milliseconds(),
		},
	}
	logger.Info("Extracted", "platform", r.Meta.Platform, "url", url, "count", len(items), "took", r.Meta.ElapsedMs)

	if s.cache != nil && len(items) > 0 {
		if err := s.cache.Set(url, r); err != nil {
			logger.Warn("Failed to cache result", "url", url, "err", err)
		}
	}
	return r, nil
}

// Precache stores items supplied by a client that already extracted url.
// It returns the number of items kept after normalization.
func (s *Service) Precache(rawURL string, items []extractor.MediaItem, meta extractor.Meta) (int, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return 0, ErrInvalidURL
	}
	if s.cache == nil {
		return 0, errors.New("cache disabled")
	}
	items = extractor.Normalize(items)
	meta.SourceURL = url
	meta.AssetCount = len(items)
	meta.Source = SourcePrecache
	meta.Cached = false
	if meta.ExtractedAt.IsZero() {
		meta.ExtractedAt = s.now().UTC()
	}
	if err := s.cache.Set(url, &extractor.Result{Items: items, Meta: meta}); err != nil {
		return 0, fmt.Errorf("failed to cache %s: %w", url, err)
	}
	return len(items), nil
}
