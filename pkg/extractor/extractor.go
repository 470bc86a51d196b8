package extractor

import "context"

type Extractor interface {
	// Platform is the display name reported in result meta, e.g. "Behance".
	Platform() string
	CanHandle(url string) bool
	Extract(ctx context.Context, url string) ([]MediaItem, error)
}

type ConfigurableExtractor interface {
	Extractor
	Name() string
	Configure(config map[string]any) error
}
