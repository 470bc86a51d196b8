package extractors

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/extractors/behance"
	"github.com/krau/SaveFolio/extractors/dribbble"
	"github.com/krau/SaveFolio/extractors/generic"
	"github.com/krau/SaveFolio/extractors/instagram"
	"github.com/krau/SaveFolio/extractors/plugin"
	"github.com/krau/SaveFolio/extractors/tiktok"
	"github.com/krau/SaveFolio/extractors/youtube"
	"github.com/krau/SaveFolio/pkg/extractor"
)

// Registry picks the first extractor whose CanHandle matches a url. When
// none does it returns the fallback, or ErrUnsupported in strict mode.
type Registry struct {
	mu         sync.RWMutex
	extractors []extractor.Extractor
	fallback   extractor.Extractor
	strict     bool
}

func NewRegistry(fallback extractor.Extractor, strict bool, exts ...extractor.Extractor) *Registry {
	return &Registry{extractors: exts, fallback: fallback, strict: strict}
}

func (r *Registry) Add(exts ...extractor.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors = append(r.extractors, exts...)
}

func (r *Registry) All() []extractor.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]extractor.Extractor, 0, len(r.extractors)+1)
	out = append(out, r.extractors...)
	if r.fallback != nil {
		out = append(out, r.fallback)
	}
	return out
}

func (r *Registry) Select(url string) (extractor.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.extractors {
		if e.CanHandle(url) {
			return e, nil
		}
	}
	if r.strict || r.fallback == nil {
		return nil, extractor.ErrUnsupported
	}
	return r.fallback, nil
}

// Configure passes each configurable extractor its section of cfg, keyed by
// Name().
func (r *Registry) Configure(ctx context.Context, cfg map[string]map[string]any) {
	logger := log.FromContext(ctx).WithPrefix("extractors")
	for _, e := range r.All() {
		configurable, ok := e.(extractor.ConfigurableExtractor)
		if !ok {
			continue
		}
		section, ok := cfg[configurable.Name()]
		if !ok {
			continue
		}
		if err := configurable.Configure(section); err != nil {
			logger.Error("Failed to configure extractor", "name", configurable.Name(), "err", err)
		}
	}
}

type Options struct {
	Client     *http.Client
	Strict     bool
	YouTube    bool
	Proxy      string
	PluginDirs []string
	Configs    map[string]map[string]any
}

// NewDefault builds the registry in dispatch order: Behance, Dribbble,
// Instagram, TikTok, YouTube when enabled, then plugins, with the generic
// extractor as fallback.
func NewDefault(ctx context.Context, opts Options) (*Registry, error) {
	r := NewRegistry(generic.New(opts.Client), opts.Strict,
		behance.New(opts.Client),
		dribbble.New(opts.Client),
		instagram.New(opts.Client),
		tiktok.New(opts.Client),
	)
	if opts.YouTube {
		r.Add(youtube.New(opts.Proxy))
	}
	for _, dir := range opts.PluginDirs {
		exts, err := plugin.Load(ctx, dir, opts.Client)
		if err != nil {
			return nil, fmt.Errorf("failed to load plugins from %s: %w", dir, err)
		}
		log.FromContext(ctx).Info("Loaded extractor plugins", "dir", dir, "count", len(exts))
		r.Add(exts...)
	}
	r.Configure(ctx, opts.Configs)
	return r, nil
}
