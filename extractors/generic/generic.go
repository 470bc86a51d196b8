// Package generic is the best-effort fallback used when no platform
// extractor claims a url: every absolute <img> on the page becomes an item.
package generic

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/duke-git/lancet/v2/slice"
	"github.com/krau/SaveFolio/extractors/page"
	"github.com/krau/SaveFolio/pkg/extractor"
)

const Platform = "Generic"

var excluded = []string{"analytics", "pixel", "icon", "logo", "avatar", "sprite", "tracking", "badge"}

// renderFunc loads url in a browser and returns the rendered HTML.
type renderFunc func(ctx context.Context, url string, timeout time.Duration) ([]byte, error)

type Extractor struct {
	client        *http.Client
	render        bool
	renderTimeout time.Duration
	renderer      renderFunc
}

func New(client *http.Client) *Extractor {
	return &Extractor{client: client, renderTimeout: 20 * time.Second, renderer: renderPage}
}

func (e *Extractor) Platform() string { return Platform }

func (e *Extractor) Name() string { return "generic" }

// Configure reads "render" and "render_timeout". With render set the page is
// loaded in headless Chromium first, which runs the page's own scripts; plain
// fetches never execute anything from the page.
func (e *Extractor) Configure(cfg map[string]any) error {
	if v, ok := cfg["render"].(bool); ok {
		e.render = v
	}
	if v, ok := cfg["render_timeout"].(string); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("generic: invalid render_timeout: %w", err)
		}
		e.renderTimeout = d
	}
	return nil
}

func (e *Extractor) CanHandle(url string) bool { return true }

func (e *Extractor) Extract(ctx context.Context, url string) ([]extractor.MediaItem, error) {
	logger := log.FromContext(ctx).WithPrefix("extractor/generic")
	var doc *goquery.Document
	if e.render {
		body, err := e.renderer(ctx, url, e.renderTimeout)
		if err == nil {
			doc, err = goquery.NewDocumentFromReader(bytes.NewReader(body))
		}
		if err != nil {
			logger.Warn("Render failed, falling back to plain fetch", "url", url, "err", err)
			doc = nil
		}
	}
	if doc == nil {
		var err error
		doc, err = page.Fetch(ctx, page.Request{Client: e.client, Platform: Platform}, url)
		if err != nil {
			return nil, err
		}
	}
	return collectImages(doc), nil
}

func collectImages(doc *goquery.Document) []extractor.MediaItem {
	set := extractor.NewItemSet()
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if !page.IsAbsHTTP(src) || isExcluded(src) {
			return
		}
		set.Add(extractor.MediaItem{
			ID:          fmt.Sprintf("gen-%d", i),
			Type:        extractor.TypeImage,
			Title:       strings.TrimSpace(s.AttrOr("alt", "")),
			ThumbURL:    src,
			DownloadURL: src,
		})
	})
	return set.Items()
}

func isExcluded(src string) bool {
	lower := strings.ToLower(src)
	return slice.Some(excluded, func(_ int, marker string) bool {
		return strings.Contains(lower, marker)
	})
}
