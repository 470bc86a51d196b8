package behance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/extractors/page"
	"github.com/krau/SaveFolio/pkg/extractor"
)

const (
	Platform = "Behance"
	referer  = "https://www.behance.net/"
	stateID  = "beconfig-store_state"
)

type Extractor struct {
	client  *http.Client
	timeout time.Duration
}

// New returns a Behance extractor. A nil client means netutil.DefaultClient.
func New(client *http.Client) *Extractor {
	return &Extractor{client: client, timeout: page.DefaultTimeout}
}

func (e *Extractor) Platform() string { return Platform }

func (e *Extractor) Name() string { return "behance" }

func (e *Extractor) Configure(cfg map[string]any) error {
	if v, ok := cfg["timeout"]; ok {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("behance: invalid timeout: %w", err)
		}
		e.timeout = d
	}
	return nil
}

func (e *Extractor) CanHandle(url string) bool {
	return page.HostMatches(url, "behance.net")
}

func (e *Extractor) Extract(ctx context.Context, url string) ([]extractor.MediaItem, error) {
	logger := log.FromContext(ctx).WithPrefix("extractor/behance")
	doc, err := page.Fetch(ctx, page.Request{
		Client:   e.client,
		Platform: Platform,
		Referer:  referer,
		Timeout:  e.timeout,
	}, url)
	if err != nil {
		return nil, err
	}
	data := findProjectData(doc)
	if data == nil {
		logger.Warn("No project data found on page", "url", url)
		return []extractor.MediaItem{}, nil
	}
	items := walkModules(projectModules(data))
	logger.Debug("Extracted items", "url", url, "count", len(items))
	return items, nil
}

// findProjectData locates the embedded project JSON: first the store state
// script, then any script that looks like it carries a project.
func findProjectData(doc *goquery.Document) map[string]any {
	if text := doc.Find("script#" + stateID).First().Text(); strings.TrimSpace(text) != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(text), &data); err == nil {
			return data
		}
	}
	var found map[string]any
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, `"project":`) || !strings.Contains(text, `"modules":`) {
			return true
		}
		start := strings.Index(text, `{"project":`)
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return true
		}
		var data map[string]any
		if err := json.Unmarshal([]byte(text[start:end+1]), &data); err != nil {
			return true
		}
		found = data
		return false
	})
	return found
}

// projectModules unwraps project.project || project and returns its
// allModules || modules.
func projectModules(data map[string]any) []any {
	project := obj(data, "project")
	if inner := obj(project, "project"); inner != nil {
		project = inner
	}
	return arr(project, "allModules", "modules")
}

func walkModules(modules []any) []extractor.MediaItem {
	set := extractor.NewItemSet()
	for index, m := range modules {
		mod, ok := m.(map[string]any)
		if !ok {
			continue
		}
		modID := str(mod, "id")
		if modID == "" {
			modID = fmt.Sprint(index)
		}
		switch str(mod, "__typename", "type") {
		case "ImageModule", "image":
			u := bestURL(obj(mod, "imageSizes"))
			if u == "" {
				continue
			}
			set.Add(extractor.MediaItem{
				ID:          "be-" + modID,
				Type:        extractor.TypeImage,
				Title:       firstNonEmpty(str(mod, "caption", "altText"), extractor.Placeholder(extractor.TypeImage, index+1)),
				ThumbURL:    u,
				DownloadURL: u,
			})
		case "MediaCollectionModule", "image_set", "media_collection":
			for cIdx, c := range arr(mod, "components", "images") {
				comp, ok := c.(map[string]any)
				if !ok {
					continue
				}
				sizes := obj(comp, "imageSizes")
				if sizes == nil {
					sizes = obj(comp, "sizes")
				}
				u := bestURL(sizes)
				if u == "" {
					continue
				}
				set.Add(extractor.MediaItem{
					ID:          fmt.Sprintf("be-%s-%d", modID, cIdx),
					Type:        extractor.TypeImage,
					Title:       firstNonEmpty(str(comp, "caption"), fmt.Sprintf("Asset %d-%d", index+1, cIdx+1)),
					ThumbURL:    u,
					DownloadURL: u,
				})
			}
		case "EmbedModule", "video", "VideoModule", "ExternalVideoModule":
			html := str(mod, "originalEmbed", "fluidEmbed", "embed", "html")
			item, ok := classifyEmbed(html, modID, index)
			if !ok {
				continue
			}
			if caption := str(mod, "caption"); caption != "" {
				item.Title = caption
			}
			set.Add(item)
		}
	}
	return set.Items()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
