package instagram

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/extractors/page"
	"github.com/krau/SaveFolio/pkg/extractor"
)

const Platform = "Instagram"

type Extractor struct {
	client *http.Client
}

func New(client *http.Client) *Extractor {
	return &Extractor{client: client}
}

func (e *Extractor) Platform() string { return Platform }

func (e *Extractor) CanHandle(url string) bool {
	return page.HostMatches(url, "instagram.com")
}

// Extract reads the OpenGraph media of a public post. Private or
// login-walled posts expose none and fail.
func (e *Extractor) Extract(ctx context.Context, url string) ([]extractor.MediaItem, error) {
	doc, err := page.Fetch(ctx, page.Request{
		Client:   e.client,
		Platform: Platform,
		Timeout:  10 * time.Second,
	}, url)
	if err != nil {
		log.FromContext(ctx).WithPrefix("extractor/instagram").Warn("Fetch failed", "url", url, "err", err)
		return nil, extractor.NewError(Platform, "Failed to extract Instagram content. Private posts and login walls are not supported.", err)
	}
	title := page.Meta(doc, "og:title")
	if title == "" {
		title = "Instagram Post"
	}
	image := page.Meta(doc, "og:image")
	set := extractor.NewItemSet()
	if video := page.Meta(doc, "og:video"); video != "" {
		set.Add(extractor.MediaItem{
			ID:          "ig-video",
			Type:        extractor.TypeVideo,
			Title:       title,
			Ext:         "mp4",
			ThumbURL:    image,
			DownloadURL: video,
		})
	} else if image != "" {
		set.Add(extractor.MediaItem{
			ID:          "ig-image",
			Type:        extractor.TypeImage,
			Title:       title,
			ThumbURL:    image,
			DownloadURL: image,
		})
	}
	if set.Len() == 0 {
		return nil, extractor.NewError(Platform, "No public media found. This post may be private or require login.", nil)
	}
	return set.Items(), nil
}
