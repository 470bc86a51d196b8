package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/extractors/page"
	"github.com/krau/SaveFolio/pkg/extractor"
)

const (
	Platform = "TikTok"
	dataID   = "__UNIVERSAL_DATA_FOR_REHYDRATION__"
)

type Extractor struct {
	client *http.Client
}

func New(client *http.Client) *Extractor {
	return &Extractor{client: client}
}

func (e *Extractor) Platform() string { return Platform }

func (e *Extractor) CanHandle(url string) bool {
	return page.HostMatches(url, "tiktok.com")
}

type rehydration struct {
	DefaultScope struct {
		VideoDetail struct {
			ItemInfo struct {
				ItemStruct *itemStruct `json:"itemStruct"`
			} `json:"itemInfo"`
		} `json:"webapp.video-detail"`
	} `json:"__DEFAULT_SCOPE__"`
}

type itemStruct struct {
	ID     string `json:"id"`
	Desc   string `json:"desc"`
	Author struct {
		Nickname string `json:"nickname"`
	} `json:"author"`
	Video struct {
		Cover        string `json:"cover"`
		DownloadAddr string `json:"downloadAddr"`
		PlayAddr     string `json:"playAddr"`
		Definition   string `json:"definition"`
	} `json:"video"`
}

func (e *Extractor) Extract(ctx context.Context, url string) ([]extractor.MediaItem, error) {
	logger := log.FromContext(ctx).WithPrefix("extractor/tiktok")
	doc, err := page.Fetch(ctx, page.Request{Client: e.client, Platform: Platform}, url)
	if err != nil {
		return nil, err
	}
	set := extractor.NewItemSet()
	if it, err := fromRehydration(doc); err != nil {
		logger.Warn("Failed to parse rehydration data", "url", url, "err", err)
	} else if it != nil {
		set.Add(*it)
	}
	if set.Len() == 0 {
		if it := fromOpenGraph(doc); it != nil {
			set.Add(*it)
		}
	}
	if set.Len() == 0 {
		return nil, extractor.NewError(Platform, "TikTok content not found. The video may be restricted or require a browser session.", nil)
	}
	return set.Items(), nil
}

func fromRehydration(doc *goquery.Document) (*extractor.MediaItem, error) {
	text := strings.TrimSpace(doc.Find("script#" + dataID).First().Text())
	if text == "" {
		return nil, nil
	}
	var data rehydration
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, err
	}
	v := data.DefaultScope.VideoDetail.ItemInfo.ItemStruct
	if v == nil {
		return nil, nil
	}
	download := v.Video.DownloadAddr
	if download == "" {
		download = v.Video.PlayAddr
	}
	author := v.Author.Nickname
	if author == "" {
		author = "TikTok"
	}
	desc := v.Desc
	if desc == "" {
		desc = "Video"
	}
	return &extractor.MediaItem{
		ID:          "tt-" + v.ID,
		Type:        extractor.TypeVideo,
		Title:       fmt.Sprintf("%s - %s", author, desc),
		Ext:         "mp4",
		ThumbURL:    v.Video.Cover,
		DownloadURL: download,
		Resolution:  v.Video.Definition,
	}, nil
}

func fromOpenGraph(doc *goquery.Document) *extractor.MediaItem {
	video := page.Meta(doc, "og:video")
	image := page.Meta(doc, "og:image")
	if video == "" && image == "" {
		return nil
	}
	title := page.Meta(doc, "og:title")
	if title == "" {
		title = "TikTok Video"
	}
	it := &extractor.MediaItem{
		ID:       "tt-meta",
		Title:    title,
		ThumbURL: image,
	}
	if video != "" {
		it.Type, it.Ext, it.DownloadURL = extractor.TypeVideo, "mp4", video
	} else {
		it.Type, it.DownloadURL = extractor.TypeImage, image
	}
	return it
}
