package dribbble

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/duke-git/lancet/v2/slice"
	"github.com/krau/SaveFolio/common/utils/netutil"
	"github.com/krau/SaveFolio/extractors/page"
	"github.com/krau/SaveFolio/pkg/extractor"
)

const Platform = "Dribbble"

var (
	ErrWAFChallenge = errors.New("blocked by WAF challenge")

	cdnDomains = []string{"dribbble.com", "dribbbleusercontent.com"}
	noise      = []string{"logo", "avatar", "icon", "analytics", "pixel", "sprite", "badge"}
)

type Extractor struct {
	client *http.Client
}

func New(client *http.Client) *Extractor {
	return &Extractor{client: client}
}

func (e *Extractor) Platform() string { return Platform }

func (e *Extractor) CanHandle(url string) bool {
	return page.HostMatches(url, "dribbble.com")
}

func (e *Extractor) Extract(ctx context.Context, pageURL string) ([]extractor.MediaItem, error) {
	logger := log.FromContext(ctx).WithPrefix("extractor/dribbble")
	ctx, cancel := context.WithTimeout(ctx, page.DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, extractor.NewError(Platform, "invalid page url", err)
	}
	req.Header = netutil.BrowserHeader("")
	client := e.client
	if client == nil {
		client = netutil.DefaultClient()
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, extractor.NewError(Platform, "failed to fetch page", err)
	}
	defer resp.Body.Close()

	// Dribbble answers non-browser traffic with an empty 202 and a challenge header.
	if resp.StatusCode == http.StatusAccepted || strings.Contains(strings.ToLower(resp.Header.Get("x-amzn-waf-action")), "challenge") {
		return nil, extractor.NewError(Platform, "Dribbble blocked this request (WAF challenge). Use the browser extension for Dribbble shots.", ErrWAFChallenge)
	}
	if resp.StatusCode >= 400 {
		return nil, extractor.NewError(Platform, fmt.Sprintf("failed to fetch Dribbble page (HTTP %d)", resp.StatusCode),
			&netutil.StatusError{URL: pageURL, StatusCode: resp.StatusCode})
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, extractor.NewError(Platform, "failed to parse page", err)
	}
	items := collect(doc, pageURL)
	logger.Debug("Extracted items", "url", pageURL, "count", len(items))
	return items, nil
}

func collect(doc *goquery.Document, pageURL string) []extractor.MediaItem {
	title := page.Title(doc)
	if title == "" {
		title = "Dribbble Shot"
	}
	set := extractor.NewItemSet()
	add := func(u string, typ extractor.MediaType, thumb, ext string) {
		if !page.IsAbsHTTP(u) || isNoise(u) {
			return
		}
		if thumb == "" && typ == extractor.TypeImage {
			thumb = u
		}
		set.Add(extractor.MediaItem{
			ID:          fmt.Sprintf("dr-%d", set.Len()+1),
			Type:        typ,
			Title:       title,
			ThumbURL:    thumb,
			DownloadURL: u,
			Ext:         ext,
		})
	}

	ogImage := page.Meta(doc, "og:image", "twitter:image")
	add(ogImage, extractor.TypeImage, "", "")
	add(page.Meta(doc, "og:video", "og:video:url"), extractor.TypeVideo, ogImage, "mp4")

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		var urls []string
		if src := s.AttrOr("src", ""); src != "" {
			urls = append(urls, src)
		} else if src := s.AttrOr("data-src", ""); src != "" {
			urls = append(urls, src)
		}
		urls = append(urls, page.SrcsetURLs(s.AttrOr("srcset", ""))...)
		for _, u := range urls {
			if page.HostMatches(u, cdnDomains...) {
				add(u, extractor.TypeImage, "", "")
			}
		}
	})

	doc.Find("video source").Each(func(_ int, s *goquery.Selection) {
		if src := s.AttrOr("src", ""); src != "" {
			add(page.Resolve(pageURL, src), extractor.TypeVideo, ogImage, "mp4")
		}
	})
	return set.Items()
}

func isNoise(u string) bool {
	lower := strings.ToLower(u)
	return slice.Some(noise, func(_ int, marker string) bool {
		return strings.Contains(lower, marker)
	})
}
