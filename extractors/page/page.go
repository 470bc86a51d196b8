// Package page holds the HTML fetching and OpenGraph helpers shared by the
// built-in extractors.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/krau/SaveFolio/common/utils/netutil"
	"github.com/krau/SaveFolio/pkg/extractor"
)

const DefaultTimeout = 15 * time.Second

type Request struct {
	Client   *http.Client
	Platform string
	Referer  string
	Timeout  time.Duration
}

// Fetch downloads url and parses it. Transport failures, timeouts and error
// statuses come back as *extractor.Error.
func Fetch(ctx context.Context, req Request, pageURL string) (*goquery.Document, error) {
	body, err := FetchRaw(ctx, req, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, extractor.NewError(req.Platform, "failed to parse page", err)
	}
	return doc, nil
}

func FetchRaw(ctx context.Context, req Request, pageURL string) ([]byte, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := netutil.GetPage(ctx, req.Client, pageURL, netutil.BrowserHeader(req.Referer))
	if err == nil {
		return body, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, extractor.NewError(req.Platform, fmt.Sprintf("timed out fetching page after %s", timeout), err)
	}
	if code := netutil.StatusCode(err); code != 0 {
		return nil, extractor.NewError(req.Platform, fmt.Sprintf("failed to fetch page (HTTP %d)", code), err)
	}
	return nil, extractor.NewError(req.Platform, "failed to fetch page", err)
}

// Meta returns the content of the first meta tag whose property or name
// matches one of keys, in key order.
func Meta(doc *goquery.Document, keys ...string) string {
	for _, k := range keys {
		for _, attr := range []string{"property", "name"} {
			sel := doc.Find(fmt.Sprintf(`meta[%s="%s"]`, attr, k)).First()
			if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

// Title returns og:title, falling back to the <title> text.
func Title(doc *goquery.Document) string {
	if t := Meta(doc, "og:title"); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// Resolve makes ref absolute against base. Unparsable refs yield "".
func Resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

// IsAbsHTTP reports whether s is an absolute http(s) url.
func IsAbsHTTP(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// HostMatches reports whether the host of raw is domain or a subdomain of it.
func HostMatches(raw string, domains ...string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// SrcsetURLs returns the candidate urls of a srcset attribute.
func SrcsetURLs(srcset string) []string {
	var out []string
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(part)
		if len(fields) > 0 {
			out = append(out, fields[0])
		}
	}
	return out
}
