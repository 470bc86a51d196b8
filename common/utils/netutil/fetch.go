package netutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Header     http.Header
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned HTTP %d", e.URL, e.StatusCode)
}

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Retryable reports whether err is worth another attempt: 429, any 5xx, or a
// transport failure with no status at all. Context cancellation and
// rejected redirects are never retried.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrRedirectRejected) ||
		errors.Is(err, ErrTooManyRedirects) {
		return false
	}
	code := StatusCode(err)
	if code == 0 {
		return true
	}
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// Get sends a GET with header and returns the response when the status is
// 2xx. Any other status is drained and reported as *StatusError.
func Get(ctx context.Context, client *http.Client, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if client == nil {
		client = DefaultClient()
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Header: resp.Header}
	}
	return resp, nil
}

// MaxPageSize caps how much of an HTML page is read.
const MaxPageSize = 16 << 20

// GetPage fetches url and returns at most MaxPageSize bytes of its body.
func GetPage(ctx context.Context, client *http.Client, url string, header http.Header) ([]byte, error) {
	resp, err := Get(ctx, client, url, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, MaxPageSize))
}

// BrowserHeader returns the Accept/Referer headers sent with page fetches.
func BrowserHeader(referer string) http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	if referer != "" {
		h.Set("Referer", referer)
	}
	return h
}
