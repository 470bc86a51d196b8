package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/common/utils/netutil"
	"github.com/krau/SaveFolio/pkg/guard"
)

const DefaultContentType = "application/octet-stream"

var ErrForbidden = errors.New("domain not allowed")

type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded with HTTP %d", e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Asset is an open upstream response. The caller must close Body.
type Asset struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

type Relay struct {
	client *http.Client
	guard  *guard.Guard
}

func New(client *http.Client, g *guard.Guard) *Relay {
	if client == nil {
		client = netutil.DefaultClient()
	}
	if g == nil {
		g = guard.Default
	}
	return &Relay{client: netutil.CheckRedirects(client, g.IsAllowed), guard: g}
}

// Open starts fetching url. No connection is made for urls the guard rejects,
// and redirects are re-checked on every hop.
func (r *Relay) Open(ctx context.Context, url string) (*Asset, error) {
	if !r.guard.IsAllowed(url) {
		return nil, ErrForbidden
	}
	resp, err := netutil.Get(ctx, r.client, url, netutil.BrowserHeader(""))
	if err != nil {
		if errors.Is(err, netutil.ErrRedirectRejected) {
			return nil, fmt.Errorf("%w: %w", ErrForbidden, err)
		}
		if code := netutil.StatusCode(err); code != 0 {
			return nil, &UpstreamError{Status: code, Err: err}
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	log.FromContext(ctx).WithPrefix("relay").Debug("Relaying asset", "url", url, "type", resp.Header.Get("Content-Type"))
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = DefaultContentType
	}
	return &Asset{
		Body:          resp.Body,
		ContentType:   ct,
		ContentLength: resp.ContentLength,
	}, nil
}
