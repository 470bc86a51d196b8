package netutil

import (
	"net/http"
	"sync/atomic"
	"time"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Options struct {
	// Proxy is an http(s):// or socks5:// url. Empty means direct.
	Proxy string
	// Timeout bounds the whole request including the body. Zero means none,
	// which is what streaming callers want.
	Timeout time.Duration
	// HeaderTimeout bounds the wait for response headers. Default 30s.
	HeaderTimeout time.Duration
	UserAgent     string
}

func NewClient(opts Options) (*http.Client, error) {
	headerTimeout := opts.HeaderTimeout
	if headerTimeout <= 0 {
		headerTimeout = 30 * time.Second
	}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: headerTimeout,
		ForceAttemptHTTP2:     true,
	}
	if opts.Proxy != "" {
		if err := applyProxy(tr, opts.Proxy); err != nil {
			return nil, err
		}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &http.Client{
		Transport:     &uaTransport{base: tr, userAgent: ua},
		Timeout:       opts.Timeout,
		CheckRedirect: redirectPolicy(nil),
	}, nil
}

// uaTransport sets a browser User-Agent on requests that do not carry one.
type uaTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

var defaultClient atomic.Pointer[http.Client]

func init() {
	c, _ := NewClient(Options{})
	defaultClient.Store(c)
}

// DefaultClient is the shared upstream client used by extractors and plugins.
func DefaultClient() *http.Client {
	return defaultClient.Load()
}

func SetDefaultClient(c *http.Client) {
	if c != nil {
		defaultClient.Store(c)
	}
}
