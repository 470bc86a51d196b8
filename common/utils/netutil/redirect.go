package netutil

import (
	"errors"
	"fmt"
	"net/http"
)

// MaxRedirects is the number of redirects a request may follow.
const MaxRedirects = 3

var (
	ErrRedirectRejected = errors.New("redirect target not allowed")
	ErrTooManyRedirects = fmt.Errorf("stopped after %d redirects", MaxRedirects)
)

func redirectPolicy(allow func(url string) bool) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) > MaxRedirects {
			return ErrTooManyRedirects
		}
		if allow != nil && !allow(req.URL.String()) {
			return fmt.Errorf("%w: %s", ErrRedirectRejected, req.URL.Redacted())
		}
		return nil
	}
}

// CheckRedirects returns a copy of c that only follows redirects whose
// target passes allow. The transport is shared with c.
func CheckRedirects(c *http.Client, allow func(url string) bool) *http.Client {
	cc := *c
	cc.CheckRedirect = redirectPolicy(allow)
	return &cc
}
