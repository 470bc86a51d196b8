//go:build no_playwright

package generic

import (
	"context"
	"errors"
	"time"
)

func renderPage(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	return nil, errors.New("page rendering is not supported in this build")
}
