package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/krau/SaveFolio/common/utils/ioutil"
	"github.com/krau/SaveFolio/common/utils/netutil"
)

func (b *Builder) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = b.initialBackoff
	eb.RandomizationFactor = 0
	eb.Multiplier = 2
	eb.MaxInterval = 30 * time.Second
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, b.maxRetries), ctx)
}

// fetch GETs url, retrying 429, 5xx and transport failures. The returned
// body aborts its request after fetchTimeout without data.
func (b *Builder) fetch(ctx context.Context, logger *log.Logger, url string) (io.ReadCloser, error) {
	header := netutil.BrowserHeader(b.referer)
	header.Set("Accept", "*/*")

	var body io.ReadCloser
	op := func() error {
		fctx, cancel := context.WithCancel(ctx)
		timer := time.AfterFunc(b.fetchTimeout, cancel)
		resp, err := netutil.Get(fctx, b.client, url, header)
		if err != nil {
			timer.Stop()
			cancel()
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if errors.Is(err, context.Canceled) {
				// our own timer fired
				err = fmt.Errorf("no response within %s", b.fetchTimeout)
			}
			if !netutil.Retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		body = ioutil.NewIdleTimeoutReader(resp.Body, timer, b.fetchTimeout, cancel)
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Debug("Retrying asset", "url", url, "err", err, "wait", wait)
		if b.onRetry != nil {
			b.onRetry(url, err, wait)
		}
	}
	var timer backoff.Timer
	if b.newTimer != nil {
		timer = b.newTimer()
	}
	if err := backoff.RetryNotifyWithTimer(op, b.backOff(ctx), notify, timer); err != nil {
		return nil, err
	}
	return body, nil
}
