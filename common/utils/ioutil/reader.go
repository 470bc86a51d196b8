package ioutil

import (
	"io"
	"time"
)

// IdleTimeoutReader calls onIdle when no byte arrived for d. The timer is
// created by the caller so that it can also cover the wait for headers.
type IdleTimeoutReader struct {
	rc     io.ReadCloser
	timer  *time.Timer
	d      time.Duration
	onIdle func()
}

func NewIdleTimeoutReader(rc io.ReadCloser, timer *time.Timer, d time.Duration, onIdle func()) *IdleTimeoutReader {
	return &IdleTimeoutReader{rc: rc, timer: timer, d: d, onIdle: onIdle}
}

func (r *IdleTimeoutReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if n > 0 {
		r.timer.Reset(r.d)
	}
	return n, err
}

// Close stops the timer, closes the body and releases onIdle's resources.
func (r *IdleTimeoutReader) Close() error {
	r.timer.Stop()
	err := r.rc.Close()
	r.onIdle()
	return err
}
