package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/krau/SaveFolio/common/utils/ioutil"
	"github.com/krau/SaveFolio/common/utils/netutil"
	"github.com/krau/SaveFolio/pkg/guard"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers        = 6
	DefaultFetchTimeout   = 60 * time.Second
	DefaultMaxRetries     = 2
	DefaultInitialBackoff = 350 * time.Millisecond
	DefaultReferer        = "https://www.behance.net/"

	readmeName = "README.txt"
	readme     = `SaveFolio

This ZIP is streamed as assets are fetched.
If a project is large, the download may appear to pause while files are being added.

Public projects only.
`
)

var ErrNoAssets = errors.New("no assets to archive")

type Asset struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type Job struct {
	OutputFilename string
	Assets         []Asset
	// Progress, when set, is called after every asset is written or
	// skipped. It may be called from several goroutines at once.
	Progress func(Progress)
}

type Progress struct {
	Done    int
	Skipped int
	Total   int
	Bytes   int64
}

type Options struct {
	Workers        int
	Client         *http.Client
	Guard          *guard.Guard
	FetchTimeout   time.Duration
	MaxRetries     uint64
	InitialBackoff time.Duration
	// Referer sent with every asset request. Some CDNs refuse hotlinks without it.
	Referer string
}

// Flusher is implemented by outgoing writers that buffer, such as an HTTP
// response. Build flushes after the README and after every entry.
type Flusher interface {
	Flush() error
}

type Builder struct {
	workers        int
	client         *http.Client
	guard          *guard.Guard
	fetchTimeout   time.Duration
	maxRetries     uint64
	initialBackoff time.Duration
	referer        string

	// test hooks
	newTimer func() backoff.Timer
	onRetry  func(url string, err error, wait time.Duration)
}

func NewBuilder(opts Options) *Builder {
	b := &Builder{
		workers:        opts.Workers,
		client:         opts.Client,
		guard:          opts.Guard,
		fetchTimeout:   opts.FetchTimeout,
		maxRetries:     opts.MaxRetries,
		initialBackoff: opts.InitialBackoff,
		referer:        opts.Referer,
	}
	if b.workers <= 0 {
		b.workers = DefaultWorkers
	}
	if b.client == nil {
		b.client = netutil.DefaultClient()
	}
	if b.guard == nil {
		b.guard = guard.Default
	}
	b.client = netutil.CheckRedirects(b.client, b.guard.IsAllowed)
	if b.fetchTimeout <= 0 {
		b.fetchTimeout = DefaultFetchTimeout
	}
	if b.maxRetries == 0 {
		b.maxRetries = DefaultMaxRetries
	}
	if b.initialBackoff <= 0 {
		b.initialBackoff = DefaultInitialBackoff
	}
	if b.referer == "" {
		b.referer = DefaultReferer
	}
	return b
}

type stats struct {
	entries atomic.Int32
	skipped atomic.Int32
	bytes   atomic.Int64
}

func (s *stats) progress(total int) Progress {
	return Progress{
		Done:    int(s.entries.Load()),
		Skipped: int(s.skipped.Load()),
		Total:   total,
		Bytes:   s.bytes.Load(),
	}
}

// Build writes a zip archive of job's assets to w. Assets that cannot be
// fetched are skipped; only a failure to write w aborts the job.
func (b *Builder) Build(ctx context.Context, w io.Writer, job Job) error {
	if len(job.Assets) == 0 {
		return ErrNoAssets
	}
	logger := log.FromContext(ctx).WithPrefix("archive")
	start := time.Now()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	st := &stats{}
	sink := ioutil.NewStickyErrWriter(w)
	zw := zip.NewWriter(ioutil.NewProgressWriter(sink, func(n int) {
		st.bytes.Add(int64(n))
	}))
	zs := &zipSink{
		zw:    zw,
		sink:  sink,
		flush: flushFunc(w),
		used:  make(map[string]int),
	}
	if err := zs.writeReadme(); err != nil {
		return fmt.Errorf("failed to write README: %w", err)
	}

	queue := make(chan Asset, len(job.Assets))
	for _, a := range job.Assets {
		queue <- a
	}
	close(queue)

	entries := make(chan entry)
	writerDone := make(chan error, 1)
	go func() {
		writerDone <- zs.run(entries, cancel, st)
	}()

	eg, gctx := errgroup.WithContext(ctx)
	workers := min(b.workers, len(job.Assets))
	for range workers {
		eg.Go(func() error {
			for asset := range queue {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := b.process(gctx, logger, asset, entries, st); err != nil {
					return err
				}
				if job.Progress != nil {
					job.Progress(st.progress(len(job.Assets)))
				}
			}
			return nil
		})
	}
	werr := eg.Wait()
	close(entries)
	if err := <-writerDone; err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if werr != nil {
		return werr
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := zs.flush(); err != nil {
		return fmt.Errorf("failed to flush archive: %w", err)
	}
	logger.Info("Archive finished",
		"name", job.OutputFilename,
		"entries", st.entries.Load(),
		"skipped", st.skipped.Load(),
		"size", humanize.Bytes(uint64(st.bytes.Load())),
		"took", time.Since(start).Round(time.Millisecond))
	return nil
}

func (b *Builder) process(ctx context.Context, logger *log.Logger, asset Asset, entries chan<- entry, st *stats) error {
	if !b.guard.IsAllowed(asset.URL) {
		logger.Warn("Skipping disallowed asset", "url", asset.URL)
		st.skipped.Add(1)
		return nil
	}
	body, err := b.fetch(ctx, logger, asset.URL)
	if err != nil {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		logger.Warn("Skipping asset", "url", asset.URL, "err", err)
		st.skipped.Add(1)
		return nil
	}
	defer body.Close()

	done := make(chan error, 1)
	select {
	case entries <- entry{name: asset.Filename, body: body, done: done}:
	case <-ctx.Done():
		return context.Cause(ctx)
	}
	err = <-done
	var we *writeError
	if errors.As(err, &we) {
		return err
	}
	if err != nil {
		logger.Warn("Asset body failed mid-transfer", "url", asset.URL, "err", err)
		st.skipped.Add(1)
	}
	return nil
}

// Stream runs Build in the background and returns the read side of the
// archive. Closing the reader cancels the job.
func (b *Builder) Stream(ctx context.Context, job Job) (io.ReadCloser, error) {
	if len(job.Assets) == 0 {
		return nil, ErrNoAssets
	}
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	go func() {
		defer cancel()
		pw.CloseWithError(b.Build(ctx, pw, job))
	}()
	return &streamReader{PipeReader: pr, cancel: cancel}, nil
}

type streamReader struct {
	*io.PipeReader
	cancel context.CancelFunc
}

func (s *streamReader) Close() error {
	s.cancel()
	return s.PipeReader.Close()
}

func flushFunc(w io.Writer) func() error {
	if f, ok := w.(Flusher); ok {
		return f.Flush
	}
	if f, ok := w.(http.Flusher); ok {
		return func() error {
			f.Flush()
			return nil
		}
	}
	return func() error { return nil }
}
