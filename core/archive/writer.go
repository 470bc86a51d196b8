package archive

import (
	"archive/zip"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/krau/SaveFolio/common/utils/fsutil"
	"github.com/krau/SaveFolio/common/utils/ioutil"
)

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

type entry struct {
	name string
	body io.Reader
	done chan<- error
}

// writeError marks a failure of the outgoing stream, as opposed to a failed
// upstream read.
type writeError struct {
	err error
}

func (e *writeError) Error() string { return e.err.Error() }

func (e *writeError) Unwrap() error { return e.err }

// zipSink is owned by a single goroutine; entries never interleave.
type zipSink struct {
	zw    *zip.Writer
	sink  *ioutil.StickyErrWriter
	flush func() error
	used  map[string]int
}

func (z *zipSink) writeReadme() error {
	z.used[readmeName] = 1
	w, err := z.zw.CreateHeader(z.header(readmeName))
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, readme); err != nil {
		return err
	}
	if err := z.zw.Flush(); err != nil {
		return err
	}
	return z.flush()
}

func (z *zipSink) run(entries <-chan entry, cancel context.CancelCauseFunc, st *stats) error {
	var failed error
	for e := range entries {
		if failed != nil {
			e.done <- failed
			continue
		}
		err := z.write(e)
		var we *writeError
		if errors.As(err, &we) {
			failed = err
			cancel(err)
		} else if err == nil {
			st.entries.Add(1)
		}
		e.done <- err
	}
	return failed
}

func (z *zipSink) write(e entry) error {
	name := fsutil.SanitizeFilename(e.name)
	body := e.body
	if !fsutil.HasExt(name) {
		br := bufio.NewReaderSize(body, sniffLen)
		head, _ := br.Peek(sniffLen)
		name += fsutil.DetectExt(head)
		body = br
	}
	name = z.unique(name)

	w, err := z.zw.CreateHeader(z.header(name))
	if err != nil {
		return &writeError{err}
	}
	if _, err := io.Copy(w, body); err != nil {
		if serr := z.sink.Err(); serr != nil {
			return &writeError{serr}
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := z.zw.Flush(); err != nil {
		return &writeError{err}
	}
	if err := z.flush(); err != nil {
		return &writeError{err}
	}
	return nil
}

func (z *zipSink) header(name string) *zip.FileHeader {
	return &zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: time.Now(),
	}
}

// unique appends _1, _2... before the extension of names already used.
func (z *zipSink) unique(name string) string {
	n, seen := z.used[name]
	z.used[name] = n + 1
	if !seen {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := n; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, taken := z.used[candidate]; !taken {
			z.used[name] = i + 1
			z.used[candidate] = 1
			return candidate
		}
	}
}
