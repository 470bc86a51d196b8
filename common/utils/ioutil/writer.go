package ioutil

import "io"

type ProgressWriter struct {
	wr      io.Writer
	onWrite func(n int)
}

func (p *ProgressWriter) Write(buf []byte) (n int, err error) {
	n, err = p.wr.Write(buf)
	if n > 0 {
		p.onWrite(n)
	}
	return
}

func NewProgressWriter(
	wr io.Writer,
	onWrite func(n int),
) *ProgressWriter {
	return &ProgressWriter{
		wr:      wr,
		onWrite: onWrite,
	}
}

// StickyErrWriter remembers the first write error of the underlying writer
// and fails every later write with it.
type StickyErrWriter struct {
	wr  io.Writer
	err error
}

func NewStickyErrWriter(wr io.Writer) *StickyErrWriter {
	return &StickyErrWriter{wr: wr}
}

func (s *StickyErrWriter) Write(buf []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.wr.Write(buf)
	if err != nil {
		s.err = err
	}
	return n, err
}

func (s *StickyErrWriter) Err() error {
	return s.err
}
