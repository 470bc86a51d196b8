//go:build no_bubbletea

package packui

import (
	"context"

	"github.com/krau/SaveFolio/core/archive"
)

type Progress struct {
}

func New(ctx context.Context, name string, total int) *Progress {
	return &Progress{}
}

func (p *Progress) Start() {}

func (p *Progress) Update(state archive.Progress) {}

func (p *Progress) SetError(err error) {}

func (p *Progress) Done() {}

func (p *Progress) Wait() {}
