//go:build !no_bubbletea

package packui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/krau/SaveFolio/core/archive"
)

var (
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

type progressMsg archive.Progress

type progressErrMsg struct{ err error }

type progressDoneMsg struct{}

// packModel is the bubbletea model for the archive progress UI
type packModel struct {
	progress progress.Model
	name     string
	state    archive.Progress
	err      error
	done     bool
}

func newPackModel(name string, total int) packModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
	)
	return packModel{
		progress: p,
		name:     name,
		state:    archive.Progress{Total: total},
	}
}

func (m packModel) Init() tea.Cmd {
	return nil
}

func (m packModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-10, 80)
		return m, nil

	case progressMsg:
		// updates arrive from several workers and may be out of order
		p := archive.Progress(msg)
		if p.Done+p.Skipped < m.state.Done+m.state.Skipped {
			return m, nil
		}
		m.state = p
		return m, m.progress.SetPercent(m.percent())

	case progressErrMsg:
		m.err = msg.err
		return m, tea.Quit

	case progressDoneMsg:
		m.done = true
		m.progress.SetPercent(1.0)
		return m, tea.Quit

	case progress.FrameMsg:
		if m.done {
			return m, nil
		}
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m packModel) percent() float64 {
	if m.state.Total == 0 {
		return 0
	}
	return float64(m.state.Done+m.state.Skipped) / float64(m.state.Total)
}

func (m packModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  ❌ Error: %s\n\n", m.err.Error())
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  📦 %s\n", m.name))
	sb.WriteString(fmt.Sprintf("  📊 %d/%d assets, %d skipped, %s\n\n",
		m.state.Done, m.state.Total, m.state.Skipped,
		humanize.Bytes(uint64(m.state.Bytes)),
	))

	sb.WriteString("  ")
	sb.WriteString(m.progress.View())
	sb.WriteString("\n\n")

	if m.done {
		sb.WriteString("  √ Archive saved!\n\n")
	} else {
		sb.WriteString(helpStyle.Render("  Press Ctrl+C to cancel"))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// Progress renders archive progress in the terminal
type Progress struct {
	program *tea.Program
}

func New(ctx context.Context, name string, total int) *Progress {
	p := tea.NewProgram(
		newPackModel(name, total),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
		tea.WithInput(nil), // Disable keyboard input, rely on context cancellation
	)
	return &Progress{program: p}
}

// Start starts the progress UI in a goroutine and returns immediately
func (p *Progress) Start() {
	go func() {
		p.program.Run()
	}()
}

// Update is safe to call from archive workers.
func (p *Progress) Update(state archive.Progress) {
	p.program.Send(progressMsg(state))
}

func (p *Progress) SetError(err error) {
	p.program.Send(progressErrMsg{err: err})
}

func (p *Progress) Done() {
	p.program.Send(progressDoneMsg{})
}

func (p *Progress) Wait() {
	p.program.Wait()
}
