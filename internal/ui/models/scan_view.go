package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/cachesweep/internal/progress"
	"github.com/fenilsonani/cachesweep/internal/ui/styles"
)

const pollInterval = 100 * time.Millisecond

// ScanViewModel shows a spinner and the live counters while scanning
type ScanViewModel struct {
	ctx      context.Context
	scan     ScanFunc
	counter  *progress.Counter
	spinner  spinner.Model
	snapshot *progress.ScanProgress
	scanning bool
}

// NewScanViewModel creates a new scan view model
func NewScanViewModel(ctx context.Context, scan ScanFunc, counter *progress.Counter) *ScanViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return &ScanViewModel{
		ctx:      ctx,
		scan:     scan,
		counter:  counter,
		spinner:  s,
		scanning: true,
	}
}

// Init starts the scan, the spinner and the counter polling
func (m *ScanViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.performScan,
		pollCounter(),
	)
}

type scanTickMsg struct{}

func pollCounter() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return scanTickMsg{} })
}

// Update handles messages
func (m *ScanViewModel) Update(msg tea.Msg) (*ScanViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanTickMsg:
		m.snapshot = m.counter.Snapshot()
		if !m.scanning {
			return m, nil
		}
		return m, pollCounter()

	case ScanCompleteMsg:
		m.scanning = false
		return m, nil
	}

	return m, nil
}

// View renders the scan view
func (m *ScanViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Scanning for cache files"))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(progress.FormatScanProgress(m.snapshot))
	b.WriteString("\n\n")

	if m.snapshot != nil {
		b.WriteString(fmt.Sprintf("Cache files: %s  %s\n",
			styles.BoldStyle.Render(fmt.Sprintf("%d", m.snapshot.Matched)),
			styles.RenderSize(m.snapshot.MatchedSize)))
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Press ctrl+c to cancel"))

	return b.String()
}

// performScan runs the scan on the command goroutine
func (m *ScanViewModel) performScan() tea.Msg {
	r, err := m.scan(m.ctx)
	return ScanCompleteMsg{Report: r, Err: err}
}
