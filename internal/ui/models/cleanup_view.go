package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/cachesweep/internal/cleaner"
	"github.com/fenilsonani/cachesweep/internal/config"
	"github.com/fenilsonani/cachesweep/internal/progress"
	"github.com/fenilsonani/cachesweep/internal/report"
	"github.com/fenilsonani/cachesweep/internal/ui/styles"
)

// cleanupProgressMsg reports one finished file
type cleanupProgressMsg struct {
	done  int
	total int
	bytes int64
}

// CleanupViewModel handles the cleanup progress view
type CleanupViewModel struct {
	ctx       context.Context
	files     []report.MatchedFile
	config    *config.Config
	spinner   spinner.Model
	bar       bprogress.Model
	updates   chan tea.Msg
	current   int
	freed     int64
	startTime time.Time
}

// NewCleanupViewModel creates a new cleanup view model
func NewCleanupViewModel(ctx context.Context, files []report.MatchedFile, cfg *config.Config) *CleanupViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return &CleanupViewModel{
		ctx:       ctx,
		files:     files,
		config:    cfg,
		spinner:   s,
		bar:       bprogress.New(bprogress.WithDefaultGradient()),
		updates:   make(chan tea.Msg, 64),
		startTime: time.Now(),
	}
}

// Init starts the deletion in the background
func (m *CleanupViewModel) Init() tea.Cmd {
	go m.performCleanup()
	return tea.Batch(m.spinner.Tick, m.waitForUpdate())
}

// waitForUpdate blocks until the cleaner reports progress or finishes
func (m *CleanupViewModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		return <-m.updates
	}
}

// Update handles messages
func (m *CleanupViewModel) Update(msg tea.Msg) (*CleanupViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case cleanupProgressMsg:
		m.current = msg.done
		m.freed = msg.bytes
		return m, m.waitForUpdate()
	}

	return m, nil
}

// View renders the cleanup view
func (m *CleanupViewModel) View() string {
	var b strings.Builder

	title := "Cleaning Up"
	if m.config.DryRun {
		title = "Cleaning Up (dry run)"
	}
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(progress.FormatCleanProgress(&progress.CleanProgress{
		Phase:        progress.PhaseCleaning,
		DeletedFiles: m.current,
		TotalFiles:   len(m.files),
		DeletedSize:  m.freed,
		DryRun:       m.config.DryRun,
		StartTime:    m.startTime,
	}))
	b.WriteString("\n\n")

	percent := 1.0
	if len(m.files) > 0 {
		percent = float64(m.current) / float64(len(m.files))
	}
	b.WriteString(m.bar.ViewAs(percent))
	b.WriteString("\n\n")

	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%d of %d files", m.current, len(m.files))))

	return b.String()
}

// performCleanup runs the cleaner and forwards its callbacks as messages.
// The final message is always CleanupCompleteMsg.
func (m *CleanupViewModel) performCleanup() {
	onProgress := func(done, total int, bytes int64) {
		select {
		case m.updates <- cleanupProgressMsg{done: done, total: total, bytes: bytes}:
		default:
			// the view only needs the latest counts
		}
	}

	c := cleaner.New(m.config, cleaner.WithProgress(onProgress))
	result := c.Clean(m.ctx, m.files)
	m.updates <- CleanupCompleteMsg{Result: result}
}
