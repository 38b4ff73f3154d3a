package models

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/cachesweep/internal/cleaner"
	"github.com/fenilsonani/cachesweep/internal/config"
	"github.com/fenilsonani/cachesweep/internal/progress"
	"github.com/fenilsonani/cachesweep/internal/report"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/internal/ui/styles"
)

// ViewState represents the current view in the app
type ViewState int

const (
	ViewScanning ViewState = iota
	ViewCategorySelection
	ViewConfirmation
	ViewCleaning
	ViewSummary
	ViewHelp
)

// ScanFunc runs one scan to completion
type ScanFunc func(ctx context.Context) (*report.ScanReport, error)

// AppModel is the root model for the interactive TUI
type AppModel struct {
	state         ViewState
	previousState ViewState

	ctx     context.Context
	cancel  context.CancelFunc
	config  *config.Config
	scan    ScanFunc
	counter *progress.Counter
	report  *report.ScanReport

	scanView     *ScanViewModel
	categoryView *CategoryViewModel
	confirmView  *ConfirmViewModel
	cleanupView  *CleanupViewModel
	summaryView  *SummaryViewModel

	width  int
	height int
	err    error
}

// NewAppModel creates a new app model. counter is polled while scan runs.
func NewAppModel(ctx context.Context, cfg *config.Config, scan ScanFunc, counter *progress.Counter) *AppModel {
	ctx, cancel := context.WithCancel(ctx)
	return &AppModel{
		state:   ViewScanning,
		ctx:     ctx,
		cancel:  cancel,
		config:  cfg,
		scan:    scan,
		counter: counter,
	}
}

// Init initializes the model
func (m *AppModel) Init() tea.Cmd {
	m.scanView = NewScanViewModel(m.ctx, m.scan, m.counter)
	return m.scanView.Init()
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == ViewHelp {
			m.state = m.previousState
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			// Deletions already started run to completion
			if m.state != ViewCleaning {
				m.cancel()
				return m, tea.Quit
			}
		case "?":
			m.previousState = m.state
			m.state = ViewHelp
			return m, nil
		case "esc":
			if m.state == ViewConfirmation {
				m.state = ViewCategorySelection
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ScanCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.report = msg.Report
		m.categoryView = NewCategoryViewModel(m.report)
		m.state = ViewCategorySelection
		return m, nil

	case CategoriesSelectedMsg:
		files := m.report.Filter(msg.Categories...)
		m.confirmView = NewConfirmViewModel(files, m.config.DryRun)
		m.state = ViewConfirmation
		return m, nil

	case ConfirmedMsg:
		m.cleanupView = NewCleanupViewModel(m.ctx, m.confirmView.files, m.config)
		m.state = ViewCleaning
		return m, m.cleanupView.Init()

	case ReviewSelectionMsg:
		m.state = ViewCategorySelection
		return m, nil

	case CleanupCompleteMsg:
		m.summaryView = NewSummaryViewModel(msg.Result)
		m.state = ViewSummary
		return m, nil
	}

	return m.delegateUpdate(msg)
}

// delegateUpdate delegates the update to the current view
func (m *AppModel) delegateUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case ViewScanning:
		if m.scanView != nil {
			m.scanView, cmd = m.scanView.Update(msg)
		}
	case ViewCategorySelection:
		if m.categoryView != nil {
			m.categoryView, cmd = m.categoryView.Update(msg)
		}
	case ViewConfirmation:
		if m.confirmView != nil {
			m.confirmView, cmd = m.confirmView.Update(msg)
		}
	case ViewCleaning:
		if m.cleanupView != nil {
			m.cleanupView, cmd = m.cleanupView.Update(msg)
		}
	case ViewSummary:
		if m.summaryView != nil {
			m.summaryView, cmd = m.summaryView.Update(msg)
		}
	}

	return m, cmd
}

// State returns the current view
func (m *AppModel) State() ViewState {
	return m.state
}

// View renders the current view
func (m *AppModel) View() string {
	if m.err != nil {
		return styles.ErrorStyle.Render("Error: "+m.err.Error()) + "\n\nPress q to quit."
	}

	switch m.state {
	case ViewScanning:
		if m.scanView != nil {
			return m.scanView.View()
		}
	case ViewCategorySelection:
		if m.categoryView != nil {
			return m.categoryView.View()
		}
	case ViewConfirmation:
		if m.confirmView != nil {
			return m.confirmView.View()
		}
	case ViewCleaning:
		if m.cleanupView != nil {
			return m.cleanupView.View()
		}
	case ViewSummary:
		if m.summaryView != nil {
			return m.summaryView.View()
		}
	case ViewHelp:
		return m.renderHelp()
	}

	return "Loading..."
}

func (m *AppModel) renderHelp() string {
	var b strings.Builder

	var viewName, helpContent string
	switch m.previousState {
	case ViewScanning:
		viewName = "Scan"
		helpContent = `Walking the directory tree and classifying every file.

Actions:
  ctrl+c, q  Cancel the scan and exit`
	case ViewCategorySelection:
		viewName = "Category Selection"
		helpContent = `Choose which categories of cache files to delete.

Navigation:
  ↑/k  Move up
  ↓/j  Move down

Selection:
  space   Toggle category
  ctrl+a  Select all
  ctrl+d  Deselect all

Actions:
  enter  Continue to confirmation
  q      Quit`
	case ViewConfirmation:
		viewName = "Confirmation"
		helpContent = `Review the files that will be deleted.

Actions:
  y      Yes, delete
  e      Edit the category selection
  n      Cancel and exit
  ←/→    Switch between buttons
  enter  Press the highlighted button`
	case ViewCleaning:
		viewName = "Cleanup"
		helpContent = `Deleting the selected files. Every file is checked again before it is removed.`
	default:
		viewName = "Summary"
		helpContent = `Cleanup finished.

Actions:
  enter, q  Exit`
	}

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("Help - %s", viewName)))
	b.WriteString("\n\n")
	b.WriteString(helpContent)
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("Press any key to close"))

	return b.String()
}

// ScanCompleteMsg carries the finished scan
type ScanCompleteMsg struct {
	Report *report.ScanReport
	Err    error
}

// CategoriesSelectedMsg carries the categories chosen for deletion
type CategoriesSelectedMsg struct {
	Categories []rules.Category
}

type ConfirmedMsg struct{}

type ReviewSelectionMsg struct{}

// CleanupCompleteMsg carries the deletion outcome
type CleanupCompleteMsg struct {
	Result *cleaner.CleanResult
}
