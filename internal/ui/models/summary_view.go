package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/cachesweep/internal/cleaner"
	"github.com/fenilsonani/cachesweep/internal/ui/styles"
	"github.com/fenilsonani/cachesweep/pkg/utils"
)

// maxSummaryErrors caps the failures listed on screen
const maxSummaryErrors = 10

// SummaryViewModel handles the summary/results view
type SummaryViewModel struct {
	result *cleaner.CleanResult
}

// NewSummaryViewModel creates a new summary view model
func NewSummaryViewModel(result *cleaner.CleanResult) *SummaryViewModel {
	return &SummaryViewModel{result: result}
}

// Init initializes the summary view
func (m *SummaryViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *SummaryViewModel) Update(msg tea.Msg) (*SummaryViewModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "enter":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the summary view
func (m *SummaryViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Cleanup Summary"))
	b.WriteString("\n\n")

	if m.result != nil {
		verb, freed := "Deleted", "Space freed"
		if m.result.DryRun {
			verb, freed = "Would delete", "Space to free"
		}
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("✓ %s %d files", verb, len(m.result.Deleted))))
		b.WriteString("\n")

		b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("%s: %s", freed,
			utils.FormatBytes(m.result.DeletedSize))))
		b.WriteString("\n\n")

		if n := len(m.result.Errors); n > 0 {
			b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("✗ %d files could not be deleted", n)))
			b.WriteString("\n")
			for i, e := range m.result.Errors {
				if i == maxSummaryErrors {
					b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  ... and %d more", n-maxSummaryErrors)))
					b.WriteString("\n")
					break
				}
				b.WriteString(styles.DimStyle.Render("  " + e.UserMessage()))
				b.WriteString("\n")
			}
		}

		if m.result.DryRun {
			b.WriteString("\n")
			b.WriteString(styles.InfoStyle.Render("Note: This was a dry run. No files were actually deleted."))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Press q or enter to exit"))

	return b.String()
}
