package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/cachesweep/internal/report"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/internal/ui/styles"
)

// RiskLevel represents the risk level of a deletion operation
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// ConfirmViewModel handles the confirmation screen
type ConfirmViewModel struct {
	files     []report.MatchedFile
	dryRun    bool
	cursor    int // 0 = Yes, 1 = Review, 2 = Cancel
	riskLevel RiskLevel
}

// NewConfirmViewModel creates a new confirm view model
func NewConfirmViewModel(files []report.MatchedFile, dryRun bool) *ConfirmViewModel {
	risk := calculateRiskLevel(files)
	cursor := 0
	if risk == RiskHigh {
		cursor = 2
	}

	return &ConfirmViewModel{
		files:     files,
		dryRun:    dryRun,
		cursor:    cursor,
		riskLevel: risk,
	}
}

// calculateRiskLevel grades a deletion by size and by how much of it falls
// outside the Temporary and Log categories
func calculateRiskLevel(files []report.MatchedFile) RiskLevel {
	var backups, other int
	for _, f := range files {
		switch f.Category {
		case rules.Backup:
			backups++
		case rules.Temporary, rules.Log, rules.Browser:
		default:
			other++
		}
	}

	if len(files) > 5000 || backups > 0 {
		return RiskHigh
	}
	if len(files) >= 500 || other > 0 {
		return RiskMedium
	}
	return RiskLow
}

// Init initializes the confirm view
func (m *ConfirmViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *ConfirmViewModel) Update(msg tea.Msg) (*ConfirmViewModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < 2 {
			m.cursor++
		}
	case "tab":
		m.cursor = (m.cursor + 1) % 3
	case "enter":
		switch m.cursor {
		case 0:
			return m, func() tea.Msg { return ConfirmedMsg{} }
		case 1:
			return m, func() tea.Msg { return ReviewSelectionMsg{} }
		case 2:
			return m, tea.Quit
		}
	case "y":
		return m, func() tea.Msg { return ConfirmedMsg{} }
	case "e":
		return m, func() tea.Msg { return ReviewSelectionMsg{} }
	case "n":
		return m, tea.Quit
	}

	return m, nil
}

// View renders the confirmation view
func (m *ConfirmViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Confirm deletion"))
	b.WriteString("\n\n")

	var totalSize int64
	counts := make(map[rules.Category]int)
	sizes := make(map[rules.Category]int64)
	for _, f := range m.files {
		totalSize += f.Size
		counts[f.Category]++
		sizes[f.Category] += f.Size
	}

	verb := "delete"
	if m.dryRun {
		verb = "simulate deleting"
	}
	b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("You are about to %s %d files", verb, len(m.files))))
	b.WriteString(" (" + styles.RenderSize(totalSize) + ")\n\n")

	for _, c := range rules.Categories() {
		if counts[c] == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-12s %5d files (%s)\n",
			styles.RenderCategory(c), counts[c], styles.RenderSize(sizes[c])))
	}
	b.WriteString("\n")

	switch m.riskLevel {
	case RiskHigh:
		b.WriteString("Risk: " + styles.ErrorStyle.Render("HIGH (includes backups or a very large number of files)"))
	case RiskMedium:
		b.WriteString("Risk: " + styles.WarningStyle.Render("MEDIUM (includes system or application caches)"))
	default:
		b.WriteString("Risk: " + styles.SuccessStyle.Render("LOW (temporary, log and browser cache files)"))
	}
	b.WriteString("\n\n")

	if !m.dryRun {
		b.WriteString(styles.WarningStyle.Render("This action cannot be undone!"))
		b.WriteString("\n\n")
	}

	buttons := []string{"[ Yes, delete ]", "[ Review ]", "[ Cancel ]"}
	buttons[m.cursor] = styles.HighlightStyle.Render(buttons[m.cursor])
	b.WriteString(strings.Join(buttons, "  "))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("y:confirm  e:edit  n:cancel  ←/→:navigate"))

	return b.String()
}
