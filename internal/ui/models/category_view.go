package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/cachesweep/internal/report"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/internal/ui/styles"
)

// CategoryItem represents a selectable category
type CategoryItem struct {
	Category    rules.Category
	Count       int
	Size        int64
	Selected    bool
	Description string
}

// CategoryViewModel handles category selection
type CategoryViewModel struct {
	categories []CategoryItem
	cursor     int
}

// NewCategoryViewModel lists every category that has matches, in priority
// order, all selected
func NewCategoryViewModel(r *report.ScanReport) *CategoryViewModel {
	var categories []CategoryItem
	for _, c := range rules.Categories() {
		s := r.Stats(c)
		if s.Count == 0 {
			continue
		}
		categories = append(categories, CategoryItem{
			Category:    c,
			Count:       s.Count,
			Size:        s.Bytes,
			Selected:    true,
			Description: categoryDescription(c),
		})
	}

	return &CategoryViewModel{categories: categories}
}

// Init initializes the category view
func (m *CategoryViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *CategoryViewModel) Update(msg tea.Msg) (*CategoryViewModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.categories)-1 {
			m.cursor++
		}
	case "space", " ":
		if m.cursor < len(m.categories) {
			m.categories[m.cursor].Selected = !m.categories[m.cursor].Selected
		}
	case "ctrl+a":
		for i := range m.categories {
			m.categories[i].Selected = true
		}
	case "ctrl+d":
		for i := range m.categories {
			m.categories[i].Selected = false
		}
	case "enter":
		selected := m.Selected()
		if len(selected) == 0 {
			return m, nil
		}
		return m, func() tea.Msg {
			return CategoriesSelectedMsg{Categories: selected}
		}
	}

	return m, nil
}

// Selected returns the chosen categories
func (m *CategoryViewModel) Selected() []rules.Category {
	var out []rules.Category
	for _, item := range m.categories {
		if item.Selected {
			out = append(out, item.Category)
		}
	}
	return out
}

// View renders the category selection view
func (m *CategoryViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Select categories to delete"))
	b.WriteString("\n\n")

	if len(m.categories) == 0 {
		b.WriteString(styles.SuccessStyle.Render("No cache files found."))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("Press q to quit"))
		return b.String()
	}

	b.WriteString(styles.HelpStyle.Render("↑/↓:navigate  space:toggle  ctrl+a:all  ctrl+d:none  enter:continue  ?:help"))
	b.WriteString("\n\n")

	var selectedCount int
	var selectedSize int64
	for i, item := range m.categories {
		cursor := "  "
		if i == m.cursor {
			cursor = styles.SelectedStyle.Render("→ ")
		}

		checkbox := styles.UncheckedBox()
		if item.Selected {
			checkbox = styles.CheckedBox()
			selectedCount += item.Count
			selectedSize += item.Size
		}

		b.WriteString(fmt.Sprintf("%s%s %-12s %s files, %s\n",
			cursor,
			checkbox,
			styles.RenderCategory(item.Category),
			styles.DimStyle.Render(fmt.Sprintf("%d", item.Count)),
			styles.RenderSize(item.Size),
		))

		if i == m.cursor {
			desc := lipgloss.NewStyle().Foreground(styles.TextDim).Italic(true).MarginLeft(6)
			b.WriteString(desc.Render("↳ " + item.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Selected: %d files, %s",
		selectedCount, styles.RenderSize(selectedSize))))

	return b.String()
}

func categoryDescription(c rules.Category) string {
	switch c {
	case rules.Browser:
		return "Cache directories inside browser profiles"
	case rules.System:
		return "Shared cache directories such as ~/.cache and thumbnails"
	case rules.Application:
		return "Build and tool caches that applications regenerate"
	case rules.Log:
		return "Log files and rotated logs"
	case rules.Temporary:
		return "Temporary files and swap files left behind by editors"
	case rules.Backup:
		return "Backup copies such as .bak, .old and editor backups"
	default:
		return "Other cache artifacts"
	}
}
