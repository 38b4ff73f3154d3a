package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/pkg/utils"
)

// Theme colors
var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#A78BFA")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Danger    = lipgloss.Color("#EF4444")
	Info      = lipgloss.Color("#3B82F6")
	Muted     = lipgloss.Color("#6B7280")
	Text      = lipgloss.Color("#F3F4F6")
	TextDim   = lipgloss.Color("#9CA3AF")
	BgDark    = lipgloss.Color("#1F2937")
)

// Size colors, one per display unit
var (
	SizeBytes = lipgloss.Color("#A855F7") // purple
	SizeKB    = lipgloss.Color("#3B82F6") // blue
	SizeMB    = lipgloss.Color("#22C55E") // green
	SizeGB    = lipgloss.Color("#EAB308") // yellow
	SizeTB    = lipgloss.Color("#EF4444") // red
)

var categoryColors = map[rules.Category]lipgloss.Color{
	rules.Browser:     lipgloss.Color("#F97316"),
	rules.System:      lipgloss.Color("#3B82F6"),
	rules.Application: lipgloss.Color("#8B5CF6"),
	rules.Log:         lipgloss.Color("#14B8A6"),
	rules.Temporary:   lipgloss.Color("#EAB308"),
	rules.Backup:      lipgloss.Color("#EC4899"),
	rules.Other:       lipgloss.Color("#9CA3AF"),
}

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			MarginBottom(1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	CheckboxStyle = lipgloss.NewStyle().
			Foreground(Success)

	CheckboxUncheckedStyle = lipgloss.NewStyle().
				Foreground(Muted)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(Info)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)
)

// SizeColor picks the color of the unit FormatBytes uses for bytes
func SizeColor(bytes int64) lipgloss.Color {
	switch utils.Unit(bytes) {
	case "TB":
		return SizeTB
	case "GB":
		return SizeGB
	case "MB":
		return SizeMB
	case "KB":
		return SizeKB
	default:
		return SizeBytes
	}
}

// RenderSize formats and colors a byte count
func RenderSize(bytes int64) string {
	return lipgloss.NewStyle().Foreground(SizeColor(bytes)).Bold(true).Render(utils.FormatBytes(bytes))
}

// CategoryColor returns the display color of a category
func CategoryColor(c rules.Category) lipgloss.Color {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return Muted
}

// RenderCategory renders a category name in its color
func RenderCategory(c rules.Category) string {
	return lipgloss.NewStyle().Foreground(CategoryColor(c)).Bold(true).Render(c.String())
}

func CheckedBox() string {
	return CheckboxStyle.Render("☑")
}

func UncheckedBox() string {
	return CheckboxUncheckedStyle.Render("☐")
}
