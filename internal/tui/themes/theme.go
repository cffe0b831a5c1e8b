package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/compliance-sentinel/internal/model"
)

// Theme defines the visual style for the dashboard.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	ActiveTab     lipgloss.Style
	InactiveTab   lipgloss.Style
	Metric        lipgloss.Style
	MetricLabel   lipgloss.Style
	BorderedBox   lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	DiffInsert    lipgloss.Style
	DiffDelete    lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    "#4A90D9",
	foreground: "#fafafa",
	subtle:     "#a3a3a3",
	border:     "#404040",
	muted:      "#737373",
	err:        "#ef4444",
	warning:    "#f59e0b",
	success:    "#10b981",
	info:       "#3b82f6",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    "#89b4fa",
	foreground: "#cdd6f4",
	subtle:     "#a6adc8",
	border:     "#45475a",
	muted:      "#6c7086",
	err:        "#f38ba8",
	warning:    "#f9e2af",
	success:    "#a6e3a1",
	info:       "#89dceb",
})

type palette struct {
	primary, foreground, subtle, border, muted string
	err, warning, success, info                string
}

func newTheme(p palette) Theme {
	fg := lipgloss.Color(p.foreground)
	return Theme{
		Primary: lipgloss.Color(p.primary),
		Muted:   lipgloss.Color(p.muted),
		Border:  lipgloss.Color(p.border),
		Error:   lipgloss.Color(p.err),
		Warning: lipgloss.Color(p.warning),
		Success: lipgloss.Color(p.success),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.primary)),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.subtle)),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(fg).
			Bold(true),

		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			Background(lipgloss.Color(p.primary)).
			Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Padding(0, 2),

		Metric: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		MetricLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.subtle)),

		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.err)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)).
			Bold(true),

		DiffInsert: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Underline(true),
		DiffDelete: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.err)).
			Strikethrough(true),
	}
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// FlagIcon returns the icon shown next to a risk flag.
func FlagIcon(flag model.Flag) string {
	if flag == model.FlagSuspicious {
		return "🚨"
	}
	return "✓"
}
