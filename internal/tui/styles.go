package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#5ECE7B")
	muted       = lipgloss.Color("240")
	destructive = lipgloss.Color("#e53935")
)

// Styles holds every style the storefront views render with.
type Styles struct {
	Title       lipgloss.Style
	Category    lipgloss.Style
	ActiveCat   lipgloss.Style
	CartBadge   lipgloss.Style
	Cursor      lipgloss.Style
	Name        lipgloss.Style
	Price       lipgloss.Style
	OutOfStock  lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Selected    lipgloss.Style
	Button      lipgloss.Style
	Disabled    lipgloss.Style
	Overlay     lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Muted       lipgloss.Style
	ScrollThumb lipgloss.Style
	ScrollTrack lipgloss.Style
}

// DefaultStyles returns the storefront palette.
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true),
		Category:    lipgloss.NewStyle().Padding(0, 1),
		ActiveCat:   lipgloss.NewStyle().Padding(0, 1).Foreground(accent).Underline(true),
		CartBadge:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Cursor:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		Name:        lipgloss.NewStyle(),
		Price:       lipgloss.NewStyle().Bold(true),
		OutOfStock:  lipgloss.NewStyle().Foreground(muted).Italic(true),
		Label:       lipgloss.NewStyle().Bold(true),
		Value:       lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), false, true),
		Selected:    lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), false, true).Reverse(true),
		Button:      lipgloss.NewStyle().Padding(0, 2).Background(accent).Foreground(lipgloss.Color("#ffffff")).Bold(true),
		Disabled:    lipgloss.NewStyle().Padding(0, 2).Background(muted).Foreground(lipgloss.Color("#dddddd")),
		Overlay:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		Error:       lipgloss.NewStyle().Foreground(destructive).Bold(true),
		Success:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(muted),
		ScrollThumb: lipgloss.NewStyle().Background(accent),
		ScrollTrack: lipgloss.NewStyle().Foreground(muted),
	}
}
