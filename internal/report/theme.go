package report

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/driverisk/internal/pricing"
)

// Color palette
var (
	Primary = lipgloss.Color("#8B5CF6") // Vivid Purple
	Success = lipgloss.Color("#22C55E") // Green
	Warning = lipgloss.Color("#F97316") // Orange
	Danger  = lipgloss.Color("#F43F5E") // Rose
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Padding(0, 1)

	Cell = lipgloss.NewStyle().
		Padding(0, 1)

	RiskyCell = Cell.
			Foreground(Danger)
)

// TierStyle colors values by premium tier.
func TierStyle(t pricing.Tier) lipgloss.Style {
	switch t {
	case pricing.TierLow:
		return lipgloss.NewStyle().Foreground(Success).Bold(true)
	case pricing.TierHigh:
		return lipgloss.NewStyle().Foreground(Danger).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Warning).Bold(true)
	}
}
