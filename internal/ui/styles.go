package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Brand colors
var (
	ColorPrimary = lipgloss.Color("#0EA5E9") // Sky blue
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#64748B") // Slate
)

// Semantic styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	Success = lipgloss.NewStyle().
		Foreground(ColorSuccess)

	Error = lipgloss.NewStyle().
		Foreground(ColorError)

	Muted = lipgloss.NewStyle().
		Foreground(ColorMuted)
)

// Icons (using unicode)
const (
	IconSuccess = "✓"
	IconError   = "✗"
)
