package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// PromptTheme returns the pgproto3cli theme for prompts
func PromptTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorMuted)

	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		SetString("> ")

	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888"))

	return t
}

// Password prompts for the connection password when the server
// challenges for one and --password was not given on the command line.
func Password(title string) (string, error) {
	var result string

	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&result).
		WithTheme(PromptTheme()).
		Run()

	return result, err
}
