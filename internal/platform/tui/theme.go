package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the lipgloss styles used by the menus and screens
// that are rendered as text rather than through a core.Screen.
type Theme struct {
	// Title and menu styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	MenuRecord      lipgloss.Style

	// Footer
	Controls lipgloss.Style

	// Name prompt
	PromptLabel lipgloss.Style
	PromptHint  lipgloss.Style

	// Records board
	BoardFrame    lipgloss.Style
	BoardHeader   lipgloss.Style
	BoardCursor   lipgloss.Style
	BoardUnsolved lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		MenuRecord:      lipgloss.NewStyle().Foreground(lipgloss.Color("118")),

		Controls: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		PromptLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
		PromptHint:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),

		BoardFrame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		BoardHeader:   lipgloss.NewStyle().Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("240")),
		BoardCursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("22")),
		BoardUnsolved: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
