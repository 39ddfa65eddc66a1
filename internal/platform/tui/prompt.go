package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxNameLen limits player names shown in menus and the records table.
const maxNameLen = 16

// NamePromptModel asks for the player name before the first level.
type NamePromptModel struct {
	input    textinput.Model
	width    int
	height   int
	theme    Theme
	done     bool
	quitting bool
}

// NewNamePromptModel creates a focused name prompt.
func NewNamePromptModel(width, height int) NamePromptModel {
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = maxNameLen
	ti.Width = maxNameLen + 2
	ti.Prompt = "> "
	ti.Focus()

	return NamePromptModel{
		input:  ti,
		width:  width,
		height: height,
		theme:  DefaultTheme(),
	}
}

// Init starts the cursor blink.
func (m NamePromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the prompt.
func (m NamePromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, nil
		case "enter":
			if m.Name() != "" {
				m.done = true
			}
			return m, nil
		case "esc":
			m.input.SetValue("")
			m.done = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt.
func (m NamePromptModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("S H U N T I N G   Y A R D"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.theme.PromptLabel.Render("Who is driving the locomotive?"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.input.View(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.theme.PromptHint.Render("Enter: Confirm  |  Esc: Play anonymously"), m.width))
	b.WriteString("\n")

	return b.String()
}

// Name returns the trimmed name typed so far.
func (m NamePromptModel) Name() string {
	return strings.TrimSpace(m.input.Value())
}

// Done reports whether the player confirmed or skipped the prompt.
func (m NamePromptModel) Done() bool {
	return m.done
}

// IsQuitting returns true if user requested to quit.
func (m NamePromptModel) IsQuitting() bool {
	return m.quitting
}
