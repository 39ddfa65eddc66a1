package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	gamecore "github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

// MenuItem is one level in the level picker.
type MenuItem struct {
	LevelID int
	Title   string
	Record  string // "-" when the level has no record yet
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	items        []MenuItem
	cursor       int
	scrollOffset int
	width        int
	height       int
	player       string
	keyMapper    *KeyMapper
	theme        Theme
	quitting     bool
	selected     *MenuItem
	openRecords  bool
}

// NewMenuModel builds the level list with each level's best record.
// Store errors are shown as a missing record.
func NewMenuModel(catalog *gamecore.Catalog, store gamecore.ScoreStore, player string, width, height int) MenuModel {
	levels := catalog.Levels()
	items := make([]MenuItem, 0, len(levels))

	for _, l := range levels {
		title := l.Name
		if title == "" {
			title = fmt.Sprintf("Level %d", l.ID)
		}
		items = append(items, MenuItem{
			LevelID: l.ID,
			Title:   title,
			Record:  recordLabel(store, l.ID),
		})
	}

	return MenuModel{
		items:     items,
		width:     width,
		height:    height,
		player:    player,
		keyMapper: NewKeyMapper(),
		theme:     DefaultTheme(),
	}
}

// recordLabel formats the best record as "moves (name)" or "-".
func recordLabel(store gamecore.ScoreStore, levelID int) string {
	if store == nil {
		return "-"
	}
	rec, ok, err := store.GetRecord(levelID)
	if err != nil || !ok {
		return "-"
	}
	if rec.PlayerName == "" {
		return fmt.Sprintf("%d", rec.BestMoveCount)
	}
	return fmt.Sprintf("%d (%s)", rec.BestMoveCount, rec.PlayerName)
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
		return m, nil
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.updateScroll()
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionRecords:
		m.openRecords = true
	}

	return m, nil
}

// visibleItems returns how many levels fit between header and footer.
func (m MenuModel) visibleItems() int {
	return max(3, m.height-10)
}

// updateScroll moves the window so the cursor row stays on screen.
func (m *MenuModel) updateScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("S H U N T I N G   Y A R D"), m.width))
	b.WriteString("\n\n")

	subtitle := "Select a level"
	if m.player != "" {
		subtitle = fmt.Sprintf("Welcome, %s. Select a level", m.player)
	}
	b.WriteString(centerText(m.theme.MenuDescription.Render(subtitle), m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("No levels found"), m.width))
		b.WriteString("\n")
	}

	end := min(len(m.items), m.scrollOffset+m.visibleItems())
	for i := m.scrollOffset; i < end; i++ {
		item := m.items[i]
		cursor := "  "
		style := m.theme.MenuItemNormal
		if i == m.cursor {
			cursor = "> "
			style = m.theme.MenuItemActive
		}

		line := style.Render(fmt.Sprintf("%s%2d. %-20s", cursor, item.LevelID, item.Title)) +
			m.theme.MenuRecord.Render(fmt.Sprintf(" best: %s", item.Record))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.scrollOffset > 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	if end < len(m.items) {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := m.theme.Controls.Render("Up/Down: Navigate  |  Enter: Play  |  Tab: Records  |  Q: Quit")
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected is the level chosen with enter, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting reports whether q or ctrl+c was pressed.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRecords reports whether the records board was requested.
func (m MenuModel) WantsRecords() bool {
	return m.openRecords
}
