package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	gamecore "github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

// Rows taken by the title, summary and help line around the table.
const recordsChrome = 9

// RecordsKeys are the bindings shown in the records board help line.
type RecordsKeys struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

func (k RecordsKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

func (k RecordsKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultRecordsKeys() RecordsKeys {
	return RecordsKeys{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Back: key.NewBinding(key.WithKeys("esc", "b", "tab"), key.WithHelp("esc", "menu")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// RecordsModel lists every level in the catalog next to its best record.
// Levels nobody has solved yet keep a row with dashes.
type RecordsModel struct {
	rows   []table.Row
	solved int

	table  table.Model
	help   help.Model
	keys   RecordsKeys
	theme  Theme
	width  int
	height int

	back bool
	quit bool
}

// NewRecordsModel reads the records for catalog from store. A nil store
// leaves every level unsolved.
func NewRecordsModel(catalog *gamecore.Catalog, store gamecore.ScoreStore, width, height int) RecordsModel {
	m := RecordsModel{
		keys:   defaultRecordsKeys(),
		help:   help.New(),
		theme:  DefaultTheme(),
		width:  width,
		height: height,
	}

	for _, l := range catalog.Levels() {
		row := table.Row{strconv.Itoa(l.ID), l.Name, "-", "-", "-"}
		if store != nil {
			if rec, ok, err := store.GetRecord(l.ID); err == nil && ok {
				row[2] = strconv.Itoa(rec.BestMoveCount)
				row[3] = gamecore.FormatSeconds(rec.BestElapsedSeconds)
				row[4] = rec.PlayerName
				m.solved++
			}
		}
		m.rows = append(m.rows, row)
	}

	m.table = m.buildTable()
	return m
}

func (m RecordsModel) buildTable() table.Model {
	styles := table.DefaultStyles()
	styles.Header = m.theme.BoardHeader
	styles.Selected = m.theme.BoardCursor

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Level", Width: 22},
			{Title: "Moves", Width: 6},
			{Title: "Time", Width: 6},
			{Title: "Driver", Width: maxNameLen},
		}),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-recordsChrome)),
		table.WithStyles(styles),
	)
	return t
}

func (m RecordsModel) Init() tea.Cmd {
	return nil
}

func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quit = true
			return m, nil
		}
		if key.Matches(msg, m.keys.Back) {
			m.back = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		cursor := m.table.Cursor()
		m.table = m.buildTable()
		m.table.SetCursor(cursor)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m RecordsModel) View() string {
	if m.quit || m.back {
		return ""
	}

	var b strings.Builder
	b.WriteString(centerText(m.theme.MenuTitle.Render("BEST RECORDS"), m.width))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(centerText(m.theme.BoardUnsolved.Render("No levels found"), m.width))
	} else {
		b.WriteString(centerText(m.theme.BoardFrame.Render(m.table.View()), m.width))
	}
	b.WriteString("\n")

	summary := fmt.Sprintf("Solved %d of %d", m.solved, len(m.rows))
	if m.solved == 0 {
		summary = "No records yet."
	}
	b.WriteString(centerText(m.theme.MenuDescription.Render(summary), m.width))
	b.WriteString("\n")
	b.WriteString(m.theme.Controls.Render(m.help.View(m.keys)))

	return b.String()
}

// RowCount is the number of levels listed.
func (m RecordsModel) RowCount() int { return len(m.rows) }

// Solved is the number of levels that have a record.
func (m RecordsModel) Solved() int { return m.solved }

// IsGoingBack reports whether the player asked to return to the menu.
func (m RecordsModel) IsGoingBack() bool { return m.back }

// IsQuitting reports whether the player asked to quit.
func (m RecordsModel) IsQuitting() bool { return m.quit }
