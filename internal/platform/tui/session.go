package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-shunting/internal/core"
	"github.com/vovakirdan/tui-shunting/internal/games/shunting"
	gamecore "github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

// DefaultPlayerName is used when the player skips the name prompt.
const DefaultPlayerName = "Player"

// SessionConfig holds everything a SessionModel needs.
type SessionConfig struct {
	Catalog *gamecore.Catalog
	Store   gamecore.ScoreStore // nil disables records
	Runtime core.RuntimeConfig

	// Player is the record holder name. When empty and AskName is set,
	// the session starts with a name prompt.
	Player  string
	AskName bool

	// StartLevel skips the menu when it names a known level.
	StartLevel int

	MessageTicks int
	Logger       *log.Logger
}

type sessionState int

const (
	statePrompt sessionState = iota
	stateMenu
	stateGame
	stateScores
)

// SessionModel manages the full flow: name prompt -> menu -> level -> menu.
// It owns one engine session for its whole lifetime.
type SessionModel struct {
	cfg       SessionConfig
	logger    *log.Logger
	engine    *gamecore.Session
	game      *shunting.Game
	state     sessionState
	prompt    NamePromptModel
	menu      MenuModel
	scores    RecordsModel
	gameModel *GameModel
	winLogged bool
	quitting  bool
	startCmd  tea.Cmd
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SessionConfig) SessionModel {
	if cfg.Runtime.ScreenW <= 0 || cfg.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.Runtime.ScreenW = def.ScreenW
		cfg.Runtime.ScreenH = def.ScreenH
	}
	if cfg.Runtime.TickRate <= 0 {
		cfg.Runtime.TickRate = core.DefaultConfig().TickRate
	}
	if cfg.Catalog == nil {
		cfg.Catalog = gamecore.NewCatalog()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	engine := gamecore.NewSession(cfg.Catalog, cfg.Store,
		gamecore.WithPlayer(cfg.Player),
		gamecore.WithMessageTicks(cfg.MessageTicks),
	)

	m := SessionModel{
		cfg:    cfg,
		logger: logger,
		engine: engine,
		game:   shunting.New(engine),
	}

	if cfg.AskName && cfg.Player == "" {
		m.state = statePrompt
		m.prompt = NewNamePromptModel(cfg.Runtime.ScreenW, cfg.Runtime.ScreenH)
		m.startCmd = m.prompt.Init()
		return m
	}

	m.startCmd = m.enterFirstScreen()
	return m
}

// enterFirstScreen opens the requested level, or the menu when there is none.
func (m *SessionModel) enterFirstScreen() tea.Cmd {
	if m.cfg.StartLevel > 0 && m.cfg.Catalog.Has(m.cfg.StartLevel) {
		return m.startLevel(m.cfg.StartLevel)
	}
	if m.cfg.StartLevel > 0 {
		m.logger.Warn("unknown level, showing menu", "level", m.cfg.StartLevel)
	}
	return m.openMenu()
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.startCmd
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Runtime.ScreenW = wsm.Width
		m.cfg.Runtime.ScreenH = wsm.Height
	}

	switch m.state {
	case statePrompt:
		return m.updatePrompt(msg)
	case stateGame:
		return m.updateGame(msg)
	case stateScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updatePrompt handles updates while asking for the player name.
func (m SessionModel) updatePrompt(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPrompt, cmd := m.prompt.Update(msg)
	if p, ok := newPrompt.(NamePromptModel); ok {
		m.prompt = p
	}

	if m.prompt.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.prompt.Done() {
		name := m.prompt.Name()
		if name == "" {
			name = DefaultPlayerName
		}
		m.engine.SetPlayer(name)
		m.logger.Info("player joined", "player", name)
		return m, m.enterFirstScreen()
	}

	return m, cmd
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsRecords() {
		m.state = stateScores
		m.scores = NewRecordsModel(m.cfg.Catalog, m.cfg.Store, m.cfg.Runtime.ScreenW, m.cfg.Runtime.ScreenH)
		return m, m.scores.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		return m, m.startLevel(selected.LevelID)
	}

	return m, cmd
}

// updateGame handles updates while a level is on screen.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	m.observeWin()

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		m.gameModel = nil
		return m, m.openMenu()
	}

	return m, cmd
}

// updateScores handles updates while the records table is shown.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newScores, cmd := m.scores.Update(msg)
	if s, ok := newScores.(RecordsModel); ok {
		m.scores = s
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scores.IsGoingBack() {
		return m, m.openMenu()
	}

	return m, cmd
}

// observeWin logs each solved attempt once, along with any record failure.
func (m *SessionModel) observeWin() {
	state := m.gameModel.State()
	if !state.Won {
		m.winLogged = false
		return
	}
	if m.winLogged {
		return
	}
	m.winLogged = true

	snap := m.engine.Snapshot()
	m.logger.Info("level complete",
		"player", snap.Player,
		"level", snap.LevelID,
		"moves", snap.Moves,
		"elapsed", snap.TimeString(),
		"record", snap.NewRecord,
	)
	if err := m.engine.StoreErr(); err != nil {
		m.logger.Warn("could not save record", "level", snap.LevelID, "error", err)
	}
}

// startLevel switches to the game view for the given level.
func (m *SessionModel) startLevel(id int) tea.Cmd {
	if !m.game.Start(id) {
		return m.openMenu()
	}
	m.logger.Debug("level started", "player", m.engine.Player(), "level", id)

	gm := NewGameModel(m.game, m.cfg.Runtime)
	m.gameModel = &gm
	m.winLogged = false
	m.state = stateGame
	return m.gameModel.Init()
}

// openMenu rebuilds the menu so it shows fresh records.
func (m *SessionModel) openMenu() tea.Cmd {
	m.menu = NewMenuModel(m.cfg.Catalog, m.cfg.Store, m.engine.Player(), m.cfg.Runtime.ScreenW, m.cfg.Runtime.ScreenH)
	m.state = stateMenu
	return m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case statePrompt:
		return m.prompt.View()
	case stateGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case stateScores:
		return m.scores.View()
	}

	return m.menu.View()
}

// Engine returns the engine session driven by this model.
func (m SessionModel) Engine() *gamecore.Session {
	return m.engine
}

// IsQuitting returns true if the session has ended.
func (m SessionModel) IsQuitting() bool {
	return m.quitting
}

// RunSession runs a session in the local terminal until the player quits.
func RunSession(cfg SessionConfig) error {
	p := tea.NewProgram(NewSessionModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
