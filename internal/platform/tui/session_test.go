package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-shunting/internal/core"
	gamecore "github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

type brokenStore struct{}

func (brokenStore) GetRecord(int) (gamecore.ScoreRecord, bool, error) {
	return gamecore.ScoreRecord{}, false, nil
}

func (brokenStore) PutIfBetter(int, gamecore.ScoreRecord) (bool, error) {
	return false, errors.New("disk full")
}

func testCatalog() *gamecore.Catalog {
	return gamecore.NewCatalog(
		gamecore.Level{
			ID:             1,
			Name:           "Pair",
			Tracks:         [][]string{{"A"}, {"B"}},
			TargetSequence: []string{"A", "B"},
			Capacity:       2,
		},
		gamecore.Level{
			ID:             2,
			Name:           "Swap",
			Tracks:         [][]string{{"B", "A"}, {}, {}},
			TargetSequence: []string{"A", "B"},
			Capacity:       4,
		},
	)
}

func update(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update() returned %T, expected SessionModel", next)
	}
	return sm
}

// play sends a key and then the tick that applies it.
func play(t *testing.T, m SessionModel, msg tea.KeyMsg) SessionModel {
	t.Helper()
	m = update(t, m, msg)
	if m.gameModel == nil {
		return m
	}
	return update(t, m, TickMsg{ID: m.gameModel.tickID})
}

// solvePair solves level 1 from the start position.
func solvePair(t *testing.T, m SessionModel) SessionModel {
	t.Helper()
	m = play(t, m, runeKey("l"))
	m = play(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = play(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = play(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func TestSessionStartsInMenu(t *testing.T) {
	m := NewSessionModel(SessionConfig{Catalog: testCatalog(), Player: "ada"})

	if m.state != stateMenu {
		t.Fatalf("state = %v, expected menu", m.state)
	}
	if !strings.Contains(m.View(), "Pair") {
		t.Error("menu should list level names")
	}
}

func TestSessionPromptsForName(t *testing.T) {
	m := NewSessionModel(SessionConfig{Catalog: testCatalog(), AskName: true})
	if m.state != statePrompt {
		t.Fatalf("state = %v, expected prompt", m.state)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != statePrompt {
		t.Error("an empty name should not be accepted")
	}

	m = update(t, m, runeKey("ada"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateMenu {
		t.Fatalf("state = %v, expected menu", m.state)
	}
	if got := m.Engine().Player(); got != "ada" {
		t.Errorf("Player() = %q, expected %q", got, "ada")
	}
}

func TestSessionPromptEscUsesDefaultName(t *testing.T) {
	m := NewSessionModel(SessionConfig{Catalog: testCatalog(), AskName: true})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if got := m.Engine().Player(); got != DefaultPlayerName {
		t.Errorf("Player() = %q, expected %q", got, DefaultPlayerName)
	}
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	m := NewSessionModel(SessionConfig{Catalog: testCatalog(), Player: "ada"})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateGame {
		t.Fatalf("state = %v, expected game", m.state)
	}
	if got := m.Engine().LevelID(); got != 2 {
		t.Errorf("LevelID() = %d, expected 2", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateMenu {
		t.Errorf("state = %v, expected menu after Esc", m.state)
	}
}

func TestSessionWinRecordsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	store := gamecore.NewMemoryStore()

	m := NewSessionModel(SessionConfig{
		Catalog:    testCatalog(),
		Store:      store,
		Player:     "ada",
		StartLevel: 1,
		Logger:     log.New(&buf),
	})
	if m.state != stateGame {
		t.Fatalf("state = %v, expected game", m.state)
	}

	m = solvePair(t, m)
	if !m.Engine().Won() {
		t.Fatalf("level should be won, tracks = %v", m.Engine().Snapshot().Tracks)
	}

	rec, ok, err := store.GetRecord(1)
	if err != nil || !ok {
		t.Fatalf("GetRecord(1) = %v, %v, %v", rec, ok, err)
	}
	if rec.PlayerName != "ada" {
		t.Errorf("record player = %q, expected %q", rec.PlayerName, "ada")
	}

	// Further ticks must not log the same win again.
	m = update(t, m, TickMsg{ID: m.gameModel.tickID})
	if n := strings.Count(buf.String(), "level complete"); n != 1 {
		t.Errorf("win logged %d times, expected 1", n)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !strings.Contains(m.View(), "2 (ada)") {
		t.Error("menu should show the new record")
	}
}

func TestSessionLogsStoreErrors(t *testing.T) {
	var buf bytes.Buffer

	m := NewSessionModel(SessionConfig{
		Catalog:    testCatalog(),
		Store:      brokenStore{},
		Player:     "ada",
		StartLevel: 1,
		Logger:     log.New(&buf),
	})
	m = solvePair(t, m)

	if !m.Engine().Won() {
		t.Fatal("a failing store must not block the win")
	}
	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("log should mention the store error, got %q", buf.String())
	}
}

func TestSessionUnknownStartLevelShowsMenu(t *testing.T) {
	m := NewSessionModel(SessionConfig{Catalog: testCatalog(), StartLevel: 99})
	if m.state != stateMenu {
		t.Errorf("state = %v, expected menu", m.state)
	}
}

func TestSessionRecords(t *testing.T) {
	store := gamecore.NewMemoryStore()
	//nolint:errcheck // memory store never fails
	store.PutIfBetter(2, gamecore.ScoreRecord{BestMoveCount: 5, BestElapsedSeconds: 12, PlayerName: "bob"})

	m := NewSessionModel(SessionConfig{Catalog: testCatalog(), Store: store, Runtime: core.RuntimeConfig{ScreenW: 100, ScreenH: 30}})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != stateScores {
		t.Fatalf("state = %v, expected scores", m.state)
	}
	if got := m.scores.RowCount(); got != 2 {
		t.Errorf("RowCount() = %d, expected 2", got)
	}
	if got := m.scores.Solved(); got != 1 {
		t.Errorf("Solved() = %d, expected 1", got)
	}
	if view := m.scores.View(); !strings.Contains(view, "Solved 1 of 2") {
		t.Errorf("View() should summarize records, got:\n%s", view)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateMenu {
		t.Errorf("state = %v, expected menu", m.state)
	}
}

func TestSessionQuit(t *testing.T) {
	m := NewSessionModel(SessionConfig{Catalog: testCatalog(), StartLevel: 1})

	next, cmd := m.Update(runeKey("q"))
	sm := next.(SessionModel)
	if !sm.IsQuitting() {
		t.Error("q should end the session")
	}
	if cmd == nil {
		t.Fatal("quitting should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
}
