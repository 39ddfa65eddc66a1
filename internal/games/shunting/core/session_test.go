package core_test

import (
	"errors"
	"reflect"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// startSession builds a session over a single level and starts it.
func startSession(t *testing.T, level core.Level, opts ...core.Option) (*core.Session, *core.MemoryStore) {
	t.Helper()

	store := core.NewMemoryStore()
	s := core.NewSession(core.NewCatalog(level), store, opts...)
	if !s.StartLevel(level.ID) {
		t.Fatalf("StartLevel(%d) rejected", level.ID)
	}
	return s, store
}

func twoCarLevel() core.Level {
	return core.Level{
		ID:             1,
		Tracks:         [][]string{{"A", "B", "", ""}, {"", "", "", ""}},
		TargetSequence: []string{"B", "A"},
		Capacity:       4,
	}
}

// scoringLevel is solved by positioning on track 0 and moving to track 1.
func scoringLevel() core.Level {
	return core.Level{
		ID:             7,
		Tracks:         [][]string{{"A"}, {"B"}, {}},
		TargetSequence: []string{"A", "B"},
		Capacity:       4,
	}
}

// winIn solves scoringLevel using exactly moves committed moves.
func winIn(t *testing.T, s *core.Session, moves int) {
	t.Helper()

	primeWin(t, s, moves)
	if !s.MoveSelected(1) {
		t.Fatal("MoveSelected(1) rejected")
	}
	if !s.Won() {
		t.Fatalf("expected win after %d moves, tracks = %v", moves, s.Snapshot().Tracks)
	}
	if s.Moves() != moves {
		t.Fatalf("Moves() = %d, expected %d", s.Moves(), moves)
	}
}

// primeWin plays scoringLevel up to its last move, which MoveSelected(1)
// then makes as move number moves.
func primeWin(t *testing.T, s *core.Session, moves int) {
	t.Helper()

	for range moves - 2 {
		if !s.PositionLocomotive(2) {
			t.Fatal("PositionLocomotive(2) rejected")
		}
	}
	if !s.PositionLocomotive(0) {
		t.Fatal("PositionLocomotive(0) rejected")
	}
}

func TestPositionLocomotiveSelectsRun(t *testing.T) {
	s, _ := startSession(t, twoCarLevel())

	if !s.PositionLocomotive(0) {
		t.Fatal("PositionLocomotive(0) rejected")
	}

	snap := s.Snapshot()
	if snap.Moves != 1 {
		t.Errorf("Moves = %d, expected 1", snap.Moves)
	}
	if snap.LocomotiveTrack != 0 {
		t.Errorf("LocomotiveTrack = %d, expected 0", snap.LocomotiveTrack)
	}
	expected := []core.Slot{{Track: 0, Index: 0}, {Track: 0, Index: 1}}
	if !reflect.DeepEqual(snap.Selected, expected) {
		t.Errorf("Selected = %v, expected %v", snap.Selected, expected)
	}
}

func TestPositionLocomotiveEmptyTrackCountsMove(t *testing.T) {
	s, _ := startSession(t, twoCarLevel())

	if !s.PositionLocomotive(1) {
		t.Fatal("PositionLocomotive(1) rejected")
	}

	snap := s.Snapshot()
	if snap.Moves != 1 {
		t.Errorf("Moves = %d, expected 1", snap.Moves)
	}
	if len(snap.Selected) != 0 {
		t.Errorf("Selected = %v, expected none", snap.Selected)
	}
	if s.MoveSelected(0) {
		t.Error("MoveSelected with empty selection should be rejected")
	}
}

func TestPositionLocomotiveOutOfRange(t *testing.T) {
	s, _ := startSession(t, twoCarLevel())

	for _, track := range []int{-1, 2, 100} {
		if s.PositionLocomotive(track) {
			t.Errorf("PositionLocomotive(%d) should be rejected", track)
		}
	}
	if s.Moves() != 0 {
		t.Errorf("rejected positioning changed Moves to %d", s.Moves())
	}
}

func TestBasicMove(t *testing.T) {
	s, _ := startSession(t, twoCarLevel())

	s.PositionLocomotive(0)
	if !s.SelectCar(0, 0) {
		t.Fatal("SelectCar(0, 0) rejected")
	}
	if got := s.Snapshot().Selected; !reflect.DeepEqual(got, []core.Slot{{Track: 0, Index: 0}}) {
		t.Fatalf("Selected = %v, expected only slot 0", got)
	}

	if !s.MoveSelected(1) {
		t.Fatal("MoveSelected(1) rejected")
	}

	snap := s.Snapshot()
	if want := []string{"B", "", "", ""}; !slices.Equal(snap.Tracks[0], want) {
		t.Errorf("track 0 = %q, expected %q", snap.Tracks[0], want)
	}
	if want := []string{"A", "", "", ""}; !slices.Equal(snap.Tracks[1], want) {
		t.Errorf("track 1 = %q, expected %q", snap.Tracks[1], want)
	}
	if snap.Moves != 2 {
		t.Errorf("Moves = %d, expected 2", snap.Moves)
	}
	if snap.LocomotiveTrack != core.NoTrack || len(snap.Selected) != 0 {
		t.Errorf("locomotive and selection should reset, got %d %v", snap.LocomotiveTrack, snap.Selected)
	}
}

func TestMovePrependsToTarget(t *testing.T) {
	s, _ := startSession(t, core.Level{
		ID:             1,
		Tracks:         [][]string{{"C", "D"}, {"A", "B"}},
		TargetSequence: []string{"Z"},
		Capacity:       5,
	})

	s.PositionLocomotive(0)
	s.MoveSelected(1)

	if got, want := s.Snapshot().Tracks[1], []string{"C", "D", "A", "B", ""}; !slices.Equal(got, want) {
		t.Errorf("track 1 = %q, expected %q", got, want)
	}
}

func TestSelectCarRules(t *testing.T) {
	s, _ := startSession(t, core.Level{
		ID:             1,
		Tracks:         [][]string{{"A", "B", "C"}, {"D"}},
		TargetSequence: []string{"Z"},
		Capacity:       4,
	})

	if s.SelectCar(0, 0) {
		t.Error("SelectCar without locomotive should be rejected")
	}

	s.PositionLocomotive(0)

	tests := []struct {
		name  string
		track int
		slot  int
		ok    bool
	}{
		{"other track", 1, 0, false},
		{"negative slot", 0, -1, false},
		{"empty slot", 0, 3, false},
		{"past capacity", 0, 9, false},
		{"middle", 0, 1, true},
		{"last car", 0, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.SelectCar(tt.track, tt.slot); got != tt.ok {
				t.Errorf("SelectCar(%d, %d) = %v, expected %v", tt.track, tt.slot, got, tt.ok)
			}
		})
	}

	if got := len(s.Snapshot().Selected); got != 3 {
		t.Errorf("selection length = %d, expected 3", got)
	}
	if s.Moves() != 1 {
		t.Errorf("selecting should not count moves, Moves = %d", s.Moves())
	}
}

func TestMoveRejections(t *testing.T) {
	s, _ := startSession(t, twoCarLevel())

	if s.MoveSelected(1) {
		t.Error("MoveSelected without locomotive should be rejected")
	}

	s.PositionLocomotive(0)
	for _, target := range []int{0, -1, 2} {
		if s.MoveSelected(target) {
			t.Errorf("MoveSelected(%d) should be rejected", target)
		}
	}
	if s.Moves() != 1 {
		t.Errorf("rejected moves changed Moves to %d", s.Moves())
	}
}

func TestCapacityRejection(t *testing.T) {
	s, _ := startSession(t, core.Level{
		ID:             1,
		Tracks:         [][]string{{"A", "B"}, {"C"}},
		TargetSequence: []string{"Z"},
		Capacity:       2,
	}, core.WithMessageTicks(3))

	s.PositionLocomotive(0)
	before := s.Snapshot()

	if s.MoveSelected(1) {
		t.Fatal("MoveSelected should be rejected when target would overflow")
	}

	after := s.Snapshot()
	if after.Message != core.MsgTrackFull {
		t.Errorf("Message = %q, expected %q", after.Message, core.MsgTrackFull)
	}
	if !reflect.DeepEqual(after.Tracks, before.Tracks) {
		t.Errorf("tracks changed on rejection: %v", after.Tracks)
	}
	if after.Moves != before.Moves {
		t.Errorf("Moves = %d, expected %d", after.Moves, before.Moves)
	}
	if !reflect.DeepEqual(after.Selected, before.Selected) {
		t.Errorf("selection changed on rejection: %v", after.Selected)
	}

	for range 2 {
		s.Tick()
	}
	if s.Snapshot().Message == "" {
		t.Error("message cleared too early")
	}
	s.Tick()
	if msg := s.Snapshot().Message; msg != "" {
		t.Errorf("message should clear after 3 ticks, got %q", msg)
	}
}

func TestCapacityExactFitAccepted(t *testing.T) {
	s, _ := startSession(t, core.Level{
		ID:             1,
		Tracks:         [][]string{{"A"}, {"C"}},
		TargetSequence: []string{"Z"},
		Capacity:       2,
	})

	s.PositionLocomotive(0)
	if !s.MoveSelected(1) {
		t.Fatal("move filling the track exactly should be accepted")
	}
	if !s.Snapshot().TrackFull(1) {
		t.Error("track 1 should be full")
	}
}

func TestScoringKeepsStrictlyFewerMoves(t *testing.T) {
	s, store := startSession(t, scoringLevel(), core.WithPlayer("ada"))

	steps := []struct {
		moves     int
		player    string
		best      int
		bestBy    string
		newRecord bool
	}{
		{5, "ada", 5, "ada", true},
		{7, "bob", 5, "ada", false},
		{3, "cy", 3, "cy", true},
		{3, "dee", 3, "cy", false},
	}

	for i, step := range steps {
		if i > 0 && !s.Restart() {
			t.Fatal("Restart rejected")
		}
		s.SetPlayer(step.player)
		winIn(t, s, step.moves)

		rec, ok, err := store.GetRecord(7)
		if err != nil || !ok {
			t.Fatalf("step %d: GetRecord = %v, %v", i, ok, err)
		}
		if rec.BestMoveCount != step.best || rec.PlayerName != step.bestBy {
			t.Errorf("step %d: record = %+v, expected %d by %s", i, rec, step.best, step.bestBy)
		}
		if got := s.Snapshot().NewRecord; got != step.newRecord {
			t.Errorf("step %d: NewRecord = %v, expected %v", i, got, step.newRecord)
		}
	}
}

func TestWinDetection(t *testing.T) {
	s, store := startSession(t, core.Level{
		ID:             3,
		Tracks:         [][]string{{"A", "B", "", ""}, {"", "", "", ""}},
		TargetSequence: []string{"A", "B"},
		Capacity:       4,
	})

	if !s.CheckWin() {
		t.Fatal("CheckWin should detect the target on track 0")
	}
	if s.MatchedTrack() != 0 {
		t.Errorf("MatchedTrack = %d, expected 0", s.MatchedTrack())
	}
	if _, ok, _ := store.GetRecord(3); !ok {
		t.Error("win should be recorded")
	}

	if s.PositionLocomotive(1) {
		t.Error("commands after a win should be rejected")
	}
	if !s.CheckWin() {
		t.Error("CheckWin should stay true once won")
	}
}

func TestWinRequiresExactSequence(t *testing.T) {
	s, _ := startSession(t, core.Level{
		ID:             1,
		Tracks:         [][]string{{"A", "B", "C"}, {}},
		TargetSequence: []string{"A", "B"},
		Capacity:       4,
	})

	if s.CheckWin() {
		t.Error("a track with extra cars should not match")
	}
	if s.MatchedTrack() != core.NoTrack {
		t.Errorf("MatchedTrack = %d, expected NoTrack", s.MatchedTrack())
	}
}

func TestRestartIsIdempotent(t *testing.T) {
	clock := newClock()
	s, _ := startSession(t, scoringLevel(), core.WithClock(clock.Now))
	fresh := s.Snapshot()

	s.PositionLocomotive(1)
	s.MoveSelected(2)
	clock.Advance(30 * time.Second)
	s.Tick()

	s.Restart()
	once := s.Snapshot()
	s.Restart()
	twice := s.Snapshot()

	if !reflect.DeepEqual(once, fresh) {
		t.Errorf("Restart state = %+v, expected %+v", once, fresh)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second Restart differs: %+v vs %+v", twice, once)
	}
}

func TestTracksStayLeftPacked(t *testing.T) {
	level := core.Level{
		ID:             1,
		Tracks:         [][]string{{"", "B", "A", "C"}, {"D"}, {}},
		TargetSequence: []string{"Z"},
		Capacity:       4,
	}
	s, _ := startSession(t, level)

	check := func(step string) {
		t.Helper()
		snap := s.Snapshot()
		total := 0
		for i, tr := range snap.Tracks {
			if len(tr) != level.Capacity {
				t.Errorf("%s: track %d has %d slots, expected %d", step, i, len(tr), level.Capacity)
			}
			if !core.Track(tr).LeftPacked() {
				t.Errorf("%s: track %d not left-packed: %q", step, i, tr)
			}
			total += core.Track(tr).Count()
		}
		if total != 4 {
			t.Errorf("%s: %d cars on tracks, expected 4", step, total)
		}
	}

	check("start")

	actions := []struct {
		name string
		run  func() bool
	}{
		{"position 0", func() bool { return s.PositionLocomotive(0) }},
		{"select 0,1", func() bool { return s.SelectCar(0, 1) }},
		{"move to 2", func() bool { return s.MoveSelected(2) }},
		{"position 1", func() bool { return s.PositionLocomotive(1) }},
		{"move to 2", func() bool { return s.MoveSelected(2) }},
		{"position 2", func() bool { return s.PositionLocomotive(2) }},
		{"select 2,0", func() bool { return s.SelectCar(2, 0) }},
		{"move to 0", func() bool { return s.MoveSelected(0) }},
	}

	for _, a := range actions {
		if !a.run() {
			t.Fatalf("%s rejected", a.name)
		}
		check(a.name)
	}
}

func TestElapsedTime(t *testing.T) {
	clock := newClock()
	s, _ := startSession(t, scoringLevel(), core.WithClock(clock.Now))

	clock.Advance(65 * time.Second)
	s.Tick()
	if got := s.Snapshot().TimeString(); got != "1:05" {
		t.Errorf("TimeString = %q, expected 1:05", got)
	}

	clock.Advance(5 * time.Second)
	s.PositionLocomotive(0)
	s.MoveSelected(1)
	if !s.Won() {
		t.Fatal("expected win")
	}
	if got := s.Snapshot().ElapsedSeconds; got != 70 {
		t.Errorf("ElapsedSeconds at win = %d, expected 70", got)
	}

	clock.Advance(time.Minute)
	s.Tick()
	if got := s.Snapshot().ElapsedSeconds; got != 70 {
		t.Errorf("timer should stop after a win, got %d", got)
	}
}

type failingStore struct {
	err  error
	puts int
}

func (f *failingStore) GetRecord(int) (core.ScoreRecord, bool, error) {
	return core.ScoreRecord{}, false, f.err
}

func (f *failingStore) PutIfBetter(int, core.ScoreRecord) (bool, error) {
	f.puts++
	return false, f.err
}

func TestStoreFailuresDoNotEscape(t *testing.T) {
	boom := errors.New("disk on fire")
	store := &failingStore{err: boom}

	s := core.NewSession(core.NewCatalog(scoringLevel()), store)
	s.StartLevel(7)
	winIn(t, s, 2)

	if !errors.Is(s.StoreErr(), boom) {
		t.Errorf("StoreErr = %v, expected %v", s.StoreErr(), boom)
	}
	if s.Snapshot().NewRecord {
		t.Error("NewRecord should be false when the store fails")
	}
	if store.puts != 1 {
		t.Errorf("PutIfBetter called %d times, expected 1", store.puts)
	}

	s.Restart()
	if s.StoreErr() != nil {
		t.Error("StoreErr should clear on restart")
	}
}

// gatedStore holds every PutIfBetter until n callers have arrived, so all
// of them reach the shared store together.
type gatedStore struct {
	*core.MemoryStore
	arrived sync.WaitGroup
}

func newGatedStore(n int) *gatedStore {
	g := &gatedStore{MemoryStore: core.NewMemoryStore()}
	g.arrived.Add(n)
	return g
}

func (g *gatedStore) PutIfBetter(levelID int, rec core.ScoreRecord) (bool, error) {
	g.arrived.Done()
	g.arrived.Wait()
	return g.MemoryStore.PutIfBetter(levelID, rec)
}

func TestConcurrentWinsKeepBestRecord(t *testing.T) {
	store := newGatedStore(2)
	catalog := core.NewCatalog(scoringLevel())

	fast := core.NewSession(catalog, store, core.WithPlayer("fast"))
	slow := core.NewSession(catalog, store, core.WithPlayer("slow"))
	fast.StartLevel(7)
	slow.StartLevel(7)
	primeWin(t, fast, 5)
	primeWin(t, slow, 7)

	var wg sync.WaitGroup
	for _, s := range []*core.Session{fast, slow} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.MoveSelected(1)
		}()
	}
	wg.Wait()

	if !fast.Won() || !slow.Won() {
		t.Fatalf("both sessions should win, fast=%v slow=%v", fast.Won(), slow.Won())
	}

	rec, ok, _ := store.GetRecord(7)
	if !ok || rec.BestMoveCount != 5 || rec.PlayerName != "fast" {
		t.Errorf("record = %+v, expected 5 moves by fast", rec)
	}
	if !fast.Snapshot().NewRecord {
		t.Error("the 5-move win should be a new record")
	}
}

func TestNilStoreSkipsScoring(t *testing.T) {
	s := core.NewSession(core.NewCatalog(scoringLevel()), nil)
	s.StartLevel(7)
	winIn(t, s, 2)

	if s.StoreErr() != nil || s.Snapshot().NewRecord {
		t.Error("nil store should neither fail nor record")
	}
}

func TestStartAndNextLevel(t *testing.T) {
	first := scoringLevel()
	first.ID = 1
	third := scoringLevel()
	third.ID = 3

	s := core.NewSession(core.NewCatalog(third, first), nil)

	if s.StartLevel(2) {
		t.Error("StartLevel of unknown id should be rejected")
	}
	if s.Active() || s.Restart() {
		t.Error("session should stay idle after a rejected start")
	}
	if s.PositionLocomotive(0) {
		t.Error("commands should be rejected before a level starts")
	}

	s.StartLevel(1)
	if !s.Snapshot().HasNext {
		t.Error("level 1 should report a next level")
	}
	if !s.NextLevel() || s.LevelID() != 3 {
		t.Fatalf("NextLevel should start level 3, got %d", s.LevelID())
	}
	if s.Snapshot().HasNext || s.NextLevel() {
		t.Error("level 3 is the last level")
	}
	if s.LevelID() != 3 {
		t.Errorf("rejected NextLevel changed level to %d", s.LevelID())
	}
}

func TestStartLevelNormalizesTracks(t *testing.T) {
	s, _ := startSession(t, core.Level{
		ID:             1,
		Tracks:         [][]string{{"", "A", "", "B"}, nil},
		TargetSequence: []string{"Z"},
		Capacity:       5,
	})

	snap := s.Snapshot()
	if want := []string{"A", "B", "", "", ""}; !slices.Equal(snap.Tracks[0], want) {
		t.Errorf("track 0 = %q, expected %q", snap.Tracks[0], want)
	}
	if len(snap.Tracks[1]) != 5 {
		t.Errorf("track 1 has %d slots, expected 5", len(snap.Tracks[1]))
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s, _ := startSession(t, twoCarLevel())

	snap := s.Snapshot()
	snap.Tracks[0][0] = "X"
	snap.Target[0] = "X"

	again := s.Snapshot()
	if again.Tracks[0][0] != "A" || again.Target[0] != "B" {
		t.Error("mutating a snapshot leaked into the session")
	}
}

func TestGuardedConcurrentUse(t *testing.T) {
	s := core.NewSession(core.NewCatalog(scoringLevel()), core.NewMemoryStore())
	g := core.NewGuarded(s)
	g.Do(func(s *core.Session) { s.StartLevel(7) })

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				g.Do(func(s *core.Session) { s.Tick() })
				g.Apply(func(s *core.Session) bool { return s.PositionLocomotive(i % 3) })
				_ = g.Snapshot()
			}
		}()
	}
	wg.Wait()

	if got := g.Snapshot().Moves; got != 400 {
		t.Errorf("Moves = %d, expected 400", got)
	}
}
