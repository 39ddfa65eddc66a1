package core

import (
	"slices"
	"time"
)

// NoTrack is the locomotive position when no track is selected.
const NoTrack = -1

// DefaultMessageTicks is how many ticks a transient message stays visible.
const DefaultMessageTicks = 120

// MsgTrackFull is shown when a move would exceed the target track's capacity.
const MsgTrackFull = "Track full! No room for more cars."

// Session is the mutable state of one attempt at one level.
//
// All commands run synchronously and report whether they were accepted.
// Rejected commands leave the state untouched (apart from the transient
// message on a capacity violation) and never return errors.
// A Session is not safe for concurrent use; see Guarded.
type Session struct {
	catalog      *Catalog
	store        ScoreStore
	now          func() time.Time
	messageTicks int
	player       string

	levelID     int
	levelName   string
	description string
	tracks      []Track
	target      []string
	capacity    int

	locomotive int // NoTrack when idle
	selected   int // length of the selected prefix on the locomotive track

	moves     int
	startedAt time.Time
	elapsed   int
	active    bool
	won       bool
	newRecord bool
	matched   int

	message     string
	messageLeft int

	storeErr error
}

// Option configures a Session.
type Option func(*Session)

// WithPlayer sets the display name recorded with new best scores.
func WithPlayer(name string) Option {
	return func(s *Session) {
		s.player = name
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMessageTicks overrides how long transient messages stay visible.
func WithMessageTicks(ticks int) Option {
	return func(s *Session) {
		if ticks > 0 {
			s.messageTicks = ticks
		}
	}
}

// NewSession creates an idle session over the given catalog.
// store may be nil, in which case wins are not recorded.
func NewSession(catalog *Catalog, store ScoreStore, opts ...Option) *Session {
	s := &Session{
		catalog:      catalog,
		store:        store,
		now:          time.Now,
		messageTicks: DefaultMessageTicks,
		locomotive:   NoTrack,
		matched:      NoTrack,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPlayer changes the player name used for subsequent records.
func (s *Session) SetPlayer(name string) {
	s.player = name
}

// Player returns the current player name.
func (s *Session) Player() string {
	return s.player
}

// Catalog returns the levels this session can start.
func (s *Session) Catalog() *Catalog {
	return s.catalog
}

// LevelID returns the id of the current level, or 0 before the first start.
func (s *Session) LevelID() int {
	return s.levelID
}

// Active reports whether a level has been started.
func (s *Session) Active() bool {
	return s.active
}

// Won reports whether the current level is solved.
func (s *Session) Won() bool {
	return s.won
}

// Moves returns the number of committed moves in this attempt.
func (s *Session) Moves() int {
	return s.moves
}

// StoreErr returns the last score store failure, if any.
func (s *Session) StoreErr() error {
	return s.storeErr
}

// StartLevel begins a fresh attempt at the level with the given id.
// Unknown ids are ignored and the current attempt is kept.
func (s *Session) StartLevel(id int) bool {
	level, ok := s.catalog.Get(id)
	if !ok {
		return false
	}

	capacity := level.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	s.levelID = level.ID
	s.levelName = level.Name
	s.description = level.Description
	s.capacity = capacity
	s.tracks = cloneTracks(level.Tracks, capacity)
	s.target = slices.Clone(level.TargetSequence)

	s.locomotive = NoTrack
	s.selected = 0
	s.moves = 0
	s.startedAt = s.now()
	s.elapsed = 0
	s.active = true
	s.won = false
	s.newRecord = false
	s.matched = NoTrack
	s.message = ""
	s.messageLeft = 0
	s.storeErr = nil

	return true
}

// Restart begins a fresh attempt at the current level.
func (s *Session) Restart() bool {
	if !s.active {
		return false
	}
	return s.StartLevel(s.levelID)
}

// NextLevel starts the level following the current one, if there is one.
func (s *Session) NextLevel() bool {
	next, ok := s.catalog.Next(s.levelID)
	if !ok {
		return false
	}
	return s.StartLevel(next)
}

// Tick advances the timer and the transient message countdown.
// It never changes puzzle state and may be called at any rate.
func (s *Session) Tick() {
	if s.active && !s.won {
		s.refreshElapsed()
	}

	if s.messageLeft > 0 {
		s.messageLeft--
		if s.messageLeft == 0 {
			s.message = ""
		}
	}
}

func (s *Session) refreshElapsed() {
	d := s.now().Sub(s.startedAt)
	s.elapsed = max(0, int(d/time.Second))
}

// PositionLocomotive moves the locomotive onto a track and selects every car
// of its leading run. Positioning is a committed action and costs one move.
func (s *Session) PositionLocomotive(track int) bool {
	if !s.active || s.won || !s.validTrack(track) {
		return false
	}

	s.locomotive = track
	s.selected = s.tracks[track].RunLength()
	s.moves++
	return true
}

// SelectCar narrows the selection to the cars in slots 0..slot of the
// locomotive track. Slots past the first gap cannot be selected.
func (s *Session) SelectCar(track, slot int) bool {
	if !s.active || s.won || s.locomotive == NoTrack || track != s.locomotive {
		return false
	}

	if slot < 0 || slot >= s.tracks[track].RunLength() {
		return false
	}

	s.selected = slot + 1
	return true
}

// MoveSelected couples the selected cars onto the front of the target track.
// A move that would exceed the target's capacity is rejected with a
// transient message and does not count.
func (s *Session) MoveSelected(target int) bool {
	if !s.active || s.won || s.locomotive == NoTrack || s.selected == 0 {
		return false
	}
	if target == s.locomotive || !s.validTrack(target) {
		return false
	}

	existing := s.tracks[target].Cars()
	if len(existing)+s.selected > s.capacity {
		s.setMessage(MsgTrackFull)
		return false
	}

	source := s.tracks[s.locomotive]
	moving := slices.Clone(source[:s.selected])
	for i := range s.selected {
		source[i] = Empty
	}

	s.tracks[s.locomotive] = packTrack(source.Cars(), s.capacity)
	s.tracks[target] = packTrack(append(moving, existing...), s.capacity)

	s.locomotive = NoTrack
	s.selected = 0
	s.moves++

	s.CheckWin()
	return true
}

// CheckWin reports whether any track holds exactly the target sequence.
// The first matching track wins; the result is scored once.
func (s *Session) CheckWin() bool {
	if !s.active {
		return false
	}
	if s.won {
		return true
	}

	for i, t := range s.tracks {
		if slices.Equal(t.Cars(), s.target) {
			s.won = true
			s.matched = i
			s.refreshElapsed()
			s.recordScore()
			return true
		}
	}
	return false
}

// MatchedTrack returns the index of the winning track, or NoTrack.
func (s *Session) MatchedTrack() int {
	return s.matched
}

// recordScore offers the result to the store, which keeps it only when it
// beats the existing record. Only the move count ranks results; equal
// counts never overwrite.
func (s *Session) recordScore() {
	if s.store == nil {
		return
	}

	stored, err := s.store.PutIfBetter(s.levelID, ScoreRecord{
		BestMoveCount:      s.moves,
		BestElapsedSeconds: s.elapsed,
		PlayerName:         s.player,
	})
	if err != nil {
		s.storeErr = err
		return
	}
	s.newRecord = stored
}

func (s *Session) setMessage(msg string) {
	s.message = msg
	s.messageLeft = s.messageTicks
}

func (s *Session) validTrack(track int) bool {
	return track >= 0 && track < len(s.tracks)
}
