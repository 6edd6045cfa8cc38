// Package session owns one live game: the engine, the player names, the
// theme and the single countdown task that ticks the engine once a second.
//
// Every stimulus (moves, resets, renames, theme changes and countdown ticks)
// is serialized behind one mutex and runs to completion before the next.
// Front-ends observe changes through Subscribe.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/tictactoe/internal/game"
)

// ErrUnknownMark is returned when a name is set for something other than X or O
var ErrUnknownMark = errors.New("unknown mark")

// TickInterval is how often the countdown fires
const TickInterval = time.Second

// Snapshot is everything a front-end needs to draw the game
type Snapshot struct {
	ID      string        `json:"id"`
	Version uint64        `json:"version"`
	Game    game.Snapshot `json:"game"`
	Players Players       `json:"players"`
	Theme   Theme         `json:"theme"`
}

// Name returns the display name for mark
func (s Snapshot) Name(mark game.Mark) string {
	return s.Players.Name(mark)
}

// Option configures a Session
type Option func(*Session)

// WithClock sets the clock used for the countdown
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithPlayers sets the initial display names
func WithPlayers(players Players) Option {
	return func(s *Session) { s.players = players }
}

// WithTheme sets the initial theme
func WithTheme(theme Theme) Option {
	return func(s *Session) { s.theme = theme }
}

// Session is the explicit owner of a game. Its methods are safe for
// concurrent use.
type Session struct {
	mu     sync.Mutex
	logger *log.Logger
	clock  quartz.Clock
	engine *game.Engine

	id      string
	version uint64
	players Players
	theme   Theme

	// countdown is the only live tick task; generation invalidates a task
	// that already fired but has not yet acquired mu.
	countdown  *quartz.Timer
	generation uint64
	running    bool
	closed     bool

	subs     map[*Subscription]struct{}
	eventLog *eventLogger
}

// New creates a session. The countdown does not run until Start.
func New(logger *log.Logger, opts ...Option) *Session {
	s := &Session{
		logger:  logger.WithPrefix("session"),
		clock:   quartz.NewReal(),
		players: DefaultPlayers(),
		theme:   ThemeLight,
		subs:    make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	bus := game.NewEventBus()
	s.eventLog = &eventLogger{s: s}
	bus.Subscribe(s.eventLog)
	s.engine = game.NewEngine(game.WithEventBus(bus))
	s.id = uuid.NewString()

	return s
}

// Start begins the turn countdown. Calling Start again is a no-op.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.running {
		return
	}
	s.running = true
	s.restartCountdownLocked()
	s.logger.Info("Session started", "id", s.id, "x", s.players.X, "o", s.players.O)
}

// Close cancels the countdown and closes every subscription. A closed
// session ignores all further input.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.running = false
	s.stopCountdownLocked()
	s.engine.Events().Unsubscribe(s.eventLog)

	for sub := range s.subs {
		close(sub.ch)
	}
	s.subs = nil
	s.logger.Info("Session closed", "id", s.id)
}

// ApplyMove places the current mark at index. It reports whether the board
// changed; rejected moves are not errors.
func (s *Session) ApplyMove(index int) bool {
	_, applied := s.ApplyMoveSnapshot(index)
	return applied
}

// ApplyMoveSnapshot is ApplyMove that also returns the state as of the move,
// taken before any later tick can change it.
func (s *Session) ApplyMoveSnapshot(index int) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.snapshotLocked(), false
	}
	if !s.engine.ApplyMove(index) {
		s.logger.Debug("Ignored move", "id", s.id, "index", index)
		return s.snapshotLocked(), false
	}

	s.restartCountdownLocked()
	s.changedLocked()
	return s.snapshotLocked(), true
}

// Reset starts a new play-through with a fresh ID. Names and theme are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.engine.Reset()
	s.id = uuid.NewString()
	s.restartCountdownLocked()
	s.changedLocked()
}

// SetPlayerName changes the display name for mark
func (s *Session) SetPlayerName(mark game.Mark, name string) error {
	if mark != game.X && mark != game.O {
		return fmt.Errorf("%w: %d", ErrUnknownMark, mark)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.players = s.players.With(mark, name)
	s.logger.Debug("Player renamed", "mark", mark, "name", name)
	s.changedLocked()
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme
func (s *Session) ToggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.theme
	}
	s.theme = s.theme.Toggle()
	s.logger.Debug("Theme toggled", "theme", s.theme)
	s.changedLocked()
	return s.theme
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:      s.id,
		Version: s.version,
		Game:    s.engine.Snapshot(),
		Players: s.players,
		Theme:   s.theme,
	}
}

func (s *Session) changedLocked() {
	s.version++
	snap := s.snapshotLocked()
	for sub := range s.subs {
		sub.offer(snap)
	}
}

func (s *Session) restartCountdownLocked() {
	s.stopCountdownLocked()
	if !s.running || s.engine.Won() {
		return
	}
	s.scheduleLocked()
}

func (s *Session) scheduleLocked() {
	s.generation++
	gen := s.generation
	s.countdown = s.clock.AfterFunc(TickInterval, func() { s.tick(gen) }, "session", "countdown")
}

func (s *Session) stopCountdownLocked() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	s.generation++
}

// tick runs on the clock's goroutine
func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || !s.running {
		return
	}
	s.countdown = nil

	if !s.engine.Tick() {
		return
	}
	if !s.engine.Won() {
		s.scheduleLocked()
	}
	s.changedLocked()
}

// eventLogger logs engine events. The engine only publishes while the
// session holds mu.
type eventLogger struct {
	s *Session
}

func (l *eventLogger) OnEvent(event game.GameEvent) {
	s := l.s
	switch e := event.(type) {
	case game.MoveAppliedEvent:
		s.logger.Debug("Move applied", "id", s.id, "mark", e.Mark, "index", e.Index, "next", e.Next)
	case game.TurnExpiredEvent:
		s.logger.Info("Turn expired", "id", s.id, "player", s.players.Name(e.Expired), "next", s.players.Name(e.Next))
	case game.GameWonEvent:
		s.logger.Info("Game won", "id", s.id, "winner", s.players.Name(e.Result.Mark), "mark", e.Result.Mark, "line", e.Result.Line)
	case game.GameResetEvent:
		s.logger.Info("Game reset", "id", s.id)
	}
}
