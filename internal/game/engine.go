package game

// TurnSeconds is the length of every turn's countdown.
const TurnSeconds = 10

// State is the engine's position in its state machine.
type State string

const (
	StateInProgress State = "in_progress"
	StateWon        State = "won"
)

// Engine owns one game's board, turn, winner and timer. The four are only
// ever changed together so they stay mutually consistent.
type Engine struct {
	board  Board
	turn   Mark
	win    *WinResult
	timer  int
	events EventBus
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithEventBus publishes engine events to bus instead of a private bus
func WithEventBus(bus EventBus) EngineOption {
	return func(e *Engine) { e.events = bus }
}

// NewEngine creates an engine with an empty board and X to move
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.events == nil {
		e.events = NewEventBus()
	}
	e.clear()
	return e
}

// Events returns the bus the engine publishes to
func (e *Engine) Events() EventBus {
	return e.events
}

func (e *Engine) clear() {
	e.board = Board{}
	e.turn = X
	e.win = nil
	e.timer = TurnSeconds
}

// ApplyMove writes the current mark at index. It reports false and changes
// nothing when index is outside 0..8, the cell is taken, or the game is won.
func (e *Engine) ApplyMove(index int) bool {
	if !InRange(index) || e.win != nil || e.board[index] != Empty {
		return false
	}

	mark := e.turn
	e.board[index] = mark

	if result, ok := CheckWinner(e.board); ok {
		e.win = &result
		e.events.Publish(NewMoveAppliedEvent(mark, index, Empty))
		e.events.Publish(NewGameWonEvent(result))
		return true
	}

	e.turn = mark.Opponent()
	e.timer = TurnSeconds
	e.events.Publish(NewMoveAppliedEvent(mark, index, e.turn))
	return true
}

// Tick advances the countdown by one second. When the timer is at 1 the turn
// passes to the opponent and the timer restarts. Tick does nothing once the
// game is won.
func (e *Engine) Tick() bool {
	if e.win != nil {
		return false
	}

	if e.timer > 1 {
		e.timer--
		return true
	}

	expired := e.turn
	e.turn = expired.Opponent()
	e.timer = TurnSeconds
	e.events.Publish(NewTurnExpiredEvent(expired, e.turn))
	return true
}

// Reset starts a new game: empty board, X to move, no winner, full timer
func (e *Engine) Reset() {
	e.clear()
	e.events.Publish(NewGameResetEvent())
}

// Won reports whether a line has been completed
func (e *Engine) Won() bool {
	return e.win != nil
}

// Snapshot returns a copy of the current state
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Board: e.board,
		Turn:  e.turn,
		Timer: e.timer,
		State: StateInProgress,
	}
	if e.win != nil {
		win := *e.win
		s.Win = &win
		s.State = StateWon
	}
	return s
}

// Snapshot is an immutable view of an Engine's state
type Snapshot struct {
	Board Board      `json:"board"`
	Turn  Mark       `json:"turn"`
	Win   *WinResult `json:"win,omitempty"`
	Timer int        `json:"timer"`
	State State      `json:"state"`
}

// Winner returns the win result, if any
func (s Snapshot) Winner() (WinResult, bool) {
	if s.Win == nil {
		return WinResult{}, false
	}
	return *s.Win, true
}

// Full reports whether every cell is marked
func (s Snapshot) Full() bool {
	return s.Board.Full()
}

// Draw reports a full board without a winner
func (s Snapshot) Draw() bool {
	return s.Win == nil && s.Board.Full()
}

// Playable reports whether a move at index would be accepted
func (s Snapshot) Playable(index int) bool {
	return InRange(index) && s.Win == nil && s.Board[index] == Empty
}
