package session

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/tictactoe/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *quartz.Mock) {
	t.Helper()

	mClock := quartz.NewMock(t)
	s := New(testLogger(), append([]Option{WithClock(mClock)}, opts...)...)
	t.Cleanup(s.Close)
	return s, mClock
}

func advance(t *testing.T, mClock *quartz.Mock, d time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mClock.Advance(d).MustWait(ctx)
}

func TestSession_Defaults(t *testing.T) {
	s, _ := newTestSession(t)

	snap := s.Snapshot()
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, DefaultPlayers(), snap.Players)
	assert.Equal(t, ThemeLight, snap.Theme)
	assert.Equal(t, game.X, snap.Game.Turn)
	assert.Equal(t, game.TurnSeconds, snap.Game.Timer)
	assert.Equal(t, "Player X", snap.Name(game.X))
}

func TestSession_Countdown(t *testing.T) {
	t.Run("does not run before Start", func(t *testing.T) {
		s, mClock := newTestSession(t)

		advance(t, mClock, 5*time.Second)
		assert.Equal(t, game.TurnSeconds, s.Snapshot().Game.Timer)
	})

	t.Run("idle turn expires after ten seconds", func(t *testing.T) {
		s, mClock := newTestSession(t)
		s.Start()

		for i := 1; i <= game.TurnSeconds-1; i++ {
			advance(t, mClock, TickInterval)
			snap := s.Snapshot()
			assert.Equal(t, game.TurnSeconds-i, snap.Game.Timer, "tick %d", i)
			assert.Equal(t, game.X, snap.Game.Turn, "tick %d", i)
		}

		advance(t, mClock, TickInterval)
		snap := s.Snapshot()
		assert.Equal(t, game.O, snap.Game.Turn)
		assert.Equal(t, game.TurnSeconds, snap.Game.Timer)
		assert.Equal(t, game.Board{}, snap.Game.Board)
	})

	t.Run("a move restarts the countdown from a full second", func(t *testing.T) {
		s, mClock := newTestSession(t)
		s.Start()

		for i := 0; i < 3; i++ {
			advance(t, mClock, TickInterval)
		}
		require.Equal(t, game.TurnSeconds-3, s.Snapshot().Game.Timer)

		advance(t, mClock, TickInterval/2)
		require.True(t, s.ApplyMove(4))
		assert.Equal(t, game.TurnSeconds, s.Snapshot().Game.Timer)

		// the old schedule would have fired here
		advance(t, mClock, TickInterval/2)
		assert.Equal(t, game.TurnSeconds, s.Snapshot().Game.Timer)

		advance(t, mClock, TickInterval/2)
		assert.Equal(t, game.TurnSeconds-1, s.Snapshot().Game.Timer)
		assert.Equal(t, game.O, s.Snapshot().Game.Turn)
	})

	t.Run("stops once the game is won", func(t *testing.T) {
		s, mClock := newTestSession(t)
		s.Start()

		for _, idx := range []int{0, 3, 1, 4, 2} {
			require.True(t, s.ApplyMove(idx))
		}
		before := s.Snapshot()
		require.Equal(t, game.StateWon, before.Game.State)

		advance(t, mClock, 30*TickInterval)
		assert.Equal(t, before, s.Snapshot())
		assert.Nil(t, s.countdown)
	})

	t.Run("reset restarts a stopped countdown", func(t *testing.T) {
		s, mClock := newTestSession(t)
		s.Start()

		for _, idx := range []int{0, 3, 1, 4, 2} {
			require.True(t, s.ApplyMove(idx))
		}
		s.Reset()

		advance(t, mClock, TickInterval)
		assert.Equal(t, game.TurnSeconds-1, s.Snapshot().Game.Timer)
	})

	t.Run("a superseded tick is ignored", func(t *testing.T) {
		s, _ := newTestSession(t)
		s.Start()

		s.mu.Lock()
		stale := s.generation
		s.mu.Unlock()

		require.True(t, s.ApplyMove(0))
		s.tick(stale)

		assert.Equal(t, game.TurnSeconds, s.Snapshot().Game.Timer)
	})

	t.Run("close cancels the countdown", func(t *testing.T) {
		s, mClock := newTestSession(t)
		s.Start()
		s.Close()

		advance(t, mClock, 5*TickInterval)
		assert.Equal(t, game.TurnSeconds, s.Snapshot().Game.Timer)
	})
}

func TestSession_ApplyMove(t *testing.T) {
	s, _ := newTestSession(t)

	require.True(t, s.ApplyMove(0))
	before := s.Snapshot()

	assert.False(t, s.ApplyMove(0))
	assert.False(t, s.ApplyMove(-1))
	assert.False(t, s.ApplyMove(9))
	assert.Equal(t, before, s.Snapshot(), "rejected moves must not bump the version")
}

func TestSession_ApplyMoveSnapshot(t *testing.T) {
	s, mClock := newTestSession(t)
	s.Start()

	advance(t, mClock, TickInterval)
	require.Equal(t, game.TurnSeconds-1, s.Snapshot().Game.Timer)

	snap, applied := s.ApplyMoveSnapshot(4)
	require.True(t, applied)
	assert.Equal(t, game.X, snap.Game.Board[4])
	assert.Equal(t, game.O, snap.Game.Turn)
	assert.Equal(t, game.TurnSeconds, snap.Game.Timer)
	assert.Equal(t, s.Snapshot(), snap)

	// a later tick does not leak into the move's snapshot
	advance(t, mClock, TickInterval)
	assert.Equal(t, game.TurnSeconds, snap.Game.Timer)
	assert.Equal(t, game.TurnSeconds-1, s.Snapshot().Game.Timer)
	assert.Greater(t, s.Snapshot().Version, snap.Version)

	rejected, applied := s.ApplyMoveSnapshot(4)
	assert.False(t, applied)
	assert.Equal(t, s.Snapshot(), rejected)
}

func TestSession_CloseStopsEventLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	s := New(logger, WithClock(quartz.NewMock(t)))

	s.Reset()
	assert.Contains(t, buf.String(), "Game reset")

	s.Close()
	buf.Reset()

	// the engine is unreachable through a closed session, so drive it directly
	s.engine.Reset()
	assert.NotContains(t, buf.String(), "Game reset")
}

func TestSession_Reset(t *testing.T) {
	s, _ := newTestSession(t, WithTheme(ThemeDark), WithPlayers(Players{X: "Ann", O: "Bob"}))
	require.NoError(t, s.SetPlayerName(game.O, "Bea"))

	for _, idx := range []int{0, 3, 1, 4, 2} {
		s.ApplyMove(idx)
	}
	before := s.Snapshot()
	require.Equal(t, game.StateWon, before.Game.State)

	s.Reset()

	snap := s.Snapshot()
	assert.NotEqual(t, before.ID, snap.ID)
	assert.Equal(t, game.Board{}, snap.Game.Board)
	assert.Equal(t, game.X, snap.Game.Turn)
	assert.Nil(t, snap.Game.Win)
	assert.Equal(t, game.TurnSeconds, snap.Game.Timer)
	assert.Equal(t, Players{X: "Ann", O: "Bea"}, snap.Players)
	assert.Equal(t, ThemeDark, snap.Theme)
}

func TestSession_SetPlayerName(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.SetPlayerName(game.X, "Alice"))
	require.NoError(t, s.SetPlayerName(game.O, ""))
	assert.Equal(t, Players{X: "Alice", O: ""}, s.Snapshot().Players)

	err := s.SetPlayerName(game.Empty, "nobody")
	assert.ErrorIs(t, err, ErrUnknownMark)

	// names never touch the game
	assert.Equal(t, game.NewEngine().Snapshot(), s.Snapshot().Game)
}

func TestSession_ToggleTheme(t *testing.T) {
	s, _ := newTestSession(t)

	assert.Equal(t, ThemeDark, s.ToggleTheme())
	assert.Equal(t, ThemeLight, s.ToggleTheme())
	assert.Equal(t, game.NewEngine().Snapshot(), s.Snapshot().Game)
}

func TestSession_Subscribe(t *testing.T) {
	t.Run("delivers the current state immediately", func(t *testing.T) {
		s, _ := newTestSession(t)
		sub := s.Subscribe()
		defer sub.Close()

		snap := <-sub.C()
		assert.Equal(t, s.Snapshot(), snap)
	})

	t.Run("delivers every change", func(t *testing.T) {
		s, mClock := newTestSession(t)
		s.Start()
		sub := s.Subscribe()
		defer sub.Close()
		<-sub.C()

		s.ApplyMove(4)
		snap := <-sub.C()
		assert.Equal(t, game.X, snap.Game.Board[4])

		advance(t, mClock, TickInterval)
		snap = <-sub.C()
		assert.Equal(t, game.TurnSeconds-1, snap.Game.Timer)

		s.ToggleTheme()
		snap = <-sub.C()
		assert.Equal(t, ThemeDark, snap.Theme)
	})

	t.Run("slow reader sees only the newest state", func(t *testing.T) {
		s, _ := newTestSession(t)
		sub := s.Subscribe()
		defer sub.Close()

		s.ApplyMove(0)
		s.ApplyMove(1)
		s.ApplyMove(2)

		snap := <-sub.C()
		assert.Equal(t, s.Snapshot(), snap)

		select {
		case extra := <-sub.C():
			t.Fatalf("unexpected snapshot version %d", extra.Version)
		default:
		}
	})

	t.Run("close ends delivery", func(t *testing.T) {
		s, _ := newTestSession(t)
		sub := s.Subscribe()
		<-sub.C()
		sub.Close()
		sub.Close()

		s.ApplyMove(0)
		_, ok := <-sub.C()
		assert.False(t, ok)
	})

	t.Run("closing the session closes subscriptions", func(t *testing.T) {
		s, _ := newTestSession(t)
		sub := s.Subscribe()
		<-sub.C()

		s.Close()
		_, ok := <-sub.C()
		assert.False(t, ok)
		assert.False(t, s.ApplyMove(0))

		late := s.Subscribe()
		_, ok = <-late.C()
		assert.False(t, ok)
	})
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme(" Dark ")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	_, err = ParseTheme("sepia")
	assert.Error(t, err)
}
