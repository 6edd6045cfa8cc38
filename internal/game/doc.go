// Package game implements the rules of two-player Tic-Tac-Toe with a per-turn
// countdown.
//
// The main type is Engine, which owns the board, the mark to move, the
// optional win result and the seconds left in the current turn. Engine is a
// plain state machine: it is not safe for concurrent use and it never
// schedules anything itself. Callers own the clock and call Tick once per
// second (see internal/session).
//
// # Basic Usage
//
//	e := game.NewEngine()
//	e.ApplyMove(0) // X
//	e.ApplyMove(3) // O
//	e.Tick()       // 10 -> 9
//	if win, ok := e.Snapshot().Winner(); ok {
//	    fmt.Println(win.Mark, win.Line)
//	}
//
// Invalid interactions (occupied cell, finished game, index outside 0..8)
// are ignored and reported as false, never as errors.
//
// # Win Detection
//
// CheckWinner is pure and scans the eight Lines in a fixed order: rows top to
// bottom, columns left to right, then the two diagonals. The first complete
// line wins, which keeps the result deterministic for hand-built boards that
// could not arise in play.
package game
