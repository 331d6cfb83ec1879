// Package game implements the 3x3 Tic-Tac-Toe rules engine: board mutation
// and win/tie detection. The matchmaking coordinator never consults it; it is
// used by client-side code such as the CLI's local play mode.
package game

import "github.com/lexc24/tictactoe/internal/model"

// Game tracks one Tic-Tac-Toe match. X always moves first.
type Game struct {
	Board *model.Board
	Turn  model.Marker
}

// New creates a fresh game with X to move
func New() *Game {
	return &Game{
		Board: model.NewBoard(),
		Turn:  model.MarkerX,
	}
}

// Move places the current player's marker at the given position and passes
// the turn. Returns model.ErrGameComplete, model.ErrInvalidPosition or
// model.ErrCellOccupied without mutating the board on a bad move.
func (g *Game) Move(pos model.Position) error {
	if g.Over() {
		return model.ErrGameComplete
	}
	if !g.Board.IsValidPosition(pos) {
		return model.ErrInvalidPosition
	}
	if !g.Board.IsEmpty(pos) {
		return model.ErrCellOccupied
	}

	g.Board.Set(pos, g.Turn)
	if g.Turn == model.MarkerX {
		g.Turn = model.MarkerO
	} else {
		g.Turn = model.MarkerX
	}
	return nil
}

// Winner returns the winning marker, or MarkerNone if nobody has won
func (g *Game) Winner() model.Marker {
	return Winner(g.Board)
}

// IsTie returns true when the board is full with no winner
func (g *Game) IsTie() bool {
	return g.Board.IsFull() && Winner(g.Board) == model.MarkerNone
}

// Over returns true once the game has a winner or is tied
func (g *Game) Over() bool {
	return Winner(g.Board) != model.MarkerNone || g.Board.IsFull()
}

// Winner returns the marker holding a full row, column or diagonal,
// or MarkerNone
func Winner(b *model.Board) model.Marker {
	lines := [][model.BoardSize]model.Position{
		// rows
		{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}},
		{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}},
		{{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}},
		// columns
		{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}},
		{{Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 2, Col: 1}},
		{{Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}},
		// diagonals
		{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}},
		{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}},
	}

	for _, line := range lines {
		first := b.Get(line[0])
		if first == model.MarkerNone {
			continue
		}
		if b.Get(line[1]) == first && b.Get(line[2]) == first {
			return first
		}
	}
	return model.MarkerNone
}

// WinningMove returns a position that would complete a line for the given
// marker, and whether one exists
func WinningMove(b *model.Board, m model.Marker) (model.Position, bool) {
	for _, pos := range b.EmptyPositions() {
		trial := *b
		trial.Set(pos, m)
		if Winner(&trial) == m {
			return pos, true
		}
	}
	return model.Position{}, false
}
