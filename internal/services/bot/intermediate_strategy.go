package bot

import (
	"github.com/lexc24/tictactoe/internal/dependencies/random"
	"github.com/lexc24/tictactoe/internal/model"
	"github.com/lexc24/tictactoe/internal/services/game"
)

// IntermediateStrategy plays in priority order: win if possible, block the
// opponent's win, take a free corner, take the center, otherwise random.
type IntermediateStrategy struct {
	random random.Random
}

// NewIntermediateStrategy creates a new IntermediateStrategy
func NewIntermediateStrategy(rnd random.Random) *IntermediateStrategy {
	return &IntermediateStrategy{random: rnd}
}

// ChoosePosition selects the highest-priority available move
func (s *IntermediateStrategy) ChoosePosition(board *model.Board, marker model.Marker) model.Position {
	if pos, ok := game.WinningMove(board, marker); ok {
		return pos
	}

	opponent := model.MarkerX
	if marker == model.MarkerX {
		opponent = model.MarkerO
	}
	if pos, ok := game.WinningMove(board, opponent); ok {
		return pos
	}

	corners := []model.Position{
		{Row: 0, Col: 0},
		{Row: 0, Col: 2},
		{Row: 2, Col: 0},
		{Row: 2, Col: 2},
	}
	for _, pos := range corners {
		if board.IsEmpty(pos) {
			return pos
		}
	}

	center := model.Position{Row: 1, Col: 1}
	if board.IsEmpty(center) {
		return center
	}

	empty := board.EmptyPositions()
	if len(empty) == 0 {
		return model.Position{}
	}
	return empty[s.random.Intn(len(empty))]
}
