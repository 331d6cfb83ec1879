package bot

import (
	"github.com/lexc24/tictactoe/internal/dependencies/random"
	"github.com/lexc24/tictactoe/internal/model"
)

// RandomStrategy plays any empty cell
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChoosePosition picks a random empty cell
func (s *RandomStrategy) ChoosePosition(board *model.Board, marker model.Marker) model.Position {
	empty := board.EmptyPositions()
	if len(empty) == 0 {
		return model.Position{}
	}
	return empty[s.random.Intn(len(empty))]
}
