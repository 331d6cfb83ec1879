// Package bot provides computer opponents for local play.
package bot

import (
	"fmt"

	"github.com/lexc24/tictactoe/internal/dependencies/random"
	"github.com/lexc24/tictactoe/internal/model"
)

// Strategy names
const (
	StrategyRandom       = "random"
	StrategyIntermediate = "intermediate"
)

// Strategy defines how a computer player chooses its next move
type Strategy interface {
	// ChoosePosition selects an empty cell for the given marker to play.
	// The board is guaranteed to have at least one empty cell.
	ChoosePosition(board *model.Board, marker model.Marker) model.Position
}

// NewStrategy creates a strategy by name
func NewStrategy(name string, rnd random.Random) (Strategy, error) {
	switch name {
	case StrategyRandom:
		return NewRandomStrategy(rnd), nil
	case StrategyIntermediate:
		return NewIntermediateStrategy(rnd), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy %q", name)
	}
}

// ValidStrategies returns all valid strategy names
func ValidStrategies() []string {
	return []string{StrategyRandom, StrategyIntermediate}
}
