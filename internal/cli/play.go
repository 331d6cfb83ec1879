package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexc24/tictactoe/internal/dependencies/random"
	"github.com/lexc24/tictactoe/internal/model"
	"github.com/lexc24/tictactoe/internal/services/bot"
	"github.com/lexc24/tictactoe/internal/services/game"
)

func newPlayCmd() *cobra.Command {
	var strategy string
	var playO bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a local game against the computer",
		Long: `Play a game of Tic-Tac-Toe against a computer opponent in the
terminal. Moves are entered as "row col" (0-based), e.g. "1 1" for the
center cell. X always moves first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, err := bot.NewStrategy(strategy, random.New())
			if err != nil {
				return fmt.Errorf("%w (valid: %s)", err, strings.Join(bot.ValidStrategies(), ", "))
			}

			human := model.MarkerX
			if playO {
				human = model.MarkerO
			}

			return playGame(strat, human)
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", bot.StrategyIntermediate,
		"Bot strategy: "+strings.Join(bot.ValidStrategies(), ", "))
	cmd.Flags().BoolVar(&playO, "second", false, "Play O (computer moves first)")

	return cmd
}

func playGame(strat bot.Strategy, human model.Marker) error {
	g := game.New()
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("You are %s. Enter moves as \"row col\".\n\n", human)
	printBoard(g.Board)

	for !g.Over() {
		var err error
		if g.Turn == human {
			err = humanMove(g, reader)
		} else {
			pos := strat.ChoosePosition(g.Board, g.Turn)
			fmt.Printf("Computer plays %d %d\n", pos.Row, pos.Col)
			err = g.Move(pos)
		}
		if err != nil {
			return err
		}
		printBoard(g.Board)
	}

	switch {
	case g.Winner() == human:
		fmt.Println("You win!")
	case g.IsTie():
		fmt.Println("It's a tie.")
	default:
		fmt.Println("Computer wins.")
	}
	return nil
}

func humanMove(g *game.Game, reader *bufio.Reader) error {
	for {
		fmt.Printf("%s> ", g.Turn)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read move: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			fmt.Println("Enter a move as \"row col\", e.g. 0 2")
			continue
		}

		row, err1 := strconv.Atoi(fields[0])
		col, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			fmt.Println("Row and column must be numbers 0-2")
			continue
		}

		switch err := g.Move(model.Position{Row: row, Col: col}); err {
		case nil:
			return nil
		case model.ErrInvalidPosition:
			fmt.Println("Position out of range, use 0-2")
		case model.ErrCellOccupied:
			fmt.Println("That cell is taken")
		default:
			return err
		}
	}
}

func printBoard(b *model.Board) {
	fmt.Println("   0   1   2")
	for row := 0; row < model.BoardSize; row++ {
		fmt.Printf("%d ", row)
		for col := 0; col < model.BoardSize; col++ {
			cell := b.Get(model.Position{Row: row, Col: col})
			if cell == model.MarkerNone {
				fmt.Print("   ")
			} else {
				fmt.Printf(" %s ", cell)
			}
			if col < model.BoardSize-1 {
				fmt.Print("|")
			}
		}
		fmt.Println()
		if row < model.BoardSize-1 {
			fmt.Println("  ---+---+---")
		}
	}
	fmt.Println()
}
