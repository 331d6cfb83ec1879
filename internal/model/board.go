package model

// BoardSize is the grid dimension. The game is always 3x3.
const BoardSize = 3

// Position identifies a cell on the board
type Position struct {
	Row int // 0-indexed from top
	Col int // 0-indexed from left
}

// Board is a 3x3 Tic-Tac-Toe grid. MarkerNone means empty.
// Row-major: Cells[row][col].
type Board struct {
	Cells [BoardSize][BoardSize]Marker
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{}
}

// Get returns the marker at the given position, or MarkerNone if empty or out of bounds
func (b *Board) Get(pos Position) Marker {
	if !b.IsValidPosition(pos) {
		return MarkerNone
	}
	return b.Cells[pos.Row][pos.Col]
}

// Set places a marker at the given position
func (b *Board) Set(pos Position, marker Marker) {
	if b.IsValidPosition(pos) {
		b.Cells[pos.Row][pos.Col] = marker
	}
}

// IsEmpty returns true if the cell at the given position is empty
func (b *Board) IsEmpty(pos Position) bool {
	return b.IsValidPosition(pos) && b.Cells[pos.Row][pos.Col] == MarkerNone
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < BoardSize && pos.Col >= 0 && pos.Col < BoardSize
}

// IsFull returns true if all cells are filled
func (b *Board) IsFull() bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.Cells[row][col] == MarkerNone {
				return false
			}
		}
	}
	return true
}

// EmptyPositions returns every empty cell in row-major order
func (b *Board) EmptyPositions() []Position {
	var empty []Position
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.Cells[row][col] == MarkerNone {
				empty = append(empty, Position{Row: row, Col: col})
			}
		}
	}
	return empty
}
