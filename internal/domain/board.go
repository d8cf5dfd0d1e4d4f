package domain

import (
	"fmt"
	"strings"
)

// Board is an immutable grid of cells. Row 0 is the top of the board and
// row Rows()-1 the bottom. Every update returns a new Board, so a value
// that has been handed out is never modified afterwards.
type Board struct {
	rows    int
	columns int
	cells   []Cell // row-major
}

func NewBoard(rows, columns int) (Board, error) {
	if rows <= 0 || columns <= 0 {
		return Board{}, wrap(ErrConfiguration, "board must be at least 1x1, got %dx%d", rows, columns)
	}
	return Board{
		rows:    rows,
		columns: columns,
		cells:   make([]Cell, rows*columns),
	}, nil
}

// NewDefaultBoard returns an empty 6x7 board.
func NewDefaultBoard() Board {
	b, _ := NewBoard(DefaultRows, DefaultColumns)
	return b
}

func (b Board) Rows() int    { return b.rows }
func (b Board) Columns() int { return b.columns }

// At returns the cell at (row, col). Out of range positions read as Empty.
func (b Board) At(row, col int) Cell {
	if !b.inBounds(row, col) {
		return Empty
	}
	return b.cells[row*b.columns+col]
}

// Row returns a copy of the cells of row i, left to right.
func (b Board) Row(i int) []Cell {
	if i < 0 || i >= b.rows {
		return nil
	}
	out := make([]Cell, b.columns)
	copy(out, b.cells[i*b.columns:(i+1)*b.columns])
	return out
}

// Column returns a copy of the cells of column j, from row 0 down to the bottom.
func (b Board) Column(j int) []Cell {
	if j < 0 || j >= b.columns {
		return nil
	}
	out := make([]Cell, b.rows)
	for r := 0; r < b.rows; r++ {
		out[r] = b.cells[r*b.columns+j]
	}
	return out
}

// Equal compares dimensions and every cell.
func (b Board) Equal(other Board) bool {
	if b.rows != other.rows || b.columns != other.columns {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

func (b Board) IsColumnFull(col int) bool {
	// here row 0 represents the top row, so a column is full once its top cell is taken
	return b.At(0, col) != Empty
}

func (b Board) IsFull() bool {
	for c := 0; c < b.columns; c++ {
		if !b.IsColumnFull(c) {
			return false
		}
	}
	return true
}

// ValidMoves lists the columns that can still take a disc.
func (b Board) ValidMoves() []int {
	moves := []int{}
	for c := 0; c < b.columns; c++ {
		if !b.IsColumnFull(c) {
			moves = append(moves, c)
		}
	}
	return moves
}

// DropRow returns the row a disc dropped into col would land on.
func (b Board) DropRow(col int) (int, bool) {
	if col < 0 || col >= b.columns {
		return -1, false
	}
	for row := b.rows - 1; row >= 0; row-- {
		if b.cells[row*b.columns+col] == Empty {
			return row, true
		}
	}
	return -1, false
}

// ApplyMove drops a disc of the given color into column and returns the
// resulting board. The receiver board is left untouched, including when an
// error is returned.
func ApplyMove(b Board, column int, color Cell) (Board, error) {
	if !color.Valid() {
		return b, wrap(ErrInvalidColor, "color must be red or yellow, got %d", int(color))
	}
	if column < 0 || column >= b.columns {
		return b, wrap(ErrInvalidColumn, "column must be between 0 and %d, got %d", b.columns-1, column)
	}
	if b.IsColumnFull(column) {
		return b, wrap(ErrColumnFull, "column %d", column)
	}

	// the disc falls to the lowest empty cell of the column
	row, _ := b.DropRow(column)
	return b.with(row, column, color), nil
}

func (b Board) with(row, col int, c Cell) Board {
	next := Board{
		rows:    b.rows,
		columns: b.columns,
		cells:   make([]Cell, len(b.cells)),
	}
	copy(next.cells, b.cells)
	next.cells[row*b.columns+col] = c
	return next
}

func (b Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.columns
}

// Grid converts the board to plain integers (0 empty, 1 red, 2 yellow)
// for storage and JSON payloads.
func (b Board) Grid() [][]int {
	grid := make([][]int, b.rows)
	for r := range grid {
		grid[r] = make([]int, b.columns)
		for c := range grid[r] {
			grid[r][c] = int(b.cells[r*b.columns+c])
		}
	}
	return grid
}

// BoardFromGrid rebuilds a board from its integer form. The grid must be
// rectangular, hold only known cell values and respect gravity.
func BoardFromGrid(grid [][]int) (Board, error) {
	if len(grid) == 0 {
		return Board{}, wrap(ErrConfiguration, "empty grid")
	}
	b, err := NewBoard(len(grid), len(grid[0]))
	if err != nil {
		return Board{}, err
	}
	for r, line := range grid {
		if len(line) != b.columns {
			return Board{}, wrap(ErrCorruptedBoard, "row %d has %d cells, expected %d", r, len(line), b.columns)
		}
		for c, v := range line {
			cell := Cell(v)
			if cell != Empty && !cell.Valid() {
				return Board{}, wrap(ErrCorruptedBoard, "unknown cell value %d at (%d, %d)", v, r, c)
			}
			b.cells[r*b.columns+c] = cell
		}
	}
	if err := b.checkGravity(); err != nil {
		return Board{}, err
	}
	return b, nil
}

func (b Board) checkGravity() error {
	for c := 0; c < b.columns; c++ {
		for r := 0; r < b.rows-1; r++ {
			if b.At(r, c) != Empty && b.At(r+1, c) == Empty {
				return wrap(ErrCorruptedBoard, "floating disc at (%d, %d)", r, c)
			}
		}
	}
	return nil
}

// Render formats each row as "| R | J |   |" lines.
func Render(b Board) []string {
	lines := make([]string, 0, b.rows)
	labels := make([]string, b.columns)
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.columns; c++ {
			labels[c] = b.At(r, c).Label()
		}
		lines = append(lines, "| "+strings.Join(labels, " | ")+" |")
	}
	return lines
}

func (b Board) String() string {
	return strings.Join(Render(b), "\n")
}

func wrap(err Error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
}
