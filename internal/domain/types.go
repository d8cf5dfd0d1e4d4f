package domain

import "strings"

// Cell is the content of one board position.
type Cell int

const (
	Empty  Cell = 0
	Red    Cell = 1
	Yellow Cell = 2
)

const (
	DefaultRows    = 6
	DefaultColumns = 7
	ToWin          = 4
)

// Valid reports whether c is one of the two player colors.
func (c Cell) Valid() bool {
	return c == Red || c == Yellow
}

// Label is the single character used when rendering the grid.
func (c Cell) Label() string {
	switch c {
	case Red:
		return "R"
	case Yellow:
		return "J"
	case Empty:
		return " "
	}
	return "?"
}

func (c Cell) Name() string {
	switch c {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Empty:
		return "empty"
	}
	return "invalid"
}

func (c Cell) String() string {
	return c.Name()
}

func (c Cell) MarshalText() ([]byte, error) {
	if c != Empty && !c.Valid() {
		return nil, wrap(ErrInvalidColor, "cannot encode cell %d", int(c))
	}
	return []byte(c.Name()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	parsed, err := ParseCell(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Opponent returns the other player color. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case Red:
		return Yellow
	case Yellow:
		return Red
	}
	return Empty
}

// ParseCell accepts the grid labels ("R", "J"), "Y" and the color names.
func ParseCell(s string) (Cell, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "red", "rouge":
		return Red, nil
	case "j", "y", "yellow", "jaune":
		return Yellow, nil
	case "", "empty":
		return Empty, nil
	}
	return Empty, wrap(ErrInvalidColor, "unknown color %q", s)
}

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidColor   Error = "invalid color"
	ErrInvalidColumn  Error = "invalid column"
	ErrColumnFull     Error = "column is full"
	ErrConfiguration  Error = "invalid board configuration"
	ErrGameOver       Error = "game is over"
	ErrNothingToUndo  Error = "nothing to undo"
	ErrCorruptedBoard Error = "corrupted board"
)
