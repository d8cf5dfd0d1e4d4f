package domain

// Move is one accepted disc drop.
type Move struct {
	Column int  `json:"column"`
	Row    int  `json:"row"`
	Color  Cell `json:"color"`
}

// Game keeps every board produced since the start, so undo is a pop.
// Turn order is not checked: the same color may play twice in a row.
type Game struct {
	history []Board
	moves   []Move
	status  GameStatus
	winner  Cell
}

func NewGame(rows, columns int) (*Game, error) {
	board, err := NewBoard(rows, columns)
	if err != nil {
		return nil, err
	}
	return &Game{
		history: []Board{board},
		status:  StatusActive,
		winner:  Empty,
	}, nil
}

// Board returns the current grid. A zero Game has no grid yet and reports
// an empty 0x0 board; use NewGame to get a playable one.
func (g *Game) Board() Board {
	if len(g.history) == 0 {
		return Board{}
	}
	return g.history[len(g.history)-1]
}

func (g *Game) Moves() []Move {
	out := make([]Move, len(g.moves))
	copy(out, g.moves)
	return out
}

func (g *Game) MoveCount() int { return len(g.moves) }

func (g *Game) Status() GameStatus { return g.status }

func (g *Game) Winner() Cell { return g.winner }

func (g *Game) IsFinished() bool {
	return g.status == StatusWon || g.status == StatusDraw
}

// NextColor suggests who should play next: Red opens, then colors alternate.
func (g *Game) NextColor() Cell {
	if len(g.moves) == 0 {
		return Red
	}
	return g.moves[len(g.moves)-1].Color.Opponent()
}

func (g *Game) Play(column int, color Cell) (Move, error) {
	if g.IsFinished() {
		return Move{}, ErrGameOver
	}

	current := g.Board()
	row, _ := current.DropRow(column)
	next, won, err := PlayTurn(current, column, color)
	if err != nil {
		return Move{}, err
	}

	move := Move{Column: column, Row: row, Color: color}
	g.history = append(g.history, next)
	g.moves = append(g.moves, move)

	switch {
	case won:
		g.status = StatusWon
		g.winner = Winner(next)
	case next.IsFull():
		g.status = StatusDraw
	}
	return move, nil
}

// Undo reverts the last move. Undoing the winning or drawing move reopens the game.
func (g *Game) Undo() (Move, error) {
	if len(g.moves) == 0 {
		return Move{}, ErrNothingToUndo
	}
	last := g.moves[len(g.moves)-1]
	g.moves = g.moves[:len(g.moves)-1]
	g.history = g.history[:len(g.history)-1]
	g.status = StatusActive
	g.winner = Empty
	return last, nil
}

// Replay rebuilds a game from a move list.
func Replay(rows, columns int, moves []Move) (*Game, error) {
	g, err := NewGame(rows, columns)
	if err != nil {
		return nil, err
	}
	for _, m := range moves {
		if _, err := g.Play(m.Column, m.Color); err != nil {
			return nil, err
		}
	}
	return g, nil
}
