package bot

import (
	"errors"

	"github.com/iamasit07/puissance4/backend/internal/domain"
)

const (
	Easy   = "easy"
	Medium = "medium"
	Hard   = "hard"
)

var (
	ErrNoValidMove       = errors.New("no valid move left")
	ErrUnknownDifficulty = errors.New("unknown bot difficulty")
)

// IsValidDifficulty reports whether the difficulty is one the bot knows.
func IsValidDifficulty(difficulty string) bool {
	switch difficulty {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// CalculateBestMove selects a column for botColor based on difficulty.
// Unknown difficulties fall back to medium.
func CalculateBestMove(board domain.Board, botColor domain.Cell, difficulty string) (int, error) {
	if !botColor.Valid() {
		return -1, domain.ErrInvalidColor
	}
	if len(board.ValidMoves()) == 0 {
		return -1, ErrNoValidMove
	}

	switch difficulty {
	case Easy:
		return calculateEasyMove(board, botColor), nil
	case Hard:
		return calculateMinimaxMove(board, botColor, MINIMAX_DEPTH), nil
	default:
		return calculateMediumMove(board, botColor), nil
	}
}

// winningMove finds a column that gives color a line of four right away.
func winningMove(board domain.Board, color domain.Cell) (int, bool) {
	for _, col := range board.ValidMoves() {
		next, err := domain.ApplyMove(board, col, color)
		if err != nil {
			continue
		}
		if domain.Winner(next) == color {
			return col, true
		}
	}
	return -1, false
}

func distanceFromCenter(board domain.Board, col int) int {
	d := col - board.Columns()/2
	if d < 0 {
		return -d
	}
	return d
}
