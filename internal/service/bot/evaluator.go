package bot

import (
	"github.com/iamasit07/puissance4/backend/internal/domain"
)

const (
	// Score priorities (from highest to lowest)
	SCORE_WIN_NOW      = 100000 // Bot can win immediately
	SCORE_BLOCK_WIN    = 10000  // Block opponent's immediate win
	SCORE_GIFT_WIN     = -8000  // Move lets the opponent win on top of it
	SCORE_THREE_IN_ROW = 400    // Bot has 3 in a window with room for the 4th
	SCORE_BLOCK_THREE  = 300    // Opponent has 3 in a window
	SCORE_TWO_IN_ROW   = 100
	SCORE_CENTER       = 30
	SCORE_NEAR_CENTER  = 20
	SCORE_EDGE         = 5
)

// evaluateBoard scores every window of ToWin cells in rows and columns.
// Only horizontal and vertical lines win, so diagonals are ignored.
func evaluateBoard(board domain.Board, botColor, opponent domain.Cell) int {
	score := 0

	for r := 0; r < board.Rows(); r++ {
		score += scoreLine(board.Row(r), botColor, opponent)
	}
	for c := 0; c < board.Columns(); c++ {
		score += scoreLine(board.Column(c), botColor, opponent)
	}

	// Center column preference
	center := board.Columns() / 2
	for r := 0; r < board.Rows(); r++ {
		switch board.At(r, center) {
		case botColor:
			score += POSITION_WEIGHT * 2
		case opponent:
			score -= POSITION_WEIGHT * 2
		}
	}

	return score
}

func scoreLine(line []domain.Cell, botColor, opponent domain.Cell) int {
	score := 0
	for i := 0; i+domain.ToWin <= len(line); i++ {
		score += scoreWindow(line[i:i+domain.ToWin], botColor, opponent)
	}
	return score
}

func scoreWindow(window []domain.Cell, botColor, opponent domain.Cell) int {
	own, theirs, empty := 0, 0, 0
	for _, c := range window {
		switch c {
		case botColor:
			own++
		case opponent:
			theirs++
		default:
			empty++
		}
	}

	// a window holding both colors can never become a line
	if own > 0 && theirs > 0 {
		return 0
	}

	switch {
	case own == domain.ToWin:
		return MINIMAX_WIN / 10
	case own == domain.ToWin-1 && empty == 1:
		return THREE_IN_ROW_WEIGHT
	case own == domain.ToWin-2 && empty == 2:
		return TWO_IN_ROW_WEIGHT
	case theirs == domain.ToWin:
		return MINIMAX_LOSS / 10
	case theirs == domain.ToWin-1 && empty == 1:
		return -THREE_IN_ROW_WEIGHT * 4 / 5
	case theirs == domain.ToWin-2 && empty == 2:
		return -TWO_IN_ROW_WEIGHT * 4 / 5
	}
	return 0
}
