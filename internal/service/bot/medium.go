package bot

import (
	"github.com/iamasit07/puissance4/backend/internal/domain"
)

func calculateMediumMove(board domain.Board, botColor domain.Cell) int {
	validColumns := board.ValidMoves()
	opponent := botColor.Opponent()
	scores := make(map[int]int, len(validColumns))

	for _, col := range validColumns {
		botBoard, err := domain.ApplyMove(board, col, botColor)
		if err != nil {
			continue
		}

		// === PHASE 1: immediate win ===
		if domain.Winner(botBoard) == botColor {
			scores[col] += SCORE_WIN_NOW
		}

		// === PHASE 2: block the opponent's immediate win ===
		if oppBoard, err := domain.ApplyMove(board, col, opponent); err == nil && domain.Winner(oppBoard) == opponent {
			scores[col] += SCORE_BLOCK_WIN
		}

		// === PHASE 3: do not open the cell above for the opponent ===
		if _, gift := winningMove(botBoard, opponent); gift {
			scores[col] += SCORE_GIFT_WIN
		}

		// === PHASE 4: position strength after the move ===
		scores[col] += evaluateBoard(botBoard, botColor, opponent) / 4

		// === PHASE 5: positional bonuses (center preference) ===
		switch distanceFromCenter(board, col) {
		case 0:
			scores[col] += SCORE_CENTER
		case 1:
			scores[col] += SCORE_NEAR_CENTER
		case 2:
			scores[col] += SCORE_EDGE
		}
	}

	return findBestColumn(board, validColumns, scores)
}

// Find the column with the highest score, ties go to the column nearest the center
func findBestColumn(board domain.Board, validColumns []int, scores map[int]int) int {
	bestColumn := validColumns[0]
	maxScore := scores[bestColumn]

	for _, col := range validColumns[1:] {
		score := scores[col]
		if score > maxScore {
			maxScore = score
			bestColumn = col
		} else if score == maxScore && distanceFromCenter(board, col) < distanceFromCenter(board, bestColumn) {
			bestColumn = col
		}
	}

	return bestColumn
}
