package bot

import (
	"math/rand"

	"github.com/iamasit07/puissance4/backend/internal/domain"
)

func calculateEasyMove(board domain.Board, botColor domain.Cell) int {
	if col, ok := winningMove(board, botColor); ok {
		return col
	}
	if col, ok := winningMove(board, botColor.Opponent()); ok {
		return col
	}

	validColumns := board.ValidMoves()
	return validColumns[rand.Intn(len(validColumns))]
}
