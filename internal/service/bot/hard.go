package bot

import (
	"math"
	"sort"

	"github.com/iamasit07/puissance4/backend/internal/domain"
)

const (
	MINIMAX_DEPTH       = 6
	MINIMAX_WIN         = 1000000
	MINIMAX_LOSS        = -1000000
	POSITION_WEIGHT     = 10
	TWO_IN_ROW_WEIGHT   = 50
	THREE_IN_ROW_WEIGHT = 500
)

// calculateMinimaxMove implements hard difficulty using Minimax with alpha-beta pruning
func calculateMinimaxMove(board domain.Board, botColor domain.Cell, depth int) int {
	validColumns := orderedMoves(board)
	opponent := botColor.Opponent()

	// If a move wins immediately, take it
	if col, ok := winningMove(board, botColor); ok {
		return col
	}

	bestCol := validColumns[0]
	bestScore := math.MinInt32
	alpha := math.MinInt32
	beta := math.MaxInt32

	for _, col := range validColumns {
		testBoard, err := domain.ApplyMove(board, col, botColor)
		if err != nil {
			continue
		}

		score := minimax(testBoard, depth-1, alpha, beta, false, botColor, opponent)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
		alpha = max(alpha, bestScore)
	}

	return bestCol
}

// minimax implements the minimax algorithm with alpha-beta pruning
func minimax(board domain.Board, depth int, alpha, beta int, isMaximizing bool, botColor, opponent domain.Cell) int {
	validColumns := orderedMoves(board)

	// Terminal conditions
	if depth <= 0 || len(validColumns) == 0 {
		return evaluateBoard(board, botColor, opponent)
	}

	if isMaximizing {
		maxEval := math.MinInt32
		for _, col := range validColumns {
			testBoard, _ := domain.ApplyMove(board, col, botColor)
			if domain.Winner(testBoard) == botColor {
				return MINIMAX_WIN + depth // Prefer quicker wins
			}

			eval := minimax(testBoard, depth-1, alpha, beta, false, botColor, opponent)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break // Beta cutoff
			}
		}
		return maxEval
	}

	minEval := math.MaxInt32
	for _, col := range validColumns {
		testBoard, _ := domain.ApplyMove(board, col, opponent)
		if domain.Winner(testBoard) == opponent {
			return MINIMAX_LOSS - depth // Prefer delaying losses
		}

		eval := minimax(testBoard, depth-1, alpha, beta, true, botColor, opponent)
		minEval = min(minEval, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break // Alpha cutoff
		}
	}
	return minEval
}

// orderedMoves lists valid columns center first, which prunes more branches.
func orderedMoves(board domain.Board) []int {
	moves := board.ValidMoves()
	sort.SliceStable(moves, func(i, j int) bool {
		return distanceFromCenter(board, moves[i]) < distanceFromCenter(board, moves[j])
	})
	return moves
}
