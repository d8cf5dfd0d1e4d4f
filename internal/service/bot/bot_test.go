package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamasit07/puissance4/backend/internal/domain"
)

func play(t *testing.T, b domain.Board, moves ...[2]int) domain.Board {
	t.Helper()
	for _, m := range moves {
		var err error
		b, err = domain.ApplyMove(b, m[0], domain.Cell(m[1]))
		require.NoError(t, err)
	}
	return b
}

var difficulties = []string{Easy, Medium, Hard}

func TestBotTakesImmediateWin(t *testing.T) {
	// Yellow has three stacked in column 5, Red is spread out.
	b := play(t, domain.NewDefaultBoard(),
		[2]int{5, 2}, [2]int{0, 1}, [2]int{5, 2}, [2]int{2, 1}, [2]int{5, 2}, [2]int{6, 1},
	)
	for _, d := range difficulties {
		col, err := CalculateBestMove(b, domain.Yellow, d)
		require.NoError(t, err, d)
		require.Equal(t, 5, col, d)
	}
}

func TestBotBlocksOpponentWin(t *testing.T) {
	// Red threatens the bottom row at column 3.
	b := play(t, domain.NewDefaultBoard(),
		[2]int{0, 1}, [2]int{6, 2}, [2]int{1, 1}, [2]int{6, 2}, [2]int{2, 1},
	)
	for _, d := range difficulties {
		col, err := CalculateBestMove(b, domain.Yellow, d)
		require.NoError(t, err, d)
		require.Equal(t, 3, col, d)
	}
}

func TestBotAlwaysReturnsPlayableColumn(t *testing.T) {
	b, err := domain.NewBoard(4, 4)
	require.NoError(t, err)
	color := domain.Red
	for len(b.ValidMoves()) > 0 && !domain.HasWon(b) {
		col, err := CalculateBestMove(b, color, Easy)
		require.NoError(t, err)
		require.Contains(t, b.ValidMoves(), col)
		b, err = domain.ApplyMove(b, col, color)
		require.NoError(t, err)
		color = color.Opponent()
	}
}

func TestBotOnFullBoard(t *testing.T) {
	b, err := domain.NewBoard(1, 2)
	require.NoError(t, err)
	b = play(t, b, [2]int{0, 1}, [2]int{1, 2})

	_, err = CalculateBestMove(b, domain.Red, Medium)
	require.ErrorIs(t, err, ErrNoValidMove)
}

func TestBotRejectsInvalidColor(t *testing.T) {
	_, err := CalculateBestMove(domain.NewDefaultBoard(), domain.Empty, Hard)
	require.ErrorIs(t, err, domain.ErrInvalidColor)
}

func TestMediumPrefersCenterOnEmptyBoard(t *testing.T) {
	col, err := CalculateBestMove(domain.NewDefaultBoard(), domain.Red, Medium)
	require.NoError(t, err)
	require.Equal(t, 3, col)
}

func TestScoreWindow(t *testing.T) {
	R, J, E := domain.Red, domain.Yellow, domain.Empty
	require.Equal(t, THREE_IN_ROW_WEIGHT, scoreWindow([]domain.Cell{R, R, E, R}, R, J))
	require.Equal(t, 0, scoreWindow([]domain.Cell{R, R, J, R}, R, J))
	require.Less(t, scoreWindow([]domain.Cell{J, J, J, E}, R, J), 0)
}

func TestIsValidDifficulty(t *testing.T) {
	require.True(t, IsValidDifficulty("hard"))
	require.False(t, IsValidDifficulty("impossible"))
}
