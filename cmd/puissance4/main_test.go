package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/service/bot"
)

func play(t *testing.T, input string, args ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	require.NoError(t, run(strings.NewReader(input), out, args))
	return out.String()
}

func TestRun_RedWinsOnBottomRow(t *testing.T) {
	out := play(t, "0\n0\n1\n1\n2\n2\n3\n")

	require.Contains(t, out, "| R | R | R | R |   |   |   |")
	require.Contains(t, out, "Red wins!")
	require.True(t, strings.HasSuffix(out, "GAME OVER\n"))
}

func TestRun_VerticalWinForYellow(t *testing.T) {
	out := play(t, "1\n0\n2\n0\n4\n0\n6\n0\n")
	require.Contains(t, out, "Yellow wins!")
}

func TestRun_DrawOnSmallGrid(t *testing.T) {
	out := play(t, "0\n0\n1\n1\n", "-rows", "2", "-cols", "2")
	require.Contains(t, out, "Draw: the grid is full.")
	require.Contains(t, out, "GAME OVER")
}

func TestRun_BadInputIsReported(t *testing.T) {
	out := play(t, "abc\n9\n0\n0\n0\n0\n0\n0\n0\nq\n")

	require.Contains(t, out, `"abc" is not a column number.`)
	require.Contains(t, out, "Column 9 does not exist.")
	require.Contains(t, out, "Column 0 is full.")
	require.Contains(t, out, "Game abandoned.")
}

func TestRun_Undo(t *testing.T) {
	out := play(t, "u\n3\nu\nq\n")

	require.Contains(t, out, "Nothing to undo.")
	require.Contains(t, out, "Undid red in column 3")
	require.Contains(t, out, "Game abandoned.")
}

func TestRun_EndOfInputAbandons(t *testing.T) {
	out := play(t, "3\n")
	require.Contains(t, out, "Yellow, column (0-6)")
	require.Contains(t, out, "Game abandoned.")
}

func TestRun_BotAnswers(t *testing.T) {
	out := play(t, "3\nu\nq\n", "-bot", "yellow", "-difficulty", bot.Easy)

	require.Contains(t, out, "Bot (yellow) plays column")
	require.Contains(t, out, "Undid yellow in column")
	require.Contains(t, out, "Undid red in column 3")
}

func TestRun_RedBotOpens(t *testing.T) {
	out := play(t, "q\n", "-bot", "red")
	require.Contains(t, out, "Bot (red) plays column")
	require.Contains(t, out, "Yellow, column")
}

func TestRun_FlagErrors(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(strings.NewReader(""), out, []string{"-rows", "0"})
	require.ErrorIs(t, err, domain.ErrConfiguration)

	err = run(strings.NewReader(""), out, []string{"-bot", "purple"})
	require.ErrorIs(t, err, domain.ErrInvalidColor)

	err = run(strings.NewReader(""), out, []string{"-bot", "red", "-difficulty", "expert"})
	require.ErrorIs(t, err, bot.ErrUnknownDifficulty)

	out.Reset()
	require.NoError(t, run(strings.NewReader(""), out, []string{"-h"}))
	require.Contains(t, out.String(), "Usage: puissance4")
}
