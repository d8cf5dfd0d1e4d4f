package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iamasit07/puissance4/backend/internal/config"
	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/service/bot"
)

func main() {
	if err := run(os.Stdin, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	rows       int
	columns    int
	botColor   domain.Cell
	difficulty string
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	var botName string

	fs := flag.NewFlagSet("puissance4", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.IntVar(&opts.rows, "rows", config.GetEnvAsInt("BOARD_ROWS", domain.DefaultRows), "number of rows")
	fs.IntVar(&opts.columns, "cols", config.GetEnvAsInt("BOARD_COLUMNS", domain.DefaultColumns), "number of columns")
	fs.StringVar(&botName, "bot", "", "color played by the computer: red or yellow (empty for two players)")
	fs.StringVar(&opts.difficulty, "difficulty", config.GetEnv("BOT_DIFFICULTY", bot.Medium), "bot level: easy, medium or hard")
	fs.Usage = func() {
		fmt.Fprintln(out, "Usage: puissance4 [flags]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	color, err := domain.ParseCell(botName)
	if err != nil {
		return opts, err
	}
	opts.botColor = color
	if color != domain.Empty && !bot.IsValidDifficulty(opts.difficulty) {
		return opts, fmt.Errorf("%w %q", bot.ErrUnknownDifficulty, opts.difficulty)
	}
	return opts, nil
}

// run plays one game on the console. Red always opens and colors alternate.
func run(in io.Reader, out io.Writer, args []string) error {
	opts, err := parseFlags(args, out)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	g, err := domain.NewGame(opts.rows, opts.columns)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	printBoard(out, g.Board())

	for !g.IsFinished() {
		color := g.NextColor()

		if color == opts.botColor {
			col, err := bot.CalculateBestMove(g.Board(), color, opts.difficulty)
			if err != nil {
				return err
			}
			if _, err := g.Play(col, color); err != nil {
				return err
			}
			fmt.Fprintf(out, "Bot (%s) plays column %d\n", color, col)
			printBoard(out, g.Board())
			continue
		}

		fmt.Fprintf(out, "%s, column (0-%d), u to undo, q to quit: ", title(color), opts.columns-1)
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nGame abandoned.")
			return scanner.Err()
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch input {
		case "":
			continue
		case "q", "quit":
			fmt.Fprintln(out, "Game abandoned.")
			return nil
		case "u", "undo":
			undo(out, g, opts.botColor)
			continue
		}

		col, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintf(out, "%q is not a column number.\n", input)
			continue
		}
		if _, err := g.Play(col, color); err != nil {
			switch {
			case errors.Is(err, domain.ErrColumnFull):
				fmt.Fprintf(out, "Column %d is full.\n", col)
			case errors.Is(err, domain.ErrInvalidColumn):
				fmt.Fprintf(out, "Column %d does not exist.\n", col)
			default:
				return err
			}
			continue
		}
		printBoard(out, g.Board())
	}

	if g.Status() == domain.StatusWon {
		fmt.Fprintf(out, "%s wins!\n", title(g.Winner()))
	} else {
		fmt.Fprintln(out, "Draw: the grid is full.")
	}
	fmt.Fprintln(out, "GAME OVER")
	return nil
}

// undo reverts the last move, and the bot reply before it when playing the bot.
func undo(out io.Writer, g *domain.Game, botColor domain.Cell) {
	last, err := g.Undo()
	if err != nil {
		fmt.Fprintln(out, "Nothing to undo.")
		return
	}
	fmt.Fprintf(out, "Undid %s in column %d\n", last.Color, last.Column)
	if botColor != domain.Empty && last.Color == botColor && g.MoveCount() > 0 {
		if prev, err := g.Undo(); err == nil {
			fmt.Fprintf(out, "Undid %s in column %d\n", prev.Color, prev.Column)
		}
	}
	printBoard(out, g.Board())
}

func printBoard(out io.Writer, b domain.Board) {
	fmt.Fprintln(out)
	for _, line := range domain.Render(b) {
		fmt.Fprintln(out, line)
	}
	labels := make([]string, b.Columns())
	for j := range labels {
		labels[j] = strconv.Itoa(j)
	}
	fmt.Fprintln(out, "  "+strings.Join(labels, "   "))
	fmt.Fprintln(out)
}

func title(c domain.Cell) string {
	name := c.Name()
	return strings.ToUpper(name[:1]) + name[1:]
}
