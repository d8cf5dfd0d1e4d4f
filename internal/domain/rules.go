package domain

// HasLineOfFour reports whether ToWin consecutive cells hold the same color.
// Empty cells break a run.
func HasLineOfFour(cells []Cell) bool {
	return lineOwner(cells) != Empty
}

func lineOwner(cells []Cell) Cell {
	count := 0
	prev := Empty
	for _, c := range cells {
		if c == Empty {
			count = 0
			prev = Empty
			continue
		}
		if c == prev {
			count++
		} else {
			count = 1
			prev = c
		}
		if count == ToWin {
			return c
		}
	}
	return Empty
}

func HasHorizontalWin(b Board) bool {
	return horizontalWinner(b) != Empty
}

func HasVerticalWin(b Board) bool {
	return verticalWinner(b) != Empty
}

// HasWon checks rows and columns only. Diagonal lines are not winning lines.
func HasWon(b Board) bool {
	return Winner(b) != Empty
}

// Winner returns the color owning a line of four, or Empty.
func Winner(b Board) Cell {
	if w := horizontalWinner(b); w != Empty {
		return w
	}
	return verticalWinner(b)
}

func horizontalWinner(b Board) Cell {
	for r := 0; r < b.Rows(); r++ {
		if w := lineOwner(b.Row(r)); w != Empty {
			return w
		}
	}
	return Empty
}

func verticalWinner(b Board) Cell {
	for c := 0; c < b.Columns(); c++ {
		if w := lineOwner(b.Column(c)); w != Empty {
			return w
		}
	}
	return Empty
}

// PlayTurn applies the move and tells whether the resulting board is won.
// Errors from ApplyMove are returned as is and no win check happens.
func PlayTurn(b Board, column int, color Cell) (Board, bool, error) {
	next, err := ApplyMove(b, column, color)
	if err != nil {
		return b, false, err
	}
	return next, HasWon(next), nil
}
