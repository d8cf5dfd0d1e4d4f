package game

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iamasit07/puissance4/backend/internal/domain"
)

// Snapshot is the JSON view of a game pushed to clients and cached.
type Snapshot struct {
	GameID        string            `json:"gameId"`
	Rows          int               `json:"rows"`
	Columns       int               `json:"columns"`
	Board         [][]int           `json:"board"`
	Lines         []string          `json:"lines"`
	Moves         []domain.Move     `json:"moves"`
	LastMove      *domain.Move      `json:"lastMove,omitempty"`
	Status        domain.GameStatus `json:"status"`
	Winner        domain.Cell       `json:"winner"`
	NextColor     domain.Cell       `json:"nextColor"`
	BotColor      domain.Cell       `json:"botColor"`
	BotDifficulty string            `json:"botDifficulty,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	FinishedAt    *time.Time        `json:"finishedAt,omitempty"`
}

func (s Snapshot) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

// Text renders the board followed by a status line, as the console does.
func (s Snapshot) Text() string {
	var b strings.Builder
	for _, line := range s.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	switch s.Status {
	case domain.StatusWon:
		fmt.Fprintf(&b, "%s wins\n", s.Winner.Name())
	case domain.StatusDraw:
		b.WriteString("draw\n")
	default:
		fmt.Fprintf(&b, "next: %s\n", s.NextColor.Name())
	}
	return b.String()
}
