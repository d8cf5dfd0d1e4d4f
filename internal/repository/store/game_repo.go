package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iamasit07/puissance4/backend/internal/domain"
)

type GameRepo struct {
	store *Store
}

func NewGameRepo(s *Store) *GameRepo {
	return &GameRepo{store: s}
}

// GameRecord represents the result of a finished game
type GameRecord struct {
	GameID        string            `json:"gameId"`
	Rows          int               `json:"rows"`
	Columns       int               `json:"columns"`
	Status        domain.GameStatus `json:"status"`
	Winner        domain.Cell       `json:"winner"`
	Moves         []domain.Move     `json:"moves"`
	Board         [][]int           `json:"board"`
	BotDifficulty string            `json:"botDifficulty,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	FinishedAt    time.Time         `json:"finishedAt"`
}

// SaveGame inserts or updates a finished game
func (r *GameRepo) SaveGame(ctx context.Context, rec GameRecord) error {
	movesJSON, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}
	boardJSON, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	query := `
	INSERT INTO game (game_id, rows_count, columns_count, status, winner, total_moves, moves, board_state, bot_difficulty, created_at, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (game_id) DO UPDATE SET
		status = EXCLUDED.status,
		winner = EXCLUDED.winner,
		total_moves = EXCLUDED.total_moves,
		moves = EXCLUDED.moves,
		board_state = EXCLUDED.board_state,
		finished_at = EXCLUDED.finished_at;
	`

	_, err = r.store.DB.ExecContext(ctx, r.store.rebind(query),
		rec.GameID, rec.Rows, rec.Columns, string(rec.Status), int(rec.Winner), len(rec.Moves),
		string(movesJSON), string(boardJSON), rec.BotDifficulty,
		toMillis(rec.CreatedAt), toMillis(rec.FinishedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

// GetGame returns nil when the game does not exist
func (r *GameRepo) GetGame(ctx context.Context, gameID string) (*GameRecord, error) {
	query := `
	SELECT game_id, rows_count, columns_count, status, winner, moves, board_state, bot_difficulty, created_at, finished_at
	FROM game
	WHERE game_id = ?;
	`

	rec, err := scanGame(r.store.DB.QueryRowContext(ctx, r.store.rebind(query), gameID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return rec, nil
}

// ListGames returns the most recently finished games first
func (r *GameRepo) ListGames(ctx context.Context, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
	SELECT game_id, rows_count, columns_count, status, winner, moves, board_state, bot_difficulty, created_at, finished_at
	FROM game
	ORDER BY finished_at DESC
	LIMIT ?;
	`

	rows, err := r.store.DB.QueryContext(ctx, r.store.rebind(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []GameRecord{}
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *rec)
	}
	return games, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (*GameRecord, error) {
	var rec GameRecord
	var status string
	var winner int
	var movesJSON, boardJSON string
	var createdAt, finishedAt int64

	err := row.Scan(
		&rec.GameID,
		&rec.Rows,
		&rec.Columns,
		&status,
		&winner,
		&movesJSON,
		&boardJSON,
		&rec.BotDifficulty,
		&createdAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Status = domain.GameStatus(status)
	rec.Winner = domain.Cell(winner)
	rec.CreatedAt = fromMillis(createdAt)
	rec.FinishedAt = fromMillis(finishedAt)

	if err := json.Unmarshal([]byte(movesJSON), &rec.Moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}
	if err := json.Unmarshal([]byte(boardJSON), &rec.Board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
	}
	return &rec, nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
