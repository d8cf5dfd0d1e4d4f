package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/repository/store"
	"github.com/iamasit07/puissance4/backend/internal/service/bot"
)

type GameSession struct {
	GameID        string
	Game          *domain.Game
	BotColor      domain.Cell // Empty for two human players
	BotDifficulty string      // "easy", "medium", "hard"
	CreatedAt     time.Time
	FinishedAt    time.Time
	mu            sync.Mutex
	publishMu     sync.Mutex // keeps snapshots leaving in the order they were taken
	manager       *SessionManager
}

func (gs *GameSession) IsBot() bool {
	return gs.BotColor != domain.Empty
}

func (gs *GameSession) Snapshot() Snapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked()
}

func (gs *GameSession) snapshotLocked() Snapshot {
	board := gs.Game.Board()
	moves := gs.Game.Moves()

	snap := Snapshot{
		GameID:        gs.GameID,
		Rows:          board.Rows(),
		Columns:       board.Columns(),
		Board:         board.Grid(),
		Lines:         domain.Render(board),
		Moves:         moves,
		Status:        gs.Game.Status(),
		Winner:        gs.Game.Winner(),
		NextColor:     gs.Game.NextColor(),
		BotColor:      gs.BotColor,
		BotDifficulty: gs.BotDifficulty,
		CreatedAt:     gs.CreatedAt,
	}
	if len(moves) > 0 {
		last := moves[len(moves)-1]
		snap.LastMove = &last
	}
	if gs.Game.IsFinished() {
		finishedAt := gs.FinishedAt
		snap.FinishedAt = &finishedAt
	}
	return snap
}

// HandleMove plays color in column. Turn order is not checked here: callers
// that want strict alternation restrict the color before calling.
func (gs *GameSession) HandleMove(color domain.Cell, column int) (Snapshot, error) {
	gs.mu.Lock()
	snap, err := gs.playLocked(color, column)
	if err != nil {
		gs.mu.Unlock()
		return Snapshot{}, err
	}
	gs.publishAndUnlock(snap)

	gs.mu.Lock()
	gs.maybeScheduleBotLocked()
	gs.mu.Unlock()

	return snap, nil
}

func (gs *GameSession) playLocked(color domain.Cell, column int) (Snapshot, error) {
	move, err := gs.Game.Play(column, color)
	if err != nil {
		return Snapshot{}, err
	}

	if gs.Game.IsFinished() {
		gs.FinishedAt = time.Now()
		if gs.Game.Status() == domain.StatusWon {
			log.Printf("[GAME] Game %s won by %s at move %d", gs.GameID, gs.Game.Winner(), gs.Game.MoveCount())
		} else {
			log.Printf("[GAME] Game %s ended in a draw", gs.GameID)
		}
		gs.saveGameAsync(gs.recordLocked())
	} else {
		log.Printf("[GAME] Game %s: %s played column %d (row %d)", gs.GameID, move.Color, move.Column, move.Row)
	}

	return gs.snapshotLocked(), nil
}

// HandleUndo reverts the last move. Against the bot, the bot reply and the
// human move before it are both reverted.
//
// seat is the color asking for the undo. With a color, the last move not
// played by the bot must be that color's; Empty lifts the check.
func (gs *GameSession) HandleUndo(seat domain.Cell) (Snapshot, error) {
	gs.mu.Lock()
	if seat != domain.Empty {
		if err := gs.checkUndoSeatLocked(seat); err != nil {
			gs.mu.Unlock()
			return Snapshot{}, err
		}
	}
	last, err := gs.Game.Undo()
	if err != nil {
		gs.mu.Unlock()
		return Snapshot{}, err
	}
	if gs.IsBot() && last.Color == gs.BotColor && gs.Game.MoveCount() > 0 {
		_, _ = gs.Game.Undo()
	}
	gs.FinishedAt = time.Time{}
	snap := gs.snapshotLocked()

	log.Printf("[GAME] Game %s: undo, %d moves left", gs.GameID, len(snap.Moves))
	gs.publishAndUnlock(snap)

	// undoing a red bot's opening move hands the turn back to it
	gs.mu.Lock()
	gs.maybeScheduleBotLocked()
	gs.mu.Unlock()

	return snap, nil
}

func (gs *GameSession) checkUndoSeatLocked(seat domain.Cell) error {
	moves := gs.Game.Moves()
	for i := len(moves) - 1; i >= 0; i-- {
		if gs.IsBot() && moves[i].Color == gs.BotColor {
			continue
		}
		if moves[i].Color != seat {
			return fmt.Errorf("%w: last move is %s", ErrNotYourMove, moves[i].Color)
		}
		return nil
	}
	return domain.ErrNothingToUndo
}

// publishAndUnlock releases gs.mu and hands snap to the watchers and the
// cache. The publish lock is taken before gs.mu is released, so a later
// snapshot can never overtake an earlier one.
func (gs *GameSession) publishAndUnlock(snap Snapshot) {
	gs.publishMu.Lock()
	gs.mu.Unlock()
	defer gs.publishMu.Unlock()
	gs.manager.broadcast(snap)
}

func (gs *GameSession) maybeScheduleBotLocked() {
	if !gs.IsBot() || gs.Game.IsFinished() || gs.Game.NextColor() != gs.BotColor {
		return
	}

	delay := gs.manager.cfg.BotMoveDelay
	gs.manager.background(func() {
		// Small delay to feel natural
		if delay > 0 {
			time.Sleep(delay)
		}
		if err := gs.HandleBotMove(); err != nil {
			log.Printf("[BOT] Error handling bot move in %s: %v", gs.GameID, err)
		}
	})
}

func (gs *GameSession) HandleBotMove() error {
	gs.mu.Lock()

	// Verify it's actually bot's turn (race condition check)
	if !gs.IsBot() || gs.Game.IsFinished() || gs.Game.NextColor() != gs.BotColor {
		gs.mu.Unlock()
		return nil
	}

	column, err := bot.CalculateBestMove(gs.Game.Board(), gs.BotColor, gs.BotDifficulty)
	if err != nil {
		gs.mu.Unlock()
		return err
	}
	snap, err := gs.playLocked(gs.BotColor, column)
	if err != nil {
		gs.mu.Unlock()
		return err
	}
	gs.publishAndUnlock(snap)
	return nil
}

func (gs *GameSession) recordLocked() store.GameRecord {
	board := gs.Game.Board()
	return store.GameRecord{
		GameID:        gs.GameID,
		Rows:          board.Rows(),
		Columns:       board.Columns(),
		Status:        gs.Game.Status(),
		Winner:        gs.Game.Winner(),
		Moves:         gs.Game.Moves(),
		Board:         board.Grid(),
		BotDifficulty: gs.BotDifficulty,
		CreatedAt:     gs.CreatedAt,
		FinishedAt:    gs.FinishedAt,
	}
}

// Saves game data to database in background to avoid blocking the move response
func (gs *GameSession) saveGameAsync(rec store.GameRecord) {
	repo := gs.manager.repo
	if repo == nil {
		return
	}
	gs.manager.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.SaveGame(ctx, rec); err != nil {
			log.Printf("[GAME] Error saving game %s: %v", rec.GameID, err)
		} else {
			log.Printf("[GAME] Game %s saved successfully", rec.GameID)
		}
	})
}
