package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/repository/store"
	"github.com/iamasit07/puissance4/backend/internal/service/bot"
	"github.com/iamasit07/puissance4/backend/pkg/uid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotYourMove  = errors.New("undo is reserved to the seat that made the move")
)

type GameRepository interface {
	SaveGame(ctx context.Context, rec store.GameRecord) error
}

// SnapshotCache mirrors live games outside the process.
type SnapshotCache interface {
	Save(ctx context.Context, gameID string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, gameID string) error
}

// Notifier receives every new snapshot of a game.
type Notifier interface {
	Publish(gameID string, snapshot Snapshot)
}

type ManagerConfig struct {
	BotMoveDelay      time.Duration
	SnapshotTTL       time.Duration
	SessionTTL        time.Duration
	DefaultDifficulty string // used when a bot game names none
}

// SessionManager manages active game sessions
type SessionManager struct {
	Session  map[string]*GameSession // gameID → GameSession
	mu       sync.RWMutex
	repo     GameRepository
	cache    SnapshotCache
	notifier Notifier
	cfg      ManagerConfig
	pending  sync.WaitGroup
}

func NewSessionManager(repo GameRepository, cfg ManagerConfig) *SessionManager {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.DefaultDifficulty == "" {
		cfg.DefaultDifficulty = bot.Medium
	}
	return &SessionManager{
		Session: make(map[string]*GameSession),
		repo:    repo,
		cfg:     cfg,
	}
}

func (sm *SessionManager) SetCache(cache SnapshotCache) {
	sm.cache = cache
}

func (sm *SessionManager) SetNotifier(n Notifier) {
	sm.notifier = n
}

type Options struct {
	Rows          int
	Columns       int
	BotColor      domain.Cell // Empty when both seats are human
	BotDifficulty string
}

func (sm *SessionManager) CreateSession(opts Options) (*GameSession, error) {
	if opts.BotColor != domain.Empty {
		if !opts.BotColor.Valid() {
			return nil, fmt.Errorf("bot seat: %w", domain.ErrInvalidColor)
		}
		if opts.BotDifficulty == "" {
			opts.BotDifficulty = sm.cfg.DefaultDifficulty
		}
		if !bot.IsValidDifficulty(opts.BotDifficulty) {
			return nil, fmt.Errorf("%w %q", bot.ErrUnknownDifficulty, opts.BotDifficulty)
		}
	}

	g, err := domain.NewGame(opts.Rows, opts.Columns)
	if err != nil {
		return nil, err
	}
	gameID, err := uid.GenerateGameID()
	if err != nil {
		return nil, err
	}

	session := &GameSession{
		GameID:        gameID,
		Game:          g,
		BotColor:      opts.BotColor,
		BotDifficulty: opts.BotDifficulty,
		CreatedAt:     time.Now(),
		manager:       sm,
	}

	sm.mu.Lock()
	sm.Session[gameID] = session
	sm.mu.Unlock()

	if session.IsBot() {
		log.Printf("[SESSION] Created session %s (%dx%d, bot: %s %s)",
			gameID, opts.Rows, opts.Columns, opts.BotColor, opts.BotDifficulty)
	} else {
		log.Printf("[SESSION] Created session %s (%dx%d, two players)", gameID, opts.Rows, opts.Columns)
	}

	session.mu.Lock()
	session.publishAndUnlock(session.snapshotLocked())

	// Red always opens, so a red bot plays first
	session.mu.Lock()
	session.maybeScheduleBotLocked()
	session.mu.Unlock()

	return session, nil
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.Session[gameID]; !exists {
		return ErrGameNotFound
	}
	log.Printf("[SESSION] Removing session %s", gameID)
	delete(sm.Session, gameID)
	sm.dropCache(gameID)
	return nil
}

// ActiveGames returns snapshots of all sessions, newest first.
func (sm *SessionManager) ActiveGames() []Snapshot {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, s := range sm.Session {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		snaps = append(snaps, s.Snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	return snaps
}

// CleanupOldSessions drops finished sessions after an hour and unfinished
// ones after the session TTL. It returns how many were removed.
//
// The final snapshot of a finished game is cached again on the way out, so
// GET /api/games/:id keeps serving it for another snapshot TTL. Abandoned
// games leave the cache with the session.
func (sm *SessionManager) CleanupOldSessions(now time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	count := 0
	for gameID, session := range sm.Session {
		session.mu.Lock()
		finished := session.Game.IsFinished()
		finishedAt, createdAt := session.FinishedAt, session.CreatedAt
		var final Snapshot
		if finished {
			final = session.snapshotLocked()
		}
		session.mu.Unlock()

		switch {
		case finished && now.Sub(finishedAt) > time.Hour:
			delete(sm.Session, gameID)
			sm.archive(final)
			count++
		case !finished && now.Sub(createdAt) > sm.cfg.SessionTTL:
			delete(sm.Session, gameID)
			sm.dropCache(gameID)
			count++
		}
	}

	if count > 0 {
		log.Printf("[SESSION] Memory cleanup: Removed %d stale game sessions", count)
	}
	return count
}

// Wait blocks until background saves and bot moves are done.
func (sm *SessionManager) Wait() {
	sm.pending.Wait()
}

func (sm *SessionManager) broadcast(snap Snapshot) {
	if sm.notifier != nil {
		sm.notifier.Publish(snap.GameID, snap)
	}
	if sm.cache != nil {
		sm.saveSnapshot(snap)
	}
}

func (sm *SessionManager) saveSnapshot(snap Snapshot) {
	data, err := snap.MarshalBinary()
	if err != nil {
		log.Printf("[SESSION] Cannot encode snapshot %s: %v", snap.GameID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sm.cache.Save(ctx, snap.GameID, data, sm.cfg.SnapshotTTL); err != nil {
		log.Printf("[REDIS] %v", err)
	}
}

func (sm *SessionManager) archive(snap Snapshot) {
	if sm.cache == nil {
		return
	}
	sm.background(func() {
		sm.saveSnapshot(snap)
	})
}

func (sm *SessionManager) dropCache(gameID string) {
	if sm.cache == nil {
		return
	}
	sm.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := sm.cache.Delete(ctx, gameID); err != nil {
			log.Printf("[REDIS] Failed to drop snapshot %s: %v", gameID, err)
		}
	})
}

func (sm *SessionManager) background(fn func()) {
	sm.pending.Add(1)
	go func() {
		defer sm.pending.Done()
		fn()
	}()
}
