package game

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/repository/store"
	"github.com/iamasit07/puissance4/backend/internal/service/bot"
)

type fakeRepo struct {
	mu    sync.Mutex
	saved []store.GameRecord
}

func (r *fakeRepo) SaveGame(_ context.Context, rec store.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, rec)
	return nil
}

func (r *fakeRepo) records() []store.GameRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]store.GameRecord(nil), r.saved...)
}

type fakeNotifier struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (n *fakeNotifier) Publish(_ string, snap Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snaps = append(n.snaps, snap)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.snaps)
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func (c *fakeCache) Save(_ context.Context, id string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[id] = data
	return nil
}

func (c *fakeCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, id)
	c.deleted = append(c.deleted, id)
	return nil
}

func newManager(t *testing.T) (*SessionManager, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{}
	sm := NewSessionManager(repo, ManagerConfig{SnapshotTTL: time.Minute})
	return sm, repo
}

func TestCreateSession(t *testing.T) {
	sm, _ := newManager(t)

	s, err := sm.CreateSession(Options{Rows: 6, Columns: 7})
	require.NoError(t, err)
	require.Len(t, s.GameID, 32)

	got, ok := sm.GetSession(s.GameID)
	require.True(t, ok)
	require.Same(t, s, got)

	snap := s.Snapshot()
	require.Equal(t, domain.StatusActive, snap.Status)
	require.Equal(t, domain.Red, snap.NextColor)
	require.Len(t, snap.Lines, 6)
	require.Nil(t, snap.LastMove)
}

func TestCreateSessionValidation(t *testing.T) {
	sm, _ := newManager(t)

	_, err := sm.CreateSession(Options{Rows: 0, Columns: 7})
	require.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = sm.CreateSession(Options{Rows: 6, Columns: 7, BotColor: domain.Cell(5)})
	require.ErrorIs(t, err, domain.ErrInvalidColor)

	_, err = sm.CreateSession(Options{Rows: 6, Columns: 7, BotColor: domain.Yellow, BotDifficulty: "godlike"})
	require.ErrorIs(t, err, bot.ErrUnknownDifficulty)
	require.Empty(t, sm.ActiveGames())
}

func TestHandleMoveWinPersistsGame(t *testing.T) {
	sm, repo := newManager(t)
	notifier := &fakeNotifier{}
	sm.SetNotifier(notifier)

	s, err := sm.CreateSession(Options{Rows: 6, Columns: 7})
	require.NoError(t, err)

	for col := 0; col < 3; col++ {
		snap, err := s.HandleMove(domain.Red, col)
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, snap.Status)
	}
	snap, err := s.HandleMove(domain.Red, 3)
	require.NoError(t, err)
	require.Equal(t, domain.StatusWon, snap.Status)
	require.Equal(t, domain.Red, snap.Winner)
	require.NotNil(t, snap.FinishedAt)

	_, err = s.HandleMove(domain.Yellow, 4)
	require.ErrorIs(t, err, domain.ErrGameOver)

	sm.Wait()
	saved := repo.records()
	require.Len(t, saved, 1)
	require.Equal(t, s.GameID, saved[0].GameID)
	require.Equal(t, domain.Red, saved[0].Winner)
	require.Len(t, saved[0].Moves, 4)

	// creation plus four accepted moves
	require.Equal(t, 5, notifier.count())
}

func TestHandleMoveErrorsLeaveGameUntouched(t *testing.T) {
	sm, _ := newManager(t)
	s, err := sm.CreateSession(Options{Rows: 2, Columns: 2})
	require.NoError(t, err)

	_, err = s.HandleMove(domain.Red, 5)
	require.ErrorIs(t, err, domain.ErrInvalidColumn)

	_, err = s.HandleMove(domain.Empty, 0)
	require.ErrorIs(t, err, domain.ErrInvalidColor)

	_, err = s.HandleMove(domain.Red, 0)
	require.NoError(t, err)
	_, err = s.HandleMove(domain.Red, 0)
	require.NoError(t, err)
	_, err = s.HandleMove(domain.Yellow, 0)
	require.ErrorIs(t, err, domain.ErrColumnFull)

	require.Len(t, s.Snapshot().Moves, 2)
}

func TestHandleUndo(t *testing.T) {
	sm, _ := newManager(t)
	s, err := sm.CreateSession(Options{Rows: 6, Columns: 7})
	require.NoError(t, err)

	_, err = s.HandleUndo(domain.Empty)
	require.ErrorIs(t, err, domain.ErrNothingToUndo)

	_, err = s.HandleMove(domain.Red, 2)
	require.NoError(t, err)
	snap, err := s.HandleUndo(domain.Empty)
	require.NoError(t, err)
	require.Empty(t, snap.Moves)
	require.Equal(t, 0, snap.Board[5][2])
}

func TestBotRepliesAndUndoRevertsBoth(t *testing.T) {
	sm, _ := newManager(t)
	s, err := sm.CreateSession(Options{Rows: 6, Columns: 7, BotColor: domain.Yellow, BotDifficulty: "easy"})
	require.NoError(t, err)

	_, err = s.HandleMove(domain.Red, 3)
	require.NoError(t, err)
	sm.Wait()

	snap := s.Snapshot()
	require.Len(t, snap.Moves, 2)
	require.Equal(t, domain.Yellow, snap.LastMove.Color)
	require.Equal(t, domain.Red, snap.NextColor)

	snap, err = s.HandleUndo(domain.Empty)
	require.NoError(t, err)
	require.Empty(t, snap.Moves)
}

func TestUndoIsBoundToTheMoverSeat(t *testing.T) {
	sm, _ := newManager(t)
	s, err := sm.CreateSession(Options{Rows: 6, Columns: 7})
	require.NoError(t, err)

	_, err = s.HandleUndo(domain.Red)
	require.ErrorIs(t, err, domain.ErrNothingToUndo)

	_, err = s.HandleMove(domain.Red, 2)
	require.NoError(t, err)
	_, err = s.HandleUndo(domain.Yellow)
	require.ErrorIs(t, err, ErrNotYourMove)
	require.Len(t, s.Snapshot().Moves, 1)

	snap, err := s.HandleUndo(domain.Red)
	require.NoError(t, err)
	require.Empty(t, snap.Moves)
}

func TestUndoAgainstBotChecksHumanMove(t *testing.T) {
	sm, _ := newManager(t)
	s, err := sm.CreateSession(Options{Rows: 6, Columns: 7, BotColor: domain.Yellow, BotDifficulty: "easy"})
	require.NoError(t, err)

	_, err = s.HandleMove(domain.Red, 3)
	require.NoError(t, err)
	sm.Wait()
	require.Len(t, s.Snapshot().Moves, 2)

	// the bot's reply is skipped when looking for the mover
	snap, err := s.HandleUndo(domain.Red)
	require.NoError(t, err)
	require.Empty(t, snap.Moves)
}

func TestRedBotOpens(t *testing.T) {
	sm, _ := newManager(t)
	s, err := sm.CreateSession(Options{Rows: 6, Columns: 7, BotColor: domain.Red})
	require.NoError(t, err)
	require.Equal(t, "medium", s.BotDifficulty)

	sm.Wait()
	snap := s.Snapshot()
	require.Len(t, snap.Moves, 1)
	require.Equal(t, domain.Red, snap.Moves[0].Color)
}

func TestSnapshotCached(t *testing.T) {
	sm, _ := newManager(t)
	cache := &fakeCache{}
	sm.SetCache(cache)

	s, err := sm.CreateSession(Options{Rows: 6, Columns: 7})
	require.NoError(t, err)
	_, err = s.HandleMove(domain.Yellow, 0)
	require.NoError(t, err)

	cache.mu.Lock()
	data := cache.data[s.GameID]
	cache.mu.Unlock()

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	require.Equal(t, domain.Yellow, snap.LastMove.Color)
	require.Equal(t, 2, snap.Board[5][0])

	require.NoError(t, sm.RemoveSession(s.GameID))
	sm.Wait()
	require.Equal(t, []string{s.GameID}, cache.deleted)
	require.ErrorIs(t, sm.RemoveSession(s.GameID), ErrGameNotFound)
}

func TestCleanupOldSessions(t *testing.T) {
	sm, _ := newManager(t)

	fresh, err := sm.CreateSession(Options{Rows: 6, Columns: 7})
	require.NoError(t, err)
	stale, err := sm.CreateSession(Options{Rows: 6, Columns: 7})
	require.NoError(t, err)
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)

	done, err := sm.CreateSession(Options{Rows: 1, Columns: 4})
	require.NoError(t, err)
	for col := 0; col < 4; col++ {
		_, err = done.HandleMove(domain.Red, col)
		require.NoError(t, err)
	}
	sm.Wait()

	require.Equal(t, 1, sm.CleanupOldSessions(time.Now()))
	require.Equal(t, 1, sm.CleanupOldSessions(time.Now().Add(2*time.Hour)))

	_, ok := sm.GetSession(fresh.GameID)
	require.True(t, ok)
	_, ok = sm.GetSession(done.GameID)
	require.False(t, ok)
}

// gateNotifier holds the first snapshot with the given move count until
// release is closed.
type gateNotifier struct {
	fakeNotifier
	holdAt  int
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (n *gateNotifier) Publish(gameID string, snap Snapshot) {
	if len(snap.Moves) == n.holdAt {
		held := false
		n.once.Do(func() { held = true })
		if held {
			close(n.entered)
			<-n.release
		}
	}
	n.fakeNotifier.Publish(gameID, snap)
}

func (n *gateNotifier) last() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snaps[len(n.snaps)-1]
}

func TestSnapshotsPublishedInOrder(t *testing.T) {
	sm, _ := newManager(t)
	notifier := &gateNotifier{holdAt: 1, entered: make(chan struct{}), release: make(chan struct{})}
	sm.SetNotifier(notifier)
	cache := &fakeCache{}
	sm.SetCache(cache)

	s, err := sm.CreateSession(Options{Rows: 6, Columns: 7})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var errRed, errYellow error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errRed = s.HandleMove(domain.Red, 0)
	}()
	<-notifier.entered

	go func() {
		defer wg.Done()
		_, errYellow = s.HandleMove(domain.Yellow, 1)
	}()
	// give the second move time to reach the publisher
	time.Sleep(50 * time.Millisecond)
	close(notifier.release)
	wg.Wait()
	require.NoError(t, errRed)
	require.NoError(t, errYellow)

	require.Len(t, s.Snapshot().Moves, 2)
	require.Len(t, notifier.last().Moves, 2)

	cache.mu.Lock()
	data := cache.data[s.GameID]
	cache.mu.Unlock()
	var cached Snapshot
	require.NoError(t, json.Unmarshal(data, &cached))
	require.Len(t, cached.Moves, 2)
}

func TestCleanupKeepsFinishedSnapshotCached(t *testing.T) {
	sm, _ := newManager(t)
	cache := &fakeCache{}
	sm.SetCache(cache)

	done, err := sm.CreateSession(Options{Rows: 1, Columns: 4})
	require.NoError(t, err)
	for col := 0; col < 4; col++ {
		_, err = done.HandleMove(domain.Red, col)
		require.NoError(t, err)
	}
	abandoned, err := sm.CreateSession(Options{Rows: 6, Columns: 7})
	require.NoError(t, err)
	abandoned.CreatedAt = time.Now().Add(-48 * time.Hour)
	sm.Wait()

	require.Equal(t, 2, sm.CleanupOldSessions(time.Now().Add(2*time.Hour)))
	sm.Wait()

	cache.mu.Lock()
	defer cache.mu.Unlock()
	require.Equal(t, []string{abandoned.GameID}, cache.deleted)
	var final Snapshot
	require.NoError(t, json.Unmarshal(cache.data[done.GameID], &final))
	require.Equal(t, domain.StatusWon, final.Status)
	require.Len(t, final.Moves, 4)
}

func TestSnapshotText(t *testing.T) {
	sm, _ := newManager(t)
	s, err := sm.CreateSession(Options{Rows: 1, Columns: 4})
	require.NoError(t, err)

	require.Equal(t, "|   |   |   |   |\nnext: red\n", s.Snapshot().Text())
	for col := 0; col < 4; col++ {
		_, err = s.HandleMove(domain.Yellow, col)
		require.NoError(t, err)
	}
	sm.Wait()
	require.Equal(t, "| J | J | J | J |\nyellow wins\n", s.Snapshot().Text())
}
