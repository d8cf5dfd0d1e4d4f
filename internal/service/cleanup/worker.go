package cleanup

import (
	"log"
	"sync"
	"time"
)

// SessionSweeper drops stale in-memory games.
type SessionSweeper interface {
	CleanupOldSessions(now time.Time) int
}

type Worker struct {
	Sessions SessionSweeper
	Interval time.Duration

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewWorker(s SessionSweeper, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{Sessions: s, Interval: interval, stop: make(chan struct{})}
}

// Start runs one sweep right away and then one per interval until Stop.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.runCleanup()

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.runCleanup()
			case <-w.stop:
				return
			}
		}
	}()
	log.Printf("[CLEANUP] Background worker started (every %s)", w.Interval)
}

func (w *Worker) Stop() {
	w.once.Do(func() { close(w.stop) })
	w.wg.Wait()
	log.Println("[CLEANUP] Background worker stopped")
}

func (w *Worker) runCleanup() {
	removed := w.Sessions.CleanupOldSessions(time.Now())
	if removed > 0 {
		log.Printf("[CLEANUP] Removed %d stale games from memory", removed)
	}
}
