package chat

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/types"
)

// Typing is the debounced local-typing coordinator. The first keystroke
// after idle writes the shared typing flag once; every keystroke restarts
// the idle timer; elapse or Stop writes it back off exactly once per burst.
type Typing struct {
	log    Log
	self   types.User
	logger *slog.Logger

	idleAfter time.Duration // test seam

	mu      sync.Mutex
	timer   *time.Timer
	active  bool
	stopped bool
}

// NewTyping creates a typing coordinator for the given user.
func NewTyping(log Log, self types.User, logger *slog.Logger) *Typing {
	return &Typing{
		log:       log,
		self:      self,
		logger:    logger,
		idleAfter: types.TypingIdle,
	}
}

// OnKeystroke drives the Idle -> Typing transition and restarts the idle
// timer. Only the transition writes; repeat keystrokes are write-free.
func (t *Typing) OnKeystroke() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}

	if !t.active {
		t.active = true
		t.setFlag(true)
	}

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.idleAfter, t.idle)
}

// idle fires when the debounce timer elapses with no further keystrokes.
func (t *Typing) idle() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || !t.active {
		return
	}
	t.active = false
	t.setFlag(false)
}

// Stop tears the coordinator down, writing the flag off if a burst is still
// open. Idempotent; further keystrokes are ignored.
func (t *Typing) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.active {
		t.active = false
		t.setFlag(false)
	}
}

// setFlag writes the shared typing flag. Called with t.mu held.
func (t *Typing) setFlag(typing bool) {
	err := t.log.Write(func(conn *sql.DB) error {
		return db.SetTyping(conn, t.self.ID, typing)
	})
	if err != nil {
		t.logger.Warn("typing write failed", "user", t.self.ID, "typing", typing, "err", err)
	}
}

// SubscribeTyping yields the list of users currently typing, excluding self,
// whenever it changes.
func (t *Typing) SubscribeTyping() (<-chan []types.User, func()) {
	out := make(chan []types.User, 1)
	wake, cancelWake := t.log.Changes()
	stopCh := make(chan struct{})
	var once sync.Once

	go func() {
		var lastIDs []string
		emit := func() {
			users, err := db.GetTypingUsers(t.log.DB(), t.self.ID)
			if err != nil {
				t.logger.Warn("typing query failed", "err", err)
				return
			}
			ids := make([]string, len(users))
			for i, u := range users {
				ids[i] = u.ID
			}
			if sameIDs(ids, lastIDs) {
				return
			}
			lastIDs = ids
			sendLatest(out, users)
		}

		emit()
		for {
			select {
			case <-stopCh:
				return
			case <-wake:
				emit()
			}
		}
	}()

	cancel := func() {
		once.Do(func() {
			cancelWake()
			close(stopCh)
		})
	}
	return out, cancel
}
