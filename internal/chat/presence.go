package chat

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/types"
)

// Presence maintains this user's liveness heartbeat and derives the set of
// currently-online users from everyone's heartbeats.
type Presence struct {
	log    Log
	self   types.User
	logger *slog.Logger

	// Test seams; defaults are the production intervals.
	heartbeatEvery time.Duration
	recheckEvery   time.Duration
	now            func() time.Time

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewPresence creates a presence tracker for the given user.
func NewPresence(log Log, self types.User, logger *slog.Logger) *Presence {
	return &Presence{
		log:            log,
		self:           self,
		logger:         logger,
		heartbeatEvery: types.HeartbeatInterval,
		recheckEvery:   5 * time.Second,
		now:            time.Now,
	}
}

// StartHeartbeat begins the periodic last-seen refresh. Write failures are
// logged and the loop keeps its schedule; presence loss degrades to
// appearing offline, never to a session failure.
func (p *Presence) StartHeartbeat() {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.stopCh = make(chan struct{})
	p.mu.Unlock()

	p.beat()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.heartbeatEvery)
		defer ticker.Stop()
		for {
			select {
			case <-p.stopCh:
				return
			case <-ticker.C:
				p.beat()
			}
		}
	}()
}

// StopHeartbeat cancels the heartbeat and clears the typing flag so a
// session never leaves a dangling "is typing" behind. Callers owning a
// typing coordinator stop it first; repeating the flag-clear is a harmless
// idempotent write.
func (p *Presence) StopHeartbeat() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()

	err := p.log.Write(func(conn *sql.DB) error {
		return db.SetTyping(conn, p.self.ID, false)
	})
	if err != nil {
		p.logger.Warn("presence teardown write failed", "user", p.self.ID, "err", err)
	}
}

func (p *Presence) beat() {
	now := p.now().UnixMilli()
	err := p.log.Write(func(conn *sql.DB) error {
		return db.TouchUser(conn, p.self.ID, now)
	})
	if err != nil {
		p.logger.Warn("heartbeat write failed", "user", p.self.ID, "err", err)
	}
}

// SubscribeOnline yields the online user set (most recent heartbeat first)
// whenever membership changes. Membership also shifts as heartbeats age past
// the window, so the loop rechecks on a short ticker as well as on writes.
func (p *Presence) SubscribeOnline() (<-chan []types.User, func()) {
	out := make(chan []types.User, 1)
	wake, cancelWake := p.log.Changes()
	stopCh := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(p.recheckEvery)
		defer ticker.Stop()

		var lastIDs []string
		emit := func() {
			users, err := db.GetOnlineUsers(p.log.DB(), p.now())
			if err != nil {
				p.logger.Warn("online query failed", "err", err)
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
			case <-ticker.C:
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

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
