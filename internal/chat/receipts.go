package chat

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/types"
)

// StatusMark is the delivery glyph for a message authored by the viewer.
type StatusMark struct {
	Double bool // someone besides the author has seen it
	Count  int  // readers besides the author
}

// String renders the check marks, with the reader count trailing the double.
func (m StatusMark) String() string {
	if !m.Double {
		return "✓"
	}
	return fmt.Sprintf("✓✓ %d", m.Count)
}

// MarkFor computes the status mark for a message from the author's side.
// The double mark needs both a reader and someone else around to have read;
// with nobody else online the mark stays single.
func MarkFor(msg types.Message, othersOnline bool) StatusMark {
	count := 0
	for _, id := range msg.SeenBy {
		if id != msg.AuthorID {
			count++
		}
	}
	return StatusMark{Double: count > 0 && othersOnline, Count: count}
}

// Receipts tracks read receipts and the unread counter for one user.
type Receipts struct {
	log    Log
	self   types.User
	logger *slog.Logger

	unread *Counter

	mu      sync.Mutex
	started bool
	cancel  func()
}

// NewReceipts creates a receipts tracker for the given user.
func NewReceipts(log Log, self types.User, logger *slog.Logger) *Receipts {
	return &Receipts{log: log, self: self, logger: logger, unread: NewCounter()}
}

// Unread is the live unread-message counter.
func (r *Receipts) Unread() *Counter {
	return r.unread
}

// Start begins maintaining the unread counter from the chat cursor. Safe to
// call once per session.
func (r *Receipts) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	wake, cancelWake := r.log.Changes()
	stopCh := make(chan struct{})
	var once sync.Once
	r.cancel = func() {
		once.Do(func() {
			cancelWake()
			close(stopCh)
		})
	}
	r.mu.Unlock()

	go func() {
		r.recount()
		for {
			select {
			case <-stopCh:
				return
			case <-wake:
				r.recount()
			}
		}
	}()
}

// Stop ends unread tracking.
func (r *Receipts) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *Receipts) recount() {
	since, err := db.GetChatCursor(r.log.DB(), r.self.ID)
	if err != nil {
		r.logger.Warn("chat cursor read failed", "err", err)
		return
	}
	if since == nil {
		r.unread.set(0)
		return
	}
	n, err := db.CountMessagesAfter(r.log.DB(), r.self.ID, *since)
	if err != nil {
		r.logger.Warn("unread count failed", "err", err)
		return
	}
	r.unread.set(n)
}

// MarkDelivered records that the user has seen each of the given messages.
// Already-recorded receipts and the user's own messages are skipped.
func (r *Receipts) MarkDelivered(msgs []types.Message) error {
	var pending []string
	for _, m := range msgs {
		if m.AuthorID == r.self.ID || m.SeenByUser(r.self.ID) {
			continue
		}
		pending = append(pending, m.ID)
	}
	if len(pending) == 0 {
		return nil
	}
	return r.log.Write(func(conn *sql.DB) error {
		for _, guid := range pending {
			if err := db.AddSeenBy(conn, guid, r.self.ID); err != nil {
				return fmt.Errorf("mark seen %s: %w", guid, err)
			}
		}
		return nil
	})
}

// MarkAllSeen advances the chat cursor to now, zeroing the unread count.
func (r *Receipts) MarkAllSeen() error {
	now := time.Now().UnixMilli()
	return r.log.Write(func(conn *sql.DB) error {
		return db.SetChatCursor(conn, r.self.ID, now)
	})
}
