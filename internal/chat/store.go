package chat

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/types"
)

// Store owns the ordered in-memory message list: a live window over the
// newest messages plus older pages merged in behind it. Display order is
// always ascending (ts, guid), matching the store's own ordering.
type Store struct {
	log      Log
	logger   *slog.Logger
	pageSize int

	mu      sync.Mutex
	window  []types.Message // live window, ascending
	older   []types.Message // paged-in history, ascending
	cursor  *types.MessageCursor
	loading bool
	hasMore bool

	out        chan []types.Message
	cancelSub  func()
	subStopped chan struct{}
}

// NewStore creates a message store. pageSize <= 0 uses the default.
func NewStore(log Log, logger *slog.Logger, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}
	return &Store{
		log:      log,
		logger:   logger,
		pageSize: pageSize,
		hasMore:  true,
	}
}

// SubscribeRecent opens the live subscription over the newest page. Each
// store change delivers a full replacement of the merged list. Re-subscribing
// discards any previously paged-in history and pagination cursor.
func (s *Store) SubscribeRecent() (<-chan []types.Message, func()) {
	s.mu.Lock()
	if s.cancelSub != nil {
		cancel := s.cancelSub
		s.mu.Unlock()
		cancel()
		s.mu.Lock()
	}

	s.older = nil
	s.cursor = nil
	s.hasMore = true
	s.out = make(chan []types.Message, 1)
	out := s.out

	wake, cancelWake := s.log.Changes()
	stopCh := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cancelWake()
			close(stopCh)
		})
	}
	s.cancelSub = cancel
	s.mu.Unlock()

	go func() {
		s.refresh(out)
		for {
			select {
			case <-stopCh:
				return
			case <-wake:
				s.refresh(out)
			}
		}
	}()

	return out, cancel
}

// refresh refetches the live window and pushes the merged snapshot.
func (s *Store) refresh(out chan []types.Message) {
	window, err := db.GetRecentMessages(s.log.DB(), s.pageSize)
	if err != nil {
		s.logger.Warn("recent window query failed", "err", err)
		return
	}

	s.mu.Lock()
	s.window = window
	merged := s.mergedLocked()
	s.mu.Unlock()

	sendLatest(out, merged)
}

// LoadOlder fetches the next page strictly older than the oldest loaded
// message. A call while another is in flight is a no-op. Returns how many
// messages were added and whether more history may remain.
func (s *Store) LoadOlder() (added int, hasMore bool, err error) {
	s.mu.Lock()
	if s.loading {
		hasMore = s.hasMore
		s.mu.Unlock()
		return 0, hasMore, nil
	}
	cursor := s.oldestLocked()
	if cursor == nil {
		hasMore = s.hasMore
		s.mu.Unlock()
		return 0, hasMore, nil
	}
	s.loading = true
	s.mu.Unlock()

	batch, qErr := db.GetMessagesBefore(s.log.DB(), *cursor, s.pageSize)

	s.mu.Lock()
	s.loading = false
	if qErr != nil {
		hasMore = s.hasMore
		s.mu.Unlock()
		return 0, hasMore, fmt.Errorf("load older messages: %w", qErr)
	}

	s.hasMore = len(batch) == s.pageSize
	if len(batch) > 0 {
		known := make(map[string]struct{}, len(s.older)+len(s.window))
		for _, m := range s.older {
			known[m.ID] = struct{}{}
		}
		for _, m := range s.window {
			known[m.ID] = struct{}{}
		}
		fresh := batch[:0:0]
		for _, m := range batch {
			if _, dup := known[m.ID]; !dup {
				fresh = append(fresh, m)
			}
		}
		s.older = append(fresh, s.older...)
		s.cursor = &types.MessageCursor{GUID: batch[0].ID, TS: batch[0].TS}
		added = len(fresh)
	}
	hasMore = s.hasMore
	merged := s.mergedLocked()
	out := s.out
	s.mu.Unlock()

	if out != nil {
		sendLatest(out, merged)
	}
	return added, hasMore, nil
}

// Messages returns the current merged snapshot.
func (s *Store) Messages() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergedLocked()
}

// HasMore reports whether older history may remain beyond the loaded list.
func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// oldestLocked returns the pagination cursor: the oldest loaded message.
func (s *Store) oldestLocked() *types.MessageCursor {
	if s.cursor != nil {
		return s.cursor
	}
	if len(s.window) > 0 {
		return &types.MessageCursor{GUID: s.window[0].ID, TS: s.window[0].TS}
	}
	return nil
}

// mergedLocked merges history and the live window, deduplicating by id.
// The live window wins a conflict since it carries the freshest fields.
func (s *Store) mergedLocked() []types.Message {
	inWindow := make(map[string]struct{}, len(s.window))
	for _, m := range s.window {
		inWindow[m.ID] = struct{}{}
	}

	merged := make([]types.Message, 0, len(s.older)+len(s.window))
	for _, m := range s.older {
		if _, dup := inWindow[m.ID]; !dup {
			merged = append(merged, m)
		}
	}
	merged = append(merged, s.window...)

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].TS != merged[j].TS {
			return merged[i].TS < merged[j].TS
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}
