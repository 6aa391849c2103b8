package chat

import (
	"fmt"
	"testing"
)

func TestSubscribeRecentDeliversInitialSnapshot(t *testing.T) {
	log := openTestLog(t)
	engine := NewEngine(log, alice())

	for i := 0; i < 3; i++ {
		if _, err := engine.Create(fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	store := NewStore(log, testLogger(), 20)
	ch, cancel := store.SubscribeRecent()
	defer cancel()

	msgs := waitForMessages(t, ch)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i-1].TS > msgs[i].TS {
			t.Fatal("snapshot should be in chronological order")
		}
	}
}

func TestSubscribeRecentPicksUpNewMessages(t *testing.T) {
	log := openTestLog(t)
	engine := NewEngine(log, alice())

	store := NewStore(log, testLogger(), 20)
	ch, cancel := store.SubscribeRecent()
	defer cancel()

	waitForMessages(t, ch)

	if _, err := engine.Create("fresh"); err != nil {
		t.Fatalf("create: %v", err)
	}

	for {
		msgs := waitForMessages(t, ch)
		if len(msgs) == 1 && msgs[0].Body == "fresh" {
			return
		}
	}
}

func TestLoadOlderPagesBackwards(t *testing.T) {
	log := openTestLog(t)
	engine := NewEngine(log, alice())

	for i := 0; i < 7; i++ {
		if _, err := engine.Create(fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	store := NewStore(log, testLogger(), 3)
	ch, cancel := store.SubscribeRecent()
	defer cancel()

	first := waitForMessages(t, ch)
	if len(first) != 3 {
		t.Fatalf("expected window of 3, got %d", len(first))
	}

	added, hasMore, err := store.LoadOlder()
	if err != nil {
		t.Fatalf("load older: %v", err)
	}
	if added != 3 || !hasMore {
		t.Fatalf("expected full page with more remaining, got added=%d hasMore=%v", added, hasMore)
	}

	added, hasMore, err = store.LoadOlder()
	if err != nil {
		t.Fatalf("load older: %v", err)
	}
	if added != 1 || hasMore {
		t.Fatalf("expected final partial page, got added=%d hasMore=%v", added, hasMore)
	}

	msgs := store.Messages()
	if len(msgs) != 7 {
		t.Fatalf("expected all 7 messages, got %d", len(msgs))
	}
	seen := map[string]struct{}{}
	for i, m := range msgs {
		if _, dup := seen[m.ID]; dup {
			t.Fatalf("duplicate message %s", m.ID)
		}
		seen[m.ID] = struct{}{}
		if i > 0 && msgs[i-1].TS > m.TS {
			t.Fatal("merged list should be in chronological order")
		}
	}
}

func TestLoadOlderWhileInFlightIsNoop(t *testing.T) {
	log := openTestLog(t)
	engine := NewEngine(log, alice())

	for i := 0; i < 5; i++ {
		if _, err := engine.Create(fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	store := NewStore(log, testLogger(), 2)
	ch, cancel := store.SubscribeRecent()
	defer cancel()
	waitForMessages(t, ch)

	store.mu.Lock()
	store.loading = true
	store.mu.Unlock()

	added, _, err := store.LoadOlder()
	if err != nil {
		t.Fatalf("load older: %v", err)
	}
	if added != 0 {
		t.Fatalf("in-flight load should make the second call a no-op, got %d", added)
	}

	store.mu.Lock()
	store.loading = false
	store.mu.Unlock()

	added, _, err = store.LoadOlder()
	if err != nil {
		t.Fatalf("load older: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected the next page once clear, got %d", added)
	}
}

func TestLoadOlderBeforeSubscribeIsNoop(t *testing.T) {
	log := openTestLog(t)

	store := NewStore(log, testLogger(), 3)
	added, _, err := store.LoadOlder()
	if err != nil {
		t.Fatalf("load older: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected no-op without a loaded window, got %d", added)
	}
}

func TestResubscribeResetsPagination(t *testing.T) {
	log := openTestLog(t)
	engine := NewEngine(log, alice())

	for i := 0; i < 5; i++ {
		if _, err := engine.Create(fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	store := NewStore(log, testLogger(), 2)
	ch, cancel := store.SubscribeRecent()
	waitForMessages(t, ch)
	if _, _, err := store.LoadOlder(); err != nil {
		t.Fatalf("load older: %v", err)
	}
	if len(store.Messages()) != 4 {
		t.Fatalf("expected 4 loaded, got %d", len(store.Messages()))
	}
	cancel()

	ch2, cancel2 := store.SubscribeRecent()
	defer cancel2()
	msgs := waitForMessages(t, ch2)
	if len(msgs) != 2 {
		t.Fatalf("re-subscribe should discard paged history, got %d", len(msgs))
	}
}
