package db

import (
	"strings"
	"testing"

	"github.com/wardroomhq/wardroom/internal/types"
)

func TestCreateAndGetMessage(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	created, err := CreateMessage(db, types.Message{
		AuthorID:       "usr-alice",
		AuthorUsername: "alice",
		Body:           "hello",
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	if !strings.HasPrefix(created.ID, "msg-") {
		t.Fatalf("unexpected guid: %s", created.ID)
	}

	fetched, err := GetMessage(db, created.ID)
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected message")
	}
	if fetched.Body != "hello" {
		t.Fatalf("unexpected body: %s", fetched.Body)
	}
	if !fetched.SeenByUser("usr-alice") {
		t.Fatal("author should be in seen-by")
	}
}

func TestGetRecentMessagesWindow(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	var ids []string
	for i, body := range []string{"one", "two", "three"} {
		msg, err := CreateMessage(db, types.Message{
			TS:             int64(100 * (i + 1)),
			AuthorID:       "usr-alice",
			AuthorUsername: "alice",
			Body:           body,
		})
		if err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
		ids = append(ids, msg.ID)
	}

	messages, err := GetRecentMessages(db, 2)
	if err != nil {
		t.Fatalf("get recent: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].ID != ids[1] || messages[1].ID != ids[2] {
		t.Fatal("expected the newest two in chronological order")
	}
}

func TestGetMessagesBeforeCursor(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	var msgs []types.Message
	for i := 0; i < 5; i++ {
		msg, err := CreateMessage(db, types.Message{
			TS:             int64(100 * (i + 1)),
			AuthorID:       "usr-alice",
			AuthorUsername: "alice",
			Body:           "msg",
		})
		if err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
		msgs = append(msgs, msg)
	}

	cursor := types.MessageCursor{GUID: msgs[3].ID, TS: msgs[3].TS}
	page, err := GetMessagesBefore(db, cursor, 2)
	if err != nil {
		t.Fatalf("get before: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(page))
	}
	if page[0].ID != msgs[1].ID || page[1].ID != msgs[2].ID {
		t.Fatal("expected the two messages just before the cursor")
	}
}

func TestGetMessagesBeforeTieBreaksOnGUID(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	var msgs []types.Message
	for i := 0; i < 3; i++ {
		msg, err := CreateMessage(db, types.Message{
			TS:             500,
			AuthorID:       "usr-alice",
			AuthorUsername: "alice",
			Body:           "tie",
		})
		if err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
		msgs = append(msgs, msg)
	}

	all, err := GetRecentMessages(db, 10)
	if err != nil {
		t.Fatalf("get recent: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatal("equal timestamps should order by guid")
		}
	}

	cursor := types.MessageCursor{GUID: all[2].ID, TS: all[2].TS}
	page, err := GetMessagesBefore(db, cursor, 10)
	if err != nil {
		t.Fatalf("get before: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 messages before the last tie, got %d", len(page))
	}
}

func TestUpdateMessageBody(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	msg, err := CreateMessage(db, types.Message{
		AuthorID:       "usr-alice",
		AuthorUsername: "alice",
		Body:           "original",
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	if err := UpdateMessageBody(db, msg.ID, "revised", 999); err != nil {
		t.Fatalf("update body: %v", err)
	}

	fetched, err := GetMessage(db, msg.ID)
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if fetched.Body != "revised" {
		t.Fatalf("unexpected body: %s", fetched.Body)
	}
	if !fetched.Edited {
		t.Fatal("expected edited flag")
	}
	if fetched.EditedAt == nil || *fetched.EditedAt != 999 {
		t.Fatal("expected edited_at timestamp")
	}
}

func TestSoftDeleteClearsReactionsAndPin(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	msg, err := CreateMessage(db, types.Message{
		AuthorID:       "usr-alice",
		AuthorUsername: "alice",
		Body:           "doomed",
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}
	if _, err := ToggleReaction(db, msg.ID, "🔥", "usr-bob"); err != nil {
		t.Fatalf("react: %v", err)
	}
	if _, err := TogglePin(db, msg.ID); err != nil {
		t.Fatalf("pin: %v", err)
	}

	if err := SoftDeleteMessage(db, msg.ID, 1234); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	fetched, err := GetMessage(db, msg.ID)
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if !fetched.Deleted {
		t.Fatal("expected deleted flag")
	}
	if fetched.Body != types.DeletedPlaceholder {
		t.Fatalf("unexpected body: %s", fetched.Body)
	}
	if len(fetched.Reactions) != 0 {
		t.Fatal("reactions should be cleared")
	}
	if fetched.Pinned {
		t.Fatal("pin should be dropped")
	}
}

func TestAddSeenByIsMonotonic(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	msg, err := CreateMessage(db, types.Message{
		AuthorID:       "usr-alice",
		AuthorUsername: "alice",
		Body:           "hello",
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := AddSeenBy(db, msg.ID, "usr-bob"); err != nil {
			t.Fatalf("add seen by: %v", err)
		}
	}

	fetched, err := GetMessage(db, msg.ID)
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if len(fetched.SeenBy) != 2 {
		t.Fatalf("expected 2 readers, got %d", len(fetched.SeenBy))
	}
	if !fetched.SeenByUser("usr-bob") {
		t.Fatal("bob should be in seen-by")
	}
}

func TestToggleReactionInverse(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	msg, err := CreateMessage(db, types.Message{
		AuthorID:       "usr-alice",
		AuthorUsername: "alice",
		Body:           "hello",
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	added, err := ToggleReaction(db, msg.ID, "👍", "usr-bob")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !added {
		t.Fatal("first toggle should add")
	}

	removed, err := ToggleReaction(db, msg.ID, "👍", "usr-bob")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if removed {
		t.Fatal("second toggle should remove")
	}

	fetched, err := GetMessage(db, msg.ID)
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if _, ok := fetched.Reactions["👍"]; ok {
		t.Fatal("empty emoji key should be dropped")
	}
}

func TestTogglePin(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	msg, err := CreateMessage(db, types.Message{
		AuthorID:       "usr-alice",
		AuthorUsername: "alice",
		Body:           "keeper",
	})
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	pinned, err := TogglePin(db, msg.ID)
	if err != nil {
		t.Fatalf("pin: %v", err)
	}
	if !pinned {
		t.Fatal("expected pinned")
	}

	pins, err := GetPinnedMessages(db)
	if err != nil {
		t.Fatalf("get pinned: %v", err)
	}
	if len(pins) != 1 || pins[0].ID != msg.ID {
		t.Fatal("expected the pinned message")
	}

	unpinned, err := TogglePin(db, msg.ID)
	if err != nil {
		t.Fatalf("unpin: %v", err)
	}
	if unpinned {
		t.Fatal("expected unpinned")
	}
}

func TestCountMessagesAfterExcludesOwn(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	for i, author := range []string{"usr-alice", "usr-bob", "usr-bob"} {
		_, err := CreateMessage(db, types.Message{
			TS:             int64(100 * (i + 1)),
			AuthorID:       author,
			AuthorUsername: author,
			Body:           "msg",
		})
		if err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
	}

	count, err := CountMessagesAfter(db, "usr-alice", 50)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	count, err = CountMessagesAfter(db, "usr-alice", 200)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unread, got %d", count)
	}
}
