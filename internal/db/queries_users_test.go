package db

import (
	"testing"
	"time"

	"github.com/wardroomhq/wardroom/internal/types"
)

func TestUpsertUserRefreshesIdentity(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	err := UpsertUser(db, types.User{ID: "usr-alice", Username: "alice", Avatar: "Ⓐ", LastSeen: 100})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	err = UpsertUser(db, types.User{ID: "usr-alice", Username: "alice2", Avatar: "Ⓑ", LastSeen: 200})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	user, err := GetUser(db, "usr-alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user == nil {
		t.Fatal("expected user")
	}
	if user.Username != "alice2" || user.Avatar != "Ⓑ" || user.LastSeen != 200 {
		t.Fatalf("identity not refreshed: %+v", user)
	}
}

func TestGetOnlineUsersWindow(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	now := time.Now()
	fresh := now.UnixMilli() - 10_000
	stale := now.UnixMilli() - types.OnlineWindow.Milliseconds() - 10_000

	if err := UpsertUser(db, types.User{ID: "usr-alice", Username: "alice", LastSeen: fresh}); err != nil {
		t.Fatalf("upsert alice: %v", err)
	}
	if err := UpsertUser(db, types.User{ID: "usr-bob", Username: "bob", LastSeen: stale}); err != nil {
		t.Fatalf("upsert bob: %v", err)
	}

	online, err := GetOnlineUsers(db, now)
	if err != nil {
		t.Fatalf("get online: %v", err)
	}
	if len(online) != 1 || online[0].ID != "usr-alice" {
		t.Fatalf("expected only alice online, got %+v", online)
	}
}

func TestTouchUserRestoresOnline(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	now := time.Now()
	stale := now.UnixMilli() - types.OnlineWindow.Milliseconds() - 10_000
	if err := UpsertUser(db, types.User{ID: "usr-bob", Username: "bob", LastSeen: stale}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := TouchUser(db, "usr-bob", now.UnixMilli()); err != nil {
		t.Fatalf("touch: %v", err)
	}

	online, err := GetOnlineUsers(db, now)
	if err != nil {
		t.Fatalf("get online: %v", err)
	}
	if len(online) != 1 {
		t.Fatal("expected bob back online after heartbeat")
	}
}

func TestGetTypingUsersExcludesSelf(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	now := time.Now().UnixMilli()
	for _, id := range []string{"usr-alice", "usr-bob"} {
		if err := UpsertUser(db, types.User{ID: id, Username: id, LastSeen: now}); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
		if err := SetTyping(db, id, true); err != nil {
			t.Fatalf("set typing %s: %v", id, err)
		}
	}

	typing, err := GetTypingUsers(db, "usr-alice")
	if err != nil {
		t.Fatalf("get typing: %v", err)
	}
	if len(typing) != 1 || typing[0].ID != "usr-bob" {
		t.Fatalf("expected only bob typing, got %+v", typing)
	}

	if err := SetTyping(db, "usr-bob", false); err != nil {
		t.Fatalf("clear typing: %v", err)
	}
	typing, err = GetTypingUsers(db, "usr-alice")
	if err != nil {
		t.Fatalf("get typing: %v", err)
	}
	if len(typing) != 0 {
		t.Fatal("expected nobody typing")
	}
}

func TestGetUsedAvatars(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	if err := UpsertUser(db, types.User{ID: "usr-alice", Username: "alice", Avatar: "Ⓐ"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := UpsertUser(db, types.User{ID: "usr-bob", Username: "bob"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	used, err := GetUsedAvatars(db)
	if err != nil {
		t.Fatalf("get used avatars: %v", err)
	}
	if _, ok := used["Ⓐ"]; !ok {
		t.Fatal("expected alice's avatar in the used set")
	}
	if len(used) != 1 {
		t.Fatalf("expected 1 used avatar, got %d", len(used))
	}
}
