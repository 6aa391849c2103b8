package chat

import (
	"testing"
	"time"

	"github.com/wardroomhq/wardroom/internal/core"
	"github.com/wardroomhq/wardroom/internal/db"
)

func TestStartSessionCreatesUserOnFirstLogin(t *testing.T) {
	log := openTestLog(t)

	session, err := StartSession(log, core.Config{Username: "carol"}, testLogger())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	defer session.Stop()

	if session.Self.ID == "" || session.Self.Avatar == "" {
		t.Fatalf("expected generated identity, got %+v", session.Self)
	}

	user, err := db.GetUserByName(log.DB(), "carol")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user == nil {
		t.Fatal("expected registered user")
	}
	if !user.Online(time.Now()) {
		t.Fatal("expected fresh heartbeat")
	}

	cursor, err := db.GetChatCursor(log.DB(), session.Self.ID)
	if err != nil {
		t.Fatalf("get cursor: %v", err)
	}
	if cursor == nil {
		t.Fatal("first login should initialize the chat cursor")
	}
}

func TestStartSessionReusesIdentity(t *testing.T) {
	log := openTestLog(t)

	first, err := StartSession(log, core.Config{Username: "carol"}, testLogger())
	if err != nil {
		t.Fatalf("first session: %v", err)
	}
	first.Stop()

	second, err := StartSession(log, core.Config{Username: "carol"}, testLogger())
	if err != nil {
		t.Fatalf("second session: %v", err)
	}
	defer second.Stop()

	if second.Self.ID != first.Self.ID {
		t.Fatal("returning user should keep their id")
	}
	if second.ID == first.ID {
		t.Fatal("each session should get a fresh session id")
	}
}

func TestStartSessionRequiresUsername(t *testing.T) {
	log := openTestLog(t)

	if _, err := StartSession(log, core.Config{}, testLogger()); err == nil {
		t.Fatal("expected error without a username")
	}
}

func TestSessionStopIsIdempotent(t *testing.T) {
	log := openTestLog(t)

	session, err := StartSession(log, core.Config{Username: "carol"}, testLogger())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	session.Stop()
	session.Stop()

	user, err := db.GetUser(log.DB(), session.Self.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Typing {
		t.Fatal("stop should leave the typing flag clear")
	}
}
