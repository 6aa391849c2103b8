package chat

import (
	"testing"
	"time"

	"github.com/wardroomhq/wardroom/internal/db"
)

func typingFlag(t *testing.T, log Log, userID string) bool {
	t.Helper()
	user, err := db.GetUser(log.DB(), userID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user == nil {
		t.Fatal("expected user")
	}
	return user.Typing
}

func waitForFlag(t *testing.T, log Log, userID string, want bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if typingFlag(t, log, userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("typing flag never became %v", want)
}

func TestKeystrokeSetsFlagOnceAndIdleClear(t *testing.T) {
	log := openTestLog(t)
	registerUser(t, log, alice(), time.Now().UnixMilli())

	typing := NewTyping(log, alice(), testLogger())
	typing.idleAfter = 50 * time.Millisecond

	typing.OnKeystroke()
	waitForFlag(t, log, alice().ID, true)

	// Repeat keystrokes keep the burst open without further writes.
	typing.OnKeystroke()
	typing.OnKeystroke()
	if !typingFlag(t, log, alice().ID) {
		t.Fatal("flag should stay set during the burst")
	}

	waitForFlag(t, log, alice().ID, false)
}

func TestStopClosesBurstExactlyOnce(t *testing.T) {
	log := openTestLog(t)
	registerUser(t, log, alice(), time.Now().UnixMilli())

	typing := NewTyping(log, alice(), testLogger())
	typing.idleAfter = time.Hour

	typing.OnKeystroke()
	waitForFlag(t, log, alice().ID, true)

	typing.Stop()
	waitForFlag(t, log, alice().ID, false)
	typing.Stop()
}

func TestSubscribeTypingExcludesSelf(t *testing.T) {
	log := openTestLog(t)
	registerUser(t, log, alice(), time.Now().UnixMilli())
	registerUser(t, log, bob(), time.Now().UnixMilli())

	aliceTyping := NewTyping(log, alice(), testLogger())
	bobTyping := NewTyping(log, bob(), testLogger())
	aliceTyping.idleAfter = time.Hour
	bobTyping.idleAfter = time.Hour
	defer aliceTyping.Stop()
	defer bobTyping.Stop()

	ch, cancel := aliceTyping.SubscribeTyping()
	defer cancel()

	aliceTyping.OnKeystroke()
	bobTyping.OnKeystroke()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case users := <-ch:
			if len(users) == 1 && users[0].ID == bob().ID {
				return
			}
			for _, u := range users {
				if u.ID == alice().ID {
					t.Fatal("own typing state should not be observed")
				}
			}
		case <-deadline:
			t.Fatal("timed out waiting for bob's typing state")
		}
	}
}
