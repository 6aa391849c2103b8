package chat

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/wardroomhq/wardroom/internal/eventlog"
	"github.com/wardroomhq/wardroom/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestLog(t *testing.T) *eventlog.Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.db")
	client, err := eventlog.Open(path, eventlog.Options{Logger: testLogger()})
	if err != nil {
		t.Fatalf("open event log: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func alice() types.User {
	return types.User{ID: "usr-alice", Username: "alice", Avatar: "Ⓐ"}
}

func bob() types.User {
	return types.User{ID: "usr-bob", Username: "bob", Avatar: "Ⓑ"}
}

func waitForMessages(t *testing.T, ch <-chan []types.Message) []types.Message {
	t.Helper()
	select {
	case msgs := <-ch:
		return msgs
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message snapshot")
		return nil
	}
}

func waitForUsers(t *testing.T, ch <-chan []types.User) []types.User {
	t.Helper()
	select {
	case users := <-ch:
		return users
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for user snapshot")
		return nil
	}
}
