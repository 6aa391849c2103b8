package types

import "time"

// Tuning constants for the chat core.
const (
	// HeartbeatInterval is how often an active session refreshes LastSeen.
	HeartbeatInterval = 30 * time.Second
	// OnlineWindow is the recency threshold for counting a user as online.
	OnlineWindow = 60 * time.Second
	// TypingIdle is how long after the last keystroke the typing flag drops.
	TypingIdle = 1500 * time.Millisecond
	// EditWindow is how long after creation the author may edit or delete.
	EditWindow = 5 * time.Minute
	// DefaultPageSize is the live window and pagination batch size.
	DefaultPageSize = 20
	// DeletedPlaceholder replaces the body of a soft-deleted message.
	DeletedPlaceholder = "[deleted]"
)

// User represents a chat participant's identity and presence.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"` // emoji glyph or image ref
	LastSeen int64  `json:"last_seen"`        // unix ms, heartbeat-refreshed
	Typing   bool   `json:"typing,omitempty"`
}

// Online reports whether the user counts as online at the given time.
func (u User) Online(now time.Time) bool {
	return now.UnixMilli()-u.LastSeen < OnlineWindow.Milliseconds()
}

// Message represents a room message.
type Message struct {
	ID             string              `json:"id"`
	TS             int64               `json:"ts"` // unix ms, store-assigned
	AuthorID       string              `json:"author_id"`
	AuthorUsername string              `json:"author_username"`
	AuthorAvatar   string              `json:"author_avatar,omitempty"`
	Body           string              `json:"body"`
	SeenBy         []string            `json:"seen_by"`
	Edited         bool                `json:"edited,omitempty"`
	EditedAt       *int64              `json:"edited_at,omitempty"`
	Deleted        bool                `json:"deleted,omitempty"`
	Pinned         bool                `json:"pinned,omitempty"`
	Reactions      map[string][]string `json:"reactions"`
}

// SeenByUser reports whether the given user id is in the seen-by set.
func (m Message) SeenByUser(userID string) bool {
	for _, id := range m.SeenBy {
		if id == userID {
			return true
		}
	}
	return false
}

// MessageCursor is a stable keyset paging anchor. Paging by (TS, GUID)
// values keeps the cursor valid even if the anchor message vanishes.
type MessageCursor struct {
	GUID string `json:"guid"`
	TS   int64  `json:"ts"`
}
