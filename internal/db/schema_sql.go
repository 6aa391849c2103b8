package db

const schemaSQL = `
-- Chat participants and presence
CREATE TABLE IF NOT EXISTS wr_users (
  id TEXT PRIMARY KEY,                 -- e.g., "usr-x9y8z7w6"
  username TEXT NOT NULL UNIQUE,
  avatar TEXT,                         -- emoji glyph or image ref
  last_seen INTEGER NOT NULL,          -- unix ms, heartbeat-refreshed
  typing INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_wr_users_seen ON wr_users(last_seen);

-- Room messages
CREATE TABLE IF NOT EXISTS wr_messages (
  guid TEXT PRIMARY KEY,               -- e.g., "msg-a1b2c3d4"
  ts INTEGER NOT NULL,                 -- unix ms, assigned at insert, immutable
  author_id TEXT NOT NULL,
  author_username TEXT NOT NULL,       -- snapshotted at creation
  author_avatar TEXT,                  -- snapshotted at creation
  body TEXT NOT NULL,
  seen_by TEXT NOT NULL DEFAULT '[]',  -- JSON array of user ids, grows only
  edited INTEGER NOT NULL DEFAULT 0,
  edited_at INTEGER,                   -- unix ms of last edit
  deleted INTEGER NOT NULL DEFAULT 0,  -- soft delete
  pinned INTEGER NOT NULL DEFAULT 0,
  reactions TEXT NOT NULL DEFAULT '{}' -- JSON object: emoji -> [user ids]
);

CREATE INDEX IF NOT EXISTS idx_wr_messages_ts ON wr_messages(ts);
CREATE INDEX IF NOT EXISTS idx_wr_messages_author ON wr_messages(author_id);
CREATE INDEX IF NOT EXISTS idx_wr_messages_pinned ON wr_messages(pinned) WHERE pinned = 1;

-- Per-user "reviewed up to" cursors for the unread badge
CREATE TABLE IF NOT EXISTS wr_chat_cursors (
  user_id TEXT PRIMARY KEY,
  last_seen_chat INTEGER NOT NULL     -- unix ms
);
`
