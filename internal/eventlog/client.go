// Package eventlog owns the shared chat store handle: serialized writes,
// change fan-out to in-process subscribers, and wakeups for writes made by
// other processes against the same database.
package eventlog

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wardroomhq/wardroom/internal/db"
)

// Client is the injected event-log handle. One per session; no globals.
type Client struct {
	conn   *sql.DB
	path   string
	logger *slog.Logger

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int

	writeMu sync.Mutex

	watch *watcher

	closeOnce sync.Once
	closeErr  error
}

// Options tunes the client. Zero values use defaults.
type Options struct {
	// PollInterval is the fallback wake cadence when the file watcher
	// cannot be established. Zero means 1s.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Open opens the database at path, ensures the schema, and starts change
// watching. A failed file watcher degrades to polling, never to an error.
func Open(path string, opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := db.OpenDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	if err := db.InitSchema(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init event log schema: %w", err)
	}

	c := &Client{
		conn:   conn,
		path:   path,
		logger: logger,
		subs:   make(map[int]chan struct{}),
	}
	c.watch = newWatcher(path, opts.PollInterval, logger, c.bump)
	c.watch.start()

	return c, nil
}

// DB exposes the handle for one-shot reads (the log's queryOnce surface).
func (c *Client) DB() *sql.DB {
	return c.conn
}

// Write runs an append or field-level patch against the store, then wakes
// subscribers. Writes are serialized so interleaved read-modify-write
// updates from one process cannot trample each other.
func (c *Client) Write(fn func(*sql.DB) error) error {
	c.writeMu.Lock()
	err := fn(c.conn)
	c.writeMu.Unlock()
	if err != nil {
		return err
	}
	c.bump()
	return nil
}

// Changes returns a coalescing wake channel that fires after every store
// change, and a cancel func that must be called on teardown.
func (c *Client) Changes() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
	return ch, cancel
}

// bump wakes every subscriber. Sends coalesce: a subscriber that has not
// drained its channel yet will see the pending wake cover this change too.
func (c *Client) bump() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close stops watching and closes the database. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.watch.stop()
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
