package chat

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wardroomhq/wardroom/internal/core"
	"github.com/wardroomhq/wardroom/internal/db"
	"github.com/wardroomhq/wardroom/internal/types"
)

// Session is one user's live connection to the room: identity, presence
// heartbeat, typing state, the message store, receipts, and mutations.
type Session struct {
	ID   string
	Self types.User

	Presence *Presence
	Typing   *Typing
	Engine   *Engine
	Store    *Store
	Receipts *Receipts

	log    Log
	logger *slog.Logger

	onlineCount  *Counter
	cancelOnline func()

	stopOnce sync.Once
}

// StartSession registers the user (creating them on first login), starts the
// presence heartbeat, and begins unread and online tracking.
func StartSession(log Log, cfg core.Config, logger *slog.Logger) (*Session, error) {
	if cfg.Username == "" {
		return nil, fmt.Errorf("no username configured (set WARDROOM_USER)")
	}

	self, firstLogin, err := resolveUser(log, cfg)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	err = log.Write(func(conn *sql.DB) error {
		self.LastSeen = now
		if err := db.UpsertUser(conn, self); err != nil {
			return err
		}
		if firstLogin {
			return db.InitChatCursor(conn, self.ID, now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s := &Session{
		ID:          uuid.NewString(),
		Self:        self,
		Presence:    NewPresence(log, self, logger),
		Typing:      NewTyping(log, self, logger),
		Engine:      NewEngine(log, self),
		Store:       NewStore(log, logger, types.DefaultPageSize),
		Receipts:    NewReceipts(log, self, logger),
		log:         log,
		logger:      logger,
		onlineCount: NewCounter(),
	}

	s.Presence.StartHeartbeat()
	s.Receipts.Start()

	users, cancel := s.Presence.SubscribeOnline()
	done := make(chan struct{})
	s.cancelOnline = func() {
		cancel()
		close(done)
	}
	go func() {
		for {
			select {
			case <-done:
				return
			case list := <-users:
				s.onlineCount.set(len(list))
			}
		}
	}()

	logger.Info("session started", "session", s.ID, "user", self.Username)
	return s, nil
}

// resolveUser loads the user by username, creating the identity with a fresh
// id and avatar on first login.
func resolveUser(log Log, cfg core.Config) (types.User, bool, error) {
	existing, err := db.GetUserByName(log.DB(), cfg.Username)
	if err != nil {
		return types.User{}, false, err
	}
	if existing != nil {
		user := *existing
		if cfg.Avatar != "" {
			user.Avatar = cfg.Avatar
		}
		return user, false, nil
	}

	id, err := core.GenerateGUID("usr")
	if err != nil {
		return types.User{}, false, err
	}
	avatar := cfg.Avatar
	if avatar == "" {
		used, err := db.GetUsedAvatars(log.DB())
		if err != nil {
			return types.User{}, false, err
		}
		avatar = core.AssignAvatar(cfg.Username, used)
	}
	return types.User{ID: id, Username: cfg.Username, Avatar: avatar}, true, nil
}

// Unread is the live unread-message counter.
func (s *Session) Unread() *Counter {
	return s.Receipts.Unread()
}

// OnlineCount is the live count of online users.
func (s *Session) OnlineCount() *Counter {
	return s.onlineCount
}

// Online returns the users currently online.
func (s *Session) Online() ([]types.User, error) {
	return db.GetOnlineUsers(s.log.DB(), time.Now())
}

// MarkAllSeen advances the chat cursor to now.
func (s *Session) MarkAllSeen() error {
	return s.Receipts.MarkAllSeen()
}

// Stop tears the session down: clears any open typing burst before the final
// presence write, then stops tracking. Idempotent.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.Typing.Stop()
		s.Receipts.Stop()
		if s.cancelOnline != nil {
			s.cancelOnline()
		}
		s.Presence.StopHeartbeat()
		s.logger.Info("session stopped", "session", s.ID)
	})
}
