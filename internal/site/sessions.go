package site

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

// ControllerFactory builds a fresh controller for a variant.
type ControllerFactory func(variant application.Variant) (*stepform.Controller, error)

// Session is one visitor's state: an independent controller per variant.
type Session struct {
	ID string

	mu       sync.Mutex
	forms    map[application.Variant]*stepform.Controller
	lastSeen time.Time
}

// Form returns the visitor's controller for variant, creating it on first use.
func (s *Session) Form(variant application.Variant, factory ControllerFactory) (*stepform.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.forms[variant]; ok {
		return c, nil
	}
	c, err := factory(variant)
	if err != nil {
		return nil, err
	}
	s.forms[variant] = c
	return c, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// busy reports whether any of the session's forms has a submission in flight.
func (s *Session) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.forms {
		if c.Submitting() {
			return true
		}
	}
	return false
}

// SessionStore keeps visitor sessions in memory, keyed by a cookie holding a
// random UUID.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cookieName string
	secure     bool
	idle       time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewSessionStore returns a store whose sessions expire after idle.
func NewSessionStore(cookieName string, idle time.Duration, secure bool, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		sessions:   make(map[string]*Session),
		cookieName: cookieName,
		secure:     secure,
		idle:       idle,
		now:        time.Now,
		logger:     logger,
	}
}

// Resolve returns the request's session, starting a new one (and setting the
// cookie) when the cookie is missing, unknown or expired.
func (st *SessionStore) Resolve(w http.ResponseWriter, r *http.Request) *Session {
	now := st.now()
	if cookie, err := r.Cookie(st.cookieName); err == nil {
		st.mu.Lock()
		sess, ok := st.sessions[cookie.Value]
		st.mu.Unlock()
		if ok && sess.idleSince(now) <= st.idle {
			sess.touch(now)
			return sess
		}
	}

	sess := &Session{
		ID:       uuid.NewString(),
		forms:    make(map[application.Variant]*stepform.Controller),
		lastSeen: now,
	}
	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     st.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(st.idle.Seconds()),
	})
	st.logger.Debug("session started", "session", sess.ID)
	return sess
}

// Len reports the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the configured timeout. Sessions
// with a submission in flight are kept until it settles.
func (st *SessionStore) Sweep() int {
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, sess := range st.sessions {
		if sess.idleSince(now) > st.idle && !sess.busy() {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Janitor sweeps expired sessions (and any sweepable limiter) every interval
// until ctx is done.
func (st *SessionStore) Janitor(ctx context.Context, interval time.Duration, extra ...interface{ Sweep() int }) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	st.logger.Info("session janitor started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			st.logger.Info("session janitor stopped")
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Debug("expired sessions removed", "count", n)
			}
			for _, s := range extra {
				s.Sweep()
			}
		}
	}
}
