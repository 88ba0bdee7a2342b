package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/mapstate"
	"github.com/samirrijal/evoteli/internal/core/ports"
	"github.com/samirrijal/evoteli/internal/core/query"
	"github.com/samirrijal/evoteli/internal/pkg/metrics"
)

const publishTimeout = time.Second

// Session is one client's map state plus the query tracker for its view.
// Once evicted its store is detached; Done tells long-lived readers to stop.
type Session struct {
	ID       string
	Store    *mapstate.Store
	Searches *query.Tracker[*domain.PropertySearchResponse]

	unsubscribe func()
	done        chan struct{}
	closeOnce   sync.Once
}

// Done is closed when the session leaves the registry.
func (sess *Session) Done() <-chan struct{} {
	return sess.done
}

// SessionService holds the live sessions. Least recently used sessions are
// dropped once the limit is reached; their preferences remain in storage.
type SessionService struct {
	prefs    ports.PreferenceBackend
	events   ports.EventPublisher
	logger   *slog.Logger
	sessions *lru.Cache[string, *Session]
}

// NewSessionService creates a registry holding at most limit sessions. events may be nil.
func NewSessionService(prefs ports.PreferenceBackend, events ports.EventPublisher, limit int, logger *slog.Logger) (*SessionService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sessions, err := lru.NewWithEvict(limit, func(_ string, s *Session) {
		s.close()
		metrics.ActiveSessions.Dec()
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &SessionService{prefs: prefs, events: events, logger: logger, sessions: sessions}, nil
}

// Get returns the session for id, loading its preferences on first use.
func (s *SessionService) Get(ctx context.Context, id string) *Session {
	if sess, ok := s.sessions.Get(id); ok {
		return sess
	}

	sess := s.open(ctx, id)
	prev, ok, _ := s.sessions.PeekOrAdd(id, sess)
	if ok {
		// Lost the race to a concurrent first request.
		sess.close()
		s.sessions.Get(id)
		return prev
	}
	metrics.ActiveSessions.Inc()
	return sess
}

// Peek returns the session for id without creating it.
func (s *SessionService) Peek(id string) (*Session, bool) {
	return s.sessions.Peek(id)
}

// Len returns the number of live sessions.
func (s *SessionService) Len() int {
	return s.sessions.Len()
}

// Ping checks the preference storage.
func (s *SessionService) Ping(ctx context.Context) error {
	return s.prefs.Ping(ctx)
}

// Close drops every session.
func (s *SessionService) Close() {
	s.sessions.Purge()
}

func (s *SessionService) open(ctx context.Context, id string) *Session {
	logger := s.logger.With("session", id)
	store := mapstate.New(ctx, s.prefs.Namespace(id), mapstate.WithLogger(logger))
	sess := &Session{
		ID:          id,
		Store:       store,
		Searches:    query.NewTracker[*domain.PropertySearchResponse]("property_search"),
		unsubscribe: func() {},
		done:        make(chan struct{}),
	}
	if s.events != nil {
		sess.unsubscribe = store.Subscribe(func(st domain.MapState) {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()
			if err := s.events.PublishMapState(ctx, id, st); err != nil {
				logger.Warn("publish map state", "version", st.Version, "error", err)
			}
		})
	}
	return sess
}

func (sess *Session) close() {
	sess.closeOnce.Do(func() {
		sess.unsubscribe()
		close(sess.done)
	})
}
