package redis

import (
	"context"
	"sync"
	"time"

	"brain-battle/internal/app"
	"github.com/redis/go-redis/v9"
)

// markerTimeout bounds each liveness-marker round trip.
const markerTimeout = 250 * time.Millisecond

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Game state stays in a local map; it is never serialized out of the process.
//   - Redis holds a liveness marker per session holding the player's name,
//     refreshed on every lookup and removed on logout.
//   - Marker writes are best-effort and bounded by a short timeout, so an
//     unreachable Redis slows a command by at most that timeout.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(ctx context.Context, session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, markerTimeout)
	defer cancel()
	_ = s.client.Set(ctx, s.key(session.ID()), session.Username(), s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok && s.ttl > 0 {
		ctx, cancel := context.WithTimeout(ctx, markerTimeout)
		defer cancel()
		_ = s.client.Expire(ctx, s.key(sessionID), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, markerTimeout)
	defer cancel()
	_ = s.client.Del(ctx, s.key(sessionID)).Err()
}

// Live reports whether the session's liveness marker is still present.
func (s *SessionStore) Live(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SessionStore) key(sessionID string) string {
	return "battle:session:" + sessionID
}
