package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type sessionEntry struct {
	session   entity.Session
	expiresAt time.Time
}

type memSession struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository keeps sessions in process memory. Entries expire
// ttl after their last write; a zero ttl keeps them until deleted.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return newMemorySessionRepository(ttl, time.Now)
}

func newMemorySessionRepository(ttl time.Duration, now func() time.Time) *memSession {
	return &memSession{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
		now:      now,
	}
}

func (that *memSession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	that.purgeExpired(now)

	entry := sessionEntry{session: *session}
	if that.ttl > 0 {
		entry.expiresAt = now.Add(that.ttl)
	}

	that.sessions[session.ID] = entry

	return nil
}

func (that *memSession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.sessions[id]
	if !ok || entry.expired(that.now()) {
		delete(that.sessions, id)
		return nil, apperror.ErrSessionNotFound
	}

	session := entry.session
	return &session, nil
}

func (that *memSession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.sessions[id]
	delete(that.sessions, id)

	if !ok || entry.expired(that.now()) {
		return apperror.ErrSessionNotFound
	}

	return nil
}

// purgeExpired must be called with mu held.
func (that *memSession) purgeExpired(now time.Time) {
	for id, entry := range that.sessions {
		if entry.expired(now) {
			delete(that.sessions, id)
		}
	}
}

func (that sessionEntry) expired(now time.Time) bool {
	return !that.expiresAt.IsZero() && !now.Before(that.expiresAt)
}
