package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type fakeClock struct {
	current time.Time
}

func (that *fakeClock) now() time.Time {
	return that.current
}

func TestMemorySessionRepository_CreateOrUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(time.Hour)

	// Given: a session with a move on the board
	session := entity.NewSession("123")
	session.Game.Board[4] = entity.PlayerX
	session.Score.O = 2

	// When: it is saved and read back
	require.NoError(t, repo.CreateOrUpdate(ctx, session))
	stored, err := repo.GetByID(ctx, "123")

	// Then: the stored copy matches
	require.NoError(t, err)
	assert.Equal(t, session, stored)
}

func TestMemorySessionRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(time.Hour)

	session := entity.NewSession("123")
	require.NoError(t, repo.CreateOrUpdate(ctx, session))

	// When: the caller mutates its own pointers
	session.Game.Board[0] = entity.PlayerX
	stored, err := repo.GetByID(ctx, "123")
	require.NoError(t, err)
	stored.Score.X = 10

	// Then: the repository is unaffected until the next write
	again, err := repo.GetByID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, entity.EmptyCell, again.Game.Board[0])
	assert.Equal(t, 0, again.Score.X)
}

func TestMemorySessionRepository_GetByID_NotFound(t *testing.T) {
	repo := NewMemorySessionRepository(time.Hour)

	session, err := repo.GetByID(context.Background(), "9999999")

	require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	assert.Nil(t, session)
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{current: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	repo := newMemorySessionRepository(time.Minute, clock.now)

	require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("old")))

	t.Run("Session is alive before the ttl", func(t *testing.T) {
		clock.current = clock.current.Add(59 * time.Second)

		_, err := repo.GetByID(ctx, "old")

		require.NoError(t, err)
	})

	t.Run("Session is gone after the ttl", func(t *testing.T) {
		clock.current = clock.current.Add(time.Second)

		_, err := repo.GetByID(ctx, "old")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Writes purge expired sessions", func(t *testing.T) {
		require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("stale")))
		clock.current = clock.current.Add(2 * time.Minute)

		require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("fresh")))

		assert.Len(t, repo.sessions, 1)
		assert.Contains(t, repo.sessions, "fresh")
	})
}

func TestMemorySessionRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx := context.Background()
		repo := NewMemorySessionRepository(0)
		require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("123")))

		err := repo.DeleteByID(ctx, "123")

		require.NoError(t, err)
		_, err = repo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		repo := NewMemorySessionRepository(0)

		err := repo.DeleteByID(context.Background(), "9999999")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
