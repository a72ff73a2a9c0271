package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameController interface {
	PlayTurn(session *entity.Session, cell int) error
	Reset(session *entity.Session)
}

// SessionUseCase applies user events to a stored session. Mutations are
// serialised so a session only ever sees one event at a time.
type SessionUseCase struct {
	logger *slog.Logger

	mu          sync.Mutex
	sessionRepo sessionRepo
	controller  gameController
}

func NewSessionUseCase(logger *slog.Logger, sessionRepo sessionRepo, controller gameController) *SessionUseCase {
	return &SessionUseCase{
		logger:      logger.With("component", "session"),
		sessionRepo: sessionRepo,
		controller:  controller,
	}
}

// StartSession creates a fresh session with an empty board and a zero score.
func (that *SessionUseCase) StartSession(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(uuid.NewString())

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Debug("session started", "sessionID", session.ID)

	return session, nil
}

func (that *SessionUseCase) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// MakeTurn plays the human move on cell followed by the computer reply.
// Clicks on a filled cell or on a finished game are ignored: the session is
// returned unchanged with a nil error.
func (that *SessionUseCase) MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error) {
	log := that.logger.With("method", "MakeTurn", "sessionID", id, "cell", cell)

	return that.mutate(ctx, id, func(session *entity.Session) (bool, error) {
		err := that.controller.PlayTurn(session, cell)
		if apperror.IsRejectedMove(err) {
			log.Debug("move ignored", "reason", err)
			return false, nil
		}

		if err != nil {
			return false, fmt.Errorf("failed to make turn: %w", err)
		}

		if session.Game.IsFinished() {
			log.Info("game over", "status", session.Game.Status, "winner", session.Game.Winner,
				"scoreX", session.Score.X, "scoreO", session.Score.O)
		}

		return true, nil
	})
}

// Reset starts a new game in the session and keeps the score.
func (that *SessionUseCase) Reset(ctx context.Context, id string) (*entity.Session, error) {
	return that.mutate(ctx, id, func(session *entity.Session) (bool, error) {
		that.controller.Reset(session)
		return true, nil
	})
}

func (that *SessionUseCase) ToggleTheme(ctx context.Context, id string) (*entity.Session, error) {
	return that.mutate(ctx, id, func(session *entity.Session) (bool, error) {
		session.ToggleTheme()
		return true, nil
	})
}

func (that *SessionUseCase) EndSession(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	that.logger.Debug("session ended", "sessionID", id)

	return nil
}

// mutate loads the session, applies fn and stores the result when fn reports a change.
func (that *SessionUseCase) mutate(ctx context.Context, id string, fn func(*entity.Session) (bool, error)) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	changed, err := fn(session)
	if err != nil {
		return nil, err
	}

	if !changed {
		return session, nil
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, nil
}
