package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// handleConnect binds the connection to an existing session, or starts a new one.
func (that *Server) handleConnect(ctx context.Context, msg *Message, cl *client) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq connectPayload
	if err := that.decodePayload(msg, &payloadReq); err != nil {
		log.Warn("invalid payload", "error", err)
		return sendErrorResponse(cl.conn, msg.Action, err.Error())
	}

	var (
		session *entity.Session
		err     error
	)

	if payloadReq.SessionID != "" {
		session, err = that.sessions.GetSession(ctx, payloadReq.SessionID)
	} else {
		session, err = that.sessions.StartSession(ctx)
	}

	if err != nil {
		return that.respondError(cl, msg.Action, err)
	}

	if cl.owned && cl.sessionID != session.ID {
		that.closeSession(ctx, cl)
	}

	cl.owned = payloadReq.SessionID == "" || (cl.owned && cl.sessionID == session.ID)
	cl.sessionID = session.ID

	log.Info("successfully connected session", "sessionID", session.ID)

	return sendMessage(cl.conn, msg.Action, sessionPayload(session))
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, cl *client) error {
	var payloadReq turnPayload
	if err := that.decodePayload(msg, &payloadReq); err != nil {
		return sendErrorResponse(cl.conn, msg.Action, err.Error())
	}

	return that.withSession(cl, msg.Action, func(id string) (*entity.Session, error) {
		return that.sessions.MakeTurn(ctx, id, *payloadReq.Cell)
	})
}

func (that *Server) handleGameReset(ctx context.Context, msg *Message, cl *client) error {
	return that.withSession(cl, msg.Action, func(id string) (*entity.Session, error) {
		return that.sessions.Reset(ctx, id)
	})
}

func (that *Server) handleThemeToggle(ctx context.Context, msg *Message, cl *client) error {
	return that.withSession(cl, msg.Action, func(id string) (*entity.Session, error) {
		return that.sessions.ToggleTheme(ctx, id)
	})
}

// withSession runs fn against the connection's session and answers with the result.
func (that *Server) withSession(cl *client, action string, fn func(id string) (*entity.Session, error)) error {
	if cl.sessionID == "" {
		return sendErrorResponse(cl.conn, action, "not connected to a session")
	}

	session, err := fn(cl.sessionID)
	if err != nil {
		return that.respondError(cl, action, err)
	}

	return sendMessage(cl.conn, action, sessionPayload(session))
}

// respondError reports client-side problems in the payload; anything else closes the connection.
func (that *Server) respondError(cl *client, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return sendErrorResponse(cl.conn, action, apperror.ErrSessionNotFound.Error())
	case errors.Is(err, apperror.ErrInvalidCell):
		return sendErrorResponse(cl.conn, action, apperror.ErrInvalidCell.Error())
	default:
		if sendErr := sendErrorResponse(cl.conn, action, "internal error"); sendErr != nil {
			that.logger.Warn("failed to report error", "error", sendErr)
		}
		return err
	}
}

func (that *Server) decodePayload(msg *Message, dst any) error {
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, dst); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if err := that.validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	return nil
}
