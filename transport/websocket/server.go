package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type sessionUseCase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
	ToggleTheme(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

// client is the per-connection state: the session it drives and whether
// the connection created it.
type client struct {
	conn      *websocket.Conn
	sessionID string
	owned     bool
}

type handlerFunc func(ctx context.Context, msg *Message, cl *client) error

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase
	validate *validator.Validate
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	// conns tracks hijacked connections, which http.Server.Shutdown does not wait for.
	conns sync.WaitGroup
}

func New(logger *slog.Logger, sessions sessionUseCase) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameReset] = server.handleGameReset
	server.handlers[actionThemeToggle] = server.handleThemeToggle

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - serves WebSocket connections until ctx is canceled. It returns once
// the listener is shut down and every open connection has finished.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-shutdownDone
	that.conns.Wait()

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	that.conns.Add(1)
	defer that.conns.Done()

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established")

	cl := &client{conn: conn}
	ctx := req.Context()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	that.handleMessages(ctx, cl)
	that.closeSession(ctx, cl)
}

// handleMessages - processes messages from the client until the connection closes.
func (that *Server) handleMessages(ctx context.Context, cl *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := cl.conn.ReadJSON(&message); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Warn("failed to unmarshal message", "error", err)
				if err = sendErrorResponse(cl.conn, actionError, "malformed message"); err != nil {
					return
				}
				continue
			}

			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("error reading message", "error", err)
			}
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err := sendErrorResponse(cl.conn, message.Action, "unknown action"); err != nil {
				return
			}
			continue
		}

		if err := handler(ctx, &message, cl); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			return
		}
	}
}

// closeSession ends the session if this connection started it.
func (that *Server) closeSession(ctx context.Context, cl *client) {
	if !cl.owned {
		return
	}

	// the request context is already done once the peer is gone
	ctx = context.WithoutCancel(ctx)
	if err := that.sessions.EndSession(ctx, cl.sessionID); err != nil {
		that.logger.Warn("failed to end session", "sessionID", cl.sessionID, "error", err)
	}
}
