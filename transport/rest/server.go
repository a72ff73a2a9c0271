package rest

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

//go:embed web/index.html
var webFS embed.FS

type sessionUseCase interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
	ToggleTheme(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase
	router   *gin.Engine
}

func New(logger *slog.Logger, sessions sessionUseCase) *Server {
	server := &Server{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), server.requestLogger())
	router.SetHTMLTemplate(template.Must(
		template.New("").Funcs(template.FuncMap{"markClass": markClass}).ParseFS(webFS, "web/index.html"),
	))

	router.GET("/", server.index)
	router.GET("/ping", server.ping)

	api := router.Group("/api/sessions")
	api.POST("", server.createSession)
	api.GET("/:id", server.getSession)
	api.DELETE("/:id", server.endSession)
	api.POST("/:id/turn", server.makeTurn)
	api.POST("/:id/reset", server.resetGame)
	api.POST("/:id/theme", server.toggleTheme)

	server.router = router

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - serves HTTP until ctx is canceled. It returns only after the graceful
// shutdown has finished.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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

	return nil
}

func (that *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		that.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
