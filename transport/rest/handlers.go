package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type turnRequest struct {
	Cell *int `json:"cell" binding:"required,min=0,max=8"`
}

type pageData struct {
	Session SessionView
}

// index starts a new session on every full page load, so the score starts at zero.
func (that *Server) index(c *gin.Context) {
	session, err := that.sessions.StartSession(c.Request.Context())
	if err != nil {
		that.logger.Error("failed to start session", "error", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.HTML(http.StatusOK, "index.html", pageData{
		Session: newSessionView(session),
	})
}

func (that *Server) createSession(c *gin.Context) {
	session, err := that.sessions.StartSession(c.Request.Context())
	if err != nil {
		that.handleError(c, err)
		return
	}

	successResponse(c, http.StatusCreated, newSessionView(session))
}

func (that *Server) getSession(c *gin.Context) {
	session, err := that.sessions.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.handleError(c, err)
		return
	}

	sessionResponse(c, session)
}

func (that *Server) makeTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := that.sessions.MakeTurn(c.Request.Context(), c.Param("id"), *req.Cell)
	if err != nil {
		that.handleError(c, err)
		return
	}

	sessionResponse(c, session)
}

func (that *Server) resetGame(c *gin.Context) {
	session, err := that.sessions.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.handleError(c, err)
		return
	}

	sessionResponse(c, session)
}

func (that *Server) toggleTheme(c *gin.Context) {
	session, err := that.sessions.ToggleTheme(c.Request.Context(), c.Param("id"))
	if err != nil {
		that.handleError(c, err)
		return
	}

	sessionResponse(c, session)
}

func (that *Server) endSession(c *gin.Context) {
	if err := that.sessions.EndSession(c.Request.Context(), c.Param("id")); err != nil {
		that.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (that *Server) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		errorResponse(c, http.StatusNotFound, apperror.ErrSessionNotFound.Error())
	case errors.Is(err, apperror.ErrInvalidCell):
		errorResponse(c, http.StatusBadRequest, apperror.ErrInvalidCell.Error())
	default:
		that.logger.Error("request failed", "path", c.FullPath(), "error", err)
		errorResponse(c, http.StatusInternalServerError, "Internal Server Error")
	}
}

func markClass(mark string) string {
	switch mark {
	case entity.PlayerX:
		return "mark-x"
	case entity.PlayerO:
		return "mark-o"
	default:
		return ""
	}
}
