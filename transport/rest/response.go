package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

// SessionView is the state the page redraws from after every call.
type SessionView struct {
	*entity.Session
	Phase tictactoe.Phase `json:"phase"`
}

func newSessionView(session *entity.Session) SessionView {
	return SessionView{
		Session: session,
		Phase:   tictactoe.PhaseOf(&session.Game),
	}
}

func successResponse(c *gin.Context, code int, extras any) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Extras:  extras,
	})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Success: false,
		Code:    code,
		Extras:  gin.H{"message": message},
	})
}

func sessionResponse(c *gin.Context, session *entity.Session) {
	successResponse(c, http.StatusOK, newSessionView(session))
}
