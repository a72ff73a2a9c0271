package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrSessionNotFound  = errors.New("session not found")
)

// IsRejectedMove reports whether err is one of the move rejections that an
// interactive client produces during normal play. Those are ignored, not reported.
func IsRejectedMove(err error) bool {
	return errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrGameFinished) ||
		errors.Is(err, ErrNotYourTurn)
}
