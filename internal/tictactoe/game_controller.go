package tictactoe

import (
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	HumanMark    = entity.PlayerX
	ComputerMark = entity.PlayerO
)

// Phase is the position of a game in the turn protocol.
type Phase string

const (
	PhaseAwaitingHuman  Phase = "awaiting_human"
	PhaseComputerToMove Phase = "computer_to_move"
	PhaseGameOver       Phase = "game_over"
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Randomizer picks an integer in [0, n).
type Randomizer interface {
	IntN(n int) int
}

type defaultRandomizer struct{}

func (defaultRandomizer) IntN(n int) int {
	return rand.IntN(n) //nolint: gosec // it's ok
}

type GameController struct {
	rnd Randomizer
}

// NewGameController returns an engine whose computer opponent draws from rnd.
// A nil rnd falls back to the process-wide math/rand/v2 source.
func NewGameController(rnd Randomizer) *GameController {
	if rnd == nil {
		rnd = defaultRandomizer{}
	}

	return &GameController{rnd: rnd}
}

// CheckWinner returns the mark that fills one of the winning combos, or EmptyCell.
func CheckWinner(board entity.Board) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}

// IsDraw reports a full board with no winning combo. It is the only place a draw is decided.
func IsDraw(board entity.Board) bool {
	return board.IsFull() && CheckWinner(board) == entity.EmptyCell
}

func PhaseOf(game *entity.Game) Phase {
	switch {
	case !game.IsOngoing():
		return PhaseGameOver
	case game.Turn == ComputerMark:
		return PhaseComputerToMove
	default:
		return PhaseAwaitingHuman
	}
}

// ApplyHumanMove places the human mark on cell. A rejected move leaves the session untouched.
func (that *GameController) ApplyHumanMove(session *entity.Session, cell int) error {
	return that.applyMove(session, HumanMark, cell)
}

// ComputerMove picks one of the empty cells uniformly at random.
func (that *GameController) ComputerMove(board entity.Board) (int, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return -1, apperror.ErrNoAvailableMoves
	}

	return availableCells[that.rnd.IntN(len(availableCells))], nil
}

// PlayTurn runs one full turn: the human move and, unless it ended the game,
// the computer's immediate reply.
func (that *GameController) PlayTurn(session *entity.Session, cell int) error {
	if err := that.ApplyHumanMove(session, cell); err != nil {
		return err
	}

	if PhaseOf(&session.Game) != PhaseComputerToMove {
		return nil
	}

	computerCell, err := that.ComputerMove(session.Game.Board)
	if err != nil {
		return fmt.Errorf("computer failed to pick a cell: %w", err)
	}

	if err = that.applyMove(session, ComputerMark, computerCell); err != nil {
		return fmt.Errorf("computer failed to make turn: %w", err)
	}

	return nil
}

// Reset starts a new game in the session. The score and the theme are kept.
func (that *GameController) Reset(session *entity.Session) {
	session.Game = entity.NewGame()
}

func (that *GameController) applyMove(session *entity.Session, mark string, cell int) error {
	game := &session.Game

	if game.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := validateMove(game, mark, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	game.Board[cell] = mark
	updateGameStatus(session, mark)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(game *entity.Game, mark string, cell int) error {
	if cell < 0 || cell >= len(game.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if game.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	if game.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// updateGameStatus - recomputes the status after mark was placed.
func updateGameStatus(session *entity.Session, mark string) {
	game := &session.Game

	if winner := CheckWinner(game.Board); winner != entity.EmptyCell {
		game.Winner = winner
		game.Status = entity.StatusWon
		game.Turn = entity.EmptyCell
		session.Score.RecordWin(winner)
		return
	}

	if IsDraw(game.Board) {
		game.Status = entity.StatusDraw
		game.Turn = entity.EmptyCell
		return
	}

	game.Turn = toggleMark(mark)
}

func toggleMark(currentMark string) string {
	if currentMark == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}
