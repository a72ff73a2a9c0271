package entity

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusDraw       = "draw"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

const BoardSize = 9

// Board is laid out row-major: 0-2 top row, 3-5 middle row, 6-8 bottom row.
type Board [BoardSize]string

// EmptyCells returns the indices of the empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

type Game struct {
	Board  Board  `json:"board"`
	Turn   string `json:"player_turn"`
	Status string `json:"status"`
	Winner string `json:"winner"`
}

func NewGame() Game {
	return Game{
		Turn:   PlayerX,
		Status: StatusInProgress,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusInProgress
}

// Score counts wins per mark for the lifetime of a session.
type Score struct {
	X int `json:"X"`
	O int `json:"O"`
}

func (that *Score) RecordWin(mark string) {
	switch mark {
	case PlayerX:
		that.X++
	case PlayerO:
		that.O++
	}
}

func (that Score) Of(mark string) int {
	switch mark {
	case PlayerX:
		return that.X
	case PlayerO:
		return that.O
	default:
		return 0
	}
}

// Session is everything a single page load owns: the current game, the
// running score and the selected theme.
type Session struct {
	ID    string `json:"id"`
	Game  Game   `json:"game"`
	Score Score  `json:"score"`
	Theme string `json:"theme"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		Game:  NewGame(),
		Theme: ThemeLight,
	}
}

func (that *Session) ToggleTheme() {
	if that.Theme == ThemeDark {
		that.Theme = ThemeLight
		return
	}

	that.Theme = ThemeDark
}
