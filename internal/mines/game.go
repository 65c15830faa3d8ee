package mines

import (
	"math/rand/v2"
	"strconv"

	"github.com/sirupsen/logrus"
)

type Status uint8

const (
	InProgress Status = iota
	Lost
	Won
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Lost:
		return "lost"
	case Won:
		return "won"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Update lists the cells whose view changed during one action together with
// the resulting game status.
type Update struct {
	Cells  BoardUpdate `json:"cells"`
	Status Status      `json:"status"`
}

// Game is a single play session over one minefield. It is not safe for
// concurrent use.
type Game struct {
	field       *Minefield
	cycle       FlagCycle
	status      Status
	flagsPlaced int
	opened      int
}

func NewGame(params GameParams, r *rand.Rand) (*Game, error) {
	field, err := NewMinefield(params, r)
	if err != nil {
		return nil, err
	}
	Log.WithFields(logrus.Fields{
		"params": params.Seed(),
		"layout": field,
	}).Debug("new game")
	return NewGameFromField(field, params.Cycle), nil
}

// NewGameFromField starts a game over a prepared minefield.
func NewGameFromField(field *Minefield, cycle FlagCycle) *Game {
	return &Game{field: field, cycle: cycle}
}

func (g *Game) Minefield() *Minefield { return g.field }
func (g *Game) Status() Status        { return g.status }
func (g *Game) Over() bool            { return g.status != InProgress }
func (g *Game) FlagsPlaced() int      { return g.flagsPlaced }

// MinesRemaining is the mine counter shown to the player; it goes negative
// when more flags than mines are placed.
func (g *Game) MinesRemaining() int {
	return g.field.mineCount - g.flagsPlaced
}

func (g *Game) Params() GameParams {
	return GameParams{
		Width:     g.field.width,
		Height:    g.field.height,
		MineCount: g.field.mineCount,
		Cycle:     g.cycle,
	}
}

func (g *Game) CellView(row, col int) (CellView, error) {
	i, err := g.field.index(row, col)
	if err != nil {
		return CellView{}, err
	}
	return g.view(i), nil
}

func (g *Game) view(i int) CellView {
	c := g.field.cells[i]
	v := CellView{State: c.state, Marker: c.marker}
	if c.state == Revealed && !c.mine {
		v.AdjacentMines = int(c.adjacent)
	}
	if g.status != InProgress {
		v.Mine = c.mine
	}
	return v
}

func (g *Game) PlayerGrid() GridInfo {
	grid := make(GridInfo, len(g.field.cells))
	for i := range grid {
		grid[i] = g.view(i).Status()
	}
	return grid
}

func (g *Game) update(changed []int) Update {
	u := Update{Cells: make(BoardUpdate, 0, len(changed)), Status: g.status}
	for _, i := range changed {
		p := g.field.point(i)
		u.Cells = append(u.Cells, CellUpdate{
			Row:    p.Row,
			Col:    p.Col,
			Status: g.view(i).Status(),
		})
	}
	return u
}

// Flag advances a covered cell through the flag cycle. Revealed cells and
// finished games are left untouched.
func (g *Game) Flag(row, col int) (Update, error) {
	i, err := g.field.index(row, col)
	if err != nil {
		return g.update(nil), err
	}
	if g.status != InProgress {
		return g.update(nil), nil
	}
	c := &g.field.cells[i]
	switch c.state {
	case Revealed:
		return g.update(nil), nil
	case Hidden:
		c.state = Flagged
		g.flagsPlaced++
	case Flagged:
		g.flagsPlaced--
		if g.cycle == TwoState {
			c.state = Hidden
		} else {
			c.state = Questioned
		}
	case Questioned:
		c.state = Hidden
	}
	return g.update([]int{i}), nil
}

// Forfeit ends a running game as lost and discloses the board.
func (g *Game) Forfeit() Update {
	if g.status != InProgress {
		return g.update(nil)
	}
	return g.update(g.lose(nil, -1))
}
