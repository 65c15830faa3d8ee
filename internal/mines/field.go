package mines

import (
	"iter"
	"strconv"
	"strings"
)

type CellState uint8

const (
	Hidden CellState = iota
	Revealed
	Flagged
	Questioned
)

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	case Questioned:
		return "questioned"
	default:
		return "CellState(" + strconv.Itoa(int(s)) + ")"
	}
}

func (s CellState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Marker is the end-of-game disclosure attached to a cell.
type Marker uint8

const (
	MarkNone Marker = iota
	MarkExploded
	MarkMine
	MarkCorrectFlag
	MarkWrongFlag
)

func (m Marker) String() string {
	switch m {
	case MarkNone:
		return ""
	case MarkExploded:
		return "exploded"
	case MarkMine:
		return "mine"
	case MarkCorrectFlag:
		return "correct_flag"
	case MarkWrongFlag:
		return "wrong_flag"
	default:
		return "Marker(" + strconv.Itoa(int(m)) + ")"
	}
}

func (m Marker) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type Cell struct {
	mine     bool
	adjacent uint8
	state    CellState
	marker   Marker
}

func (c Cell) Mine() bool         { return c.mine }
func (c Cell) AdjacentMines() int { return int(c.adjacent) }
func (c Cell) State() CellState   { return c.state }
func (c Cell) Marker() Marker     { return c.marker }

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Minefield is a row-major grid: cell (row, col) lives at row*width + col.
// Mine layout and adjacency counts are fixed at construction, only cell
// states change afterwards.
type Minefield struct {
	width, height int
	mineCount     int
	cells         []Cell
}

func (f *Minefield) Width() int     { return f.width }
func (f *Minefield) Height() int    { return f.height }
func (f *Minefield) MineCount() int { return f.mineCount }
func (f *Minefield) Len() int       { return len(f.cells) }

func (f *Minefield) InBounds(row, col int) bool {
	return 0 <= row && row < f.height && 0 <= col && col < f.width
}

func (f *Minefield) index(row, col int) (int, error) {
	if !f.InBounds(row, col) {
		return 0, &BoundsError{row, col, f.width, f.height}
	}
	return row*f.width + col, nil
}

func (f *Minefield) point(i int) Point {
	return Point{Row: i / f.width, Col: i % f.width}
}

func (f *Minefield) Get(row, col int) (Cell, error) {
	i, err := f.index(row, col)
	if err != nil {
		return Cell{}, err
	}
	return f.cells[i], nil
}

func (f *Minefield) At(i int) (Cell, error) {
	if i < 0 || i >= len(f.cells) {
		return Cell{}, &BoundsError{i / f.width, i % f.width, f.width, f.height}
	}
	return f.cells[i], nil
}

// NeighborsOf lists the in-bounds cells among the 8 surrounding (row, col).
// The grid does not wrap around.
func (f *Minefield) NeighborsOf(row, col int) []Point {
	var points []Point
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if (dr != 0 || dc != 0) && f.InBounds(row+dr, col+dc) {
				points = append(points, Point{row + dr, col + dc})
			}
		}
	}
	return points
}

func (f *Minefield) neighbors(i int) iter.Seq[int] {
	row, col := i/f.width, i%f.width
	return func(yield func(int) bool) {
		for r := max(0, row-1); r <= min(row+1, f.height-1); r++ {
			for c := max(0, col-1); c <= min(col+1, f.width-1); c++ {
				j := r*f.width + c
				if j != i && !yield(j) {
					return
				}
			}
		}
	}
}

func (f *Minefield) countAdjacent() {
	for i := range f.cells {
		var n uint8
		for j := range f.neighbors(i) {
			if f.cells[j].mine {
				n++
			}
		}
		f.cells[i].adjacent = n
	}
}

// String draws the mine layout: '*' for mines, adjacency counts elsewhere.
func (f *Minefield) String() string {
	var b strings.Builder
	for i, c := range f.cells {
		if c.mine {
			b.WriteByte('*')
		} else {
			b.WriteByte('0' + c.adjacent)
		}
		if (i+1)%f.width == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
