package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellStatus is the compact form of a [CellView] sent to clients.
type CellStatus int8

const (
	Question      CellStatus = -3
	Unknown       CellStatus = -2
	Flag          CellStatus = -1
	CorrectFlag   CellStatus = 64 // post-game-over
	ExplodedMine  CellStatus = 65
	WrongFlag     CellStatus = 66
	UnflaggedMine CellStatus = 67
	// 0-8 for an opened cell with given number of mined neighbors
)

func (s CellStatus) String() string {
	switch s {
	case Question:
		return "?"
	case Unknown:
		return "#"
	case Flag, CorrectFlag:
		return "F"
	case ExplodedMine:
		return "X"
	case WrongFlag:
		return "x"
	case UnflaggedMine:
		return "*"
	case 0:
		return "."
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// CellView is what a player may know about a single cell.
type CellView struct {
	State CellState `json:"state"`
	// AdjacentMines is only meaningful for a revealed non-mine cell.
	AdjacentMines int `json:"adjacent_mines"`
	// Mine is disclosed once the game is over.
	Mine   bool   `json:"mine"`
	Marker Marker `json:"marker"`
}

func (v CellView) Status() CellStatus {
	switch v.Marker {
	case MarkExploded:
		return ExplodedMine
	case MarkMine:
		return UnflaggedMine
	case MarkCorrectFlag:
		return CorrectFlag
	case MarkWrongFlag:
		return WrongFlag
	}
	switch v.State {
	case Flagged:
		return Flag
	case Questioned:
		return Question
	case Revealed:
		return CellStatus(v.AdjacentMines)
	default:
		return Unknown
	}
}

type GridInfo []CellStatus

func (g GridInfo) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

type CellUpdate struct {
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Status CellStatus `json:"status"`
}

type BoardUpdate []CellUpdate
