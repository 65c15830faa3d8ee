package mines

import "github.com/sirupsen/logrus"

// Reveal opens the cell at (row, col).
//
// Opening a blank cell floods through the surrounding blank region and its
// numbered border. Revealing an already opened numbered cell is a chord: if
// exactly as many neighbors are flagged as the number shows, every other
// covered neighbor is revealed in turn. Flagged and questioned cells, and
// finished games, are left untouched.
func (g *Game) Reveal(row, col int) (Update, error) {
	i, err := g.field.index(row, col)
	if err != nil {
		return g.update(nil), err
	}
	return g.update(g.reveal(i, nil)), nil
}

func (g *Game) reveal(i int, changed []int) []int {
	if g.status != InProgress {
		return changed
	}
	c := &g.field.cells[i]
	switch c.state {
	case Flagged, Questioned:
		return changed
	case Revealed:
		if c.adjacent > 0 {
			return g.chord(i, changed)
		}
		return changed
	}

	if c.mine {
		c.state = Revealed
		c.marker = MarkExploded
		return g.lose(append(changed, i), i)
	}

	if c.adjacent == 0 {
		changed = g.floodFill(i, changed)
	} else {
		changed = g.open(i, changed)
	}
	return g.checkWin(changed)
}

func (g *Game) open(i int, changed []int) []int {
	g.field.cells[i].state = Revealed
	g.opened++
	return append(changed, i)
}

func (g *Game) chord(i int, changed []int) []int {
	cells := g.field.cells
	flags := 0
	for j := range g.field.neighbors(i) {
		if cells[j].state == Flagged {
			flags++
		}
	}
	if flags != int(cells[i].adjacent) {
		return changed
	}
	for j := range g.field.neighbors(i) {
		if cells[j].state == Hidden {
			changed = g.reveal(j, changed)
		}
	}
	return changed
}

// floodFill opens the blank region around start breadth-first. Numbered
// cells are opened but do not expand. Flagged and questioned cells stay
// covered, though a blank one still passes the flood on to its neighbors.
func (g *Game) floodFill(start int, changed []int) []int {
	cells := g.field.cells
	todo := newCelltodo(len(cells))
	todo.add(start)
	for i, ok := todo.pop(); ok; i, ok = todo.pop() {
		c := &cells[i]
		if c.mine {
			continue
		}
		if c.state == Hidden {
			changed = g.open(i, changed)
		}
		if c.adjacent == 0 {
			for j := range g.field.neighbors(i) {
				todo.add(j)
			}
		}
	}
	return changed
}

// lose ends the game and discloses every mine. exploded is the index of the
// mine that was hit, or -1 for a forfeit.
func (g *Game) lose(changed []int, exploded int) []int {
	g.status = Lost
	for i := range g.field.cells {
		c := &g.field.cells[i]
		switch {
		case i == exploded:
		case c.mine && c.state == Flagged:
			c.state = Revealed
			c.marker = MarkCorrectFlag
			changed = append(changed, i)
		case c.mine:
			c.state = Revealed
			c.marker = MarkMine
			changed = append(changed, i)
		case c.state == Flagged:
			c.marker = MarkWrongFlag
			changed = append(changed, i)
		}
	}
	Log.WithFields(logrus.Fields{
		"params":   g.Params().Seed(),
		"exploded": exploded,
		"flags":    g.flagsPlaced,
	}).Debug("game lost")
	return changed
}

// checkWin marks the game won once every non-mine cell is open. Mines are
// disclosed through markers only, their states are kept.
func (g *Game) checkWin(changed []int) []int {
	if g.opened != len(g.field.cells)-g.field.mineCount {
		return changed
	}
	g.status = Won
	for i := range g.field.cells {
		c := &g.field.cells[i]
		if !c.mine {
			continue
		}
		if c.state == Flagged {
			c.marker = MarkCorrectFlag
		} else {
			c.marker = MarkMine
		}
		changed = append(changed, i)
	}
	Log.WithFields(logrus.Fields{
		"params": g.Params().Seed(),
		"flags":  g.flagsPlaced,
	}).Debug("game won")
	return changed
}
