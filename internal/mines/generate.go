package mines

import (
	"math/rand/v2"
)

func newMinefield(w, h, mc int) *Minefield {
	return &Minefield{
		width:     w,
		height:    h,
		mineCount: mc,
		cells:     make([]Cell, w*h),
	}
}

// NewMinefield places p.MineCount mines uniformly at random without
// replacement and precomputes adjacency counts.
func NewMinefield(p GameParams, r *rand.Rand) (*Minefield, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	width, height, mineCount := p.Unpack()
	f := newMinefield(width, height, mineCount)

	/*
	 * Partial Fisher-Yates: pick n off the list of candidate indices,
	 * swapping each pick out of the live prefix.
	 */
	candidates := make([]int, len(f.cells))
	for i := range candidates {
		candidates[i] = i
	}
	k := len(candidates)
	for range mineCount {
		i := r.IntN(k)
		f.cells[candidates[i]].mine = true
		k--
		candidates[i] = candidates[k]
	}

	f.countAdjacent()
	return f, nil
}

// NewMinefieldWithMines builds a minefield from an explicit list of mine
// indices.
func NewMinefieldWithMines(width, height int, mines []int) (*Minefield, error) {
	p := GameParams{Width: width, Height: height, MineCount: len(mines)}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f := newMinefield(width, height, len(mines))
	for _, i := range mines {
		if i < 0 || i >= len(f.cells) {
			return nil, &ConfigError{"mine index", i, "out of range"}
		}
		if f.cells[i].mine {
			return nil, &ConfigError{"mine index", i, "duplicate"}
		}
		f.cells[i].mine = true
	}
	f.countAdjacent()
	return f, nil
}
