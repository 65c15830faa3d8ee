package mines

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlagCycle selects how repeated flagging of a covered cell behaves.
type FlagCycle uint8

const (
	ThreeState FlagCycle = iota // hidden -> flagged -> questioned -> hidden
	TwoState                    // hidden -> flagged -> hidden
)

func (c FlagCycle) String() string {
	switch c {
	case ThreeState:
		return "three-state"
	case TwoState:
		return "two-state"
	default:
		return "FlagCycle(" + strconv.Itoa(int(c)) + ")"
	}
}

type GameParams struct {
	Width, Height, MineCount int
	Cycle                    FlagCycle
}

var presets = map[string]GameParams{
	"beginner":     {Width: 9, Height: 9, MineCount: 10},
	"intermediate": {Width: 16, Height: 16, MineCount: 40},
	"expert":       {Width: 30, Height: 16, MineCount: 99},
}

// Preset looks up one of the classic difficulty levels by name.
func Preset(name string) (GameParams, bool) {
	p, ok := presets[strings.ToLower(name)]
	return p, ok
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

func (p GameParams) Size() int {
	return p.Width * p.Height
}

func (p GameParams) Validate() error {
	switch {
	case p.Width <= 0:
		return &ConfigError{"width", p.Width, "must be positive"}
	case p.Height <= 0:
		return &ConfigError{"height", p.Height, "must be positive"}
	case p.Width > math.MaxInt/p.Height:
		return &ConfigError{"width", p.Width, "board too large"}
	case p.MineCount <= 0:
		return &ConfigError{"mine count", p.MineCount, "must be positive"}
	case p.MineCount >= p.Size():
		return &ConfigError{
			"mine count", p.MineCount,
			fmt.Sprintf("must be less than %d cells", p.Size()),
		}
	case p.Cycle > TwoState:
		return &ConfigError{"flag cycle", int(p.Cycle), "unknown cycle"}
	}
	return nil
}

// Seed formats params as "W:H:M", with a ":2" suffix for the two-state
// flag cycle.
func (p GameParams) Seed() string {
	seed := fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
	if p.Cycle == TwoState {
		seed += ":2"
	}
	return seed
}

func ParseSeed(seed string) (GameParams, error) {
	parts := strings.Split(seed, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return GameParams{}, fmt.Errorf(
			`invalid game params seed "%s": want W:H:M[:cycle]`, seed,
		)
	}
	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return GameParams{}, fmt.Errorf(
				`invalid game params seed "%s": %w`, seed, err,
			)
		}
		nums[i] = n
	}
	p := GameParams{Width: nums[0], Height: nums[1], MineCount: nums[2]}
	if len(nums) == 4 {
		switch nums[3] {
		case 2:
			p.Cycle = TwoState
		case 3:
			p.Cycle = ThreeState
		default:
			return GameParams{}, &ConfigError{"flag cycle", nums[3], "want 2 or 3"}
		}
	}
	if err := p.Validate(); err != nil {
		return GameParams{}, err
	}
	return p, nil
}
