package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid game configuration")
	ErrOutOfBounds          = errors.New("cell out of bounds")
)

// ConfigError describes which game parameter was rejected.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

// [ConfigError] implements [error]
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

type BoundsError struct {
	Row, Col      int
	Width, Height int
}

// [BoundsError] implements [error]
func (e *BoundsError) Error() string {
	return fmt.Sprintf(
		"cell %d:%d is outside of %dx%d grid", e.Row, e.Col, e.Width, e.Height,
	)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
