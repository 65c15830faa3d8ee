// Package commands implements the line-oriented move protocol spoken over
// WebSocket, the batch endpoint and the terminal client:
//
//	g      // fetch state, no-op
//	o r c  // reveal (or chord) the cell at row r, column c
//	f r c  // cycle the flag on the cell at row r, column c
//	q      // forfeit
package commands

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArity       = errors.New("invalid number of arguments")
	ErrBadArgument    = errors.New("arguments must be integers")
)

type Kind byte

const (
	Get     Kind = 'g'
	Open    Kind = 'o'
	Flag    Kind = 'f'
	Forfeit Kind = 'q'
)

// Maps known commands to number of arguments
var commandNargs = map[Kind]int{
	Get:     0,
	Open:    2,
	Flag:    2,
	Forfeit: 0,
}

type Command struct {
	Kind     Kind
	Row, Col int
}

func (c Command) String() string {
	if commandNargs[c.Kind] == 2 {
		return fmt.Sprintf("%c %d %d", c.Kind, c.Row, c.Col)
	}
	return string(c.Kind)
}

func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 || len(parts[0]) != 1 {
		return Command{}, ErrUnknownCommand
	}
	kind := Kind(parts[0][0])
	nargs, ok := commandNargs[kind]
	if !ok {
		return Command{}, ErrUnknownCommand
	}
	if nargs != len(parts)-1 {
		return Command{}, ErrBadArity
	}
	c := Command{Kind: kind}
	if nargs == 2 {
		var err error
		if c.Row, err = strconv.Atoi(parts[1]); err != nil {
			return Command{}, ErrBadArgument
		}
		if c.Col, err = strconv.Atoi(parts[2]); err != nil {
			return Command{}, ErrBadArgument
		}
	}
	return c, nil
}

// Execute applies c to g. Coordinates outside the grid yield an error
// wrapping [mines.ErrOutOfBounds].
func Execute(g *mines.Game, c Command) (mines.Update, error) {
	switch c.Kind {
	case Get:
		return mines.Update{Cells: mines.BoardUpdate{}, Status: g.Status()}, nil
	case Open:
		return g.Reveal(c.Row, c.Col)
	case Flag:
		return g.Flag(c.Row, c.Col)
	case Forfeit:
		return g.Forfeit(), nil
	}
	return mines.Update{}, ErrUnknownCommand
}

// BatchError reports the zero-based line of a batch that failed.
type BatchError struct {
	Line int
	Err  error
}

// [BatchError] implements [error]
func (e *BatchError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

type batchLine struct {
	n   int
	cmd Command
}

func parseBatch(text string) ([]batchLine, error) {
	var lines []batchLine
	for i, line := range byPiece(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := Parse(line)
		if err != nil {
			return nil, &BatchError{Line: i, Err: err}
		}
		lines = append(lines, batchLine{i, c})
	}
	return lines, nil
}

// ParseBatch parses newline separated commands, skipping blank lines. No
// command is returned unless every line parses.
func ParseBatch(text string) ([]Command, error) {
	lines, err := parseBatch(text)
	if err != nil {
		return nil, err
	}
	cmds := make([]Command, len(lines))
	for i, l := range lines {
		cmds[i] = l.cmd
	}
	return cmds, nil
}

// ExecuteBatch parses text and applies its commands in order. Parsing
// happens upfront, so a malformed line leaves g untouched. Execution stops
// at the first command that ends the game or fails; updates collected up to
// that point are returned merged.
func ExecuteBatch(g *mines.Game, text string) (mines.Update, error) {
	lines, err := parseBatch(text)
	if err != nil {
		return mines.Update{Cells: mines.BoardUpdate{}, Status: g.Status()}, err
	}
	merged := mines.Update{Cells: mines.BoardUpdate{}, Status: g.Status()}
	for _, l := range lines {
		u, err := Execute(g, l.cmd)
		merged.Cells = append(merged.Cells, u.Cells...)
		merged.Status = g.Status()
		if err != nil {
			return merged, &BatchError{Line: l.n, Err: err}
		}
		if g.Over() {
			break
		}
	}
	return merged, nil
}

func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}
