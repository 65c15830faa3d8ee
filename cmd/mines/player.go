package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/mines"
)

type player struct {
	params mines.GameParams
	rnd    *rand.Rand
	out    io.Writer
	game   *mines.Game
}

func newPlayer(params mines.GameParams, rnd *rand.Rand, out io.Writer) *player {
	return &player{params: params, rnd: rnd, out: out}
}

func (p *player) newGame() error {
	g, err := mines.NewGame(p.params, p.rnd)
	if err != nil {
		return err
	}
	p.game = g
	fmt.Fprintf(p.out, "new game %s\n", p.params.Seed())
	return nil
}

func (p *player) render() {
	w := p.params.Width
	fmt.Fprint(p.out, p.game.PlayerGrid().ToString(w))
	fmt.Fprintf(p.out, "mines: %d  status: %s\n", p.game.MinesRemaining(), p.game.Status())
}

// handle runs one input line. Bad input is reported and play goes on.
func (p *player) handle(line string) error {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return nil
	case "n":
		if err := p.newGame(); err != nil {
			return err
		}
		p.render()
		return nil
	}

	c, err := commands.Parse(line)
	if err != nil {
		fmt.Fprintf(p.out, "error: %s\n", err)
		return nil
	}
	u, err := commands.Execute(p.game, c)
	if errors.Is(err, mines.ErrOutOfBounds) {
		fmt.Fprintf(p.out, "error: %s\n", err)
		return nil
	} else if err != nil {
		return err
	}
	p.render()
	if len(u.Cells) > 0 {
		switch u.Status {
		case mines.Won:
			fmt.Fprintln(p.out, "you win! n starts a new game")
		case mines.Lost:
			fmt.Fprintln(p.out, "boom. n starts a new game")
		}
	}
	return nil
}

func (p *player) run(in io.Reader) error {
	if err := p.newGame(); err != nil {
		return err
	}
	p.render()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := p.handle(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
