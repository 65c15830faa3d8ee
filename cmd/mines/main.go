// Command mines plays Minesweeper in the terminal.
//
//	o r c  reveal (or chord) row r, column c
//	f r c  cycle the flag on row r, column c
//	g      redraw
//	q      forfeit
//	n      new game with the same parameters
package main

import (
	"flag"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
)

var (
	log = logrus.New()

	gameSeed string
	preset   string
	seed     uint64
	verbose  bool
)

func init() {
	flag.StringVar(&gameSeed, "game", "9:9:10", "board as W:H:M, append :2 for two-state flags")
	flag.StringVar(&preset, "preset", "", "beginner, intermediate or expert; overrides -game")
	flag.Uint64Var(&seed, "seed", 0, "random seed for reproducible boards, 0 picks one")
	flag.BoolVar(&verbose, "v", false, "log game transitions")
}

func resolveParams() (mines.GameParams, error) {
	if preset != "" {
		p, ok := mines.Preset(preset)
		if !ok {
			return p, fmt.Errorf("%w: unknown preset %q", mines.ErrInvalidConfiguration, preset)
		}
		return p, nil
	}
	return mines.ParseSeed(gameSeed)
}

func createRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func main() {
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	mines.Log = log

	params, err := resolveParams()
	if err != nil {
		log.Fatal(err)
	}
	p := newPlayer(params, createRand(seed), os.Stdout)
	if err := p.run(os.Stdin); err != nil {
		log.Fatal(err)
	}
}
