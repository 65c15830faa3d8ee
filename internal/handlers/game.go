package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/sessions"
)

// Longest batch body accepted, in bytes.
const maxBatchSize = 1 << 16

type GameHandler struct {
	log      *logrus.Logger
	registry *sessions.Registry
	jwt      *config.JWT
	ws       *config.WebSocket
	maxCells int
	started  time.Time
}

func NewGameHandler(
	log *logrus.Logger,
	registry *sessions.Registry,
	jwt *config.JWT,
	ws *config.WebSocket,
	maxCells int,
) *GameHandler {
	return &GameHandler{
		log:      log,
		registry: registry,
		jwt:      jwt,
		ws:       ws,
		maxCells: maxCells,
		started:  time.Now(),
	}
}

func (g GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, g.log, http.StatusOK,
		newStatusDTO(g.registry.Len(), time.Since(g.started)))
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	params, err := dto.Params()
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	if params.Size() > g.maxCells {
		sendError(w, g.log, &mines.ConfigError{
			Field:  "size",
			Value:  params.Size(),
			Reason: fmt.Sprintf("must not exceed %d cells", g.maxCells),
		})
		return
	}

	entry, err := g.registry.Create(params)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	token, err := g.jwt.Sign(entry.ID)
	if err != nil {
		g.registry.Remove(entry.ID)
		sendError(w, g.log, fmt.Errorf("unable to sign token: %w", err))
		return
	}

	g.log.WithFields(logrus.Fields{
		"session": entry.ID,
		"params":  params.Seed(),
	}).Info("new game")

	sendJSONOrLog(w, g.log, http.StatusCreated, NewGameResponseDTO{
		GameSessionDTO: NewGameSessionDTO(entry.Snapshot(), nil),
		Token:          token,
		ExpiresAt:      time.Now().Add(g.jwt.TokenLifetime()).UnixMilli(),
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	entry, err := g.registry.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(entry.Snapshot(), nil))
}

type moveFunc func(game *mines.Game, row, col int) (mines.Update, error)

func (g GameHandler) move(w http.ResponseWriter, r *http.Request, fn moveFunc) {
	pos, err := ParsePositionDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	entry, err := g.registry.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	var update mines.Update
	snapshot, err := entry.Do(func(game *mines.Game) (err error) {
		update, err = fn(game, pos.Row, pos.Col)
		return err
	})
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	g.logEnd(snapshot, update)
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(snapshot, update.Cells))
}

func (g GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, (*mines.Game).Reveal)
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, (*mines.Game).Flag)
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	entry, err := g.registry.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	var update mines.Update
	snapshot, _ := entry.Do(func(game *mines.Game) error {
		update = game.Forfeit()
		return nil
	})
	g.logEnd(snapshot, update)
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(snapshot, update.Cells))
}

// Batch accepts newline separated commands in the request body:
//
//	o r c // reveal the cell at row r, column c
//	f r c // cycle the flag at row r, column c
//	g     // no-op
//	q     // forfeit
//
// Commands are applied in order and interpretation stops once the game is
// over. A malformed body is rejected before any command runs. On failure the
// response carries the zero-based line number, the error and the state left
// by the lines that did run.
func (g GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	entry, err := g.registry.Get(r.PathValue("id"))
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBatchSize+1))
	if err != nil {
		sendError(w, g.log, fmt.Errorf("unable to read body: %w", err))
		return
	}
	if len(body) > maxBatchSize {
		sendJSONOrLog(w, g.log, http.StatusRequestEntityTooLarge,
			wrapError(errors.New("batch too large")))
		return
	}

	var update mines.Update
	snapshot, err := entry.Do(func(game *mines.Game) (err error) {
		update, err = commands.ExecuteBatch(game, string(body))
		return err
	})
	var batchErr *commands.BatchError
	if errors.As(err, &batchErr) {
		sendJSONOrLog(w, g.log, errorStatus(batchErr.Err),
			newBatchErrorDTO(batchErr, snapshot, update.Cells))
		return
	} else if err != nil {
		sendError(w, g.log, err)
		return
	}
	g.logEnd(snapshot, update)
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(snapshot, update.Cells))
}

func (g GameHandler) logEnd(s sessions.Snapshot, u mines.Update) {
	if u.Status == mines.InProgress || len(u.Cells) == 0 {
		return
	}
	g.log.WithFields(logrus.Fields{
		"session": s.ID,
		"params":  s.Params.Seed(),
		"status":  s.Status,
	}).Info("game over")
}
