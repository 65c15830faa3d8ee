package handlers

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/sweeper/internal/commands"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/sessions"
)

var dec = schema.NewDecoder()

func init() {
	dec.IgnoreUnknownKeys(true)
}

type NewGameDTO struct {
	Width     int    `schema:"width"`
	Height    int    `schema:"height"`
	MineCount int    `schema:"mine_count"`
	Cycle     int    `schema:"cycle"` // 2 or 3, defaults to 3
	Preset    string `schema:"preset"`
}

func ParseNewGameDTO(src url.Values) (NewGameDTO, error) {
	var dto NewGameDTO
	err := dec.Decode(&dto, src)
	return dto, err
}

// Params resolves the requested board. A preset wins over explicit
// dimensions.
func (d NewGameDTO) Params() (mines.GameParams, error) {
	var p mines.GameParams
	if d.Preset != "" {
		var ok bool
		if p, ok = mines.Preset(d.Preset); !ok {
			return p, fmt.Errorf("%w: unknown preset %q",
				mines.ErrInvalidConfiguration, d.Preset)
		}
	} else {
		p = mines.GameParams{Width: d.Width, Height: d.Height, MineCount: d.MineCount}
	}
	switch d.Cycle {
	case 0, 3:
		p.Cycle = mines.ThreeState
	case 2:
		p.Cycle = mines.TwoState
	default:
		return p, &mines.ConfigError{Field: "flag cycle", Value: d.Cycle, Reason: "must be 2 or 3"}
	}
	return p, p.Validate()
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePositionDTO(src url.Values) (PositionDTO, error) {
	var dto PositionDTO
	err := dec.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	GameSessionId  string            `json:"game_session_id"`
	Seed           string            `json:"seed"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	MineCount      int               `json:"mine_count"`
	FlagCycle      string            `json:"flag_cycle"`
	Grid           mines.GridInfo    `json:"grid"`
	MinesRemaining int               `json:"mines_remaining"`
	Status         mines.Status      `json:"status"`
	Dead           bool              `json:"dead"`
	Won            bool              `json:"won"`
	StartedAt      int64             `json:"started_at"`
	EndedAt        *int64            `json:"ended_at,omitempty"`
	Update         mines.BoardUpdate `json:"update,omitempty"`
}

func NewGameSessionDTO(s sessions.Snapshot, update mines.BoardUpdate) *GameSessionDTO {
	var endedAt *int64
	if s.EndedAt != nil {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		GameSessionId:  s.ID,
		Seed:           s.Params.Seed(),
		Width:          s.Params.Width,
		Height:         s.Params.Height,
		MineCount:      s.Params.MineCount,
		FlagCycle:      s.Params.Cycle.String(),
		Grid:           s.Grid,
		MinesRemaining: s.MinesRemaining,
		Status:         s.Status,
		Dead:           s.Status == mines.Lost,
		Won:            s.Status == mines.Won,
		StartedAt:      s.StartedAt.UnixMilli(),
		EndedAt:        endedAt,
		Update:         update,
	}
}

type NewGameResponseDTO struct {
	*GameSessionDTO
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// BatchErrorDTO reports a failed batch. Game holds the state left by the
// lines that ran before the failing one.
type BatchErrorDTO struct {
	Line  int             `json:"line"`
	Error string          `json:"error"`
	Game  *GameSessionDTO `json:"game"`
}

func newBatchErrorDTO(err *commands.BatchError, s sessions.Snapshot, update mines.BoardUpdate) BatchErrorDTO {
	return BatchErrorDTO{
		Line:  err.Line,
		Error: err.Err.Error(),
		Game:  NewGameSessionDTO(s, update),
	}
}

type StatusDTO struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Uptime   string `json:"uptime"`
}

func newStatusDTO(live int, uptime time.Duration) StatusDTO {
	return StatusDTO{
		Status:   "ok",
		Sessions: live,
		Uptime:   uptime.Truncate(time.Second).String(),
	}
}
