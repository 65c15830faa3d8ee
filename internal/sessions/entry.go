package sessions

import (
	"sync"
	"time"

	"github.com/vancomm/sweeper/internal/mines"
)

// Entry is a registered game.
type Entry struct {
	ID        string
	StartedAt time.Time

	now func() time.Time

	mu         sync.Mutex
	game       *mines.Game
	endedAt    *time.Time
	lastAccess time.Time
}

// Snapshot is a copy of an entry's player-visible state.
type Snapshot struct {
	ID             string
	Params         mines.GameParams
	Grid           mines.GridInfo
	Status         mines.Status
	MinesRemaining int
	StartedAt      time.Time
	EndedAt        *time.Time
}

// Do runs fn on the game while holding the entry lock and returns the state
// left behind by fn. A nil fn just reads the state.
func (e *Entry) Do(fn func(g *mines.Game) error) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if fn != nil {
		err = fn(e.game)
	}
	now := e.now().UTC()
	if e.game.Over() && e.endedAt == nil {
		e.endedAt = &now
	}
	e.lastAccess = now
	return e.snapshot(), err
}

func (e *Entry) Snapshot() Snapshot {
	s, _ := e.Do(nil)
	return s
}

func (e *Entry) LastAccess() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastAccess
}

func (e *Entry) snapshot() Snapshot {
	s := Snapshot{
		ID:             e.ID,
		Params:         e.game.Params(),
		Grid:           e.game.PlayerGrid(),
		Status:         e.game.Status(),
		MinesRemaining: e.game.MinesRemaining(),
		StartedAt:      e.StartedAt,
	}
	if e.endedAt != nil {
		ended := *e.endedAt
		s.EndedAt = &ended
	}
	return s
}
