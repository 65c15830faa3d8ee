// Package sessions keeps the games that are currently being played in
// memory. Every game is guarded by its own lock so the core engine is never
// entered concurrently.
package sessions

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

type Options struct {
	// Idle entries older than TTL are dropped by Sweep. Zero disables expiry.
	TTL time.Duration
	// Zero means no limit.
	MaxSessions int
}

type Registry struct {
	log  *logrus.Logger
	opts Options
	now  func() time.Time

	mu      sync.RWMutex
	rnd     *rand.Rand
	entries map[string]*Entry
}

func New(log *logrus.Logger, rnd *rand.Rand, opts Options) *Registry {
	return &Registry{
		log:     log,
		opts:    opts,
		now:     time.Now,
		rnd:     rnd,
		entries: make(map[string]*Entry),
	}
}

// Create generates a new game and registers it under a fresh id.
func (r *Registry) Create(params mines.GameParams) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.opts.MaxSessions > 0 && len(r.entries) >= r.opts.MaxSessions {
		return nil, ErrTooManySessions
	}
	game, err := mines.NewGame(params, r.rnd)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	e := &Entry{
		ID:         uuid.NewString(),
		StartedAt:  now,
		now:        r.now,
		game:       game,
		lastAccess: now,
	}
	r.entries[e.ID] = e

	r.log.WithFields(logrus.Fields{
		"session": e.ID,
		"params":  params.Seed(),
	}).Debug("session created")
	return e, nil
}

func (r *Registry) Get(id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sweep drops every entry that has not been touched for longer than the
// configured TTL and returns the number of dropped entries.
func (r *Registry) Sweep(now time.Time) int {
	if r.opts.TTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, e := range r.entries {
		if now.Sub(e.LastAccess()) > r.opts.TTL {
			delete(r.entries, id)
			dropped++
		}
	}
	if dropped > 0 {
		r.log.WithFields(logrus.Fields{
			"dropped": dropped,
			"live":    len(r.entries),
		}).Info("expired sessions")
	}
	return dropped
}

// Maintain calls Sweep every interval until ctx is done.
func (r *Registry) Maintain(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(r.now())
		}
	}
}
