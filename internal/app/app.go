package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/sessions"
)

type App struct {
	log      *logrus.Logger
	config   *config.Config
	router   *http.ServeMux
	registry *sessions.Registry
	jwt      *config.JWT
	ws       *config.WebSocket
}

// New wires the application. A nil rnd seeds a fresh generator.
func New(log *logrus.Logger, c *config.Config, rnd *rand.Rand) (*App, error) {
	jwt, err := config.NewJWT(c.Jwt)
	if err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = createRand()
	}

	app := &App{
		log:    log,
		config: c,
		router: http.NewServeMux(),
		registry: sessions.New(log, rnd, sessions.Options{
			TTL:         c.Sessions.TTL.Duration,
			MaxSessions: c.Sessions.MaxSessions,
		}),
		jwt: jwt,
		ws:  config.NewWebSocket(*c),
	}
	app.loadRoutes()
	return app, nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Cors(a.config.AllowedOrigins),
		middleware.Logging(a.log),
	)
}

// Start serves until ctx is done, then shuts the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Infof("ready to serve @ %s", a.config.Addr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to listen and serve: %w", err)
	})
	g.Go(func() error {
		<-gCtx.Done()
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.registry.Maintain(gCtx, a.config.Sessions.SweepInterval.Duration)
	})

	return g.Wait()
}
