package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/inovacc/worklog/internal/engine"
	"github.com/inovacc/worklog/internal/gateway"
	"github.com/inovacc/worklog/internal/model"
	"github.com/inovacc/worklog/internal/store"
)

// app bundles the wired-up components a command works with.
type app struct {
	cache      store.Cache
	gw         *gateway.Gateway
	session    *engine.Session
	reconciler *engine.Reconciler
	mutator    *engine.Mutator
}

func (a *app) close() {
	a.session.Close()
	_ = a.cache.Close()
}

// openCache opens the local cache database, creating the data directory
// on first use.
func openCache() (store.Cache, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	return store.NewBolt(cfg.CachePath())
}

func openGateway() (*gateway.Gateway, error) {
	return gateway.New(cfg.ServerURL, gateway.Options{
		Timeout: cfg.RequestTimeout,
		Logger:  slog.Default(),
	})
}

// newApp wires the engine for the persisted login. Commands that only
// need a health check or the login flow itself do their own wiring.
func newApp() (*app, error) {
	cache, err := openCache()
	if err != nil {
		return nil, err
	}

	user, err := cache.Session()
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	if user == nil {
		_ = cache.Close()
		return nil, fmt.Errorf("not logged in, run `worklog login` first")
	}

	gw, err := openGateway()
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	session := engine.NewSession(*user)
	reconciler := engine.NewReconciler(session, gw, cache, slog.Default())
	mutator := engine.NewMutator(session, gw, cache, model.NewIDSource(), slog.Default())

	return &app{
		cache:      cache,
		gw:         gw,
		session:    session,
		reconciler: reconciler,
		mutator:    mutator,
	}, nil
}

// refresh seeds the session from the cache and runs one reconciliation
// pass so commands act on the freshest reachable state.
func (a *app) refresh(ctx context.Context) error {
	if err := a.reconciler.SeedFromCache(); err != nil {
		return err
	}

	return a.reconciler.Run(ctx)
}

func printStatus(s model.Status) {
	fmt.Printf("[%s] %s\n", s.State, s.Message)
}
