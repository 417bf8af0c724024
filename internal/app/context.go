package app

import (
	"log/slog"

	"github.com/musedating/muse-engine/internal/clock"
	"github.com/musedating/muse-engine/internal/identity"
	"github.com/musedating/muse-engine/internal/location"
	"github.com/musedating/muse-engine/internal/random"
	"github.com/musedating/muse-engine/internal/store"
)

// Context holds the injected collaborators shared by the engine
// (store, identity provider, locator, logger, clock, RNG).
type Context struct {
	Store    store.Store
	Identity identity.Provider
	Locator  location.Locator
	Logger   *slog.Logger
	Clock    clock.Clock
	Rand     random.Source
}

// New creates a Context, filling in system defaults for clock and RNG so
// callers only override what they need.
func New(st store.Store, idp identity.Provider, loc location.Locator, logger *slog.Logger) *Context {
	return &Context{
		Store:    st,
		Identity: idp,
		Locator:  loc,
		Logger:   logger,
		Clock:    clock.System(),
		Rand:     random.System(),
	}
}
