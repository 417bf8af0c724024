// Package location is the best-effort position lookup the session manager
// fires after login. Failures are tolerated by every caller.
package location

import (
	"context"

	"github.com/musedating/muse-engine/internal/domain"
)

// Locator resolves the device's current position.
type Locator interface {
	Locate(ctx context.Context) (domain.Location, error)
}

// Static always reports the same position. The default for headless runs,
// where no positioning hardware exists.
type Static struct {
	Loc domain.Location
}

func NewStatic(loc domain.Location) *Static { return &Static{Loc: loc} }

func (s *Static) Locate(_ context.Context) (domain.Location, error) {
	return s.Loc, nil
}

// Func adapts a plain function into a Locator.
type Func func(ctx context.Context) (domain.Location, error)

func (f Func) Locate(ctx context.Context) (domain.Location, error) { return f(ctx) }
