package engine

import (
	"context"
	"time"

	"github.com/musedating/muse-engine/internal/domain"
	"github.com/musedating/muse-engine/internal/identity"
)

// Login delegates to the identity provider. Provider errors surface
// unchanged; the engine does not retry (a UI concern) and mutates nothing
// on failure. Callers wanting to distinguish "unknown email" from "wrong
// password" use EmailKnown.
func (e *Engine) Login(ctx context.Context, email, password string) error {
	user, err := e.appCtx.Identity.Login(ctx, email, password)
	if err != nil {
		e.log.Debug("login rejected", "email", email, "err", err)
		return err
	}

	e.mu.Lock()
	e.currentUser = user
	e.isAuthenticated = true
	e.lastActivity = e.now()
	e.persistLocked()
	e.mu.Unlock()

	e.log.Info("login ok", "user_id", user.ID)
	go e.fetchLocation()
	return nil
}

// Signup rejects duplicate emails up front, then registers through the
// identity provider and authenticates like Login.
func (e *Engine) Signup(ctx context.Context, email, password string, draft domain.User) error {
	exists, err := e.appCtx.Identity.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return identity.ErrEmailTaken
	}

	draft.OnboardingCompleted = true
	user, err := e.appCtx.Identity.Signup(ctx, email, password, draft)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.currentUser = user
	e.isAuthenticated = true
	e.lastActivity = e.now()
	e.persistLocked()
	e.mu.Unlock()

	e.log.Info("signup ok", "user_id", user.ID)
	go e.fetchLocation()
	return nil
}

// Logout delegates to the provider and clears the session either way.
// Pending chat replies are not cancelled; they re-validate on fire.
func (e *Engine) Logout(ctx context.Context) error {
	err := e.appCtx.Identity.Logout(ctx)
	if err != nil {
		e.log.Warn("provider logout failed", "err", err)
	}

	e.mu.Lock()
	e.clearSessionLocked()
	e.persistLocked()
	e.mu.Unlock()

	return err
}

// CheckSession is the route guard: a session older than the timeout is
// force-logged-out locally and reported as invalid.
func (e *Engine) CheckSession() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAuthenticated {
		return true
	}
	if e.now().Sub(e.lastActivity) <= e.sessionTimeout {
		return true
	}

	e.log.Info("session expired", "last_activity", e.lastActivity)
	e.clearSessionLocked()
	e.persistLocked()
	return false
}

// UpdateLastActivity refreshes the session timestamp. Callers invoke it on
// meaningful user interaction.
func (e *Engine) UpdateLastActivity() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.isAuthenticated {
		return
	}
	e.lastActivity = e.now()
	e.persistLocked()
}

// EmailKnown consults the user directory, letting the UI render "unknown
// email" and "wrong password" differently after a failed login.
func (e *Engine) EmailKnown(ctx context.Context, email string) (bool, error) {
	return e.appCtx.Identity.EmailExists(ctx, email)
}

// UpdateUserPhoto prepends a photo to the signed-in user's profile.
func (e *Engine) UpdateUserPhoto(photoURL string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.currentUser == nil {
		return
	}
	e.currentUser.Photos = append([]string{photoURL}, e.currentUser.Photos...)
	e.persistLocked()
}

func (e *Engine) clearSessionLocked() {
	e.currentUser = nil
	e.isAuthenticated = false
	e.lastActivity = time.Time{}
	e.userLocation = nil
}

// fetchLocation is fire-and-forget: best effort, failure ignored.
func (e *Engine) fetchLocation() {
	if e.appCtx.Locator == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	loc, err := e.appCtx.Locator.Locate(ctx)
	if err != nil {
		e.log.Debug("location fetch failed", "err", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.isAuthenticated {
		return
	}
	e.userLocation = &loc
}
