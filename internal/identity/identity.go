// Package identity is the identity-provider boundary. The engine only sees
// the Provider interface; the shipped implementation is a local gorm-backed
// directory, and tests substitute fakes.
package identity

import (
	"context"
	"errors"

	"github.com/musedating/muse-engine/internal/domain"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password on
	// login. Callers that need to tell the two apart use EmailExists.
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	// ErrEmailTaken is returned by Signup when the email is already registered.
	ErrEmailTaken = errors.New("identity: email already registered")
)

// Provider is the external identity collaborator.
type Provider interface {
	// Login authenticates and returns the stored user record.
	Login(ctx context.Context, email, password string) (*domain.User, error)
	// Signup registers a new account from the profile draft and returns the
	// persisted user record.
	Signup(ctx context.Context, email, password string, draft domain.User) (*domain.User, error)
	// Logout invalidates the provider-side session.
	Logout(ctx context.Context) error
	// EmailExists reports whether an account exists for the email
	// (case-insensitive).
	EmailExists(ctx context.Context, email string) (bool, error)
	// OnAuthChange registers a push-style listener invoked with the user on
	// login/signup and nil on logout.
	OnAuthChange(fn func(*domain.User))
}
