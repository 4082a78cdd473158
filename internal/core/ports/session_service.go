package ports

import (
	"context"
	"time"

	"github.com/arenaplay/wallet-core/internal/core/domain"
)

// SessionService owns authentication state and its persisted mirror.
type SessionService interface {
	// Restore loads a persisted session, once per process lifetime. It
	// never fails: absent or malformed persisted state reads as "not
	// logged in".
	Restore(ctx context.Context)

	Login(ctx context.Context, identifier, secret string) (*domain.Profile, error)
	Register(ctx context.Context, name, identifier, secret, confirm string) (*domain.Profile, error)

	// UpdateUser shallow-merges the update onto the current profile,
	// persisting before the in-memory state changes. On persistence
	// failure the in-memory profile is left untouched.
	UpdateUser(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error)

	// Logout always clears the in-memory session, even when removing the
	// persisted mirror fails.
	Logout(ctx context.Context)

	Current() domain.Session
	AuthToken() string
	IsAdmin() bool

	// TokenExpiresAt reports the exp claim of the current bearer token,
	// when the token is a JWT carrying one.
	TokenExpiresAt() (time.Time, bool)

	// Subscribe registers an observer for session changes. The returned
	// function cancels the subscription.
	Subscribe(fn func(domain.Session)) (cancel func())
}
