package ports

import (
	"context"

	"github.com/arenaplay/wallet-core/internal/core/domain"
)

// Credentials identify an account for login.
type Credentials struct {
	Identifier string
	Secret     string
}

// Registration carries the fields for account creation.
type Registration struct {
	Name          string
	Identifier    string
	Secret        string
	ConfirmSecret string
}

// AuthResult is the payload of a successful authentication call.
type AuthResult struct {
	Token string
	User  *domain.Profile
}

// AuthAPI is the remote authentication capability. Calls are single-attempt;
// well-formed rejections surface as *domain.RemoteError.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
	Register(ctx context.Context, reg Registration) (*AuthResult, error)
}

// UserAPI exposes the profile endpoint, from which tournament-derived wallet
// statistics are read.
type UserAPI interface {
	WalletStats(ctx context.Context) (*domain.WalletStats, error)
}
