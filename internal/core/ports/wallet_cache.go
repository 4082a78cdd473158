package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/arenaplay/wallet-core/internal/core/domain"
)

// WalletState is the locally displayed wallet view. It is replaced slice by
// slice after each refresh; a slice that failed to fetch keeps its previous
// value once it has loaded at least once.
type WalletState struct {
	Snapshot     domain.WalletSnapshot
	Stats        domain.WalletStats
	Transactions []domain.Transaction

	// Loading is true during a non-silent refresh; Refreshing during a
	// silent one (prior data stays visible). Processing is true while a
	// deposit or withdraw attempt is in flight.
	Loading    bool
	Refreshing bool
	Processing bool
}

// MutationResult is the outcome of a deposit or withdraw attempt that reached
// the network. Local validation failures are returned as errors instead and
// never produce a MutationResult.
type MutationResult struct {
	OK bool
	// Message is shown to the user: the server's text verbatim for
	// well-formed rejections, a generic retry suggestion for transport
	// failures, an optimistic confirmation on success.
	Message string
}

// WalletCacheService maintains the cached wallet view and orchestrates
// fetch/refresh/mutate cycles against the remote wallet service.
type WalletCacheService interface {
	// Refresh fetches balance, history and stats as three independent
	// requests. It never fails; each slice absorbs its own errors.
	Refresh(ctx context.Context, silent bool)

	Deposit(ctx context.Context, amount decimal.Decimal, paymentMethod string) (*MutationResult, error)
	Withdraw(ctx context.Context, amount decimal.Decimal, payoutDetails string) (*MutationResult, error)

	State() WalletState
	Subscribe(fn func(WalletState)) (cancel func())

	// Close tears the container down; in-flight results arriving after
	// Close are discarded.
	Close()
}
