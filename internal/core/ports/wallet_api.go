package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/arenaplay/wallet-core/internal/core/domain"
)

// TopupInput carries a deposit request to the wallet endpoint. The
// idempotency key lets the backend deduplicate retried submissions.
type TopupInput struct {
	Amount         decimal.Decimal
	PaymentMethod  string
	IdempotencyKey string
}

// WithdrawInput carries a payout request to the wallet endpoint.
type WithdrawInput struct {
	Amount         decimal.Decimal
	PayoutDetails  string
	IdempotencyKey string
}

// MutationAck is the backend's acknowledgement of an accepted mutation.
// Message, when present, is a server-composed confirmation.
type MutationAck struct {
	Success bool
	Message string
}

// WalletAPI is the remote wallet capability. Balance, History and the two
// mutations are independent endpoints; a failure of one says nothing about
// the others.
type WalletAPI interface {
	Balance(ctx context.Context) (*domain.WalletSnapshot, error)
	History(ctx context.Context) ([]domain.Transaction, error)
	Topup(ctx context.Context, in TopupInput) (*MutationAck, error)
	Withdraw(ctx context.Context, in WithdrawInput) (*MutationAck, error)
}
