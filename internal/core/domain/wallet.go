package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a wallet transaction and determines the sign of
// its displayed delta.
type TransactionKind string

const (
	KindDeposit          TransactionKind = "deposit"
	KindWithdraw         TransactionKind = "withdraw"
	KindTournamentEntry  TransactionKind = "tournament_entry"
	KindTournamentReward TransactionKind = "tournament_reward"
	KindRefund           TransactionKind = "refund"
	KindOther            TransactionKind = "other"
)

// TransactionStatus is the server-reported settlement state.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// creditKinds are the kinds displayed as a positive delta. Everything else,
// including unrecognised kinds, is a debit.
var creditKinds = map[TransactionKind]struct{}{
	KindDeposit:          {},
	KindTournamentReward: {},
	KindRefund:           {},
}

// IsCredit reports whether k increases the displayed balance.
func (k TransactionKind) IsCredit() bool {
	_, ok := creditKinds[k]
	return ok
}

const (
	defaultIcon  = "receipt"
	defaultColor = "#9E9E9E"
)

var kindIcons = map[TransactionKind]string{
	KindDeposit:          "arrow-down-circle",
	KindWithdraw:         "arrow-up-circle",
	KindTournamentEntry:  "ticket",
	KindTournamentReward: "trophy",
	KindRefund:           "rotate-ccw",
}

var kindColors = map[TransactionKind]string{
	KindDeposit:          "#4CAF50",
	KindWithdraw:         "#F44336",
	KindTournamentEntry:  "#FF9800",
	KindTournamentReward: "#FFD700",
	KindRefund:           "#2196F3",
}

// DisplayIcon returns the icon name for k, falling back to a neutral icon for
// unrecognised kinds.
func (k TransactionKind) DisplayIcon() string {
	if icon, ok := kindIcons[k]; ok {
		return icon
	}
	return defaultIcon
}

// DisplayColor returns the accent colour for k, falling back to a neutral
// grey for unrecognised kinds.
func (k TransactionKind) DisplayColor() string {
	if color, ok := kindColors[k]; ok {
		return color
	}
	return defaultColor
}

// Transaction is a single wallet ledger entry as reported by the server.
// Amount is always non-negative; the sign is derived from Kind.
type Transaction struct {
	ID          string            `json:"id"`
	Kind        TransactionKind   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Status      TransactionStatus `json:"status"`
}

// SignedAmount returns the displayed delta: +Amount for credit kinds,
// -Amount for everything else.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind.IsCredit() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// WalletSnapshot is the server-authoritative balance view. It is only ever
// replaced wholesale after a fetch, never mutated field by field.
type WalletSnapshot struct {
	Balance        decimal.Decimal `json:"balance"`
	TotalDeposited decimal.Decimal `json:"total_deposited"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	TotalWinnings  decimal.Decimal `json:"total_winnings"`
}

// WalletStats are tournament-derived statistics sourced from the profile
// endpoint, on an independent refresh path from WalletSnapshot.
type WalletStats struct {
	TotalWinnings     decimal.Decimal `json:"total_winnings"`
	TournamentsJoined int             `json:"tournaments_joined"`
	TournamentsWon    int             `json:"tournaments_won"`
}
