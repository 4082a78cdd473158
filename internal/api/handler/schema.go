package handler

import (
	"time"

	"github.com/arenaplay/wallet-core/internal/core/domain"
	"github.com/arenaplay/wallet-core/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type registerRequest struct {
	Name            string `json:"name"             validate:"required"`
	Identifier      string `json:"identifier"       validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type profileUpdateRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Amounts travel as strings so the facade never rounds money through a
// float; parsing happens against decimal in the handler.
type depositRequest struct {
	Amount        string `json:"amount"         validate:"required"`
	PaymentMethod string `json:"payment_method"`
}

type withdrawRequest struct {
	Amount        string `json:"amount"         validate:"required"`
	PayoutDetails string `json:"payout_details"`
}

type refreshRequest struct {
	Silent bool `json:"silent"`
}

// --- Response types ---
// Response-only types owned by the transport layer, deliberately decoupled
// from the domain structs.

type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	User          *domain.Profile `json:"user,omitempty"`
	Role          string          `json:"role,omitempty"`
	Admin         bool            `json:"admin"`
	Loading       bool            `json:"loading"`
	TokenExpiry   *time.Time      `json:"token_expiry,omitempty"`
}

type transactionView struct {
	ID           string    `json:"id"`
	Kind         string    `json:"type"`
	Amount       string    `json:"amount"`
	SignedAmount string    `json:"signed_amount"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Status       string    `json:"status"`
	Icon         string    `json:"icon"`
	Color        string    `json:"color"`
}

type walletResponse struct {
	Balance           string            `json:"balance"`
	TotalDeposited    string            `json:"total_deposited"`
	TotalWithdrawn    string            `json:"total_withdrawn"`
	TotalWinnings     string            `json:"total_winnings"`
	TournamentsJoined int               `json:"tournaments_joined"`
	TournamentsWon    int               `json:"tournaments_won"`
	Transactions      []transactionView `json:"transactions"`
	Loading           bool              `json:"loading"`
	Refreshing        bool              `json:"refreshing"`
	Processing        bool              `json:"processing"`
}

type mutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toTransactionView(t domain.Transaction) transactionView {
	return transactionView{
		ID:           t.ID,
		Kind:         string(t.Kind),
		Amount:       t.Amount.StringFixed(2),
		SignedAmount: t.SignedAmount().StringFixed(2),
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
		Status:       string(t.Status),
		Icon:         t.Kind.DisplayIcon(),
		Color:        t.Kind.DisplayColor(),
	}
}

func toWalletResponse(s ports.WalletState) walletResponse {
	txs := make([]transactionView, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		txs = append(txs, toTransactionView(t))
	}
	return walletResponse{
		Balance:           s.Snapshot.Balance.StringFixed(2),
		TotalDeposited:    s.Snapshot.TotalDeposited.StringFixed(2),
		TotalWithdrawn:    s.Snapshot.TotalWithdrawn.StringFixed(2),
		TotalWinnings:     s.Snapshot.TotalWinnings.StringFixed(2),
		TournamentsJoined: s.Stats.TournamentsJoined,
		TournamentsWon:    s.Stats.TournamentsWon,
		Transactions:      txs,
		Loading:           s.Loading,
		Refreshing:        s.Refreshing,
		Processing:        s.Processing,
	}
}
