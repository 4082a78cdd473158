package platform

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/arenaplay/wallet-core/internal/core/domain"
	"github.com/arenaplay/wallet-core/internal/core/ports"
)

// WalletClient implements ports.WalletAPI against the platform wallet
// endpoints.
type WalletClient struct {
	client *Client
}

func NewWalletClient(client *Client) *WalletClient {
	return &WalletClient{client: client}
}

func (w *WalletClient) Balance(ctx context.Context) (*domain.WalletSnapshot, error) {
	var snap domain.WalletSnapshot
	if _, err := w.client.do(ctx, http.MethodGet, "/wallet/balance", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (w *WalletClient) History(ctx context.Context) ([]domain.Transaction, error) {
	var payload struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	if _, err := w.client.do(ctx, http.MethodGet, "/wallet/transactions", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Transactions == nil {
		payload.Transactions = []domain.Transaction{}
	}
	return payload.Transactions, nil
}

type topupRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method"`
	IdempotencyKey string          `json:"idempotency_key"`
}

type withdrawRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	PayoutDetails  string          `json:"payout_details"`
	IdempotencyKey string          `json:"idempotency_key"`
}

func (w *WalletClient) Topup(ctx context.Context, in ports.TopupInput) (*ports.MutationAck, error) {
	msg, err := w.client.do(ctx, http.MethodPost, "/wallet/topup", topupRequest{
		Amount:         in.Amount,
		PaymentMethod:  in.PaymentMethod,
		IdempotencyKey: in.IdempotencyKey,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &ports.MutationAck{Success: true, Message: msg}, nil
}

func (w *WalletClient) Withdraw(ctx context.Context, in ports.WithdrawInput) (*ports.MutationAck, error) {
	msg, err := w.client.do(ctx, http.MethodPost, "/wallet/withdraw", withdrawRequest{
		Amount:         in.Amount,
		PayoutDetails:  in.PayoutDetails,
		IdempotencyKey: in.IdempotencyKey,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &ports.MutationAck{Success: true, Message: msg}, nil
}
