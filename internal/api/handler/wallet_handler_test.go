package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/arenaplay/wallet-core/internal/core/domain"
	"github.com/arenaplay/wallet-core/internal/core/ports"
)

type stubWalletCache struct {
	state      ports.WalletState
	refreshed  []bool
	depositFn  func(ctx context.Context, amount decimal.Decimal, paymentMethod string) (*ports.MutationResult, error)
	withdrawFn func(ctx context.Context, amount decimal.Decimal, payoutDetails string) (*ports.MutationResult, error)
}

func (s *stubWalletCache) Refresh(ctx context.Context, silent bool) {
	s.refreshed = append(s.refreshed, silent)
}

func (s *stubWalletCache) Deposit(ctx context.Context, amount decimal.Decimal, paymentMethod string) (*ports.MutationResult, error) {
	return s.depositFn(ctx, amount, paymentMethod)
}

func (s *stubWalletCache) Withdraw(ctx context.Context, amount decimal.Decimal, payoutDetails string) (*ports.MutationResult, error) {
	return s.withdrawFn(ctx, amount, payoutDetails)
}

func (s *stubWalletCache) State() ports.WalletState { return s.state }

func (s *stubWalletCache) Subscribe(fn func(ports.WalletState)) (cancel func()) {
	return func() {}
}

func (s *stubWalletCache) Close() {}

func newWalletContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWalletHandler_Deposit_Success(t *testing.T) {
	stub := &stubWalletCache{
		depositFn: func(ctx context.Context, amount decimal.Decimal, paymentMethod string) (*ports.MutationResult, error) {
			if !amount.Equal(decimal.NewFromInt(100)) {
				t.Fatalf("unexpected amount: %s", amount)
			}
			if paymentMethod != "card" {
				t.Fatalf("unexpected payment method: %q", paymentMethod)
			}
			return &ports.MutationResult{OK: true, Message: "100.00 added to your wallet"}, nil
		},
	}
	handler := NewWalletHandler(stub)

	c, rec := newWalletContext(t, http.MethodPost, "/wallet/deposit", `{"amount":"100","payment_method":"card"}`)
	if err := handler.Deposit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp mutationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Message != "100.00 added to your wallet" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWalletHandler_Deposit_UnparsableAmount(t *testing.T) {
	handler := NewWalletHandler(&stubWalletCache{})

	c, _ := newWalletContext(t, http.MethodPost, "/wallet/deposit", `{"amount":"ten"}`)
	err := handler.Deposit(c)
	if !errors.Is(err, domain.ErrAmountInvalid) {
		t.Fatalf("expected ErrAmountInvalid, got %v", err)
	}
}

func TestWalletHandler_Withdraw_ValidationError(t *testing.T) {
	handler := NewWalletHandler(&stubWalletCache{})

	c, _ := newWalletContext(t, http.MethodPost, "/wallet/withdraw", `{"payout_details":"bank"}`)
	err := handler.Withdraw(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestWalletHandler_Withdraw_DomainErrorPassedThrough(t *testing.T) {
	stub := &stubWalletCache{
		withdrawFn: func(ctx context.Context, amount decimal.Decimal, payoutDetails string) (*ports.MutationResult, error) {
			return nil, domain.ErrInsufficientBalance
		},
	}
	handler := NewWalletHandler(stub)

	c, _ := newWalletContext(t, http.MethodPost, "/wallet/withdraw", `{"amount":"500"}`)
	err := handler.Withdraw(c)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestWalletHandler_Refresh_ForwardsSilentFlag(t *testing.T) {
	stub := &stubWalletCache{}
	handler := NewWalletHandler(stub)

	c, rec := newWalletContext(t, http.MethodPost, "/wallet/refresh", `{"silent":true}`)
	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.refreshed) != 1 || !stub.refreshed[0] {
		t.Fatalf("expected one silent refresh, got %v", stub.refreshed)
	}
}

func TestWalletHandler_State_MapsDomainPresentation(t *testing.T) {
	stub := &stubWalletCache{
		state: ports.WalletState{
			Snapshot: domain.WalletSnapshot{Balance: decimal.NewFromInt(250)},
			Transactions: []domain.Transaction{
				{ID: "tx_1", Kind: domain.KindWithdraw, Amount: decimal.NewFromInt(50), Status: domain.StatusCompleted},
			},
		},
	}
	handler := NewWalletHandler(stub)

	c, rec := newWalletContext(t, http.MethodGet, "/wallet", "")
	if err := handler.State(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp walletResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Balance != "250.00" {
		t.Fatalf("expected balance 250.00, got %s", resp.Balance)
	}
	if len(resp.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(resp.Transactions))
	}
	tx := resp.Transactions[0]
	if tx.SignedAmount != "-50.00" {
		t.Fatalf("expected signed amount -50.00, got %s", tx.SignedAmount)
	}
	if tx.Icon == "" || tx.Color == "" {
		t.Fatalf("expected presentation fields, got %+v", tx)
	}
}
