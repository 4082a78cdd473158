package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/arenaplay/wallet-core/internal/core/domain"
	"github.com/arenaplay/wallet-core/internal/core/ports"
)

// WalletHandler exposes the cached wallet view and its mutations.
type WalletHandler struct {
	wallet ports.WalletCacheService
}

func NewWalletHandler(wallet ports.WalletCacheService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

// State returns the current cached wallet view without fetching.
//
// @Summary      Cached wallet state
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  walletResponse
// @Router       /wallet [get]
func (h *WalletHandler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, toWalletResponse(h.wallet.State()))
}

// Refresh re-fetches balance, history and stats, then returns the new view.
// Partial backend failures still produce a 200: each slice absorbs its own
// errors.
//
// @Summary      Refresh the wallet view
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh options"
// @Success      200   {object}  walletResponse
// @Router       /wallet/refresh [post]
func (h *WalletHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	h.wallet.Refresh(c.Request().Context(), req.Silent)
	return c.JSON(http.StatusOK, toWalletResponse(h.wallet.State()))
}

// Transactions returns the cached transaction list in server order.
//
// @Summary      Cached transaction history
// @Tags         wallet
// @Produce      json
// @Success      200  {array}  transactionView
// @Router       /wallet/transactions [get]
func (h *WalletHandler) Transactions(c echo.Context) error {
	state := h.wallet.State()
	txs := make([]transactionView, 0, len(state.Transactions))
	for _, t := range state.Transactions {
		txs = append(txs, toTransactionView(t))
	}
	return c.JSON(http.StatusOK, txs)
}

// Deposit submits a wallet topup.
//
// @Summary      Add money
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        body  body      depositRequest  true  "Topup amount"
// @Success      200   {object}  mutationResponse
// @Failure      422   {object}  errorResponse
// @Router       /wallet/deposit [post]
func (h *WalletHandler) Deposit(c echo.Context) error {
	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return domain.ErrAmountInvalid
	}

	res, err := h.wallet.Deposit(c.Request().Context(), amount, req.PaymentMethod)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mutationResponse{Success: res.OK, Message: res.Message})
}

// Withdraw submits a payout request.
//
// @Summary      Withdraw money
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        body  body      withdrawRequest  true  "Withdrawal amount"
// @Success      200   {object}  mutationResponse
// @Failure      422   {object}  errorResponse
// @Router       /wallet/withdraw [post]
func (h *WalletHandler) Withdraw(c echo.Context) error {
	var req withdrawRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return domain.ErrAmountInvalid
	}

	res, err := h.wallet.Withdraw(c.Request().Context(), amount, req.PayoutDetails)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mutationResponse{Success: res.OK, Message: res.Message})
}
