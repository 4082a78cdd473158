package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/arenaplay/wallet-core/internal/api/metrics"
	"github.com/arenaplay/wallet-core/internal/core/domain"
	"github.com/arenaplay/wallet-core/internal/core/ports"
)

// Mutation thresholds. The server remains the final authority; these only
// stop requests that would be rejected anyway.
var (
	minDeposit  = decimal.NewFromInt(10)
	maxDeposit  = decimal.NewFromInt(10000)
	minWithdraw = decimal.NewFromInt(50)
)

// transportFailureMessage is shown when a mutation never produced a
// well-formed response. Deliberately generic: the real cause is in the logs.
const transportFailureMessage = "Something went wrong. Please check your connection and try again."

// WalletCache owns the locally displayed wallet snapshot and orchestrates
// fetch/refresh/mutate cycles. The server is the sole source of truth; the
// cache is a best-effort, always-overwritable view.
type WalletCache struct {
	wallet ports.WalletAPI
	users  ports.UserAPI
	log    zerolog.Logger

	mu    sync.Mutex
	state ports.WalletState
	// loaded flags track whether a slice has ever been populated. A slice
	// that fails before its first load falls back to a zero value; after
	// that, failures keep the previous data on screen.
	balanceLoaded bool
	historyLoaded bool
	statsLoaded   bool
	closed        bool

	updates *notifier[ports.WalletState]
}

func NewWalletCache(wallet ports.WalletAPI, users ports.UserAPI, log zerolog.Logger) *WalletCache {
	return &WalletCache{
		wallet:  wallet,
		users:   users,
		log:     log,
		updates: newNotifier[ports.WalletState](),
	}
}

// Refresh fetches balance, transaction history and tournament stats as three
// concurrent, independent requests. One failing source never blanks the data
// another source delivered. Refresh itself never fails; overlapping calls are
// tolerated and the last write wins, which is safe for a full-replace cache.
func (c *WalletCache) Refresh(ctx context.Context, silent bool) {
	mode := "initial"
	if silent {
		mode = "silent"
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if silent {
		c.state.Refreshing = true
	} else {
		c.state.Loading = true
	}
	c.publishLocked()
	c.mu.Unlock()

	metrics.RefreshesTotal.WithLabelValues(mode).Inc()
	start := time.Now()

	var (
		snapshot *domain.WalletSnapshot
		history  []domain.Transaction
		stats    *domain.WalletStats

		snapshotErr error
		historyErr  error
		statsErr    error
	)

	// Errors are captured per slice, never returned: a failed fetch must
	// not cancel its siblings.
	var g errgroup.Group
	g.Go(func() error {
		snapshot, snapshotErr = c.wallet.Balance(ctx)
		return nil
	})
	g.Go(func() error {
		history, historyErr = c.wallet.History(ctx)
		return nil
	})
	g.Go(func() error {
		stats, statsErr = c.users.WalletStats(ctx)
		return nil
	})
	_ = g.Wait()

	metrics.RefreshDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		// Torn down while the fetches were in flight; discard results.
		return
	}

	if snapshotErr != nil {
		metrics.RefreshSliceFailuresTotal.WithLabelValues("balance").Inc()
		c.log.Error().Err(snapshotErr).Msg("balance fetch failed")
		if !c.balanceLoaded {
			c.state.Snapshot = domain.WalletSnapshot{}
		}
	} else {
		c.state.Snapshot = *snapshot
		c.balanceLoaded = true
	}

	if historyErr != nil {
		metrics.RefreshSliceFailuresTotal.WithLabelValues("history").Inc()
		c.log.Error().Err(historyErr).Msg("history fetch failed")
		if !c.historyLoaded {
			c.state.Transactions = []domain.Transaction{}
		}
	} else {
		// Full replacement, never merged — server order preserved.
		c.state.Transactions = history
		c.historyLoaded = true
	}

	if statsErr != nil {
		metrics.RefreshSliceFailuresTotal.WithLabelValues("stats").Inc()
		c.log.Error().Err(statsErr).Msg("stats fetch failed")
		if !c.statsLoaded {
			c.state.Stats = domain.WalletStats{}
		}
	} else {
		c.state.Stats = *stats
		c.statsLoaded = true
	}

	c.state.Loading = false
	c.state.Refreshing = false
	c.publishLocked()
}

// Deposit validates amount locally, submits a topup tagged with a fresh
// idempotency key, and reconciles the authoritative balance with a silent
// refresh. The success message is optimistic: it reports the requested
// amount, not the refreshed balance.
func (c *WalletCache) Deposit(ctx context.Context, amount decimal.Decimal, paymentMethod string) (*ports.MutationResult, error) {
	if err := validateDeposit(amount); err != nil {
		metrics.MutationsTotal.WithLabelValues("deposit", "rejected_local").Inc()
		return nil, err
	}
	if paymentMethod == "" {
		paymentMethod = "card"
	}

	release, err := c.beginMutation()
	if err != nil {
		return nil, err
	}
	defer release()

	ack, err := c.wallet.Topup(ctx, ports.TopupInput{
		Amount:         amount,
		PaymentMethod:  paymentMethod,
		IdempotencyKey: newIdempotencyKey("topup"),
	})
	if res := c.resolveMutation("deposit", ack, err); res != nil {
		return res, nil
	}

	c.Refresh(ctx, true)
	metrics.MutationsTotal.WithLabelValues("deposit", "accepted").Inc()
	return &ports.MutationResult{
		OK:      true,
		Message: fmt.Sprintf("%s added to your wallet", amount.StringFixed(2)),
	}, nil
}

// Withdraw validates amount locally — including against the currently
// displayed balance, a client-side courtesy check only — then submits the
// payout request. Same reconcile contract as Deposit.
func (c *WalletCache) Withdraw(ctx context.Context, amount decimal.Decimal, payoutDetails string) (*ports.MutationResult, error) {
	if err := c.validateWithdraw(amount); err != nil {
		metrics.MutationsTotal.WithLabelValues("withdraw", "rejected_local").Inc()
		return nil, err
	}

	release, err := c.beginMutation()
	if err != nil {
		return nil, err
	}
	defer release()

	ack, err := c.wallet.Withdraw(ctx, ports.WithdrawInput{
		Amount:         amount,
		PayoutDetails:  payoutDetails,
		IdempotencyKey: newIdempotencyKey("payout"),
	})
	if res := c.resolveMutation("withdraw", ack, err); res != nil {
		return res, nil
	}

	c.Refresh(ctx, true)
	metrics.MutationsTotal.WithLabelValues("withdraw", "accepted").Inc()
	return &ports.MutationResult{
		OK:      true,
		Message: fmt.Sprintf("Withdrawal of %s requested", amount.StringFixed(2)),
	}, nil
}

func validateDeposit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return domain.ErrAmountInvalid
	}
	if amount.LessThan(minDeposit) {
		return domain.ErrAmountBelowMinimum
	}
	if amount.GreaterThan(maxDeposit) {
		return domain.ErrAmountAboveMaximum
	}
	return nil
}

func (c *WalletCache) validateWithdraw(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return domain.ErrAmountInvalid
	}
	if amount.LessThan(minWithdraw) {
		return domain.ErrAmountBelowMinimum
	}
	c.mu.Lock()
	balance := c.state.Snapshot.Balance
	c.mu.Unlock()
	if amount.GreaterThan(balance) {
		return domain.ErrInsufficientBalance
	}
	return nil
}

// beginMutation sets the processing flag, serialising one mutation attempt at
// a time. The returned release clears it.
func (c *WalletCache) beginMutation() (release func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrSessionClosed
	}
	if c.state.Processing {
		return nil, domain.ErrMutationInFlight
	}
	c.state.Processing = true
	c.publishLocked()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		c.state.Processing = false
		c.publishLocked()
	}, nil
}

// resolveMutation maps a mutation response onto a failure result, or nil when
// the mutation succeeded. Well-formed rejections surface the server message
// verbatim; transport failures get a generic retry suggestion.
func (c *WalletCache) resolveMutation(kind string, ack *ports.MutationAck, err error) *ports.MutationResult {
	if err != nil {
		var remote *domain.RemoteError
		if errors.As(err, &remote) {
			metrics.MutationsTotal.WithLabelValues(kind, "rejected_remote").Inc()
			return &ports.MutationResult{OK: false, Message: remote.Message}
		}
		metrics.MutationsTotal.WithLabelValues(kind, "transport_error").Inc()
		c.log.Error().Err(err).Str("kind", kind).Msg("wallet mutation transport failure")
		return &ports.MutationResult{OK: false, Message: transportFailureMessage}
	}
	if !ack.Success {
		metrics.MutationsTotal.WithLabelValues(kind, "rejected_remote").Inc()
		msg := ack.Message
		if msg == "" {
			msg = transportFailureMessage
		}
		return &ports.MutationResult{OK: false, Message: msg}
	}
	return nil
}

// newIdempotencyKey builds a locally-unique key distinguishing this
// submission from any retry of it.
func newIdempotencyKey(prefix string) string {
	return fmt.Sprintf("%s_%s_%d", prefix, time.Now().UTC().Format("20060102150405"), uuid.New().ID())
}

// State returns a copy of the current wallet state.
func (c *WalletCache) State() ports.WalletState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyStateLocked()
}

// Subscribe registers an observer for wallet state changes.
func (c *WalletCache) Subscribe(fn func(ports.WalletState)) (cancel func()) {
	return c.updates.subscribe(fn)
}

// Close tears the container down. Results of in-flight fetches arriving
// afterwards are discarded rather than written to disposed state.
func (c *WalletCache) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.updates.close()
}

func (c *WalletCache) publishLocked() {
	c.updates.publish(c.copyStateLocked())
}

func (c *WalletCache) copyStateLocked() ports.WalletState {
	s := c.state
	if s.Transactions != nil {
		s.Transactions = append([]domain.Transaction{}, s.Transactions...)
	}
	return s
}
