// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/currencypkg"
)

// RepoMem facilitates account repository layer logic.
//
// Balances are held in process memory. Single currency mutations are safe
// to call concurrently; multi-account consistency is the caller's concern.
type RepoMem struct {
	mu       sync.RWMutex
	balances map[int64]map[string]decimal.Decimal
}

// NewRepoMem returns account RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		balances: make(map[int64]map[string]decimal.Decimal),
	}
}

// Create creates the account with the given starting balance and then returns it.
func (r *RepoMem) Create(ctx context.Context, uid int64, starting domain.Balance) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.balances[uid]; ok {
		l.Error().Int64("uid", uid).Err(domain.ErrAccountAlreadyExists).Send()
		return domain.Balance{}, domain.ErrAccountAlreadyExists
	}

	r.balances[uid] = map[string]decimal.Decimal{
		currencypkg.RUB: starting.RUB,
		currencypkg.USD: starting.USD,
	}

	return starting, nil
}

// Get returns the balance of the account with the given uid.
func (r *RepoMem) Get(ctx context.Context, uid int64) (domain.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.balance(ctx, uid)
}

// Add increases the account's balance in the given currency and returns the
// changed balance. The amount must be positive.
func (r *RepoMem) Add(ctx context.Context, uid int64, currency string, amount decimal.Decimal) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	if !amount.IsPositive() {
		l.Error().Str("amount", amount.String()).Err(domain.ErrNegativeAmount).Send()
		return domain.Balance{}, domain.ErrNegativeAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.balances[uid]
	if !ok {
		l.Error().Int64("uid", uid).Err(domain.ErrAccountNotFound).Send()
		return domain.Balance{}, domain.ErrAccountNotFound
	}

	b[currency] = b[currency].Add(amount)

	return r.balance(ctx, uid)
}

// Sub decreases the account's balance in the given currency and returns the
// changed balance. Fails if the resulting balance would go negative.
func (r *RepoMem) Sub(ctx context.Context, uid int64, currency string, amount decimal.Decimal) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	if !amount.IsPositive() {
		l.Error().Str("amount", amount.String()).Err(domain.ErrNegativeAmount).Send()
		return domain.Balance{}, domain.ErrNegativeAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.balances[uid]
	if !ok {
		l.Error().Int64("uid", uid).Err(domain.ErrAccountNotFound).Send()
		return domain.Balance{}, domain.ErrAccountNotFound
	}

	next := b[currency].Sub(amount)
	if next.IsNegative() {
		return domain.Balance{}, domain.ErrInsufficientBalance
	}

	b[currency] = next

	return r.balance(ctx, uid)
}

// balance must be called with at least the read lock held.
func (r *RepoMem) balance(ctx context.Context, uid int64) (domain.Balance, error) {
	l := zerolog.Ctx(ctx)

	b, ok := r.balances[uid]
	if !ok {
		l.Error().Int64("uid", uid).Err(domain.ErrAccountNotFound).Send()
		return domain.Balance{}, domain.ErrAccountNotFound
	}

	return domain.Balance{
		RUB: b[currencypkg.RUB],
		USD: b[currencypkg.USD],
	}, nil
}
