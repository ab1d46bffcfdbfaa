// Package transactionservice manages business logic layer of transactions.
//
// It is the only place that mutates account balances and transaction
// statuses. Every operation runs as one critical section over the accounts
// it touches, so concurrent calls can never drive a balance negative or
// leave the two parties disagreeing about a transaction's status.
package transactionservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/currencypkg"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
)

// AccountRepo provides the balance store interface needed by the transaction
// service layer.
type AccountRepo interface {
	Get(ctx context.Context, uid int64) (domain.Balance, error)
	Add(ctx context.Context, uid int64, currency string, amount decimal.Decimal) (domain.Balance, error)
	Sub(ctx context.Context, uid int64, currency string, amount decimal.Decimal) (domain.Balance, error)
}

// LedgerRepo provides the transaction store interface needed by the
// transaction service layer.
type LedgerRepo interface {
	Append(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error)
	FindPending(ctx context.Context, uid, id int64) (domain.Transaction, error)
	UpdateStatus(ctx context.Context, uid, id int64, status domain.Status) (domain.Transaction, error)
	ListByAccount(ctx context.Context, uid int64) ([]domain.Transaction, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	accounts AccountRepo
	ledger   LedgerRepo
	rates    currencypkg.RateTable
	locks    *keyedLocks
}

// New returns transaction service struct to manage transaction bussines logic.
func New(ar AccountRepo, lr LedgerRepo, rates currencypkg.RateTable) *Service {
	return &Service{
		accounts: ar,
		ledger:   lr,
		rates:    rates,
		locks:    newKeyedLocks(),
	}
}

// Create validates the transfer request and appends a PENDING transaction
// visible to both parties. No balances are mutated; funds move only when
// the receiver accepts.
func (s *Service) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	unlock := s.locks.lock(arg.FromUID, arg.ToUID)
	defer unlock()

	senderBalance, err := s.accounts.Get(ctx, arg.FromUID)
	if err != nil {
		return domain.Transaction{}, err
	}

	if _, err = s.accounts.Get(ctx, arg.ToUID); err != nil {
		return domain.Transaction{}, err
	}

	if arg.FromUID == arg.ToUID {
		return domain.Transaction{}, domain.ErrSelfTransfer
	}

	if !arg.Amount.IsPositive() {
		return domain.Transaction{}, domain.ErrNegativeAmount
	}

	if senderBalance.Amount(arg.Currency).LessThan(arg.Amount) {
		return domain.Transaction{}, domain.ErrInsufficientBalance
	}

	return s.ledger.Append(ctx, arg)
}

// Resolve settles or rejects the pending transaction with the given id on
// behalf of the receiver.
//
// Acceptance moves funds in both currencies between the two parties: the
// receiver gets the transaction amount and pays the fixed-rate converted
// amount in the opposite currency back to the sender. If either side lacks
// the funds its debit requires, the transaction terminates as REJECTED.
func (s *Service) Resolve(ctx context.Context, transactionID, receiverUID int64, accept bool) (domain.ResolveTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.ResolveTxResult

	if _, err := s.accounts.Get(ctx, receiverUID); err != nil {
		return result, err
	}

	peek, err := s.findPendingForReceiver(ctx, transactionID, receiverUID)
	if err != nil {
		return result, err
	}

	unlock := s.locks.lock(peek.FromUID, receiverUID)
	defer unlock()

	// Re-read under the account locks; a concurrent resolve may have won.
	tx, err := s.findPendingForReceiver(ctx, transactionID, receiverUID)
	if err != nil {
		return result, err
	}

	if _, err = s.accounts.Get(ctx, tx.FromUID); err != nil {
		return result, err
	}

	if !accept {
		return s.finish(ctx, tx, domain.StatusRejected)
	}

	required := s.rates.Convert(tx.Currency, tx.Amount)
	opposite := currencypkg.Opposite(tx.Currency)

	senderBalance, err := s.accounts.Get(ctx, tx.FromUID)
	if err != nil {
		return result, err
	}

	receiverBalance, err := s.accounts.Get(ctx, tx.ToUID)
	if err != nil {
		return result, err
	}

	// Both debits are checked before any mutation so settlement either
	// applies all four balance changes or none.
	if receiverBalance.Amount(opposite).LessThan(required) {
		if _, err = s.ledger.UpdateStatus(ctx, tx.ToUID, tx.ID, domain.StatusRejected); err != nil {
			return result, err
		}

		return result, domain.ErrReceiverInsufficientBalance
	}

	if senderBalance.Amount(tx.Currency).LessThan(tx.Amount) {
		if _, err = s.ledger.UpdateStatus(ctx, tx.ToUID, tx.ID, domain.StatusRejected); err != nil {
			return result, err
		}

		return result, domain.ErrInsufficientBalance
	}

	mutations := []struct {
		apply    func(context.Context, int64, string, decimal.Decimal) (domain.Balance, error)
		uid      int64
		currency string
		amount   decimal.Decimal
	}{
		{s.accounts.Sub, tx.FromUID, tx.Currency, tx.Amount},
		{s.accounts.Add, tx.ToUID, tx.Currency, tx.Amount},
		{s.accounts.Sub, tx.ToUID, opposite, required},
		{s.accounts.Add, tx.FromUID, opposite, required},
	}

	for _, m := range mutations {
		if _, err = m.apply(ctx, m.uid, m.currency, m.amount); err != nil {
			// Unreachable after the checks above: the engine is the sole
			// balance mutator and holds both account locks.
			l.Error().Err(err).Int64("transaction_id", tx.ID).Msg("settlement mutation failed")
			return result, errorspkg.ErrInternal
		}
	}

	return s.finish(ctx, tx, domain.StatusAccepted)
}

// Balances returns the read-only balance projection of the given account.
func (s *Service) Balances(ctx context.Context, uid int64) (domain.Balance, error) {
	return s.accounts.Get(ctx, uid)
}

// History returns all transactions of the given account in insertion order.
func (s *Service) History(ctx context.Context, uid int64) ([]domain.Transaction, error) {
	if _, err := s.accounts.Get(ctx, uid); err != nil {
		return nil, err
	}

	return s.ledger.ListByAccount(ctx, uid)
}

// findPendingForReceiver returns the pending transaction only if it is
// addressed to the given receiver. The sender's own copy cannot be resolved.
func (s *Service) findPendingForReceiver(ctx context.Context, transactionID, receiverUID int64) (domain.Transaction, error) {
	tx, err := s.ledger.FindPending(ctx, receiverUID, transactionID)
	if err != nil {
		return domain.Transaction{}, err
	}

	if tx.ToUID != receiverUID {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return tx, nil
}

// finish writes the terminal status and assembles the resolution result.
func (s *Service) finish(ctx context.Context, tx domain.Transaction, status domain.Status) (domain.ResolveTxResult, error) {
	var result domain.ResolveTxResult

	updated, err := s.ledger.UpdateStatus(ctx, tx.ToUID, tx.ID, status)
	if err != nil {
		return result, err
	}

	senderBalance, err := s.accounts.Get(ctx, tx.FromUID)
	if err != nil {
		return result, err
	}

	receiverBalance, err := s.accounts.Get(ctx, tx.ToUID)
	if err != nil {
		return result, err
	}

	result = domain.ResolveTxResult{
		Transaction:     updated,
		SenderBalance:   senderBalance,
		ReceiverBalance: receiverBalance,
	}

	return result, nil
}
