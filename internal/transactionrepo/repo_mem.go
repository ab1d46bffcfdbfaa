// Package transactionrepo manages repository layer of transactions.
//
// A transaction is stored once as a single authoritative record and indexed
// into the histories of both parties, so the sender and the receiver always
// observe the same status for a given id.
package transactionrepo

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-wallet/internal/domain"
)

// RepoMem facilitates transaction repository layer logic.
type RepoMem struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]*domain.Transaction
	history map[int64][]int64 // uid -> transaction ids in insertion order
}

// NewRepoMem returns transaction RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		nextID:  1,
		records: make(map[int64]*domain.Transaction),
		history: make(map[int64][]int64),
	}
}

// Append creates a PENDING transaction, adds it to the histories of both
// the sender and the receiver, and returns it. Ids are monotonic and unique
// across the store.
func (r *RepoMem) Append(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &domain.Transaction{
		ID:        r.nextID,
		FromUID:   arg.FromUID,
		ToUID:     arg.ToUID,
		Currency:  arg.Currency,
		Amount:    arg.Amount,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	r.nextID++

	r.records[tx.ID] = tx
	r.history[tx.FromUID] = append(r.history[tx.FromUID], tx.ID)
	r.history[tx.ToUID] = append(r.history[tx.ToUID], tx.ID)

	return *tx, nil
}

// FindPending returns the transaction with the given id only if it appears
// in the given account's history and its status is PENDING.
func (r *RepoMem) FindPending(ctx context.Context, uid, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.find(uid, id)
	if !ok || tx.Status != domain.StatusPending {
		l.Info().Int64("uid", uid).Int64("transaction_id", id).Err(domain.ErrTransactionNotFound).Send()
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return *tx, nil
}

// UpdateStatus overwrites the status of the transaction with the given id
// and returns the changed transaction. Fails with ErrTransactionNotFound if
// no record with that id exists in the given account's history.
func (r *RepoMem) UpdateStatus(ctx context.Context, uid, id int64, status domain.Status) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.find(uid, id)
	if !ok {
		l.Info().Int64("uid", uid).Int64("transaction_id", id).Err(domain.ErrTransactionNotFound).Send()
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	tx.Status = status

	return *tx, nil
}

// ListByAccount returns all transactions of the given account in insertion
// order, regardless of status.
func (r *RepoMem) ListByAccount(ctx context.Context, uid int64) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []domain.Transaction{}

	for _, id := range r.history[uid] {
		items = append(items, *r.records[id])
	}

	return items, nil
}

// find must be called with at least the read lock held.
func (r *RepoMem) find(uid, id int64) (*domain.Transaction, bool) {
	tx, ok := r.records[id]
	if !ok {
		return nil, false
	}

	if tx.FromUID != uid && tx.ToUID != uid {
		return nil, false
	}

	return tx, true
}
