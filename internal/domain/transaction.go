package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrTransactionNotFound indicates that no pending transaction with the
	// given id is addressed to the given account.
	ErrTransactionNotFound = errors.New("transaction not found or already resolved")
	// ErrSelfTransfer indicates an attempt to send money to oneself.
	ErrSelfTransfer = errors.New("cannot send to self")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates non-positive amount.
	ErrNegativeAmount = errors.New("amount must be greater than zero")
	// ErrReceiverInsufficientBalance indicates that the receiver lacks the
	// opposite currency funds required to settle the transaction.
	ErrReceiverInsufficientBalance = errors.New("receiver has insufficient balance")
)

// Status is the lifecycle state of a transaction.
type Status string

// Transaction statuses. A transaction is created PENDING and transitions
// exactly once to ACCEPTED or REJECTED.
const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Transaction holds a money transfer offer between two users. Every field
// except Status is immutable after creation.
type Transaction struct {
	ID        int64           `json:"id"`
	FromUID   int64           `json:"from_uid"`
	ToUID     int64           `json:"to_uid"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"` // must be positive
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateTransactionParams is the input data to create a transaction.
type CreateTransactionParams struct {
	FromUID  int64           `json:"from_uid"`
	ToUID    int64           `json:"to_uid"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// ResolveTxResult is the result of resolving a transaction.
type ResolveTxResult struct {
	Transaction     Transaction `json:"transaction"`
	SenderBalance   Balance     `json:"sender_balance"`
	ReceiverBalance Balance     `json:"receiver_balance"`
}
