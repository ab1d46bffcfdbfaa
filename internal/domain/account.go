// Package domain provides defenitions of all entities.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-wallet/pkg/currencypkg"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the account for the given uid already exists.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Balance holds the amounts an account owns in each supported currency.
// Amounts are never negative.
type Balance struct {
	RUB decimal.Decimal `json:"RUB"`
	USD decimal.Decimal `json:"USD"`
}

// Amount returns the balance amount in the given currency.
func (b Balance) Amount(currency string) decimal.Decimal {
	if currency == currencypkg.RUB {
		return b.RUB
	}

	return b.USD
}
