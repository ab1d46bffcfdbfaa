// Package currencypkg provides common currency related functionality for apps.
package currencypkg

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Constants for all supported currencies.
const (
	RUB = "RUB"
	USD = "USD"
)

// SupportedCurrencies holds all the supported currencies.
var SupportedCurrencies = []string{
	RUB,
	USD,
}

// IsSupportedCurrency returns true if the currncy is supported.
func IsSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}

	return false
}

// Opposite returns the other one of the two supported currencies.
func Opposite(currency string) string {
	if currency == RUB {
		return USD
	}

	return RUB
}

// ValidCurrency validates the currency field of incoming requests.
var ValidCurrency validator.Func = func(fieldLevel validator.FieldLevel) bool {
	if currency, ok := fieldLevel.Field().Interface().(string); ok {
		return IsSupportedCurrency(currency)
	}

	return false
}

// RateTable holds the fixed conversion rate of each supported currency
// into its opposite currency.
type RateTable map[string]decimal.Decimal

// Rate returns the conversion rate from the given currency to its opposite.
func (t RateTable) Rate(currency string) decimal.Decimal {
	return t[currency]
}

// Convert returns the amount of the opposite currency that corresponds to
// the given amount of the given currency.
func (t RateTable) Convert(currency string, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(t[currency])
}
