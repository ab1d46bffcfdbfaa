package currencypkg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedCurrency(t *testing.T) {
	require.True(t, IsSupportedCurrency(RUB))
	require.True(t, IsSupportedCurrency(USD))
	require.False(t, IsSupportedCurrency("EUR"))
	require.False(t, IsSupportedCurrency(""))
}

func TestOpposite(t *testing.T) {
	require.Equal(t, USD, Opposite(RUB))
	require.Equal(t, RUB, Opposite(USD))
}

func TestRateTable(t *testing.T) {
	rates := RateTable{
		USD: decimal.NewFromInt(100),
		RUB: decimal.NewFromFloat(0.01),
	}

	require.True(t, rates.Rate(USD).Equal(decimal.NewFromInt(100)))

	got := rates.Convert(USD, decimal.NewFromInt(20))
	require.True(t, got.Equal(decimal.NewFromInt(2000)), "Convert(USD, 20) = %s, want 2000", got)

	got = rates.Convert(RUB, decimal.NewFromInt(2000))
	require.True(t, got.Equal(decimal.NewFromInt(20)), "Convert(RUB, 2000) = %s, want 20", got)
}
