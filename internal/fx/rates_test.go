package fx

import (
	"testing"

	"github.com/ksred/liquidity-api/internal/types"
	"github.com/stretchr/testify/require"
)

func TestGetRate(t *testing.T) {
	rate, err := GetRate(types.CurrencyPair{Base: types.XUS, Quote: types.USD})
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000), rate.Rate)
	require.Equal(t, "XUS_USD", rate.Pair.String())
}

func TestGetRateNoInversion(t *testing.T) {
	// EUR_XUS is listed, so the inverse direction must not resolve through it.
	_, err := GetRate(types.CurrencyPair{Base: types.XUS, Quote: types.GBP})
	require.ErrorIs(t, err, types.ErrUnsupportedPair)

	_, err = GetRate(types.CurrencyPair{Base: types.USD, Quote: types.XUS})
	require.ErrorIs(t, err, types.ErrUnsupportedPair)
}

func TestSupportedPairs(t *testing.T) {
	pairs := SupportedPairs()
	require.Len(t, pairs, 9)
	require.Contains(t, pairs, "XUS_JPY")
	require.Contains(t, pairs, "NZD_XUS")
}
