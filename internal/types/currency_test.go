package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePair(t *testing.T) {
	pair, err := ParsePair("XUS_USD")
	require.NoError(t, err)
	require.Equal(t, XUS, pair.Base)
	require.Equal(t, USD, pair.Quote)
	require.Equal(t, "XUS_USD", pair.String())

	for _, bad := range []string{"", "XUS", "XUS_", "_USD", "XUS-USD"} {
		_, err := ParsePair(bad)
		require.ErrorIs(t, err, ErrUnsupportedPair, "input %q", bad)
	}
}

func TestFiatCurrency(t *testing.T) {
	require.Equal(t, USD, CurrencyPair{Base: XUS, Quote: USD}.FiatCurrency())
	require.Equal(t, EUR, CurrencyPair{Base: EUR, Quote: XUS}.FiatCurrency())
}

func TestRateConvert(t *testing.T) {
	tests := []struct {
		name   string
		rate   int64
		amount int64
		want   int64
	}{
		{"identity rate", 1_000_000, 5_000_000, 5_000_000},
		{"sub-unit rate", 926_000, 1_000_000, 926_000},
		{"large rate", 107_500_000, 2_000_000, 215_000_000},
		{"truncates toward zero", 926_000, 3, 2},
		{"large amount does not overflow", 107_500_000, 1_000_000_000_000, 107_500_000_000_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rate{Pair: CurrencyPair{Base: XUS, Quote: USD}, Rate: tt.rate}
			require.Equal(t, tt.want, r.Convert(tt.amount))
		})
	}
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"Buy", "buy", "BUY"} {
		d, err := ParseDirection(s)
		require.NoError(t, err)
		require.Equal(t, DirectionBuy, d)
	}

	d, err := ParseDirection("sell")
	require.NoError(t, err)
	require.Equal(t, DirectionSell, d)

	_, err = ParseDirection("short")
	require.Error(t, err)
}

func TestCurrencyPairJSON(t *testing.T) {
	pair := CurrencyPair{Base: XUS, Quote: EUR}

	data, err := json.Marshal(pair)
	require.NoError(t, err)
	require.Equal(t, `"XUS_EUR"`, string(data))

	var decoded CurrencyPair
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, pair, decoded)

	require.Error(t, json.Unmarshal([]byte(`"nonsense"`), &decoded))
}
