package fx

import (
	"fmt"

	"github.com/ksred/liquidity-api/internal/types"
)

// fixedRates is the provider's conversion table, scaled by types.RateScale and
// keyed by the canonical ordered pair. Entries exist per direction; XUS_USD
// and USD_XUS are unrelated keys.
var fixedRates = map[string]int64{
	"XUS_EUR": 926000,
	"XUS_USD": 1000000,
	"EUR_XUS": 1080000,
	"XUS_JPY": 107500000,
	"XUS_CHF": 980000,
	"GBP_XUS": 1230000,
	"XUS_CAD": 1410000,
	"AUD_XUS": 640000,
	"NZD_XUS": 600000,
}

// GetRate looks up the fixed rate for an ordered currency pair. The lookup is
// deterministic and side-effect free; unknown pairs fail without inversion.
func GetRate(pair types.CurrencyPair) (types.Rate, error) {
	rate, ok := fixedRates[pair.String()]
	if !ok {
		return types.Rate{}, fmt.Errorf("%w: %s", types.ErrUnsupportedPair, pair)
	}
	return types.Rate{Pair: pair, Rate: rate}, nil
}

// SupportedPairs returns the canonical keys of the rate table.
func SupportedPairs() []string {
	pairs := make([]string, 0, len(fixedRates))
	for pair := range fixedRates {
		pairs = append(pairs, pair)
	}
	return pairs
}
