package types

import (
	"fmt"
	"math/big"
	"strings"
)

// Currency is a currency code supported by the provider. XUS settles on-chain;
// everything else settles through bank transfer.
type Currency string

const (
	XUS Currency = "XUS"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CHF Currency = "CHF"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	NZD Currency = "NZD"
)

// IsCoin reports whether the currency is the blockchain-native coin.
func (c Currency) IsCoin() bool {
	return c == XUS
}

// CurrencyPair is an ordered (base, quote) pair. Direction matters: XUS_USD
// and USD_XUS are distinct pairs with distinct rates, and no automatic
// inversion is ever applied.
type CurrencyPair struct {
	Base  Currency
	Quote Currency
}

// String returns the canonical base_quote form used as storage and lookup key.
func (p CurrencyPair) String() string {
	return string(p.Base) + "_" + string(p.Quote)
}

// FiatCurrency returns the bank-settled side of the pair.
func (p CurrencyPair) FiatCurrency() Currency {
	if p.Base.IsCoin() {
		return p.Quote
	}
	return p.Base
}

// ParsePair parses the canonical base_quote form.
func ParsePair(s string) (CurrencyPair, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return CurrencyPair{}, fmt.Errorf("%w: malformed pair %q", ErrUnsupportedPair, s)
	}
	return CurrencyPair{Base: Currency(parts[0]), Quote: Currency(parts[1])}, nil
}

// RateScale is the fixed-point denominator for all rates and prices. A stored
// rate of 1_000_000 means one base unit buys exactly one quote unit. Rates and
// amounts are integers throughout; money never touches floating point.
const RateScale = 1_000_000

// Rate is the price of one base unit in quote units, scaled by RateScale.
type Rate struct {
	Pair CurrencyPair `json:"pair"`
	Rate int64        `json:"rate"`
}

// Convert applies the rate to an amount of base currency in smallest units,
// returning the equivalent amount of quote currency.
func (r Rate) Convert(amount int64) int64 {
	v := new(big.Int).Mul(big.NewInt(amount), big.NewInt(r.Rate))
	return v.Div(v, big.NewInt(RateScale)).Int64()
}

// MarshalJSON renders the pair in its canonical string form.
func (p CurrencyPair) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON parses the canonical string form.
func (p *CurrencyPair) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParsePair(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Direction is the side of a trade from the counterparty's point of view:
// on a Buy the counterparty acquires the base asset from the provider, on a
// Sell it delivers the base asset to the provider.
type Direction string

const (
	DirectionBuy  Direction = "Buy"
	DirectionSell Direction = "Sell"
)

// ParseDirection parses a direction string case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "buy":
		return DirectionBuy, nil
	case "sell":
		return DirectionSell, nil
	default:
		return "", fmt.Errorf("direction must be either Buy or Sell, got %q", s)
	}
}
