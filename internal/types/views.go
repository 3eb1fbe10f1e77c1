package types

import "time"

// QuoteData is the caller-facing view of a quote, returned in full so the
// locked rate is visible for confirmation before trading.
type QuoteData struct {
	QuoteID   string    `json:"quote_id"`
	Rate      Rate      `json:"rate"`
	ExpiresAt time.Time `json:"expires_at"`
	Amount    int64     `json:"amount"`
}

// TradeData is the composed read view of a trade joined with its quote.
type TradeData struct {
	TradeID   string       `json:"trade_id"`
	Direction Direction    `json:"direction"`
	Pair      CurrencyPair `json:"pair"`
	Amount    int64        `json:"amount"`
	Quote     QuoteData    `json:"quote"`
	Status    string       `json:"status"`
	TxVersion *uint64      `json:"tx_version"`
}

// DebtData is the settlement view of an outstanding fiat obligation.
type DebtData struct {
	DebtID   string   `json:"debt_id"`
	Currency Currency `json:"currency"`
	Amount   int64    `json:"amount"`
}

// LPDetails are the provider's settlement coordinates. The sub-address is
// freshly generated on every call; it is metadata for the counterparty's next
// deposit, not a persisted identity.
type LPDetails struct {
	SubAddress string `json:"sub_address"`
	Address    string `json:"address"`
	IBAN       string `json:"iban_number"`
}
