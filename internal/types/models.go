package types

import (
	"time"

	"gorm.io/gorm"
)

// Trade statuses. Executed is terminal.
const (
	TradeStatusCreated  = "Created"
	TradeStatusExecuted = "Executed"
)

// Quote locks a rate and an amount for a fixed window. Rate and Amount are
// frozen at creation; later rate table changes never affect an outstanding
// quote. Consumed is the single-use claim flag set when a trade spends the
// quote.
type Quote struct {
	gorm.Model `json:"-"`
	QuoteID    string    `gorm:"uniqueIndex" json:"quote_id"`
	Pair       string    `json:"pair"`
	Rate       int64     `json:"rate"`
	Amount     int64     `json:"amount"`
	Consumed   bool      `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Trade is a directional execution record against a quote. TxVersion is nil
// until the trade executes and is then set exactly once. BatchID is nil until
// a settlement sweep pulls the trade (Buy only) into a batch.
type Trade struct {
	gorm.Model `json:"-"`
	TradeID    string    `gorm:"uniqueIndex" json:"trade_id"`
	QuoteID    string    `gorm:"index" json:"quote_id"`
	Direction  Direction `json:"direction"`
	Status     string    `json:"status"`
	TxVersion  *uint64   `json:"tx_version"`
	BatchID    *string   `gorm:"index" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SettlementBatch groups the buy trades swept by one settlement pass.
type SettlementBatch struct {
	gorm.Model `json:"-"`
	BatchID    string    `gorm:"uniqueIndex" json:"batch_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Debt is an outstanding fiat obligation accrued from executed buy trades,
// settled out-of-band. Confirmation stays empty until the debt is paid and is
// never overwritten afterwards.
type Debt struct {
	gorm.Model   `json:"-"`
	DebtID       string    `gorm:"uniqueIndex" json:"debt_id"`
	BatchID      string    `gorm:"index" json:"batch_id"`
	Currency     Currency  `json:"currency"`
	Amount       int64     `json:"amount"`
	Paid         bool      `json:"paid"`
	Confirmation string    `json:"confirmation,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
