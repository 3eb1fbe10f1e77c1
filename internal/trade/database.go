package trade

import (
	"errors"
	"fmt"
	"time"

	"github.com/ksred/liquidity-api/internal/types"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// ClaimQuote marks the quote consumed if and only if it is still unclaimed.
// The compare-and-swap is what keeps two concurrent trades from both spending
// one quote.
func (d *Database) ClaimQuote(quoteID string) error {
	result := d.db.Model(&types.Quote{}).
		Where("quote_id = ? AND consumed = ?", quoteID, false).
		Update("consumed", true)
	if result.Error != nil {
		return fmt.Errorf("%w: claim quote: %v", types.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: quote %s already consumed", types.ErrTrade, quoteID)
	}
	return nil
}

// ReleaseQuote returns a claimed quote after a failed execution so the caller
// can retry with a fresh trade.
func (d *Database) ReleaseQuote(quoteID string) error {
	result := d.db.Model(&types.Quote{}).
		Where("quote_id = ?", quoteID).
		Update("consumed", false)
	if result.Error != nil {
		return fmt.Errorf("%w: release quote: %v", types.ErrPersistence, result.Error)
	}
	return nil
}

func (d *Database) CreateTrade(trade *types.Trade) error {
	if err := d.db.Create(trade).Error; err != nil {
		return fmt.Errorf("%w: create trade: %v", types.ErrPersistence, err)
	}
	return nil
}

func (d *Database) GetTrade(tradeID string) (*types.Trade, error) {
	var trade types.Trade
	if err := d.db.Where("trade_id = ?", tradeID).First(&trade).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: trade %s", types.ErrNotFound, tradeID)
		}
		return nil, fmt.Errorf("%w: fetch trade: %v", types.ErrPersistence, err)
	}
	return &trade, nil
}

func (d *Database) GetQuote(quoteID string) (*types.Quote, error) {
	var quote types.Quote
	if err := d.db.Where("quote_id = ?", quoteID).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: quote %s", types.ErrNotFound, quoteID)
		}
		return nil, fmt.Errorf("%w: fetch quote: %v", types.ErrPersistence, err)
	}
	return &quote, nil
}

// MarkExecuted transitions the trade to Executed and records the transaction
// version. The status guard makes the transition happen exactly once; a second
// attempt is a defect, not a client error.
func (d *Database) MarkExecuted(tradeID string, txVersion uint64) error {
	result := d.db.Model(&types.Trade{}).
		Where("trade_id = ? AND status = ?", tradeID, types.TradeStatusCreated).
		Updates(map[string]interface{}{
			"status":     types.TradeStatusExecuted,
			"tx_version": txVersion,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("%w: mark trade executed: %v", types.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: trade %s already executed", types.ErrInvariantViolation, tradeID)
	}
	return nil
}
