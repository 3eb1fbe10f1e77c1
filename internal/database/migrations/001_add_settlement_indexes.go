package migrations

import (
	"gorm.io/gorm"
)

// AddSettlementIndexes creates the composite indexes the settlement sweep and
// debt listing rely on.
func AddSettlementIndexes(db *gorm.DB) error {
	// Using raw SQL for index creation to have more control over index types
	indexes := []string{
		// Composite index for the sweep over executed, unbatched buy trades
		`CREATE INDEX IF NOT EXISTS idx_trades_sweep
		 ON trades(direction, status, batch_id)`,

		// Index for the oldest-first unsettled debt listing
		`CREATE INDEX IF NOT EXISTS idx_debts_paid_created_at
		 ON debts(paid, created_at)`,

		// Index for quote claims by consumption state
		`CREATE INDEX IF NOT EXISTS idx_quotes_consumed
		 ON quotes(quote_id, consumed)`,
	}

	// Execute each index creation
	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return err
		}
	}

	return nil
}
