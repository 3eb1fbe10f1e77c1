package database

import (
	"fmt"

	"github.com/ksred/liquidity-api/internal/database/migrations"
	"github.com/ksred/liquidity-api/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase initializes and returns a new GORM DB connection
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate schemas
	err = db.AutoMigrate(
		&types.Quote{},
		&types.Trade{},
		&types.SettlementBatch{},
		&types.Debt{},
	)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := migrations.AddSettlementIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
