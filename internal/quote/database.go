package quote

import (
	"errors"
	"fmt"

	"github.com/ksred/liquidity-api/internal/types"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateQuote(quote *types.Quote) error {
	if err := d.db.Create(quote).Error; err != nil {
		return fmt.Errorf("%w: create quote: %v", types.ErrPersistence, err)
	}
	return nil
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
