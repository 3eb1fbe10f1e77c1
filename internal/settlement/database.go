package settlement

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ksred/liquidity-api/internal/types"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// SweepUnbatchedBuyTrades atomically opens a settlement batch over every
// executed buy trade not yet assigned to one, creating one debt per fiat
// currency with the amounts summed. Returns the new batch id, or "" when
// there was nothing to sweep.
func (d *Database) SweepUnbatchedBuyTrades() (string, error) {
	batchID := "BATCH_" + uuid.New().String()

	err := d.db.Transaction(func(tx *gorm.DB) error {
		var trades []types.Trade
		if err := tx.
			Where("direction = ? AND status = ? AND batch_id IS NULL",
				types.DirectionBuy, types.TradeStatusExecuted).
			Order("created_at ASC").
			Find(&trades).Error; err != nil {
			return err
		}
		if len(trades) == 0 {
			batchID = ""
			return nil
		}

		totals := make(map[types.Currency]int64)
		tradeIDs := make([]string, 0, len(trades))
		for _, trade := range trades {
			var quote types.Quote
			if err := tx.Where("quote_id = ?", trade.QuoteID).First(&quote).Error; err != nil {
				return err
			}
			pair, err := types.ParsePair(quote.Pair)
			if err != nil {
				return err
			}
			currency, amount := fiatLeg(pair, quote.Rate, quote.Amount)
			totals[currency] += amount
			tradeIDs = append(tradeIDs, trade.TradeID)
		}

		now := time.Now()
		if err := tx.Create(&types.SettlementBatch{BatchID: batchID, CreatedAt: now}).Error; err != nil {
			return err
		}
		for currency, amount := range totals {
			debt := &types.Debt{
				DebtID:    "DEBT_" + uuid.New().String(),
				BatchID:   batchID,
				Currency:  currency,
				Amount:    amount,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(debt).Error; err != nil {
				return err
			}
		}

		return tx.Model(&types.Trade{}).
			Where("trade_id IN ?", tradeIDs).
			Update("batch_id", batchID).Error
	})
	if err != nil {
		return "", fmt.Errorf("%w: settlement sweep: %v", types.ErrPersistence, err)
	}
	return batchID, nil
}

// fiatLeg resolves which side of the pair the provider owes in fiat, and the
// owed amount in that currency's smallest units. When the fiat is the quote
// currency the coin amount converts through the frozen quote rate; when the
// fiat is the base, the trade amount is already denominated in it.
func fiatLeg(pair types.CurrencyPair, rate, amount int64) (types.Currency, int64) {
	if pair.Base.IsCoin() {
		return pair.Quote, types.Rate{Pair: pair, Rate: rate}.Convert(amount)
	}
	return pair.Base, amount
}

// GetUnsettledDebts returns every unpaid debt across all batches, oldest
// first.
func (d *Database) GetUnsettledDebts() ([]types.Debt, error) {
	var debts []types.Debt
	if err := d.db.Where("paid = ?", false).Order("created_at ASC").Find(&debts).Error; err != nil {
		return nil, fmt.Errorf("%w: list unsettled debts: %v", types.ErrPersistence, err)
	}
	return debts, nil
}

func (d *Database) GetDebt(debtID string) (*types.Debt, error) {
	var debt types.Debt
	if err := d.db.Where("debt_id = ?", debtID).First(&debt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: debt %s", types.ErrNotFound, debtID)
		}
		return nil, fmt.Errorf("%w: fetch debt: %v", types.ErrPersistence, err)
	}
	return &debt, nil
}

// SettleDebt marks the debt paid and stores the confirmation reference. The
// paid guard makes the write happen at most once: settling an already-paid
// debt is a no-op and the stored confirmation is never overwritten.
func (d *Database) SettleDebt(debtID, confirmation string) error {
	result := d.db.Model(&types.Debt{}).
		Where("debt_id = ? AND paid = ?", debtID, false).
		Updates(map[string]interface{}{
			"paid":         true,
			"confirmation": confirmation,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("%w: settle debt: %v", types.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		// Unknown id or already paid; only the former is an error.
		if _, err := d.GetDebt(debtID); err != nil {
			return err
		}
		return nil
	}
	return nil
}
