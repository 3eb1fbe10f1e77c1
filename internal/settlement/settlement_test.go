package settlement

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ksred/liquidity-api/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "settlement.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.Quote{}, &types.Trade{}, &types.SettlementBatch{}, &types.Debt{}))
	return db
}

func seedTrade(t *testing.T, db *gorm.DB, id, pair string, rate, amount int64, direction types.Direction, status string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, db.Create(&types.Quote{
		QuoteID:   "quote-" + id,
		Pair:      pair,
		Rate:      rate,
		Amount:    amount,
		Consumed:  true,
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Minute),
	}).Error)

	trade := &types.Trade{
		TradeID:   "trade-" + id,
		QuoteID:   "quote-" + id,
		Direction: direction,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == types.TradeStatusExecuted {
		version := uint64(100)
		trade.TxVersion = &version
	}
	require.NoError(t, db.Create(trade).Error)
}

func TestSweepAggregatesPerFiatCurrency(t *testing.T) {
	db := newTestDB(t)
	sdb := NewDatabase(db)

	// Two USD buys through the frozen rate, one EUR buy denominated in fiat.
	seedTrade(t, db, "1", "XUS_USD", 1_000_000, 5_000_000, types.DirectionBuy, types.TradeStatusExecuted)
	seedTrade(t, db, "2", "XUS_USD", 1_000_000, 3_000_000, types.DirectionBuy, types.TradeStatusExecuted)
	seedTrade(t, db, "3", "EUR_XUS", 1_080_000, 2_000_000, types.DirectionBuy, types.TradeStatusExecuted)
	// Never swept: a sell, and a buy still in Created.
	seedTrade(t, db, "4", "XUS_USD", 1_000_000, 9_000_000, types.DirectionSell, types.TradeStatusExecuted)
	seedTrade(t, db, "5", "XUS_USD", 1_000_000, 9_000_000, types.DirectionBuy, types.TradeStatusCreated)

	batchID, err := sdb.SweepUnbatchedBuyTrades()
	require.NoError(t, err)
	require.NotEmpty(t, batchID)

	var debts []types.Debt
	require.NoError(t, db.Order("currency ASC").Find(&debts).Error)
	require.Len(t, debts, 2)

	require.Equal(t, types.EUR, debts[0].Currency)
	require.Equal(t, int64(2_000_000), debts[0].Amount)
	require.Equal(t, types.USD, debts[1].Currency)
	require.Equal(t, int64(8_000_000), debts[1].Amount)

	for _, debt := range debts {
		require.Equal(t, batchID, debt.BatchID)
		require.False(t, debt.Paid)
	}

	// The swept trades carry the batch id; the sell and the unexecuted buy
	// stay unbatched.
	var batched int64
	require.NoError(t, db.Model(&types.Trade{}).Where("batch_id = ?", batchID).Count(&batched).Error)
	require.Equal(t, int64(3), batched)

	// A second pass finds nothing new.
	again, err := sdb.SweepUnbatchedBuyTrades()
	require.NoError(t, err)
	require.Empty(t, again)
}

func TestSweepConvertsCoinLegThroughFrozenRate(t *testing.T) {
	db := newTestDB(t)
	sdb := NewDatabase(db)

	// 2 XUS at a 0.926 EUR rate owes 1.852 EUR.
	seedTrade(t, db, "1", "XUS_EUR", 926_000, 2_000_000, types.DirectionBuy, types.TradeStatusExecuted)

	_, err := sdb.SweepUnbatchedBuyTrades()
	require.NoError(t, err)

	var debt types.Debt
	require.NoError(t, db.First(&debt).Error)
	require.Equal(t, types.EUR, debt.Currency)
	require.Equal(t, int64(1_852_000), debt.Amount)
}

func TestSweepNothingToDo(t *testing.T) {
	sdb := NewDatabase(newTestDB(t))

	batchID, err := sdb.SweepUnbatchedBuyTrades()
	require.NoError(t, err)
	require.Empty(t, batchID)
}

func TestGetDebtSweepsThenLists(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedTrade(t, db, "1", "XUS_USD", 1_000_000, 4_000_000, types.DirectionBuy, types.TradeStatusExecuted)

	debts, err := svc.GetDebt()
	require.NoError(t, err)
	require.Len(t, debts, 1)
	require.Equal(t, types.USD, debts[0].Currency)
	require.Equal(t, int64(4_000_000), debts[0].Amount)
	require.NotEmpty(t, debts[0].DebtID)
}

func TestSettle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedTrade(t, db, "1", "XUS_USD", 1_000_000, 4_000_000, types.DirectionBuy, types.TradeStatusExecuted)
	debts, err := svc.GetDebt()
	require.NoError(t, err)
	require.Len(t, debts, 1)

	require.NoError(t, svc.Settle(debts[0].DebtID, "WIRE-123"))

	var stored types.Debt
	require.NoError(t, db.Where("debt_id = ?", debts[0].DebtID).First(&stored).Error)
	require.True(t, stored.Paid)
	require.Equal(t, "WIRE-123", stored.Confirmation)

	// Settled debts drop out of the listing.
	remaining, err := svc.GetDebt()
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestSettleAlreadyPaidIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedTrade(t, db, "1", "XUS_USD", 1_000_000, 1_000_000, types.DirectionBuy, types.TradeStatusExecuted)
	debts, err := svc.GetDebt()
	require.NoError(t, err)

	require.NoError(t, svc.Settle(debts[0].DebtID, "WIRE-FIRST"))
	require.NoError(t, svc.Settle(debts[0].DebtID, "WIRE-SECOND"))

	var stored types.Debt
	require.NoError(t, db.Where("debt_id = ?", debts[0].DebtID).First(&stored).Error)
	require.Equal(t, "WIRE-FIRST", stored.Confirmation)
}

func TestSettleUnknownDebt(t *testing.T) {
	svc := NewService(newTestDB(t))

	err := svc.Settle("no-such-debt", "WIRE-123")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestProcessorSweeps(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	seedTrade(t, db, "1", "XUS_USD", 1_000_000, 1_000_000, types.DirectionBuy, types.TradeStatusExecuted)

	processor := NewProcessor(svc)
	processor.sweepInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		processor.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		var count int64
		return db.Model(&types.Debt{}).Count(&count).Error == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
