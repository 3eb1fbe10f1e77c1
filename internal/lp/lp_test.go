package lp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ksred/liquidity-api/internal/chain"
	"github.com/ksred/liquidity-api/internal/quote"
	"github.com/ksred/liquidity-api/internal/settlement"
	"github.com/ksred/liquidity-api/internal/trade"
	"github.com/ksred/liquidity-api/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubStrategy struct {
	version uint64
	err     error
	address chain.AccountAddress
}

func (s *stubStrategy) ExecuteBuy(ctx context.Context, q *types.Quote, tr *types.Trade, depositAddress string) (uint64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.version, nil
}

func (s *stubStrategy) Address() chain.AccountAddress {
	return s.address
}

func newTestProvider(t *testing.T, strategy *stubStrategy) (*Service, *gorm.DB) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "lp.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.Quote{}, &types.Trade{}, &types.SettlementBatch{}, &types.Debt{}))

	quotes := quote.NewService(db)
	trades := trade.NewService(db, quotes, strategy)
	settlementSvc := settlement.NewService(db)
	return NewService(quotes, trades, settlementSvc, strategy), db
}

func TestLPDetails(t *testing.T) {
	addr, err := chain.AccountAddressFromHex("f72589b71ff4f8d139674a9e7d4e4494")
	require.NoError(t, err)
	provider, _ := newTestProvider(t, &stubStrategy{address: addr})

	details, err := provider.LPDetails()
	require.NoError(t, err)
	require.Equal(t, "f72589b71ff4f8d139674a9e7d4e4494", details.Address)
	require.Equal(t, IBANAddress, details.IBAN)
	require.Len(t, details.SubAddress, chain.SubAddressLength*2)

	// Each call hands out a fresh sub-address.
	again, err := provider.LPDetails()
	require.NoError(t, err)
	require.NotEqual(t, details.SubAddress, again.SubAddress)
}

// A full buy: quote, trade, execution, debt accrual, settlement.
func TestBuyLifecycle(t *testing.T) {
	provider, _ := newTestProvider(t, &stubStrategy{version: 555})
	ctx := context.Background()

	quoteData, err := provider.GetQuote(types.CurrencyPair{Base: types.XUS, Quote: types.USD}, 5_000_000)
	require.NoError(t, err)

	tradeID, err := provider.TradeAndExecute(ctx, quoteData.QuoteID, types.DirectionBuy, "tdm1deposit", nil)
	require.NoError(t, err)

	info, err := provider.TradeInfo(tradeID)
	require.NoError(t, err)
	require.Equal(t, types.TradeStatusExecuted, info.Status)
	require.Equal(t, uint64(555), *info.TxVersion)
	require.Equal(t, quoteData.QuoteID, info.Quote.QuoteID)

	debts, err := provider.GetDebt()
	require.NoError(t, err)
	require.Len(t, debts, 1)
	require.Equal(t, types.USD, debts[0].Currency)
	require.Equal(t, int64(5_000_000), debts[0].Amount)

	require.NoError(t, provider.Settle(debts[0].DebtID, "WIRE-1"))

	cleared, err := provider.GetDebt()
	require.NoError(t, err)
	require.Empty(t, cleared)
}

// A failed buy leaves an inspectable trade in Created and accrues no debt.
func TestBuyFailureLeavesTradeInspectable(t *testing.T) {
	strategy := &stubStrategy{err: types.ErrTransfer}
	provider, _ := newTestProvider(t, strategy)
	ctx := context.Background()

	quoteData, err := provider.GetQuote(types.CurrencyPair{Base: types.XUS, Quote: types.USD}, 1_000_000)
	require.NoError(t, err)

	tradeID, err := provider.TradeAndExecute(ctx, quoteData.QuoteID, types.DirectionBuy, "tdm1deposit", nil)
	require.ErrorIs(t, err, types.ErrTransfer)
	require.NotEmpty(t, tradeID)

	info, err := provider.TradeInfo(tradeID)
	require.NoError(t, err)
	require.Equal(t, types.TradeStatusCreated, info.Status)
	require.Nil(t, info.TxVersion)

	debts, err := provider.GetDebt()
	require.NoError(t, err)
	require.Empty(t, debts)

	// The quote survives for a retry once the backend recovers.
	strategy.err = nil
	strategy.version = 556
	retryID, err := provider.TradeAndExecute(ctx, quoteData.QuoteID, types.DirectionBuy, "tdm1deposit", nil)
	require.NoError(t, err)

	retried, err := provider.TradeInfo(retryID)
	require.NoError(t, err)
	require.Equal(t, types.TradeStatusExecuted, retried.Status)
}

func TestSellLifecycle(t *testing.T) {
	provider, _ := newTestProvider(t, &stubStrategy{})
	ctx := context.Background()

	quoteData, err := provider.GetQuote(types.CurrencyPair{Base: types.EUR, Quote: types.XUS}, 2_000_000)
	require.NoError(t, err)

	reported := uint64(9_000)
	tradeID, err := provider.TradeAndExecute(ctx, quoteData.QuoteID, types.DirectionSell, "", &reported)
	require.NoError(t, err)

	info, err := provider.TradeInfo(tradeID)
	require.NoError(t, err)
	require.Equal(t, types.TradeStatusExecuted, info.Status)
	require.Equal(t, reported, *info.TxVersion)

	// Sell trades accrue no fiat debt.
	debts, err := provider.GetDebt()
	require.NoError(t, err)
	require.Empty(t, debts)
}
