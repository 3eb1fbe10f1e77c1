package lp

import (
	"context"
	"fmt"

	"github.com/ksred/liquidity-api/internal/chain"
	"github.com/ksred/liquidity-api/internal/execution"
	"github.com/ksred/liquidity-api/internal/quote"
	"github.com/ksred/liquidity-api/internal/settlement"
	"github.com/ksred/liquidity-api/internal/trade"
	"github.com/ksred/liquidity-api/internal/types"
)

// IBANAddress is the provider's bank account for out-of-band fiat settlement.
const IBANAddress = "US89 3704 0044 0532 0130 00"

// Service is the provider facade: one object composing the quote engine,
// trade engine, debt ledger and the process-wide execution strategy. It holds
// no state of its own and is constructed exactly once at process start.
type Service struct {
	quotes     *quote.Service
	trades     *trade.Service
	settlement *settlement.Service
	strategy   execution.Strategy
}

// NewService composes the provider facade from its fully-resolved parts.
func NewService(quotes *quote.Service, trades *trade.Service, settlementSvc *settlement.Service, strategy execution.Strategy) *Service {
	return &Service{
		quotes:     quotes,
		trades:     trades,
		settlement: settlementSvc,
		strategy:   strategy,
	}
}

// LPDetails returns the provider's settlement coordinates with a fresh
// single-use sub-address for the counterparty's next deposit.
func (s *Service) LPDetails() (*types.LPDetails, error) {
	sub, err := chain.NewSubAddress()
	if err != nil {
		return nil, fmt.Errorf("lp details: %w", err)
	}
	return &types.LPDetails{
		SubAddress: sub.Hex(),
		Address:    s.strategy.Address().Hex(),
		IBAN:       IBANAddress,
	}, nil
}

// GetQuote locks the table rate for the pair and amount into a fresh quote.
func (s *Service) GetQuote(pair types.CurrencyPair, amount int64) (*types.QuoteData, error) {
	return s.quotes.CreateQuote(pair, amount)
}

// TradeAndExecute creates and executes a trade against a quote in one step.
func (s *Service) TradeAndExecute(ctx context.Context, quoteID string, direction types.Direction, depositAddress string, txVersion *uint64) (string, error) {
	return s.trades.TradeAndExecute(ctx, quoteID, direction, depositAddress, txVersion)
}

// TradeInfo returns the execution status view for a trade.
func (s *Service) TradeInfo(tradeID string) (*types.TradeData, error) {
	return s.trades.TradeInfo(tradeID)
}

// GetDebt starts a fiat settlement pass and lists the outstanding debts.
func (s *Service) GetDebt() ([]types.DebtData, error) {
	return s.settlement.GetDebt()
}

// Settle confirms out-of-band payment of a debt.
func (s *Service) Settle(debtID, confirmation string) error {
	return s.settlement.Settle(debtID, confirmation)
}
