package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ksred/liquidity-api/internal/metrics"
	"github.com/ksred/liquidity-api/internal/quote"
	"github.com/ksred/liquidity-api/internal/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ExecutionStrategy carries out the buy-side value transfer and returns the
// resulting transaction version. One implementation is selected at process
// start (custodial or faucet) and never swapped afterwards.
type ExecutionStrategy interface {
	ExecuteBuy(ctx context.Context, quote *types.Quote, trade *types.Trade, depositAddress string) (uint64, error)
}

// Service creates trades against quotes and drives their execution.
type Service struct {
	db       *Database
	quotes   *quote.Service
	strategy ExecutionStrategy
}

// NewService creates a new trade service. The strategy is the process-wide
// execution backend chosen at startup.
func NewService(gormDB *gorm.DB, quotes *quote.Service, strategy ExecutionStrategy) *Service {
	return &Service{
		db:       NewDatabase(gormDB),
		quotes:   quotes,
		strategy: strategy,
	}
}

// TradeAndExecute creates a trade against the quote and executes it in one
// step. Buy trades push value to the counterparty's deposit address through
// the execution strategy; sell trades record the transaction version of a
// deposit the counterparty already broadcast into the provider's address.
//
// The quote is claimed before the trade is created so at most one trade can
// spend it; a failed execution releases the claim and leaves the trade in
// Created, and the trade id is returned alongside the error so the caller can
// still inspect it.
func (s *Service) TradeAndExecute(ctx context.Context, quoteID string, direction types.Direction, depositAddress string, txVersion *uint64) (string, error) {
	start := time.Now()
	defer func() {
		metrics.TradeExecutionDuration.Observe(time.Since(start).Seconds())
	}()

	logger := log.With().
		Str("quote_id", quoteID).
		Str("direction", string(direction)).
		Str("service", "trade").
		Logger()

	q, err := s.quotes.FindQuote(quoteID)
	if err != nil {
		return "", err
	}
	if time.Now().After(q.ExpiresAt) {
		return "", fmt.Errorf("%w: quote %s expired at %s",
			types.ErrExpiredQuote, quoteID, q.ExpiresAt.Format(time.RFC3339))
	}

	if err := s.db.ClaimQuote(quoteID); err != nil {
		return "", err
	}

	trade := &types.Trade{
		TradeID:   uuid.New().String(),
		QuoteID:   quoteID,
		Direction: direction,
		Status:    types.TradeStatusCreated,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.db.CreateTrade(trade); err != nil {
		s.releaseQuote(quoteID, logger)
		return "", err
	}

	metrics.TradesCreated.WithLabelValues(string(direction)).Inc()
	logger = logger.With().Str("trade_id", trade.TradeID).Logger()
	logger.Info().Msg("trade created")

	var version uint64
	switch direction {
	case types.DirectionBuy:
		if depositAddress == "" {
			s.releaseQuote(quoteID, logger)
			return trade.TradeID, fmt.Errorf("%w: cannot execute trade without a deposit address", types.ErrTrade)
		}
		version, err = s.strategy.ExecuteBuy(ctx, q, trade, depositAddress)
		if err != nil {
			s.releaseQuote(quoteID, logger)
			metrics.TransferFailures.Inc()
			logger.Error().Err(err).Msg("buy execution failed")
			return trade.TradeID, err
		}

	case types.DirectionSell:
		if txVersion == nil {
			s.releaseQuote(quoteID, logger)
			return trade.TradeID, fmt.Errorf("%w: cannot execute sell trade without a transaction version", types.ErrTrade)
		}
		// The counterparty already delivered on-chain. Matching the reported
		// version against the trade currency and amount is the wallet-side
		// indexer's job, not enforced here.
		version = *txVersion

	default:
		return trade.TradeID, fmt.Errorf("%w: direction must be either Buy or Sell, got %q",
			types.ErrInvariantViolation, direction)
	}

	if err := s.db.MarkExecuted(trade.TradeID, version); err != nil {
		return trade.TradeID, err
	}

	metrics.TradesExecuted.WithLabelValues(string(direction)).Inc()
	logger.Info().Uint64("tx_version", version).Msg("trade executed")

	return trade.TradeID, nil
}

// TradeInfo joins a trade with its quote into the composed read view.
func (s *Service) TradeInfo(tradeID string) (*types.TradeData, error) {
	trade, err := s.db.GetTrade(tradeID)
	if err != nil {
		return nil, err
	}
	q, err := s.db.GetQuote(trade.QuoteID)
	if err != nil {
		return nil, err
	}

	pair, err := types.ParsePair(q.Pair)
	if err != nil {
		return nil, fmt.Errorf("%w: stored quote %s: %v", types.ErrInvariantViolation, q.QuoteID, err)
	}

	return &types.TradeData{
		TradeID:   trade.TradeID,
		Direction: trade.Direction,
		Pair:      pair,
		Amount:    q.Amount,
		Quote:     *quote.Data(q),
		Status:    trade.Status,
		TxVersion: trade.TxVersion,
	}, nil
}

func (s *Service) releaseQuote(quoteID string, logger zerolog.Logger) {
	if err := s.db.ReleaseQuote(quoteID); err != nil {
		logger.Error().Err(err).Msg("failed to release quote claim")
	}
}
