package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/ksred/liquidity-api/internal/fx"
	"github.com/ksred/liquidity-api/internal/metrics"
	"github.com/ksred/liquidity-api/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TTL is the fixed rate-lock window for every quote. Not configurable.
const TTL = 10 * time.Minute

// Service creates and resolves quotes against the fixed rate table.
type Service struct {
	db *Database
}

// NewService creates a new quote service with the given database connection.
func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db: NewDatabase(gormDB),
	}
}

// CreateQuote locks the current table rate for the pair into a new quote. The
// returned view carries the full quote so the caller can confirm the rate
// before trading. Unsupported pairs fail without creating a record.
func (s *Service) CreateQuote(pair types.CurrencyPair, amount int64) (*types.QuoteData, error) {
	rate, err := fx.GetRate(pair)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quote := &types.Quote{
		QuoteID:   uuid.New().String(),
		Pair:      pair.String(),
		Rate:      rate.Rate,
		Amount:    amount,
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	}

	if err := s.db.CreateQuote(quote); err != nil {
		return nil, err
	}

	metrics.QuotesCreated.WithLabelValues(pair.String()).Inc()
	log.Info().
		Str("quote_id", quote.QuoteID).
		Str("pair", quote.Pair).
		Int64("rate", quote.Rate).
		Int64("amount", quote.Amount).
		Time("expires_at", quote.ExpiresAt).
		Str("service", "quote").
		Msg("quote created")

	return Data(quote), nil
}

// FindQuote resolves a quote by id. Lookup performs no expiry check; expiry is
// enforced at trade time.
func (s *Service) FindQuote(quoteID string) (*types.Quote, error) {
	return s.db.GetQuote(quoteID)
}

// Data builds the caller-facing view of a stored quote.
func Data(quote *types.Quote) *types.QuoteData {
	pair, _ := types.ParsePair(quote.Pair)
	return &types.QuoteData{
		QuoteID:   quote.QuoteID,
		Rate:      types.Rate{Pair: pair, Rate: quote.Rate},
		ExpiresAt: quote.ExpiresAt,
		Amount:    quote.Amount,
	}
}
