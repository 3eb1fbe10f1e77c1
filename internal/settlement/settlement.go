package settlement

import (
	"github.com/ksred/liquidity-api/internal/metrics"
	"github.com/ksred/liquidity-api/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service is the debt ledger: it aggregates unsettled fiat obligations from
// executed buy trades into settlement batches and records confirmations.
type Service struct {
	db *Database
}

// NewService creates a new settlement service with the given database
// connection.
func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db: NewDatabase(gormDB),
	}
}

// CreateNewSettlement opens a settlement batch over the executed buy trades
// accumulated since the previous batch. A pass with nothing to sweep is not
// an error.
func (s *Service) CreateNewSettlement() error {
	batchID, err := s.db.SweepUnbatchedBuyTrades()
	if err != nil {
		return err
	}
	if batchID != "" {
		metrics.SettlementBatches.Inc()
		log.Info().
			Str("batch_id", batchID).
			Str("service", "settlement").
			Msg("settlement batch opened")
	}
	return nil
}

// GetDebt starts a fiat settlement pass and reports every outstanding debt,
// oldest first.
func (s *Service) GetDebt() ([]types.DebtData, error) {
	if err := s.CreateNewSettlement(); err != nil {
		return nil, err
	}

	debts, err := s.db.GetUnsettledDebts()
	if err != nil {
		return nil, err
	}

	data := make([]types.DebtData, 0, len(debts))
	for _, debt := range debts {
		data = append(data, types.DebtData{
			DebtID:   debt.DebtID,
			Currency: debt.Currency,
			Amount:   debt.Amount,
		})
	}
	return data, nil
}

// Settle confirms out-of-band payment of a debt. Not reversible; settling an
// already-paid debt is a no-op.
func (s *Service) Settle(debtID, confirmation string) error {
	if err := s.db.SettleDebt(debtID, confirmation); err != nil {
		return err
	}

	metrics.DebtsSettled.Inc()
	log.Info().
		Str("debt_id", debtID).
		Str("service", "settlement").
		Msg("debt settled")
	return nil
}
