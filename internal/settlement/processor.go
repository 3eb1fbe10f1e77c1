package settlement

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Processor periodically sweeps executed buy trades into settlement batches
// so fiat debt keeps accruing even when no operator polls the debt listing.
type Processor struct {
	service       *Service
	sweepInterval time.Duration
}

func NewProcessor(service *Service) *Processor {
	return &Processor{
		service:       service,
		sweepInterval: 5 * time.Minute,
	}
}

// Start begins the settlement sweep loop and blocks until ctx is cancelled.
func (p *Processor) Start(ctx context.Context) {
	logger := log.With().Str("component", "settlement_processor").Logger()
	logger.Info().Dur("interval", p.sweepInterval).Msg("starting settlement processor")

	ticker := time.NewTicker(p.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down settlement processor")
			return
		case <-ticker.C:
			if err := p.service.CreateNewSettlement(); err != nil {
				logger.Error().Err(err).Msg("settlement sweep failed")
			}
		}
	}
}
