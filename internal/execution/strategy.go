package execution

import (
	"context"
	"fmt"

	"github.com/ksred/liquidity-api/internal/chain"
	"github.com/ksred/liquidity-api/internal/config"
	"github.com/ksred/liquidity-api/internal/types"
	"github.com/rs/zerolog/log"
)

// Strategy is a buy-side execution backend plus the provider address it
// settles from. It satisfies trade.ExecutionStrategy and is selected exactly
// once at process start.
type Strategy interface {
	ExecuteBuy(ctx context.Context, quote *types.Quote, trade *types.Trade, depositAddress string) (uint64, error)
	Address() chain.AccountAddress
}

// Select picks the process-wide execution strategy from configuration: the
// faucet serves the test network when no custody keys are present; every
// other combination requires valid custody signing material.
func Select(cfg config.ChainConfig, client chain.Client) (Strategy, error) {
	if cfg.ChainID == chain.ChainIDTestnet && cfg.CustodyPrivateKeys == "" {
		log.Info().Msg("no custody keys on the test network, selecting faucet execution")
		return NewFaucet(client), nil
	}

	account, err := chain.LoadCustodyAccount(client, cfg.CustodyAccountName, cfg.CustodyPrivateKeys)
	if err != nil {
		return nil, fmt.Errorf("custodial execution requires signing material: %w", err)
	}
	return NewCustodial(account, cfg.ChainID), nil
}
