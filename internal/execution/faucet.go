package execution

import (
	"context"
	"fmt"

	"github.com/ksred/liquidity-api/internal/chain"
	"github.com/ksred/liquidity-api/internal/types"
	"github.com/rs/zerolog/log"
)

// Faucet executes buy trades by issuing newly-minted test network value to
// the counterparty's account instead of moving custody funds. Only selected
// on the test network when no custody keys are configured.
type Faucet struct {
	client chain.Client
	hrp    string
}

// NewFaucet creates a faucet strategy against the test network.
func NewFaucet(client chain.Client) *Faucet {
	return &Faucet{
		client: client,
		hrp:    chain.HRP(chain.ChainIDTestnet),
	}
}

// Address returns the designated dealer account minted coins issue from.
func (f *Faucet) Address() chain.AccountAddress {
	return chain.DesignatedDealerAddress
}

// ExecuteBuy decodes the deposit address, resolves the destination account's
// key material on-chain, and mints the quoted amount to it. The mint's
// transaction version is returned so faucet trades reach Executed like
// custodial ones do.
func (f *Faucet) ExecuteBuy(ctx context.Context, quote *types.Quote, trade *types.Trade, depositAddress string) (uint64, error) {
	logger := log.With().
		Str("trade_id", trade.TradeID).
		Str("strategy", "faucet").
		Logger()

	recipient, _, err := chain.DecodeAccount(depositAddress, f.hrp)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrTrade, err)
	}

	account, err := f.client.GetAccount(ctx, recipient)
	if err != nil {
		return 0, fmt.Errorf("%w: fetch destination account: %v", types.ErrTransfer, err)
	}

	pair, err := types.ParsePair(quote.Pair)
	if err != nil {
		return 0, fmt.Errorf("%w: stored quote %s: %v", types.ErrInvariantViolation, quote.QuoteID, err)
	}

	version, err := f.client.Mint(ctx, account.AuthKey, quote.Amount, string(pair.Base))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrTransfer, err)
	}

	logger.Info().
		Str("recipient", recipient.Hex()).
		Int64("amount", quote.Amount).
		Uint64("tx_version", version).
		Msg("test network value minted")

	return version, nil
}
