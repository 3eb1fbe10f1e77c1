package execution

import (
	"context"
	"fmt"

	"github.com/ksred/liquidity-api/internal/chain"
	"github.com/ksred/liquidity-api/internal/types"
	"github.com/rs/zerolog/log"
)

// Custodial executes buy trades by moving real value from the provider's
// managed account to the counterparty's deposit address.
type Custodial struct {
	account *chain.CustodyAccount
	hrp     string
}

// NewCustodial creates a custodial strategy bound to the custody account and
// the network's address prefix.
func NewCustodial(account *chain.CustodyAccount, chainID int) *Custodial {
	return &Custodial{
		account: account,
		hrp:     chain.HRP(chainID),
	}
}

// Address returns the custody account's on-chain address.
func (c *Custodial) Address() chain.AccountAddress {
	return c.account.Address()
}

// ExecuteBuy decodes the deposit address and broadcasts a signed transfer of
// the quoted amount in the pair's base currency. A bad address is a trade
// precondition failure; a failed broadcast is a retryable transfer failure and
// no transaction version is recorded.
func (c *Custodial) ExecuteBuy(ctx context.Context, quote *types.Quote, trade *types.Trade, depositAddress string) (uint64, error) {
	logger := log.With().
		Str("trade_id", trade.TradeID).
		Str("strategy", "custodial").
		Logger()

	recipient, subAddress, err := chain.DecodeAccount(depositAddress, c.hrp)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrTrade, err)
	}

	pair, err := types.ParsePair(quote.Pair)
	if err != nil {
		return 0, fmt.Errorf("%w: stored quote %s: %v", types.ErrInvariantViolation, quote.QuoteID, err)
	}

	logger.Info().
		Str("recipient", recipient.Hex()).
		Str("sub_address", subAddress.Hex()).
		Str("currency", string(pair.Base)).
		Int64("amount", quote.Amount).
		Msg("broadcasting custody transfer")

	version, err := c.account.SendTransfer(ctx, string(pair.Base), quote.Amount, recipient, subAddress)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrTransfer, err)
	}

	logger.Info().Uint64("tx_version", version).Msg("custody transfer broadcast")
	return version, nil
}
