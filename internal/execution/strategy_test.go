package execution

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ksred/liquidity-api/internal/chain"
	"github.com/ksred/liquidity-api/internal/config"
	"github.com/ksred/liquidity-api/internal/types"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	accountErr  error
	submitErr   error
	mintErr     error
	sequence    uint64
	authKey     string
	lastMint    string
	lastAmount  int64
	lastSubmit  *chain.SignedTransfer
	mintVersion uint64
}

func (f *fakeClient) GetAccount(ctx context.Context, address chain.AccountAddress) (*chain.AccountInfo, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return &chain.AccountInfo{Address: address, SequenceNumber: f.sequence, AuthKey: f.authKey}, nil
}

func (f *fakeClient) SubmitTransfer(ctx context.Context, txn *chain.SignedTransfer) (uint64, error) {
	if f.submitErr != nil {
		return 0, f.submitErr
	}
	f.lastSubmit = txn
	return 4242, nil
}

func (f *fakeClient) Mint(ctx context.Context, authKey string, amount int64, currency string) (uint64, error) {
	if f.mintErr != nil {
		return 0, f.mintErr
	}
	f.lastMint = authKey
	f.lastAmount = amount
	return f.mintVersion, nil
}

func custodyKeys(t *testing.T) string {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	copy(seed, "execution-test-seed")
	return `{"liquidity": "` + hex.EncodeToString(seed) + `"}`
}

func depositAddress(t *testing.T, hrp string) string {
	t.Helper()
	addr, err := chain.AccountAddressFromHex("f72589b71ff4f8d139674a9e7d4e4494")
	require.NoError(t, err)
	sub, err := chain.NewSubAddress()
	require.NoError(t, err)
	encoded, err := chain.EncodeAccount(hrp, addr, sub)
	require.NoError(t, err)
	return encoded
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		chainID int
		keys    bool
		want    string
		wantErr bool
	}{
		{"testnet without keys", chain.ChainIDTestnet, false, "faucet", false},
		{"testnet with keys", chain.ChainIDTestnet, true, "custodial", false},
		{"mainnet with keys", chain.ChainIDMainnet, true, "custodial", false},
		{"premainnet with keys", chain.ChainIDPremainnet, true, "custodial", false},
		{"mainnet without keys", chain.ChainIDMainnet, false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.ChainConfig{
				ChainID:            tt.chainID,
				CustodyAccountName: "liquidity",
			}
			if tt.keys {
				cfg.CustodyPrivateKeys = custodyKeys(t)
			}

			strategy, err := Select(cfg, &fakeClient{})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			switch tt.want {
			case "faucet":
				require.IsType(t, &Faucet{}, strategy)
			case "custodial":
				require.IsType(t, &Custodial{}, strategy)
			}
		})
	}
}

func TestSelectRejectsBadKeys(t *testing.T) {
	cfg := config.ChainConfig{
		ChainID:            chain.ChainIDMainnet,
		CustodyAccountName: "liquidity",
		CustodyPrivateKeys: `{"liquidity": "not-hex"}`,
	}
	_, err := Select(cfg, &fakeClient{})
	require.Error(t, err)
}

func TestCustodialExecuteBuy(t *testing.T) {
	client := &fakeClient{sequence: 3}
	account, err := chain.LoadCustodyAccount(client, "liquidity", custodyKeys(t))
	require.NoError(t, err)
	strategy := NewCustodial(account, chain.ChainIDTestnet)

	quote := &types.Quote{QuoteID: "q1", Pair: "XUS_EUR", Rate: 926_000, Amount: 2_000_000}
	trade := &types.Trade{TradeID: "t1"}

	version, err := strategy.ExecuteBuy(context.Background(), quote, trade, depositAddress(t, "tdm"))
	require.NoError(t, err)
	require.Equal(t, uint64(4242), version)

	require.NotNil(t, client.lastSubmit)
	require.Equal(t, "XUS", client.lastSubmit.Currency)
	require.Equal(t, int64(2_000_000), client.lastSubmit.Amount)
	require.Equal(t, uint64(3), client.lastSubmit.SequenceNumber)
	require.Equal(t, account.Address(), strategy.Address())
}

func TestCustodialExecuteBuyBadDepositAddress(t *testing.T) {
	account, err := chain.LoadCustodyAccount(&fakeClient{}, "liquidity", custodyKeys(t))
	require.NoError(t, err)
	strategy := NewCustodial(account, chain.ChainIDTestnet)

	quote := &types.Quote{QuoteID: "q1", Pair: "XUS_USD", Amount: 1}
	trade := &types.Trade{TradeID: "t1"}

	_, err = strategy.ExecuteBuy(context.Background(), quote, trade, "garbage")
	require.ErrorIs(t, err, types.ErrTrade)

	// An address from another network is a precondition failure too.
	_, err = strategy.ExecuteBuy(context.Background(), quote, trade, depositAddress(t, "dm"))
	require.ErrorIs(t, err, types.ErrTrade)
}

func TestCustodialExecuteBuyBroadcastFailure(t *testing.T) {
	client := &fakeClient{submitErr: errors.New("node unreachable")}
	account, err := chain.LoadCustodyAccount(client, "liquidity", custodyKeys(t))
	require.NoError(t, err)
	strategy := NewCustodial(account, chain.ChainIDTestnet)

	quote := &types.Quote{QuoteID: "q1", Pair: "XUS_USD", Amount: 1_000_000}
	trade := &types.Trade{TradeID: "t1"}

	_, err = strategy.ExecuteBuy(context.Background(), quote, trade, depositAddress(t, "tdm"))
	require.ErrorIs(t, err, types.ErrTransfer)
}

func TestFaucetExecuteBuy(t *testing.T) {
	client := &fakeClient{authKey: "a1b2c3", mintVersion: 66_000}
	strategy := NewFaucet(client)

	quote := &types.Quote{QuoteID: "q1", Pair: "XUS_USD", Amount: 3_000_000}
	trade := &types.Trade{TradeID: "t1"}

	version, err := strategy.ExecuteBuy(context.Background(), quote, trade, depositAddress(t, "tdm"))
	require.NoError(t, err)
	require.Equal(t, uint64(66_000), version)
	require.Equal(t, "a1b2c3", client.lastMint)
	require.Equal(t, int64(3_000_000), client.lastAmount)

	require.Equal(t, chain.DesignatedDealerAddress, strategy.Address())
}

func TestFaucetExecuteBuyAccountLookupFailure(t *testing.T) {
	client := &fakeClient{accountErr: errors.New("unknown account")}
	strategy := NewFaucet(client)

	quote := &types.Quote{QuoteID: "q1", Pair: "XUS_USD", Amount: 1}
	trade := &types.Trade{TradeID: "t1"}

	_, err := strategy.ExecuteBuy(context.Background(), quote, trade, depositAddress(t, "tdm"))
	require.ErrorIs(t, err, types.ErrTransfer)
}
