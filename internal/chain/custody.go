package chain

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// CustodyAccount is the provider's managed signing account. Every broadcast
// advances the account's on-chain sequence number, so broadcasts are
// serialized through mu: one in-flight transfer at a time per account.
type CustodyAccount struct {
	name    string
	key     ed25519.PrivateKey
	address AccountAddress
	client  Client

	mu sync.Mutex
}

// LoadCustodyAccount parses the custody key store (a JSON map of account name
// to ed25519 private key seed in hex) and returns the named account.
func LoadCustodyAccount(client Client, name, privateKeysJSON string) (*CustodyAccount, error) {
	if privateKeysJSON == "" {
		return nil, errors.New("custody private keys are not configured")
	}

	var keys map[string]string
	if err := json.Unmarshal([]byte(privateKeysJSON), &keys); err != nil {
		return nil, fmt.Errorf("malformed custody private keys: %w", err)
	}

	hexKey, ok := keys[name]
	if !ok {
		return nil, fmt.Errorf("no custody key for account %q", name)
	}
	seed, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid custody key for account %q: %w", name, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("custody key for account %q must be %d bytes, got %d",
			name, ed25519.SeedSize, len(seed))
	}

	key := ed25519.NewKeyFromSeed(seed)
	account := &CustodyAccount{
		name:    name,
		key:     key,
		address: addressFromPublicKey(key.Public().(ed25519.PublicKey)),
		client:  client,
	}

	log.Info().
		Str("account", name).
		Str("address", account.address.Hex()).
		Msg("custody account loaded")

	return account, nil
}

// addressFromPublicKey derives the account address as the last 16 bytes of
// the public key hash.
func addressFromPublicKey(pub ed25519.PublicKey) AccountAddress {
	var addr AccountAddress
	sum := sha256.Sum256(pub)
	copy(addr[:], sum[len(sum)-AddressLength:])
	return addr
}

// Name returns the logical account name from the key store.
func (a *CustodyAccount) Name() string {
	return a.name
}

// Address returns the account's on-chain address.
func (a *CustodyAccount) Address() AccountAddress {
	return a.address
}

// SendTransfer signs and broadcasts a transfer of amount currency to the
// destination sub-address, returning the transaction version the network
// recorded. The account lock is held across the sequence number read and the
// broadcast to keep concurrent transfers from racing on the sequence.
func (a *CustodyAccount) SendTransfer(ctx context.Context, currency string, amount int64, recipient AccountAddress, sub SubAddress) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	info, err := a.client.GetAccount(ctx, a.address)
	if err != nil {
		return 0, fmt.Errorf("fetch custody account: %w", err)
	}

	transfer := Transfer{
		Sender:         a.address,
		SequenceNumber: info.SequenceNumber,
		Currency:       currency,
		Amount:         amount,
		Recipient:      recipient,
		SubAddress:     sub,
	}
	signed := &SignedTransfer{
		Transfer:  transfer,
		PublicKey: a.key.Public().(ed25519.PublicKey),
		Signature: ed25519.Sign(a.key, transfer.signingBytes()),
	}

	version, err := a.client.SubmitTransfer(ctx, signed)
	if err != nil {
		return 0, fmt.Errorf("broadcast transfer: %w", err)
	}
	return version, nil
}
