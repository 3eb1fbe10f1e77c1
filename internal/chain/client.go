package chain

import (
	"context"
	"encoding/binary"
)

// AccountInfo is the on-chain view of an account.
type AccountInfo struct {
	Address        AccountAddress
	SequenceNumber uint64
	AuthKey        string
}

// Transfer is a peer-to-peer payment of coins routed to a receiver
// sub-address.
type Transfer struct {
	Sender         AccountAddress
	SequenceNumber uint64
	Currency       string
	Amount         int64
	Recipient      AccountAddress
	SubAddress     SubAddress
}

// signingBytes is the canonical byte encoding covered by the custody
// signature.
func (t *Transfer) signingBytes() []byte {
	buf := make([]byte, 0, AddressLength*2+SubAddressLength+16+len(t.Currency))
	buf = append(buf, t.Sender[:]...)
	buf = binary.BigEndian.AppendUint64(buf, t.SequenceNumber)
	buf = append(buf, t.Recipient[:]...)
	buf = append(buf, t.SubAddress[:]...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(t.Amount))
	buf = append(buf, t.Currency...)
	return buf
}

// SignedTransfer carries the custody signature over the transfer payload.
type SignedTransfer struct {
	Transfer
	PublicKey []byte
	Signature []byte
}

// Client is the value-transfer network collaborator. The production
// implementation speaks JSON-RPC to a full node; tests substitute fakes.
type Client interface {
	// GetAccount fetches the current on-chain state of an account.
	GetAccount(ctx context.Context, address AccountAddress) (*AccountInfo, error)

	// SubmitTransfer broadcasts a signed transfer and returns the transaction
	// version the network recorded for it.
	SubmitTransfer(ctx context.Context, txn *SignedTransfer) (uint64, error)

	// Mint issues newly-minted coins to the account owning authKey. Test
	// network only.
	Mint(ctx context.Context, authKey string, amount int64, currency string) (uint64, error)
}
