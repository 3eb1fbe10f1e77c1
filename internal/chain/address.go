package chain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// Chain identifiers for the supported networks.
const (
	ChainIDMainnet    = 1
	ChainIDTestnet    = 2
	ChainIDPremainnet = 21
)

// Bech32 human-readable prefixes per network.
const (
	HRPMainnet    = "dm"
	HRPTestnet    = "tdm"
	HRPPremainnet = "pdm"
)

const (
	// AddressLength is the size of an on-chain account address.
	AddressLength = 16
	// SubAddressLength is the size of the sub-account component a receiver
	// uses to route an incoming deposit.
	SubAddressLength = 8

	// addressVersion is the single version word leading the bech32 payload.
	addressVersion = 1
)

// HRP returns the address prefix for a chain id. Unknown ids fall back to the
// premainnet prefix.
func HRP(chainID int) string {
	switch chainID {
	case ChainIDMainnet:
		return HRPMainnet
	case ChainIDTestnet:
		return HRPTestnet
	default:
		return HRPPremainnet
	}
}

// AccountAddress is a raw on-chain account address.
type AccountAddress [AddressLength]byte

// Hex returns the lower-case hex form of the address.
func (a AccountAddress) Hex() string {
	return hex.EncodeToString(a[:])
}

// AccountAddressFromHex parses a hex-encoded account address.
func AccountAddressFromHex(s string) (AccountAddress, error) {
	var addr AccountAddress
	b, err := hex.DecodeString(s)
	if err != nil {
		return addr, fmt.Errorf("invalid account address %q: %w", s, err)
	}
	if len(b) != AddressLength {
		return addr, fmt.Errorf("account address must be %d bytes, got %d", AddressLength, len(b))
	}
	copy(addr[:], b)
	return addr, nil
}

// SubAddress routes a deposit to a sub-account of the receiving address.
type SubAddress [SubAddressLength]byte

// Hex returns the lower-case hex form of the sub-address.
func (s SubAddress) Hex() string {
	return hex.EncodeToString(s[:])
}

// NewSubAddress generates a fresh random sub-address.
func NewSubAddress() (SubAddress, error) {
	var sub SubAddress
	if _, err := rand.Read(sub[:]); err != nil {
		return sub, fmt.Errorf("generate sub-address: %w", err)
	}
	return sub, nil
}

// EncodeAccount encodes an account address and sub-address into the network's
// human-readable bech32 deposit form.
func EncodeAccount(hrp string, addr AccountAddress, sub SubAddress) (string, error) {
	payload := make([]byte, 0, AddressLength+SubAddressLength)
	payload = append(payload, addr[:]...)
	payload = append(payload, sub[:]...)

	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("error converting bits: %w", err)
	}
	return bech32.Encode(hrp, append([]byte{addressVersion}, conv...))
}

// DecodeAccount decodes a bech32 deposit address into its account and
// sub-address components, verifying it belongs to the expected network.
func DecodeAccount(encoded, hrp string) (AccountAddress, SubAddress, error) {
	var addr AccountAddress
	var sub SubAddress

	gotHRP, data, err := bech32.Decode(encoded)
	if err != nil {
		return addr, sub, fmt.Errorf("invalid deposit address: %w", err)
	}
	if gotHRP != hrp {
		return addr, sub, fmt.Errorf("deposit address network %q does not match %q", gotHRP, hrp)
	}
	if len(data) < 1 || data[0] != addressVersion {
		return addr, sub, fmt.Errorf("unsupported deposit address version")
	}

	payload, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return addr, sub, fmt.Errorf("error converting bits: %w", err)
	}
	if len(payload) != AddressLength+SubAddressLength {
		return addr, sub, fmt.Errorf("deposit address payload must be %d bytes, got %d",
			AddressLength+SubAddressLength, len(payload))
	}

	copy(addr[:], payload[:AddressLength])
	copy(sub[:], payload[AddressLength:])
	return addr, sub, nil
}

// DesignatedDealerAddress is the account that issues minted coins on the test
// network; the faucet strategy presents it as the provider address.
var DesignatedDealerAddress = AccountAddress{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xDD,
}
