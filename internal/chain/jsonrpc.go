package chain

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// JSONRPCClient talks to a value-transfer network full node over JSON-RPC 2.0.
type JSONRPCClient struct {
	url    string
	client *http.Client
	nextID atomic.Uint64
}

// NewJSONRPCClient creates a client against the given node endpoint.
func NewJSONRPCClient(url string) *JSONRPCClient {
	return &JSONRPCClient{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *JSONRPCClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("call %s: unexpected status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("call %s: %w", method, rpcResp.Error)
	}
	if result != nil {
		if string(rpcResp.Result) == "null" {
			return fmt.Errorf("call %s: empty result", method)
		}
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

// GetAccount implements Client.
func (c *JSONRPCClient) GetAccount(ctx context.Context, address AccountAddress) (*AccountInfo, error) {
	var result struct {
		SequenceNumber    uint64 `json:"sequence_number"`
		AuthenticationKey string `json:"authentication_key"`
	}
	if err := c.call(ctx, "get_account", []interface{}{address.Hex()}, &result); err != nil {
		return nil, err
	}
	return &AccountInfo{
		Address:        address,
		SequenceNumber: result.SequenceNumber,
		AuthKey:        result.AuthenticationKey,
	}, nil
}

// SubmitTransfer implements Client.
func (c *JSONRPCClient) SubmitTransfer(ctx context.Context, txn *SignedTransfer) (uint64, error) {
	payment := map[string]interface{}{
		"sender":          txn.Sender.Hex(),
		"sequence_number": txn.SequenceNumber,
		"currency":        txn.Currency,
		"amount":          txn.Amount,
		"recipient":       txn.Recipient.Hex(),
		"sub_address":     txn.SubAddress.Hex(),
		"public_key":      hex.EncodeToString(txn.PublicKey),
		"signature":       hex.EncodeToString(txn.Signature),
	}

	var result struct {
		Version uint64 `json:"version"`
	}
	if err := c.call(ctx, "submit_payment", []interface{}{payment}, &result); err != nil {
		return 0, err
	}

	log.Debug().
		Str("sender", txn.Sender.Hex()).
		Uint64("sequence_number", txn.SequenceNumber).
		Uint64("tx_version", result.Version).
		Msg("payment accepted by the network")

	return result.Version, nil
}

// Mint implements Client.
func (c *JSONRPCClient) Mint(ctx context.Context, authKey string, amount int64, currency string) (uint64, error) {
	var result struct {
		Version uint64 `json:"version"`
	}
	if err := c.call(ctx, "mint", []interface{}{authKey, amount, currency}, &result); err != nil {
		return 0, err
	}
	return result.Version, nil
}
