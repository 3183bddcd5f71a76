// Package evm provides concrete wallet clients for the SDK: a JSON-RPC
// provider adapter for wallets reachable over RPC, and a local session-key
// signer that can submit redeem calls on-chain itself.
package evm

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	mmad "github.com/cadalt0/MMAD-SDK"
	"github.com/cadalt0/MMAD-SDK/calldata"
)

// ProviderClient adapts a JSON-RPC connection to mmad.WalletClient. Use it
// when the wallet (or a bridge to it) is reachable over an RPC endpoint.
type ProviderClient struct {
	rpc *rpc.Client
}

// NewProviderClient dials a JSON-RPC endpoint.
func NewProviderClient(ctx context.Context, rawURL string) (*ProviderClient, error) {
	client, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial provider: %w", err)
	}
	return &ProviderClient{rpc: client}, nil
}

// NewProviderClientFromRPC wraps an existing RPC client.
func NewProviderClientFromRPC(client *rpc.Client) *ProviderClient {
	return &ProviderClient{rpc: client}
}

// Request forwards the call to the provider and returns the raw result.
// Provider rejection codes (4001) surface through the error's ErrorCode and
// classify as user rejection upstream.
func (p *ProviderClient) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	args, err := splitParams(params)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := p.rpc.CallContext(ctx, &raw, method, args...); err != nil {
		return nil, err
	}
	return raw, nil
}

// Close releases the underlying RPC connection.
func (p *ProviderClient) Close() {
	p.rpc.Close()
}

// splitParams turns a params value into positional JSON-RPC arguments.
// Slices spread into one argument each; anything else rides as a single
// argument.
func splitParams(params any) ([]any, error) {
	if params == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request params: %w", err)
	}
	if len(encoded) > 0 && encoded[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(encoded, &list); err != nil {
			return nil, fmt.Errorf("failed to split request params: %w", err)
		}
		args := make([]any, len(list))
		for i, item := range list {
			args[i] = item
		}
		return args, nil
	}
	return []any{json.RawMessage(encoded)}, nil
}

// SessionSigner holds the session account's private key and submits redeem
// transactions directly through an execution client. It implements
// mmad.WalletClient for the transaction methods the redemption flow needs;
// permission requests still require a real wallet, since only the user's
// wallet can approve a grant.
type SessionSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	eth        *ethclient.Client
}

// NewSessionSigner creates a signer from a hex-encoded private key (with or
// without the "0x" prefix) and an execution client used for nonce, gas, and
// broadcast.
func NewSessionSigner(privateKeyHex string, eth *ethclient.Client) (*SessionSigner, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &SessionSigner{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		eth:        eth,
	}, nil
}

// Address returns the session account address.
func (s *SessionSigner) Address() string {
	return s.address.Hex()
}

// SubmitRedeemCall signs and broadcasts an encoded redeem call, returning
// the transaction hash.
func (s *SessionSigner) SubmitRedeemCall(ctx context.Context, call *calldata.RedeemCall) (string, error) {
	return s.submit(ctx, call.To, call.Data, call.Value)
}

func (s *SessionSigner) submit(ctx context.Context, to common.Address, data []byte, value *big.Int) (string, error) {
	chainID, err := s.eth.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read chain ID: %w", err)
	}
	nonce, err := s.eth.PendingNonceAt(ctx, s.address)
	if err != nil {
		return "", fmt.Errorf("failed to read account nonce: %w", err)
	}
	gasPrice, err := s.eth.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to suggest gas price: %w", err)
	}
	if value == nil {
		value = new(big.Int)
	}
	gasLimit, err := s.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.address,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := s.eth.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("failed to broadcast transaction: %w", err)
	}
	return signed.Hash().Hex(), nil
}

// Request implements mmad.WalletClient for the methods a local signer can
// answer. eth_sendTransaction is signed locally and broadcast; everything
// else is unsupported.
func (s *SessionSigner) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	switch method {
	case mmad.MethodSendTransaction:
		to, data, value, err := decodeTxParams(params)
		if err != nil {
			return nil, err
		}
		hash, err := s.submit(ctx, to, data, value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(hash)

	case "eth_chainId":
		chainID, err := s.eth.ChainID(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(hexutil.EncodeBig(chainID))

	default:
		return nil, fmt.Errorf("method %q is not supported by the session signer", method)
	}
}

func decodeTxParams(params any) (common.Address, []byte, *big.Int, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return common.Address{}, nil, nil, fmt.Errorf("failed to encode transaction params: %w", err)
	}
	var list []struct {
		To    string `json:"to"`
		Data  string `json:"data"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(encoded, &list); err != nil || len(list) == 0 {
		return common.Address{}, nil, nil, fmt.Errorf("eth_sendTransaction expects a transaction object")
	}
	tx := list[0]
	if !common.IsHexAddress(tx.To) {
		return common.Address{}, nil, nil, fmt.Errorf("invalid transaction target: %q", tx.To)
	}
	data, err := hexutil.Decode(tx.Data)
	if err != nil {
		return common.Address{}, nil, nil, fmt.Errorf("invalid transaction data: %w", err)
	}
	value := new(big.Int)
	if tx.Value != "" {
		value, err = hexutil.DecodeBig(tx.Value)
		if err != nil {
			return common.Address{}, nil, nil, fmt.Errorf("invalid transaction value: %w", err)
		}
	}
	return common.HexToAddress(tx.To), data, value, nil
}
