package mmad

import (
	"context"
	"encoding/json"
)

// WalletClient is the single method the SDK needs from a wallet provider.
// Implementations wrap a browser provider bridge, a JSON-RPC endpoint, or a
// local session signer; compatibility shims around quirky providers are the
// caller's concern. Request blocks until the provider answers and returns
// the raw JSON result.
type WalletClient interface {
	Request(ctx context.Context, method string, params any) (json.RawMessage, error)
}

// Wallet RPC methods the SDK invokes.
const (
	// MethodRequestExecutionPermissions asks the wallet to grant an
	// ERC-7715 permission. Params: an array containing exactly one
	// PermissionRequest.
	MethodRequestExecutionPermissions = "wallet_requestExecutionPermissions"

	// MethodSendTransaction submits an encoded redeem call on-chain.
	MethodSendTransaction = "eth_sendTransaction"
)

// RedeemExecutor is a caller-supplied execution strategy. When set on
// RedeemOptions it takes priority over the backend and on-chain paths. It
// receives the built redeem request plus the full options object and returns
// a result to be normalized; its errors propagate through the standard error
// hook.
type RedeemExecutor func(ctx context.Context, req *RedeemRequest, opts RedeemOptions) (*RedeemResult, error)
