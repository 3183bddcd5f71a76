// Package calldata encodes a permission redemption as an on-chain function
// call against the delegation manager contract.
package calldata

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/cadalt0/MMAD-SDK/units"
)

// RedeemFunction is the delegation manager entrypoint the encoded call targets.
const RedeemFunction = "redeemPermission"

// DefaultRedeemABI is the interface of the built-in redeem entrypoint:
// redeemPermission(bytes permissionsContext, address recipient,
// uint256 amount, string permissionType, address tokenAddress,
// uint8 tokenDecimals). Non-payable; callers supply a native value override
// explicitly when their manager variant requires one.
const DefaultRedeemABI = `[{
  "type": "function",
  "name": "redeemPermission",
  "stateMutability": "nonpayable",
  "inputs": [
    {"name": "permissionsContext", "type": "bytes"},
    {"name": "recipient", "type": "address"},
    {"name": "amount", "type": "uint256"},
    {"name": "permissionType", "type": "string"},
    {"name": "tokenAddress", "type": "address"},
    {"name": "tokenDecimals", "type": "uint8"}
  ],
  "outputs": []
}]`

// Token decimal defaults applied when the caller does not specify precision.
const (
	DefaultTokenDecimals  = 6
	DefaultNativeDecimals = 18
)

// Params are the inputs for building a redeem call.
type Params struct {
	// DelegationManager is the contract the call targets. Required.
	DelegationManager string

	// PermissionsContext is the opaque token returned when the permission
	// was granted, hex-encoded. Required.
	PermissionsContext string

	// Recipient receives the redeemed value. Required.
	Recipient string

	// Amount is the human decimal amount to redeem. Required.
	Amount string

	// PermissionType is the permission discriminant (e.g.
	// "erc20-token-periodic"). Required.
	PermissionType string

	// TokenAddress is required for token-denominated permission types and
	// ignored for native ones.
	TokenAddress string

	// TokenDecimals overrides the conversion precision. Zero value means
	// "not set": token types fall back to 6, native types to 18.
	TokenDecimals *int

	// Value is the native value attached to the call. Nil means zero.
	Value *big.Int

	// ABIJSON replaces DefaultRedeemABI. The supplied interface must still
	// declare RedeemFunction with the same argument list.
	ABIJSON string
}

// RedeemCall is an encoded call ready for on-chain submission.
type RedeemCall struct {
	To    common.Address
	Data  []byte
	Value *big.Int
}

// Build encodes a redemption into calldata against the delegation manager.
func Build(p Params) (*RedeemCall, error) {
	if !common.IsHexAddress(p.DelegationManager) {
		return nil, fmt.Errorf("invalid delegation manager address: %q", p.DelegationManager)
	}
	if !common.IsHexAddress(p.Recipient) {
		return nil, fmt.Errorf("invalid recipient address: %q", p.Recipient)
	}
	if p.PermissionsContext == "" {
		return nil, fmt.Errorf("permissionsContext is required")
	}
	if p.PermissionType == "" {
		return nil, fmt.Errorf("permissionType is required")
	}

	isToken := !strings.Contains(p.PermissionType, "native")
	tokenAddr := common.Address{}
	if isToken {
		if !common.IsHexAddress(p.TokenAddress) {
			return nil, fmt.Errorf("token permission type %q requires a valid tokenAddress", p.PermissionType)
		}
		tokenAddr = common.HexToAddress(p.TokenAddress)
	}

	decimals := DefaultNativeDecimals
	if isToken {
		decimals = DefaultTokenDecimals
	}
	if p.TokenDecimals != nil {
		decimals = *p.TokenDecimals
	}
	if decimals < 0 || decimals > 255 {
		return nil, fmt.Errorf("tokenDecimals out of range: %d", decimals)
	}

	amount, err := units.Parse(p.Amount, decimals)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	permCtx, err := hexutil.Decode(p.PermissionsContext)
	if err != nil {
		return nil, fmt.Errorf("permissionsContext is not valid hex: %w", err)
	}

	abiJSON := p.ABIJSON
	if abiJSON == "" {
		abiJSON = DefaultRedeemABI
	}
	redeemABI, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse redeem ABI: %w", err)
	}

	data, err := redeemABI.Pack(
		RedeemFunction,
		permCtx,
		common.HexToAddress(p.Recipient),
		amount,
		p.PermissionType,
		tokenAddr,
		uint8(decimals),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encode redeem call: %w", err)
	}

	value := p.Value
	if value == nil {
		value = new(big.Int)
	}

	return &RedeemCall{
		To:    common.HexToAddress(p.DelegationManager),
		Data:  data,
		Value: value,
	}, nil
}
