package mmad

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PermissionType discriminates the permission shape (periodic or stream) and
// the asset kind (native or fungible token). The four canonical values cover
// everything wallets grant today; custom wallet-specific strings still
// classify through Shape and Asset as long as they name one of the two
// shapes.
type PermissionType string

const (
	PermissionNativeTokenPeriodic PermissionType = "native-token-periodic"
	PermissionERC20TokenPeriodic  PermissionType = "erc20-token-periodic"
	PermissionNativeTokenStream   PermissionType = "native-token-stream"
	PermissionERC20TokenStream    PermissionType = "erc20-token-stream"
)

// Shape is the spending schedule axis of a permission type.
type Shape int

const (
	ShapePeriodic Shape = iota + 1
	ShapeStream
)

// Asset is the denominated-asset axis of a permission type.
type Asset int

const (
	AssetNative Asset = iota + 1
	AssetToken
)

// Shape classifies the permission type as periodic or stream. A type naming
// neither (or both) shapes is invalid.
func (t PermissionType) Shape() (Shape, error) {
	periodic := strings.Contains(string(t), "periodic")
	stream := strings.Contains(string(t), "stream")
	switch {
	case periodic && !stream:
		return ShapePeriodic, nil
	case stream && !periodic:
		return ShapeStream, nil
	default:
		return 0, fmt.Errorf("permission type %q is neither periodic nor stream", t)
	}
}

// Asset classifies the permission type as native-asset or token-denominated.
func (t PermissionType) Asset() Asset {
	if strings.Contains(string(t), "native") {
		return AssetNative
	}
	return AssetToken
}

// IsToken reports whether the permission moves a fungible token.
func (t PermissionType) IsToken() bool {
	return t.Asset() == AssetToken
}

// PermissionConfig is the caller-facing permission description. Only
// PermissionType is mandatory; every other field has a type-specific default
// filled in by ResolveDefaults. Amounts are human decimal strings.
type PermissionConfig struct {
	PermissionType PermissionType

	// ChainID selects the network. Zero means chains.DefaultChainID.
	ChainID uint64

	// Expiry is the absolute unix time the permission lapses.
	// Zero means "now + 7 days".
	Expiry int64

	// Justification is shown to the user in the wallet approval prompt.
	Justification string

	// IsAdjustmentAllowed lets the user tune limits in the wallet UI before
	// approving. Nil defaults to true.
	IsAdjustmentAllowed *bool

	// TokenAddress is required for token permission types.
	TokenAddress string

	// TokenDecimals is the precision used for amount conversion. Nil
	// defaults to 18 for native types and 6 for token types. Zero is a
	// valid explicit precision.
	TokenDecimals *int

	// Periodic fields.
	Amount         string // max spend per period
	PeriodDuration int64  // seconds; zero means default (86400)

	// Stream fields.
	AmountPerSecond string
	InitialAmount   string
	MaxAmount       string

	// StartTime is when the permission becomes active. Periodic types may
	// leave it nil ("start now", interpreted by the wallet); stream types
	// default it to the current time.
	StartTime *int64
}

// ResolvedPermissionConfig is a PermissionConfig with every optional field
// populated. Instances are built per call by ResolveDefaults and treated as
// immutable afterwards.
type ResolvedPermissionConfig struct {
	PermissionType      PermissionType
	ChainID             uint64
	Expiry              int64
	Justification       string
	IsAdjustmentAllowed bool
	TokenAddress        string
	TokenDecimals       int

	Amount         string
	PeriodDuration int64

	AmountPerSecond string
	InitialAmount   string
	MaxAmount       string

	StartTime *int64
}

// ============================================================================
// Wire format
// ============================================================================

// SignerData carries the session account address inside the wire request.
type SignerData struct {
	Address string `json:"address"`
}

// AccountSigner identifies the session account that will exercise the
// permission.
type AccountSigner struct {
	Type string     `json:"type"`
	Data SignerData `json:"data"`
}

// SignerTypeAccount is the only signer type the SDK emits.
const SignerTypeAccount = "account"

// PermissionData is the type-specific payload of a permission request.
// Amounts are fixed-point integers rendered as decimal strings; large values
// never ride as native JSON numbers.
type PermissionData struct {
	// Periodic
	PeriodAmount   string `json:"periodAmount,omitempty"`
	PeriodDuration int64  `json:"periodDuration,omitempty"`

	// Stream
	AmountPerSecond string `json:"amountPerSecond,omitempty"`
	InitialAmount   string `json:"initialAmount,omitempty"`
	MaxAmount       string `json:"maxAmount,omitempty"`

	StartTime *int64 `json:"startTime,omitempty"`

	TokenAddress  string `json:"tokenAddress,omitempty"`
	Justification string `json:"justification,omitempty"`
}

// Permission pairs the discriminant with its data payload.
type Permission struct {
	Type PermissionType `json:"type"`
	Data PermissionData `json:"data"`
}

// PermissionRequest is the canonical wire-format object submitted to the
// wallet. Constructed fresh per request; hooks may replace it before
// submission.
type PermissionRequest struct {
	ChainID             string        `json:"chainId"` // hex, e.g. "0xaa36a7"
	Expiry              int64         `json:"expiry"`
	Signer              AccountSigner `json:"signer"`
	Permission          Permission    `json:"permission"`
	IsAdjustmentAllowed bool          `json:"isAdjustmentAllowed"`
}

// PermissionResult is the normalized outcome of a granted permission.
// PermissionContext is the opaque token the wallet returns; it must be passed
// back unmodified when redeeming.
type PermissionResult struct {
	PermissionContext string             `json:"permissionContext"`
	DelegationManager string             `json:"delegationManager"`
	Request           *PermissionRequest `json:"request"`
	Response          json.RawMessage    `json:"response"`
	UserAddress       string             `json:"userAddress,omitempty"`
	SessionAccount    string             `json:"sessionAccount"`
}

// ============================================================================
// Redemption
// ============================================================================

// RedeemConfig are the caller-supplied redemption parameters.
type RedeemConfig struct {
	// PermissionsContext is the opaque grant token, hex-encoded. Required.
	PermissionsContext string

	// Recipient receives the redeemed value. Required.
	Recipient string

	// Amount is the human decimal amount to redeem. Required.
	Amount string

	// PermissionType of the underlying grant. Required.
	PermissionType PermissionType

	// TokenAddress and TokenDecimals are required for token permission
	// types.
	TokenAddress  string
	TokenDecimals *int

	// ChainID is optional; when set it must be a supported chain.
	ChainID uint64

	// SessionAccountAddress is the account exercising the permission.
	SessionAccountAddress string
}

// RedeemRequest is the request object handed to whichever execution strategy
// runs the redemption. Optional fields are omitted rather than zeroed so
// consumers can tell "not provided" from "provided as empty".
type RedeemRequest struct {
	PermissionsContext    string         `json:"permissionsContext"`
	Recipient             string         `json:"recipient"`
	Amount                string         `json:"amount"`
	PermissionType        PermissionType `json:"permissionType"`
	TokenAddress          string         `json:"tokenAddress,omitempty"`
	TokenDecimals         *int           `json:"tokenDecimals,omitempty"`
	ChainID               uint64         `json:"chainId,omitempty"`
	SessionAccountAddress string         `json:"sessionAccountAddress,omitempty"`
}

// RedeemResult is the single result shape every execution strategy
// normalizes into.
type RedeemResult struct {
	Success         bool           `json:"success"`
	Message         string         `json:"message,omitempty"`
	RedeemRequest   *RedeemRequest `json:"redeemRequest,omitempty"`
	TransactionHash string         `json:"transactionHash,omitempty"`
	Recipient       string         `json:"recipient,omitempty"`
	Amount          string         `json:"amount,omitempty"`
	PermissionType  PermissionType `json:"permissionType,omitempty"`
	TokenAddress    string         `json:"tokenAddress,omitempty"`
	TokenDecimals   *int           `json:"tokenDecimals,omitempty"`
}
