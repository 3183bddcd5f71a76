package mmad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/cadalt0/MMAD-SDK/calldata"
	"github.com/cadalt0/MMAD-SDK/chains"
)

// Strategy identifies the execution path a redemption dispatches to.
// Selection happens exactly once per call, before dispatch, so it can be
// audited independently of execution (see Client.ResolveStrategy).
type Strategy int

const (
	// StrategyCustom runs a caller-supplied RedeemExecutor.
	StrategyCustom Strategy = iota + 1
	// StrategyBackend POSTs the redeem request to an HTTP endpoint.
	StrategyBackend
	// StrategyOnChain encodes the redemption as calldata and submits it
	// through the wallet client.
	StrategyOnChain
	// StrategyPrepared builds the request but submits nothing; the caller
	// acts on the returned RedeemRequest themselves.
	StrategyPrepared
)

func (s Strategy) String() string {
	switch s {
	case StrategyCustom:
		return "custom"
	case StrategyBackend:
		return "backend"
	case StrategyOnChain:
		return "onchain"
	case StrategyPrepared:
		return "prepared"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// DefaultRedeemEndpoint is the conventional backend path used when no
// explicit endpoint is supplied.
const DefaultRedeemEndpoint = "/api/redeem"

// RedeemOptions parameterize one redemption call.
type RedeemOptions struct {
	// Config carries the redemption parameters. Required.
	Config RedeemConfig

	// Executor, when set, handles execution itself and bypasses the
	// backend and on-chain paths entirely.
	Executor RedeemExecutor

	// Endpoint is the backend redemption URL. Absolute URLs are used
	// as-is; relative paths are resolved against the client's backend
	// base URL. Empty means DefaultRedeemEndpoint.
	Endpoint string

	// Wallet overrides the client's wallet for on-chain submission.
	Wallet WalletClient

	// DelegationManager is the contract targeted by the on-chain path.
	DelegationManager string

	// Value is an explicit native value override for the on-chain call.
	// The builder never decides on its own that native value is required.
	Value *big.Int

	// ABIJSON overrides the built-in redeem interface.
	ABIJSON string

	// Hooks overrides the client-level redemption hooks for this call.
	Hooks *RedeemHooks
}

// ResolveStrategy picks the execution strategy for opts without executing
// anything. The priority order is: custom executor, backend endpoint (also
// chosen when no wallet is available), on-chain submission. When none of the
// three is resolvable the redemption degrades to StrategyPrepared rather
// than failing.
func (c *Client) ResolveStrategy(opts RedeemOptions) Strategy {
	wallet := opts.Wallet
	if wallet == nil {
		wallet = c.wallet
	}

	switch {
	case opts.Executor != nil:
		return StrategyCustom
	case opts.Endpoint != "" || wallet == nil:
		if c.resolveEndpoint(opts.Endpoint) != "" {
			return StrategyBackend
		}
		if wallet != nil {
			return StrategyOnChain
		}
		return StrategyPrepared
	default:
		return StrategyOnChain
	}
}

// resolveEndpoint turns the per-call endpoint into an absolute URL, or ""
// when no backend is reachable from this configuration.
func (c *Client) resolveEndpoint(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if c.backendBaseURL == "" {
		return ""
	}
	path := endpoint
	if path == "" {
		path = DefaultRedeemEndpoint
	}
	return strings.TrimRight(c.backendBaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// RedeemPermission validates the redemption parameters, builds a redeem
// request from the supplied fields, runs the hook pipeline, dispatches to
// the resolved strategy, and normalizes the outcome into a RedeemResult.
//
// Every failure funnels through the OnError hook exactly once and is then
// returned; the hook observes but never suppresses.
func (c *Client) RedeemPermission(ctx context.Context, opts RedeemOptions) (*RedeemResult, error) {
	hooks := c.redeemHooks
	if opts.Hooks != nil {
		hooks = *opts.Hooks
	}
	hc := HookContext{RequestID: uuid.NewString(), Timestamp: c.now()}

	// VALIDATING
	if err := validateRedeemConfig(opts.Config); err != nil {
		return nil, fireErrorHook(ctx, hc, hooks.OnError, err)
	}

	// BUILDING: only the fields actually supplied make it into the
	// request; absent optionals stay absent.
	req := buildRedeemRequest(opts.Config)
	req, err := runStage(ctx, hc, StageBeforeBuild, hooks.BeforeBuild, req)
	if err != nil {
		return nil, fireErrorHook(ctx, hc, hooks.OnError, err)
	}

	// DISPATCHING: the strategy is resolved once, not re-derived per
	// branch.
	strategy := c.ResolveStrategy(opts)

	req, err = runStage(ctx, hc, StageBeforeSubmit, hooks.BeforeSubmit, req)
	if err != nil {
		return nil, fireErrorHook(ctx, hc, hooks.OnError, err)
	}

	var res *RedeemResult
	switch strategy {
	case StrategyCustom:
		res, err = opts.Executor(ctx, req, opts)
	case StrategyBackend:
		res, err = c.redeemViaBackend(ctx, c.resolveEndpoint(opts.Endpoint), req)
	case StrategyOnChain:
		res, err = c.redeemOnChain(ctx, req, opts)
	case StrategyPrepared:
		res = &RedeemResult{
			Success: true,
			Message: "redeem request prepared; no execution strategy configured",
		}
	}
	if err != nil {
		err = classifyStrategyError(strategy, err)
		return nil, fireErrorHook(ctx, hc, hooks.OnError, err)
	}

	// COMPLETE: one result shape regardless of the strategy chosen.
	res = normalizeRedeemResult(res, req)
	res, err = runStage(ctx, hc, StageAfterSubmit, hooks.AfterSubmit, res)
	if err != nil {
		return nil, fireErrorHook(ctx, hc, hooks.OnError, err)
	}
	return res, nil
}

// validateRedeemConfig checks the redemption parameters before anything is
// built or sent. Rule order is fixed for deterministic error messages.
func validateRedeemConfig(cfg RedeemConfig) error {
	if cfg.PermissionsContext == "" {
		return NewConfigurationError("permissionsContext", "is required")
	}
	if !common.IsHexAddress(cfg.Recipient) {
		return NewConfigurationError("recipient", "must be a valid address")
	}

	decimals := redeemDecimals(cfg)
	if err := requirePositiveAmount("amount", cfg.Amount, decimals); err != nil {
		return err
	}
	if cfg.PermissionType == "" {
		return NewConfigurationError("permissionType", "is required")
	}
	if cfg.PermissionType.IsToken() {
		if !common.IsHexAddress(cfg.TokenAddress) {
			return NewConfigurationError("tokenAddress", "is required for token permission types")
		}
		if cfg.TokenDecimals == nil {
			return NewConfigurationError("tokenDecimals", "is required for token permission types")
		}
	}
	if cfg.ChainID != 0 && !chains.IsSupported(cfg.ChainID) {
		return NewConfigurationError("chainId", fmt.Sprintf("chain %d is not supported", cfg.ChainID))
	}
	return nil
}

// redeemDecimals is the precision used for the redemption amount:
// the explicit TokenDecimals, else 6 for token types and 18 otherwise.
func redeemDecimals(cfg RedeemConfig) int {
	if cfg.TokenDecimals != nil {
		return *cfg.TokenDecimals
	}
	if cfg.PermissionType != "" && cfg.PermissionType.IsToken() {
		return calldata.DefaultTokenDecimals
	}
	return calldata.DefaultNativeDecimals
}

func buildRedeemRequest(cfg RedeemConfig) *RedeemRequest {
	return &RedeemRequest{
		PermissionsContext:    cfg.PermissionsContext,
		Recipient:             cfg.Recipient,
		Amount:                cfg.Amount,
		PermissionType:        cfg.PermissionType,
		TokenAddress:          cfg.TokenAddress,
		TokenDecimals:         cfg.TokenDecimals,
		ChainID:               cfg.ChainID,
		SessionAccountAddress: cfg.SessionAccountAddress,
	}
}

// redeemOnChain encodes the redemption as calldata and submits it through
// the wallet client, returning the transaction hash.
func (c *Client) redeemOnChain(ctx context.Context, req *RedeemRequest, opts RedeemOptions) (*RedeemResult, error) {
	wallet := opts.Wallet
	if wallet == nil {
		wallet = c.wallet
	}
	if opts.DelegationManager == "" {
		return nil, NewConfigurationError("delegationManager", "is required for on-chain redemption")
	}

	call, err := calldata.Build(calldata.Params{
		DelegationManager:  opts.DelegationManager,
		PermissionsContext: req.PermissionsContext,
		Recipient:          req.Recipient,
		Amount:             req.Amount,
		PermissionType:     string(req.PermissionType),
		TokenAddress:       req.TokenAddress,
		TokenDecimals:      req.TokenDecimals,
		Value:              opts.Value,
		ABIJSON:            opts.ABIJSON,
	})
	if err != nil {
		return nil, &PermissionError{Code: ErrCodeConfiguration, Message: err.Error(), cause: err}
	}

	tx := map[string]any{
		"to":   call.To.Hex(),
		"data": hexutil.Encode(call.Data),
	}
	if req.SessionAccountAddress != "" {
		tx["from"] = req.SessionAccountAddress
	}
	if call.Value != nil && call.Value.Sign() > 0 {
		tx["value"] = hexutil.EncodeBig(call.Value)
	}

	raw, err := wallet.Request(ctx, MethodSendTransaction, []any{tx})
	if err != nil {
		return nil, err
	}
	var txHash string
	if err := json.Unmarshal(raw, &txHash); err != nil {
		return nil, fmt.Errorf("malformed transaction hash from wallet: %w", err)
	}

	return &RedeemResult{
		Success:         true,
		TransactionHash: txHash,
	}, nil
}

// classifyStrategyError maps a strategy failure into the error taxonomy.
// Rejections always surface as user_rejected. Custom executor errors are
// otherwise passed through unchanged; transport-backed strategies wrap
// theirs as transport errors.
func classifyStrategyError(strategy Strategy, err error) error {
	var pe *PermissionError
	if errors.As(err, &pe) {
		return err
	}
	if providerCode(err) == ProviderCodeUserRejected {
		return NewUserRejectionError(err)
	}
	if strategy == StrategyCustom {
		return err
	}
	return NewTransportError(err)
}

// normalizeRedeemResult fills the common result fields every strategy is
// expected to echo, so callers see one shape no matter which path ran.
func normalizeRedeemResult(res *RedeemResult, req *RedeemRequest) *RedeemResult {
	if res == nil {
		res = &RedeemResult{Success: true}
	}
	if res.RedeemRequest == nil {
		res.RedeemRequest = req
	}
	if res.Recipient == "" {
		res.Recipient = req.Recipient
	}
	if res.Amount == "" {
		res.Amount = req.Amount
	}
	if res.PermissionType == "" {
		res.PermissionType = req.PermissionType
	}
	if res.TokenAddress == "" {
		res.TokenAddress = req.TokenAddress
	}
	if res.TokenDecimals == nil {
		res.TokenDecimals = req.TokenDecimals
	}
	return res
}
