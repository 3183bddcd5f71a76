package mmad

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// GrantPermissions resolves, validates, and builds a permission request from
// cfg, runs it through the hook pipeline, submits it to the wallet, and
// normalizes the wallet's answer.
//
// Configuration errors are returned before any hook fires or any external
// call is made. Failures past that point funnel through the OnError hook and
// are then returned; exactly one of AfterRequest and OnError fires per call.
func (c *Client) GrantPermissions(ctx context.Context, cfg PermissionConfig, sessionAccount string) (*PermissionResult, error) {
	if c.wallet == nil {
		return nil, NewConfigurationError("wallet", "a wallet client is required to request permissions")
	}

	resolved, err := ResolveDefaults(cfg, c.now())
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(resolved); err != nil {
		return nil, err
	}
	req, err := BuildPermissionRequest(resolved, sessionAccount)
	if err != nil {
		return nil, err
	}

	hc := HookContext{RequestID: uuid.NewString(), Timestamp: c.now()}

	req, err = runStage(ctx, hc, StageBeforeBuild, c.grantHooks.BeforeBuild, req)
	if err != nil {
		return nil, fireErrorHook(ctx, hc, c.grantHooks.OnError, err)
	}
	if c.transform != nil {
		out, terr := c.transform(ctx, req)
		if terr != nil {
			return nil, fireErrorHook(ctx, hc, c.grantHooks.OnError, terr)
		}
		if out != nil {
			req = out
		}
	}
	req, err = runStage(ctx, hc, StageBeforeRequest, c.grantHooks.BeforeRequest, req)
	if err != nil {
		return nil, fireErrorHook(ctx, hc, c.grantHooks.OnError, err)
	}

	// Hooks may have replaced the request wholesale; re-check the wire
	// shape before it leaves the process.
	if err := validateRequestSchema(req); err != nil {
		return nil, fireErrorHook(ctx, hc, c.grantHooks.OnError, err)
	}

	raw, err := c.wallet.Request(ctx, MethodRequestExecutionPermissions, []*PermissionRequest{req})
	if err != nil {
		err = classifyExternalError(err)
		return nil, fireErrorHook(ctx, hc, c.grantHooks.OnError, err)
	}

	raw, err = runResponseStage(ctx, hc, StageAfterRequest, c.grantHooks.AfterRequest, raw)
	if err != nil {
		return nil, fireErrorHook(ctx, hc, c.grantHooks.OnError, err)
	}

	result, err := parsePermissionResponse(raw, req, sessionAccount)
	if err != nil {
		err = NewTransportError(err)
		return nil, fireErrorHook(ctx, hc, c.grantHooks.OnError, err)
	}
	return result, nil
}

// grantedPermission is the slice element shape wallets return from
// wallet_requestExecutionPermissions. Older wallets use "context" where
// newer ones use "permissionsContext".
type grantedPermission struct {
	PermissionsContext string `json:"permissionsContext"`
	Context            string `json:"context"`
	Address            string `json:"address"`
	SignerMeta         struct {
		DelegationManager string `json:"delegationManager"`
	} `json:"signerMeta"`
}

func parsePermissionResponse(raw json.RawMessage, req *PermissionRequest, sessionAccount string) (*PermissionResult, error) {
	var granted []grantedPermission
	if err := json.Unmarshal(raw, &granted); err != nil {
		return nil, fmt.Errorf("malformed wallet response: %w", err)
	}
	if len(granted) == 0 {
		return nil, fmt.Errorf("wallet returned no granted permissions")
	}

	first := granted[0]
	permCtx := first.PermissionsContext
	if permCtx == "" {
		permCtx = first.Context
	}
	if permCtx == "" {
		return nil, fmt.Errorf("wallet response is missing the permissions context")
	}

	return &PermissionResult{
		PermissionContext: permCtx,
		DelegationManager: first.SignerMeta.DelegationManager,
		Request:           req,
		Response:          raw,
		UserAddress:       first.Address,
		SessionAccount:    sessionAccount,
	}, nil
}
