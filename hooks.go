package mmad

import (
	"context"
	"encoding/json"
	"time"
)

// HookContext rides along with every hook invocation. RequestID is stable
// across all stages of one flow so hook output can be correlated.
type HookContext struct {
	RequestID string
	Stage     string
	Timestamp time.Time
}

// Hook stage names, as passed in HookContext.Stage.
const (
	StageBeforeBuild   = "beforeBuild"
	StageBeforeRequest = "beforeRequest"
	StageAfterRequest  = "afterRequest"
	StageBeforeSubmit  = "beforeSubmit"
	StageAfterSubmit   = "afterSubmit"
	StageOnError       = "onError"
)

// RequestHook observes or replaces a permission request at one lifecycle
// stage. Returning nil keeps the previous payload; returning a new request
// replaces it. Returning an error aborts the flow through the error hook.
type RequestHook func(ctx context.Context, hc HookContext, req *PermissionRequest) (*PermissionRequest, error)

// ResponseHook observes or replaces the wallet's raw response.
type ResponseHook func(ctx context.Context, hc HookContext, response json.RawMessage) (json.RawMessage, error)

// ErrorHook observes a failure before it propagates. It cannot suppress the
// error.
type ErrorHook func(ctx context.Context, hc HookContext, err error)

// TransformFunc is the caller-supplied full-override transform applied
// between the beforeBuild and beforeRequest stages of the grant flow.
type TransformFunc func(ctx context.Context, req *PermissionRequest) (*PermissionRequest, error)

// GrantHooks are the optional lifecycle callbacks of the permission flow.
// Every field may be nil; a nil hook passes its payload through unchanged.
// Exactly one of AfterRequest and OnError fires per call.
type GrantHooks struct {
	BeforeBuild   RequestHook
	BeforeRequest RequestHook
	AfterRequest  ResponseHook
	OnError       ErrorHook
}

// RedeemRequestHook observes or replaces a redeem request. Same replace
// contract as RequestHook.
type RedeemRequestHook func(ctx context.Context, hc HookContext, req *RedeemRequest) (*RedeemRequest, error)

// RedeemResultHook observes or replaces a strategy's result.
type RedeemResultHook func(ctx context.Context, hc HookContext, res *RedeemResult) (*RedeemResult, error)

// RedeemHooks are the optional lifecycle callbacks of the redemption flow.
// AfterSubmit fires on the chosen strategy's completion, whichever strategy
// that is.
type RedeemHooks struct {
	BeforeBuild  RedeemRequestHook
	BeforeSubmit RedeemRequestHook
	AfterSubmit  RedeemResultHook
	OnError      ErrorHook
}

// runStage is the single-stage pipeline runner: no hook means pass-through,
// a nil return keeps the previous payload, a non-nil return replaces it.
func runStage[T any](
	ctx context.Context,
	hc HookContext,
	stage string,
	hook func(context.Context, HookContext, *T) (*T, error),
	payload *T,
) (*T, error) {
	if hook == nil {
		return payload, nil
	}
	hc.Stage = stage
	out, err := hook(ctx, hc, payload)
	if err != nil {
		return payload, err
	}
	if out == nil {
		return payload, nil
	}
	return out, nil
}

// runResponseStage is runStage for raw response payloads.
func runResponseStage(
	ctx context.Context,
	hc HookContext,
	stage string,
	hook ResponseHook,
	payload json.RawMessage,
) (json.RawMessage, error) {
	if hook == nil {
		return payload, nil
	}
	hc.Stage = stage
	out, err := hook(ctx, hc, payload)
	if err != nil {
		return payload, err
	}
	if out == nil {
		return payload, nil
	}
	return out, nil
}

// fireErrorHook funnels a failure through the error hook, if registered, and
// hands the error back for re-raising.
func fireErrorHook(ctx context.Context, hc HookContext, hook ErrorHook, err error) error {
	if hook != nil {
		hc.Stage = StageOnError
		hook(ctx, hc, err)
	}
	return err
}
