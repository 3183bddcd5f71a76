package mmad

import (
	"errors"
	"fmt"
)

// PermissionError is the SDK's typed error. Code tells callers which failure
// family they are looking at; Field names the offending configuration field
// when the code is configuration_error.
type PermissionError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`

	cause error
}

// Error code families. Configuration errors are always raised before any
// external call; user rejection is split out so "the user said no" is never
// treated as a system fault.
const (
	ErrCodeConfiguration = "configuration_error"
	ErrCodeUserRejected  = "user_rejected"
	ErrCodeTransport     = "transport_error"
	ErrCodeUnexpected    = "unexpected_error"
)

// ProviderCodeUserRejected is the EIP-1193 rejection code wallets return
// when the user declines a request.
const ProviderCodeUserRejected = 4001

// userRejectedMessage is stable: callers match on it and on the code.
const userRejectedMessage = "user rejected the request"

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PermissionError) Unwrap() error {
	return e.cause
}

// NewConfigurationError reports an invalid or missing configuration field.
func NewConfigurationError(field, message string) *PermissionError {
	return &PermissionError{
		Code:    ErrCodeConfiguration,
		Message: fmt.Sprintf("%s: %s", field, message),
		Field:   field,
	}
}

// NewUserRejectionError reports that the user declined the wallet prompt.
func NewUserRejectionError(cause error) *PermissionError {
	return &PermissionError{
		Code:    ErrCodeUserRejected,
		Message: userRejectedMessage,
		cause:   cause,
	}
}

// NewTransportError wraps a wallet RPC, HTTP, or on-chain submission failure.
func NewTransportError(cause error) *PermissionError {
	return &PermissionError{
		Code:    ErrCodeTransport,
		Message: cause.Error(),
		cause:   cause,
	}
}

// IsConfigurationError reports whether err is a configuration failure.
func IsConfigurationError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe) && pe.Code == ErrCodeConfiguration
}

// IsUserRejection reports whether err means the user declined the request.
func IsUserRejection(err error) bool {
	var pe *PermissionError
	if errors.As(err, &pe) && pe.Code == ErrCodeUserRejected {
		return true
	}
	return providerCode(err) == ProviderCodeUserRejected
}

// ProviderError is a JSON-RPC error surfaced by a wallet provider.
type ProviderError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// ErrorCode implements the go-ethereum rpc.Error shape so provider errors
// from either source classify the same way.
func (e *ProviderError) ErrorCode() int {
	return e.Code
}

// providerCode extracts a JSON-RPC error code from err, or 0.
func providerCode(err error) int {
	var coded interface{ ErrorCode() int }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return 0
}

// classifyExternalError maps a failure from a wallet call, backend request,
// or on-chain submission into the SDK error taxonomy. Rejections become
// user_rejected, everything else becomes transport_error. Errors that are
// already typed pass through unchanged.
func classifyExternalError(err error) error {
	var pe *PermissionError
	if errors.As(err, &pe) {
		return err
	}
	if providerCode(err) == ProviderCodeUserRejected {
		return NewUserRejectionError(err)
	}
	return NewTransportError(err)
}
