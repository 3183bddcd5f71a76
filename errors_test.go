package mmad

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("tokenAddress", "is required")
	assert.Equal(t, "configuration_error: tokenAddress: is required", err.Error())
	assert.Equal(t, "tokenAddress", err.Field)
	assert.True(t, IsConfigurationError(err))
	assert.False(t, IsUserRejection(err))

	// Classification survives wrapping.
	wrapped := fmt.Errorf("during grant: %w", err)
	assert.True(t, IsConfigurationError(wrapped))
}

func TestUserRejectionError(t *testing.T) {
	cause := &ProviderError{Code: ProviderCodeUserRejected, Message: "User denied the request."}
	err := NewUserRejectionError(cause)

	// The message is stable regardless of the wallet's wording.
	assert.Equal(t, "user_rejected: user rejected the request", err.Error())
	assert.True(t, IsUserRejection(err))
	assert.False(t, IsConfigurationError(err))
	assert.ErrorIs(t, err, cause)
}

func TestIsUserRejectionSeesBareProviderCode(t *testing.T) {
	// A raw provider error carrying code 4001 counts as a rejection even
	// before classification wraps it.
	assert.True(t, IsUserRejection(&ProviderError{Code: 4001, Message: "denied"}))
	assert.False(t, IsUserRejection(&ProviderError{Code: -32000, Message: "reverted"}))
}

func TestClassifyExternalError(t *testing.T) {
	// Already-typed errors pass through unchanged.
	typed := NewConfigurationError("amount", "must be greater than zero")
	assert.Same(t, typed, classifyExternalError(typed).(*PermissionError))

	// Provider code 4001 becomes a user rejection.
	rejected := classifyExternalError(&ProviderError{Code: 4001, Message: "denied"})
	var pe *PermissionError
	require.True(t, errors.As(rejected, &pe))
	assert.Equal(t, ErrCodeUserRejected, pe.Code)

	// Everything else is a transport failure.
	transport := classifyExternalError(errors.New("connection refused"))
	require.True(t, errors.As(transport, &pe))
	assert.Equal(t, ErrCodeTransport, pe.Code)
	assert.Contains(t, pe.Message, "connection refused")
}

func TestClassifyStrategyError(t *testing.T) {
	// Custom executor errors are the caller's own; they pass through.
	custom := errors.New("executor-specific failure")
	assert.Same(t, custom, classifyStrategyError(StrategyCustom, custom))

	// But a rejection is a rejection no matter which strategy raised it.
	rejected := classifyStrategyError(StrategyCustom, &ProviderError{Code: 4001, Message: "denied"})
	assert.True(t, IsUserRejection(rejected))

	// Transport-backed strategies wrap untyped failures.
	var pe *PermissionError
	wrapped := classifyStrategyError(StrategyBackend, errors.New("503"))
	require.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, ErrCodeTransport, pe.Code)
}
