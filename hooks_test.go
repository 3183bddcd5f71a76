package mmad

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStagePassThroughWhenNilHook(t *testing.T) {
	payload := &PermissionRequest{ChainID: "0x1"}
	out, err := runStage[PermissionRequest](context.Background(), HookContext{}, StageBeforeBuild, nil, payload)
	require.NoError(t, err)
	assert.Same(t, payload, out)
}

func TestRunStageNilReturnKeepsPayload(t *testing.T) {
	payload := &PermissionRequest{ChainID: "0x1"}
	var seenStage string
	hook := func(ctx context.Context, hc HookContext, req *PermissionRequest) (*PermissionRequest, error) {
		seenStage = hc.Stage
		return nil, nil
	}

	out, err := runStage(context.Background(), HookContext{RequestID: "r1"}, StageBeforeRequest, hook, payload)
	require.NoError(t, err)
	assert.Same(t, payload, out)
	assert.Equal(t, StageBeforeRequest, seenStage)
}

func TestRunStageReplacesPayload(t *testing.T) {
	replacement := &PermissionRequest{ChainID: "0x2105"}
	hook := func(ctx context.Context, hc HookContext, req *PermissionRequest) (*PermissionRequest, error) {
		return replacement, nil
	}

	out, err := runStage(context.Background(), HookContext{}, StageBeforeBuild, hook, &PermissionRequest{ChainID: "0x1"})
	require.NoError(t, err)
	assert.Same(t, replacement, out)
}

func TestRunStagePropagatesError(t *testing.T) {
	boom := errors.New("hook refused")
	hook := func(ctx context.Context, hc HookContext, req *PermissionRequest) (*PermissionRequest, error) {
		return &PermissionRequest{}, boom
	}

	_, err := runStage(context.Background(), HookContext{}, StageBeforeBuild, hook, &PermissionRequest{})
	assert.ErrorIs(t, err, boom)
}

func TestFireErrorHook(t *testing.T) {
	boom := errors.New("boom")

	// Without a hook the error comes straight back.
	assert.ErrorIs(t, fireErrorHook(context.Background(), HookContext{}, nil, boom), boom)

	// With a hook it is observed once, with the onError stage set, and still
	// returned: the hook never suppresses.
	var calls int
	var seenStage string
	hook := func(ctx context.Context, hc HookContext, err error) {
		calls++
		seenStage = hc.Stage
		assert.ErrorIs(t, err, boom)
	}
	assert.ErrorIs(t, fireErrorHook(context.Background(), HookContext{}, hook, boom), boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StageOnError, seenStage)
}
