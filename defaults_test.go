package mmad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadalt0/MMAD-SDK/chains"
)

var testNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func TestResolveDefaultsTokenPeriodic(t *testing.T) {
	resolved, err := ResolveDefaults(PermissionConfig{
		PermissionType: PermissionERC20TokenPeriodic,
		TokenAddress:   "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238",
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, chains.DefaultChainID, resolved.ChainID)
	assert.Equal(t, testNow.Add(DefaultExpiryWindow).Unix(), resolved.Expiry)
	assert.Equal(t, DefaultJustification, resolved.Justification)
	assert.True(t, resolved.IsAdjustmentAllowed)
	assert.Equal(t, DefaultTokenDecimals, resolved.TokenDecimals)
	assert.Equal(t, DefaultTokenPeriodicAmount, resolved.Amount)
	assert.Equal(t, DefaultPeriodDuration, resolved.PeriodDuration)
	assert.Nil(t, resolved.StartTime, "periodic start time is wallet-interpreted when absent")
}

func TestResolveDefaultsNativePeriodic(t *testing.T) {
	resolved, err := ResolveDefaults(PermissionConfig{
		PermissionType: PermissionNativeTokenPeriodic,
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, DefaultNativeDecimals, resolved.TokenDecimals)
	assert.Equal(t, DefaultNativePeriodicAmount, resolved.Amount)
}

func TestResolveDefaultsStream(t *testing.T) {
	resolved, err := ResolveDefaults(PermissionConfig{
		PermissionType: PermissionNativeTokenStream,
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, DefaultNativeAmountPerSecond, resolved.AmountPerSecond)
	assert.Equal(t, DefaultStreamInitialAmount, resolved.InitialAmount)
	assert.Equal(t, DefaultStreamMaxAmount, resolved.MaxAmount)
	require.NotNil(t, resolved.StartTime)
	assert.Equal(t, testNow.Unix(), *resolved.StartTime)
}

func TestResolveDefaultsKeepsExplicitValues(t *testing.T) {
	adjust := false
	decimals := 8
	start := int64(1700000000)
	resolved, err := ResolveDefaults(PermissionConfig{
		PermissionType:      PermissionERC20TokenStream,
		ChainID:             chains.Base,
		Expiry:              1800000000,
		Justification:       "custom reason",
		IsAdjustmentAllowed: &adjust,
		TokenAddress:        "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238",
		TokenDecimals:       &decimals,
		AmountPerSecond:     "0.25",
		InitialAmount:       "2",
		MaxAmount:           "100",
		StartTime:           &start,
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, chains.Base, resolved.ChainID)
	assert.Equal(t, int64(1800000000), resolved.Expiry)
	assert.Equal(t, "custom reason", resolved.Justification)
	assert.False(t, resolved.IsAdjustmentAllowed)
	assert.Equal(t, 8, resolved.TokenDecimals)
	assert.Equal(t, "0.25", resolved.AmountPerSecond)
	assert.Equal(t, "2", resolved.InitialAmount)
	assert.Equal(t, "100", resolved.MaxAmount)
	require.NotNil(t, resolved.StartTime)
	assert.Equal(t, start, *resolved.StartTime)
}

func TestResolveDefaultsZeroDecimalsIsExplicit(t *testing.T) {
	decimals := 0
	resolved, err := ResolveDefaults(PermissionConfig{
		PermissionType: PermissionERC20TokenPeriodic,
		TokenAddress:   "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238",
		TokenDecimals:  &decimals,
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, resolved.TokenDecimals)
}

func TestResolveDefaultsRejectsBadType(t *testing.T) {
	_, err := ResolveDefaults(PermissionConfig{}, testNow)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "permissionType")

	_, err = ResolveDefaults(PermissionConfig{PermissionType: "erc20-token-linear"}, testNow)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}
