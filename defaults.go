package mmad

import (
	"time"

	"github.com/cadalt0/MMAD-SDK/chains"
)

// Defaults applied by ResolveDefaults when a configuration field is omitted.
const (
	DefaultNativeDecimals = 18
	DefaultTokenDecimals  = 6

	// DefaultPeriodDuration is one day, in seconds.
	DefaultPeriodDuration int64 = 86400

	// DefaultExpiryWindow is how far from now a permission lapses when the
	// caller does not set an expiry.
	DefaultExpiryWindow = 7 * 24 * time.Hour

	DefaultNativePeriodicAmount  = "0.00001"
	DefaultNativeAmountPerSecond = "0.00001"
	DefaultTokenPeriodicAmount   = "1"
	DefaultTokenAmountPerSecond  = "1"

	DefaultStreamInitialAmount = "0.1"
	DefaultStreamMaxAmount     = "1"

	DefaultJustification = "Spending permission requested via MMAD SDK"
)

// ResolveDefaults fills every omitted field of cfg from the type-specific
// defaults and returns the fully resolved configuration. now anchors the
// relative defaults (expiry, stream start time); callers normally pass
// time.Now().
func ResolveDefaults(cfg PermissionConfig, now time.Time) (*ResolvedPermissionConfig, error) {
	if cfg.PermissionType == "" {
		return nil, NewConfigurationError("permissionType", "is required")
	}
	shape, err := cfg.PermissionType.Shape()
	if err != nil {
		return nil, NewConfigurationError("permissionType", err.Error())
	}

	native := cfg.PermissionType.Asset() == AssetNative

	resolved := &ResolvedPermissionConfig{
		PermissionType:      cfg.PermissionType,
		ChainID:             cfg.ChainID,
		Expiry:              cfg.Expiry,
		Justification:       cfg.Justification,
		IsAdjustmentAllowed: true,
		TokenAddress:        cfg.TokenAddress,
		StartTime:           cfg.StartTime,
	}

	if resolved.ChainID == 0 {
		resolved.ChainID = chains.DefaultChainID
	}
	if resolved.Expiry == 0 {
		resolved.Expiry = now.Add(DefaultExpiryWindow).Unix()
	}
	if resolved.Justification == "" {
		resolved.Justification = DefaultJustification
	}
	if cfg.IsAdjustmentAllowed != nil {
		resolved.IsAdjustmentAllowed = *cfg.IsAdjustmentAllowed
	}

	switch {
	case cfg.TokenDecimals != nil:
		resolved.TokenDecimals = *cfg.TokenDecimals
	case native:
		resolved.TokenDecimals = DefaultNativeDecimals
	default:
		resolved.TokenDecimals = DefaultTokenDecimals
	}

	switch shape {
	case ShapePeriodic:
		resolved.Amount = cfg.Amount
		resolved.PeriodDuration = cfg.PeriodDuration
		if resolved.Amount == "" {
			if native {
				resolved.Amount = DefaultNativePeriodicAmount
			} else {
				resolved.Amount = DefaultTokenPeriodicAmount
			}
		}
		if resolved.PeriodDuration == 0 {
			resolved.PeriodDuration = DefaultPeriodDuration
		}
		// StartTime stays nil when absent: "start now" is left to the
		// wallet to interpret.

	case ShapeStream:
		resolved.AmountPerSecond = cfg.AmountPerSecond
		resolved.InitialAmount = cfg.InitialAmount
		resolved.MaxAmount = cfg.MaxAmount
		if resolved.AmountPerSecond == "" {
			if native {
				resolved.AmountPerSecond = DefaultNativeAmountPerSecond
			} else {
				resolved.AmountPerSecond = DefaultTokenAmountPerSecond
			}
		}
		if resolved.InitialAmount == "" {
			resolved.InitialAmount = DefaultStreamInitialAmount
		}
		if resolved.MaxAmount == "" {
			resolved.MaxAmount = DefaultStreamMaxAmount
		}
		if resolved.StartTime == nil {
			start := now.Unix()
			resolved.StartTime = &start
		}
	}

	return resolved, nil
}
