package mmad

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/cadalt0/MMAD-SDK/chains"
	"github.com/cadalt0/MMAD-SDK/units"
)

// ValidateConfig enforces the structural and semantic invariants of a
// resolved configuration. Rules run in a fixed order and the first violation
// is reported, so error messages are deterministic; do not reorder.
func ValidateConfig(cfg *ResolvedPermissionConfig) error {
	// 1. Token permissions need a token contract.
	if cfg.PermissionType.IsToken() {
		if cfg.TokenAddress == "" {
			return NewConfigurationError("tokenAddress", "is required for token permission types")
		}
		if !common.IsHexAddress(cfg.TokenAddress) {
			return NewConfigurationError("tokenAddress", fmt.Sprintf("%q is not a valid address", cfg.TokenAddress))
		}
	}

	// 2. Precision must be usable; zero is a valid precision.
	if cfg.TokenDecimals < 0 || cfg.TokenDecimals > 255 {
		return NewConfigurationError("tokenDecimals", fmt.Sprintf("must be between 0 and 255, got %d", cfg.TokenDecimals))
	}

	shape, err := cfg.PermissionType.Shape()
	if err != nil {
		return NewConfigurationError("permissionType", err.Error())
	}

	switch shape {
	case ShapePeriodic:
		// 3. Periodic permissions need a positive amount and period.
		if err := requirePositiveAmount("amount", cfg.Amount, cfg.TokenDecimals); err != nil {
			return err
		}
		if cfg.PeriodDuration <= 0 {
			return NewConfigurationError("periodDuration", "must be a positive number of seconds")
		}

	case ShapeStream:
		// 4. Stream permissions need positive rates and a start time.
		if err := requirePositiveAmount("amountPerSecond", cfg.AmountPerSecond, cfg.TokenDecimals); err != nil {
			return err
		}
		initial, err := parseAmountField("initialAmount", cfg.InitialAmount, cfg.TokenDecimals)
		if err != nil {
			return err
		}
		if err := requirePositiveAmount("maxAmount", cfg.MaxAmount, cfg.TokenDecimals); err != nil {
			return err
		}
		if cfg.StartTime == nil {
			return NewConfigurationError("startTime", "is required for stream permission types")
		}
		max, _ := units.Parse(cfg.MaxAmount, cfg.TokenDecimals)
		if max.Cmp(initial) < 0 {
			return NewConfigurationError("maxAmount", "must be greater than or equal to initialAmount")
		}
	}

	// 5. Expiry must be set.
	if cfg.Expiry <= 0 {
		return NewConfigurationError("expiry", "is required")
	}

	// 6. The resolved chain must be supported.
	if !chains.IsSupported(cfg.ChainID) {
		return NewConfigurationError("chainId", fmt.Sprintf("chain %d is not supported", cfg.ChainID))
	}

	return nil
}

func parseAmountField(field, value string, decimals int) (*big.Int, error) {
	parsed, err := units.Parse(value, decimals)
	if err != nil {
		return nil, NewConfigurationError(field, err.Error())
	}
	return parsed, nil
}

func requirePositiveAmount(field, value string, decimals int) error {
	parsed, err := parseAmountField(field, value, decimals)
	if err != nil {
		return err
	}
	if parsed.Sign() <= 0 {
		return NewConfigurationError(field, "must be greater than zero")
	}
	return nil
}
