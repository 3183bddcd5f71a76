package mmad

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/cadalt0/MMAD-SDK/chains"
	"github.com/cadalt0/MMAD-SDK/units"
)

// BuildPermissionRequest maps a validated configuration into the wire-format
// request a wallet expects. Decimal amounts are converted to fixed-point
// integer strings at the configuration's precision.
func BuildPermissionRequest(cfg *ResolvedPermissionConfig, sessionAccount string) (*PermissionRequest, error) {
	if !common.IsHexAddress(sessionAccount) {
		return nil, NewConfigurationError("sessionAccount", "must be a valid address")
	}

	req := &PermissionRequest{
		ChainID: chains.HexID(cfg.ChainID),
		Expiry:  cfg.Expiry,
		Signer: AccountSigner{
			Type: SignerTypeAccount,
			Data: SignerData{Address: sessionAccount},
		},
		Permission: Permission{
			Type: cfg.PermissionType,
			Data: PermissionData{
				Justification: cfg.Justification,
			},
		},
		IsAdjustmentAllowed: cfg.IsAdjustmentAllowed,
	}
	if cfg.PermissionType.IsToken() {
		req.Permission.Data.TokenAddress = cfg.TokenAddress
	}

	shape, err := cfg.PermissionType.Shape()
	if err != nil {
		return nil, NewConfigurationError("permissionType", err.Error())
	}

	switch shape {
	case ShapePeriodic:
		periodAmount, err := parseAmountField("amount", cfg.Amount, cfg.TokenDecimals)
		if err != nil {
			return nil, err
		}
		req.Permission.Data.PeriodAmount = periodAmount.String()
		req.Permission.Data.PeriodDuration = cfg.PeriodDuration
		// Omitted start time means "start now"; the wallet interprets it.
		req.Permission.Data.StartTime = cfg.StartTime

	case ShapeStream:
		perSecond, err := parseAmountField("amountPerSecond", cfg.AmountPerSecond, cfg.TokenDecimals)
		if err != nil {
			return nil, err
		}
		initial, err := parseAmountField("initialAmount", cfg.InitialAmount, cfg.TokenDecimals)
		if err != nil {
			return nil, err
		}
		max, err := parseAmountField("maxAmount", cfg.MaxAmount, cfg.TokenDecimals)
		if err != nil {
			return nil, err
		}
		req.Permission.Data.AmountPerSecond = perSecond.String()
		req.Permission.Data.InitialAmount = initial.String()
		req.Permission.Data.MaxAmount = max.String()
		// Guaranteed by the validator.
		req.Permission.Data.StartTime = cfg.StartTime
	}

	return req, nil
}

// FormatUnits is re-exported for callers rendering fixed-point request
// amounts back into decimals (receipts, logs, UIs).
func FormatUnits(v string, decimals int) (string, error) {
	parsed, err := units.Parse(v, 0)
	if err != nil {
		return "", err
	}
	return units.Format(parsed, decimals), nil
}
