package mmad

import (
	"github.com/xeipuuv/gojsonschema"
)

// permissionRequestSchema is the wire shape a wallet accepts. The request is
// re-checked against it immediately before submission because hooks may have
// replaced the payload after the typed builder ran.
const permissionRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["chainId", "expiry", "signer", "permission", "isAdjustmentAllowed"],
  "properties": {
    "chainId": {"type": "string", "pattern": "^0x[0-9a-fA-F]+$"},
    "expiry": {"type": "integer", "minimum": 1},
    "signer": {
      "type": "object",
      "required": ["type", "data"],
      "properties": {
        "type": {"type": "string", "minLength": 1},
        "data": {
          "type": "object",
          "required": ["address"],
          "properties": {
            "address": {"type": "string", "pattern": "^0x[0-9a-fA-F]{40}$"}
          }
        }
      }
    },
    "permission": {
      "type": "object",
      "required": ["type", "data"],
      "properties": {
        "type": {"type": "string", "minLength": 1},
        "data": {
          "type": "object",
          "properties": {
            "periodAmount": {"type": "string", "pattern": "^[0-9]+$"},
            "periodDuration": {"type": "integer", "minimum": 1},
            "amountPerSecond": {"type": "string", "pattern": "^[0-9]+$"},
            "initialAmount": {"type": "string", "pattern": "^[0-9]+$"},
            "maxAmount": {"type": "string", "pattern": "^[0-9]+$"},
            "startTime": {"type": "integer"},
            "tokenAddress": {"type": "string", "pattern": "^0x[0-9a-fA-F]{40}$"},
            "justification": {"type": "string"}
          }
        }
      }
    },
    "isAdjustmentAllowed": {"type": "boolean"}
  }
}`

// validateRequestSchema checks the outbound request against the wallet wire
// schema and reports the first violation as a configuration error.
func validateRequestSchema(req *PermissionRequest) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(permissionRequestSchema),
		gojsonschema.NewGoLoader(req),
	)
	if err != nil {
		return &PermissionError{Code: ErrCodeConfiguration, Message: err.Error(), cause: err}
	}
	if !result.Valid() {
		return NewConfigurationError("request", result.Errors()[0].String())
	}
	return nil
}
