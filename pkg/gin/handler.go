// Package gin exposes the backend redemption endpoint as a gin handler, for
// services that hold the session key and execute redemptions on behalf of
// their clients.
package gin

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	mmad "github.com/cadalt0/MMAD-SDK"
)

// Redeemer executes a redemption server-side and returns the normalized
// result. Implementations typically call Client.RedeemPermission with the
// on-chain strategy or a custom executor.
type Redeemer func(ctx context.Context, req *mmad.RedeemRequest) (*mmad.RedeemResult, error)

// RequestIDHeader carries the server-assigned redemption request ID.
const RequestIDHeader = "X-Redeem-Request-Id"

// RedeemHandler answers POST requests whose JSON body is a RedeemRequest.
// Success returns the RedeemResult as JSON; failures return the error
// envelope the SDK's backend path knows how to read ({"error": ...}), with
// 400 for configuration errors, 403 for user rejections, and 502 for
// everything else.
func RedeemHandler(redeem Redeemer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(RequestIDHeader, uuid.NewString())

		var req mmad.RedeemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redeem request body: " + err.Error()})
			return
		}

		result, err := redeem(c.Request.Context(), &req)
		if err != nil {
			status := http.StatusBadGateway
			body := gin.H{"error": err.Error()}
			switch {
			case mmad.IsConfigurationError(err):
				status = http.StatusBadRequest
			case mmad.IsUserRejection(err):
				status = http.StatusForbidden
				body["code"] = mmad.ProviderCodeUserRejected
			}
			var pe *mmad.PermissionError
			if errors.As(err, &pe) {
				body["details"] = pe.Message
			}
			c.JSON(status, body)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
