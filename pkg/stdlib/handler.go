// Package stdlib exposes the backend redemption endpoint as a plain
// net/http handler for services not using a web framework.
package stdlib

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	mmad "github.com/cadalt0/MMAD-SDK"
)

// Redeemer executes a redemption server-side and returns the normalized
// result.
type Redeemer func(ctx context.Context, req *mmad.RedeemRequest) (*mmad.RedeemResult, error)

// RequestIDHeader carries the server-assigned redemption request ID.
const RequestIDHeader = "X-Redeem-Request-Id"

// RedeemHandler answers POST requests whose JSON body is a RedeemRequest,
// mirroring the gin adapter's status and error-envelope conventions.
func RedeemHandler(redeem Redeemer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
			return
		}
		w.Header().Set(RequestIDHeader, uuid.NewString())

		var req mmad.RedeemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid redeem request body: " + err.Error()})
			return
		}

		result, err := redeem(r.Context(), &req)
		if err != nil {
			status := http.StatusBadGateway
			body := map[string]any{"error": err.Error()}
			switch {
			case mmad.IsConfigurationError(err):
				status = http.StatusBadRequest
			case mmad.IsUserRejection(err):
				status = http.StatusForbidden
				body["code"] = mmad.ProviderCodeUserRejected
			}
			writeJSON(w, status, body)
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
