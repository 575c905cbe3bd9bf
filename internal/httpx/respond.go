package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/farm2door/farm2door/internal/market"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain rejections to specific 4xx responses with their
// human-readable reason. Anything else is a storage failure: the caller gets a
// generic retryable 500 and the detail goes to the log.
func writeError(w http.ResponseWriter, err error) {
	var illegal *market.IllegalTransitionError
	switch {
	case errors.Is(err, market.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, market.ErrNotYourOrder):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.As(err, &illegal):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case market.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("storage error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "something went wrong, please try again"})
	}
}
