// Package handler contains the JSON API handlers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tidynest/internal/store"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// storeErrorStatus maps a store error to an HTTP status.
func storeErrorStatus(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
