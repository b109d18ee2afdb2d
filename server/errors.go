package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ashenafi-pixel/lootsim/catalog"
	"github.com/Ashenafi-pixel/lootsim/loot"
)

// APIError is the standard error response for lootsim APIs.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, code int, errMsg, codeStr string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(APIError{
		Error:   errMsg,
		Code:    codeStr,
		Message: errMsg,
	})
}

// writeDomainError maps domain errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "TABLE_NOT_FOUND")
	case errors.Is(err, loot.ErrConfiguration):
		writeError(w, http.StatusBadRequest, err.Error(), string(loot.KindConfiguration))
	case errors.Is(err, loot.ErrNoApplicableEnchantment):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), string(loot.KindNoApplicableEnchantment))
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), "INTERNAL")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
