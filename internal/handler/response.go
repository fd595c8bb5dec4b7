package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tallykeeper/internal/domain"
)

type valueResponse struct {
	Value int64 `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusForError сопоставляет доменную ошибку с HTTP-статусом и текстом для клиента
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNothingToRestore):
		return http.StatusNotFound, "No deleted entries to restore"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, domain.ErrCounterOverflow):
		return http.StatusUnprocessableEntity, "Counter value out of range"
	default:
		return http.StatusInternalServerError, "Storage failure"
	}
}
