package handler

import (
	"net/http"

	"tallykeeper/internal/logging"
	"tallykeeper/internal/service"
)

type ResetHandler struct {
	documentService *service.DocumentService
	logger          logging.Logger
}

func NewResetHandler(documentService *service.DocumentService, logger logging.Logger) *ResetHandler {
	return &ResetHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// ResetAll безвозвратно очищает счетчик, историю и корзину
func (h *ResetHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := h.documentService.ResetAll(r.Context()); err != nil {
		status, text := statusForError(err)
		h.logger.Error(r.Context(), "Failed to reset document", "error", err)
		writeError(w, status, text)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}
