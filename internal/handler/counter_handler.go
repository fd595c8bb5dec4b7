package handler

import (
	"net/http"

	"tallykeeper/internal/logging"
	"tallykeeper/internal/service"
)

type CounterHandler struct {
	documentService *service.DocumentService
	logger          logging.Logger
}

func NewCounterHandler(documentService *service.DocumentService, logger logging.Logger) *CounterHandler {
	return &CounterHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// GetCounter возвращает текущее значение счетчика
func (h *CounterHandler) GetCounter(w http.ResponseWriter, r *http.Request) {
	value, err := h.documentService.GetCounter(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to get counter", err)
		return
	}

	writeJSON(w, http.StatusOK, valueResponse{Value: value})
}

// Increment увеличивает счетчик на amount из тела запроса (по умолчанию 1)
func (h *CounterHandler) Increment(w http.ResponseWriter, r *http.Request) {
	value, err := h.documentService.Increment(r.Context(), readAmount(r.Body))
	if err != nil {
		h.fail(w, r, "Failed to increment counter", err)
		return
	}

	writeJSON(w, http.StatusOK, valueResponse{Value: value})
}

// Decrement уменьшает счетчик на amount из тела запроса (по умолчанию 1)
func (h *CounterHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	value, err := h.documentService.Decrement(r.Context(), readAmount(r.Body))
	if err != nil {
		h.fail(w, r, "Failed to decrement counter", err)
		return
	}

	writeJSON(w, http.StatusOK, valueResponse{Value: value})
}

// ResetCounter обнуляет счетчик
func (h *CounterHandler) ResetCounter(w http.ResponseWriter, r *http.Request) {
	value, err := h.documentService.ResetCounter(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to reset counter", err)
		return
	}

	writeJSON(w, http.StatusOK, valueResponse{Value: value})
}

func (h *CounterHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status, text := statusForError(err)
	h.logger.Error(r.Context(), msg, "error", err, "status", status)
	writeError(w, status, text)
}
