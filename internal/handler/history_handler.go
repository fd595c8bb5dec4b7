package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tallykeeper/internal/domain"
	"tallykeeper/internal/logging"
	"tallykeeper/internal/service"
)

type HistoryHandler struct {
	documentService *service.DocumentService
	logger          logging.Logger
}

func NewHistoryHandler(documentService *service.DocumentService, logger logging.Logger) *HistoryHandler {
	return &HistoryHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// SaveSnapshot сохраняет текущее значение счетчика в историю
func (h *HistoryHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	entry, err := h.documentService.SaveSnapshot(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to save snapshot", err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// ListHistory возвращает активную историю
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.documentService.ListHistory(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list history", err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// ListDeleted возвращает содержимое корзины
func (h *HistoryHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	entries, err := h.documentService.ListDeleted(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list deleted history", err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// DeleteOne переносит запись в корзину; неизвестный id тоже дает 204
func (h *HistoryHandler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.documentService.DeleteOne(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to delete history entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearHistory переносит всю историю в корзину
func (h *HistoryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.documentService.ClearHistory(r.Context()); err != nil {
		h.fail(w, r, "Failed to clear history", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestoreLast возвращает в историю последнюю удаленную запись
func (h *HistoryHandler) RestoreLast(w http.ResponseWriter, r *http.Request) {
	entry, err := h.documentService.RestoreLast(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to restore history entry", err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *HistoryHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status, text := statusForError(err)
	// Пустая корзина - штатная ситуация
	if errors.Is(err, domain.ErrNotFound) {
		h.logger.Info(r.Context(), msg, "error", err)
	} else {
		h.logger.Error(r.Context(), msg, "error", err, "status", status)
	}
	writeError(w, status, text)
}
