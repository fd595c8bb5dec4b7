package handler

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"tallykeeper/internal/logging"
	"tallykeeper/internal/service"
)

// HealthServiceName имя, под которым статус хранилища публикуется в grpc.health.v1
const HealthServiceName = "tallykeeper.Document"

const probeTimeout = 5 * time.Second

type HealthHandler struct {
	documentService *service.DocumentService
	health          *health.Server
	logger          logging.Logger
}

func NewHealthHandler(documentService *service.DocumentService, healthServer *health.Server, logger logging.Logger) *HealthHandler {
	return &HealthHandler{
		documentService: documentService,
		health:          healthServer,
		logger:          logger,
	}
}

// Healthz проверяет, что документ читается из хранилища
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.Probe(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Probe читает документ и выставляет статус gRPC health-сервиса
func (h *HealthHandler) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := h.documentService.Probe(ctx)
	if err != nil {
		h.logger.Warn(ctx, "document store probe failed", "error", err)
		h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	}

	h.setStatus(healthpb.HealthCheckResponse_SERVING)
	return nil
}

// RunProbes периодически проверяет хранилище до отмены ctx
func (h *HealthHandler) RunProbes(ctx context.Context, interval time.Duration) {
	h.Probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.Probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Shutdown переводит все сервисы в NOT_SERVING перед остановкой
func (h *HealthHandler) Shutdown() {
	if h.health != nil {
		h.health.Shutdown()
	}
}

func (h *HealthHandler) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	if h.health == nil {
		return
	}
	h.health.SetServingStatus(HealthServiceName, status)
	h.health.SetServingStatus("", status)
}
