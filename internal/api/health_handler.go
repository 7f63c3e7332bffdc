package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// StoreChecker pings the backing store.
type StoreChecker interface {
	CheckStore(ctx context.Context) error
}

type HealthHandler struct {
	store  StoreChecker
	logger *zap.Logger
}

func NewHealthHandler(store StoreChecker, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{store: store, logger: logger}
}

// Liveness never touches the store.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.store.CheckStore(ctx); err != nil {
		h.logger.Warn("store health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
