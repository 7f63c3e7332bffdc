package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"

	"go.uber.org/zap"

	"parkingspots/internal/entities"
	apperrors "parkingspots/internal/errors"
)

// LocationLister is the read side of the parking service used by the views.
type LocationLister interface {
	ListLocations(ctx context.Context) ([]entities.MergedLocation, error)
	ListLocationMetadata(ctx context.Context) ([]entities.MergedLocation, error)
}

// Renderer executes a named HTML view.
type Renderer interface {
	Render(w io.Writer, name string, data interface{}) error
}

type ViewHandler struct {
	Service  LocationLister
	renderer Renderer
	logger   *zap.Logger
}

func NewViewHandler(svc LocationLister, renderer Renderer, logger *zap.Logger) *ViewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewHandler{Service: svc, renderer: renderer, logger: logger}
}

func (h *ViewHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "home.html", nil)
}

func (h *ViewHandler) Parking(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.ListLocations(r.Context())
	if err != nil {
		h.renderStoreError(w, err)
		return
	}
	h.render(w, http.StatusOK, "parking-table.html", map[string]interface{}{
		"Locations": locations,
	})
}

func (h *ViewHandler) Map(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.ListLocations(r.Context())
	if err != nil {
		h.renderStoreError(w, err)
		return
	}
	data, err := json.Marshal(locations)
	if err != nil {
		h.logger.Error("encode map locations", zap.Error(err))
		http.Error(w, "Could not encode locations", http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, "map.html", map[string]interface{}{
		"Locations": locations,
		// json.Marshal escapes <, > and &, so the payload is safe inside <script>
		"LocationsJSON": template.JS(data),
	})
}

func (h *ViewHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.ListLocationMetadata(r.Context())
	if err != nil {
		h.renderStoreError(w, err)
		return
	}
	h.render(w, http.StatusOK, "update.html", map[string]interface{}{
		"Locations": locations,
	})
}

func (h *ViewHandler) renderStoreError(w http.ResponseWriter, err error) {
	title := "Error reading parking data"
	var storeErr *apperrors.StoreError
	if errors.As(err, &storeErr) {
		title = "Error " + storeErr.Op
	}
	h.logger.Error(title, zap.Error(err))
	h.render(w, http.StatusInternalServerError, "error.html", map[string]interface{}{
		"Title":   title,
		"Detail":  err.Error(),
		"TLSHint": apperrors.IsTLSMismatch(err),
	})
}

func (h *ViewHandler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var page bytes.Buffer
	if err := h.renderer.Render(&page, name, data); err != nil {
		h.logger.Error("render view", zap.String("view", name), zap.Error(err))
		http.Error(w, "Could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(page.Bytes())
}
