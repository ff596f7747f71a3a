// Package httptransport is the thin HTTP layer over the anonymizer core.
// It delegates to the core without embedding policy: every disclosure
// decision is made behind the Service interface, never here.
package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aequitas/anonymizer"
)

// Service defines the core operations the transport exposes.
type Service interface {
	Fit(ctx context.Context, requestedClusters int) (*anonymizer.FitResult, error)
	NameStats(ctx context.Context, name string) (*anonymizer.NameStats, error)
	Stats(ctx context.Context, filters map[string]string) (*anonymizer.QueryStats, error)
	Clusters(ctx context.Context) ([]anonymizer.ClusterInfo, error)
	Cluster(ctx context.Context, id int) (*anonymizer.ClusterDetail, error)
	Ready() bool
}

// Handler wires anonymizer endpoints to the core service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler constructs a Handler with its dependencies.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts all endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/fit", h.handleFit)
	r.Get("/stats/name/{name}", h.handleNameStats)
	r.Get("/stats", h.handleStats)
	r.Get("/clusters", h.handleClusters)
	r.Get("/clusters/{id}", h.handleClusterDetail)
	r.Get("/healthz", h.handleHealth)
}

type fitRequest struct {
	NClusters *int `json:"n_clusters"`
}

func (h *Handler) handleFit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req fitRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	requested := 0
	if req.NClusters != nil {
		requested = *req.NClusters
	}

	result, err := h.service.Fit(ctx, requested)
	if err != nil {
		h.logger.ErrorContext(ctx, "fit failed", "error", err)
		h.writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "fit completed",
		"records", result.NumRecords,
		"clusters", result.NumClusters,
	)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleNameStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeErrorMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	stats, err := h.service.NameStats(r.Context(), name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// statsFilterParams are the attributes exposed as query filters. Sensitive
// columns beyond the name stay unexposed on purpose; the core would accept
// them, the API chooses not to offer them.
var statsFilterParams = []string{"name", "age", "sex", "occupation", "city"}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	filters := make(map[string]string, len(statsFilterParams))
	for _, param := range statsFilterParams {
		if v := r.URL.Query().Get(param); v != "" {
			filters[param] = v
		}
	}

	stats, err := h.service.Stats(r.Context(), filters)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleClusters(w http.ResponseWriter, r *http.Request) {
	infos, err := h.service.Clusters(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *Handler) handleClusterDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "cluster id must be an integer")
		return
	}

	detail, err := h.service.Cluster(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"fitted": h.service.Ready(),
	})
}

// writeError translates core errors into HTTP status codes. "Not ready",
// "not found" and "forbidden" must stay distinguishable for callers.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, anonymizer.ErrNotReady):
		writeErrorMessage(w, http.StatusServiceUnavailable, "model not fitted yet; call /fit first")
	case errors.Is(err, anonymizer.ErrClusterNotFound):
		writeErrorMessage(w, http.StatusNotFound, "cluster not found")
	case errors.Is(err, anonymizer.ErrClusterSuppressed):
		writeErrorMessage(w, http.StatusForbidden, "cluster too small to disclose (k-anonymity)")
	default:
		writeErrorMessage(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
