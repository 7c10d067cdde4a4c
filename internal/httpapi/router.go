// Package httpapi exposes a small local facade over the funding API:
// dashboard reads served through the response cache, plus a manual watch
// trigger. It exists so local tooling can poll freely without hammering
// the upstream.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"munifund/internal/cache"
	"munifund/internal/client"
	"munifund/internal/model"
	"munifund/internal/portfolio"
)

// passthroughParams is the whitelist of upstream query parameters the
// facade forwards on GET /projects.
var passthroughParams = []string{
	"skip", "limit", "search", "categories", "states", "status",
	"min_funding_requirement", "max_funding_requirement",
	"min_commitment_gap", "max_commitment_gap",
	"min_project_cost", "max_project_cost",
	"min_progress", "max_progress",
	"min_days_left", "max_days_left",
	"min_interest_rate", "max_interest_rate",
	"user_id", "favorites_only",
}

// ProjectReader is the slice of the API client the facade needs.
type ProjectReader interface {
	ListProjects(ctx context.Context, params map[string]string) ([]model.Project, error)
	GetProject(ctx context.Context, ref string, includeDocuments bool) (model.Project, error)
}

type Handler struct {
	api    ProjectReader
	store  *cache.Store
	watch  *portfolio.Service
	userID string
	log    *zap.Logger
}

func NewHandler(api ProjectReader, store *cache.Store, watch *portfolio.Service, userID string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{api: api, store: store, watch: watch, userID: userID, log: log}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/projects", h.handleListProjects)
	r.Get("/projects/{ref}", h.handleGetProject)
	r.Get("/portfolio", h.handlePortfolio)
	r.Post("/refresh", h.handleRefresh)
	r.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/symbol", pprof.Symbol)
		r.Post("/symbol", pprof.Symbol)
		r.Get("/trace", pprof.Trace)
		r.Get("/allocs", pprof.Handler("allocs").ServeHTTP)
		r.Get("/goroutine", pprof.Handler("goroutine").ServeHTTP)
		r.Get("/heap", pprof.Handler("heap").ServeHTTP)
	})
	return r
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	params := map[string]string{}
	for _, name := range passthroughParams {
		if v := r.URL.Query().Get(name); v != "" {
			params[name] = v
		}
	}

	key := cache.Key("/projects", params)
	projects, err := cache.Fetch(r.Context(), h.store, key, func(ctx context.Context) ([]model.Project, error) {
		return h.api.ListProjects(ctx, params)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"data": projects})
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	includeDocuments := r.URL.Query().Get("include_documents") == "true"

	key := cache.Key("/projects/"+ref, map[string]string{"include_documents": r.URL.Query().Get("include_documents")})
	project, err := cache.Fetch(r.Context(), h.store, key, func(ctx context.Context) (model.Project, error) {
		return h.api.GetProject(ctx, ref, includeDocuments)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"data": project})
}

func (h *Handler) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	params := map[string]string{
		"user_id":        h.userID,
		"favorites_only": "true",
		"limit":          "100",
	}
	key := cache.Key("/portfolio", params)
	projects, err := cache.Fetch(r.Context(), h.store, key, func(ctx context.Context) ([]model.Project, error) {
		return h.api.ListProjects(ctx, params)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"data": portfolio.Summarize(projects)})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if h.watch == nil {
		h.writeJSON(w, http.StatusConflict, map[string]string{"message": "watch service not configured"})
		return
	}
	go h.watch.Run(context.Background())
	h.writeJSON(w, http.StatusAccepted, map[string]string{"message": "refresh started"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Warn("response encode failed", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	message := err.Error()

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.Status
		message = apiErr.Message
	}
	h.log.Warn("upstream request failed", zap.Int("status", status), zap.String("message", message))
	h.writeJSON(w, status, map[string]string{"message": message})
}
