// internal/api/handler.go
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	custom_errors "repo-init-service/internal/errors"
	"repo-init-service/internal/initreq"
	"repo-init-service/internal/metrics"
	"repo-init-service/internal/model"
)

// RepositoryManager initializes and looks up repositories. The storage behind
// it is owned by the repository backend.
type RepositoryManager interface {
	Init(ctx context.Context, hints model.Hints) (model.Repository, error)
	Lookup(ctx context.Context, name string) (model.Repository, error)
	List(ctx context.Context) ([]model.Repository, error)
}

// Handler is the container for API dependencies.
type Handler struct {
	repos   RepositoryManager
	mapper  *initreq.Mapper
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type initResponse struct {
	Repository model.Repository `json:"repository"`
	Hints      model.Hints      `json:"hints"`
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(repos RepositoryManager, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	h := &Handler{
		repos:   repos,
		mapper:  initreq.NewMapper(logger),
		metrics: m,
		logger:  logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Handle("/metrics", m.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Get("/repos", h.listRepositories)
		r.Get("/repos/{"+initreq.RepoAttr+"}", h.getRepository)
		r.Put("/repos/{"+initreq.RepoAttr+"}/init", h.initRepository)
		r.Post("/repos/{"+initreq.RepoAttr+"}/init", h.initRepository)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// initRepository maps the request to Hints and hands them to the manager.
// PUT /v1/repos/{repository}/init
func (h *Handler) initRepository(w http.ResponseWriter, r *http.Request) {
	hints, err := h.mapper.HintsFromRequest(r)
	if err != nil {
		h.metrics.ObserveInit(metrics.BackendNone, metrics.OutcomeClientError)
		h.respondWithDomainError(w, r, err)
		return
	}
	backend := backendOf(hints)
	logger := h.logger.With("repository", hints.RepositoryName, "backend", backend, "request_id", middleware.GetReqID(r.Context()))

	repo, err := h.repos.Init(r.Context(), *hints)
	if err != nil {
		var exists *custom_errors.ErrRepositoryExists
		if errors.As(err, &exists) {
			h.metrics.ObserveInit(backend, metrics.OutcomeConflict)
		} else {
			h.metrics.ObserveInit(backend, metrics.OutcomeError)
		}
		h.respondWithDomainError(w, r, err)
		return
	}

	h.metrics.ObserveInit(backend, metrics.OutcomeCreated)
	logger.Info("Repository created", "id", repo.ID)
	respondWithJSON(w, http.StatusCreated, initResponse{Repository: repo, Hints: *hints})
}

// getRepository returns a single repository.
// GET /v1/repos/{repository}
func (h *Handler) getRepository(w http.ResponseWriter, r *http.Request) {
	name, err := initreq.RepositoryName(r)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	repo, err := h.repos.Lookup(r.Context(), name)
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, repo)
}

// listRepositories returns all repositories.
// GET /v1/repos
func (h *Handler) listRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := h.repos.List(r.Context())
	if err != nil {
		h.respondWithDomainError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, repos)
}

func backendOf(hints *model.Hints) string {
	u, ok := hints.Location()
	if !ok {
		return metrics.BackendDefault
	}
	switch u.Scheme {
	case metrics.BackendFile, metrics.BackendPostgres:
		return u.Scheme
	default:
		return metrics.BackendNone
	}
}
