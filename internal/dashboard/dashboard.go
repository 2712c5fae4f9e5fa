// Package dashboard serves the report bundle and the triage results API
// after a batch run, replacing the open-a-browser workflow with a small HTTP
// surface that monitoring can also scrape.
package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/deskpilot/internal/authmw"
	"github.com/linnemanlabs/deskpilot/internal/report"
	"github.com/linnemanlabs/deskpilot/internal/triage"
)

// Server exposes one run's outputs: the static bundle, a JSON results API
// backed by the triage store, and a metrics endpoint.
type Server struct {
	outputDir string
	store     triage.Store
	logger    log.Logger
}

// New creates a dashboard server over the given output directory and store.
func New(outputDir string, store triage.Store, logger log.Logger) *Server {
	if logger == nil {
		logger = log.Nop()
	}
	return &Server{outputDir: outputDir, store: store, logger: logger}
}

// Handler builds the full router. metricsHandler serves the Prometheus
// registry; apiToken, when non-empty, gates the results API behind bearer
// auth. The static bundle and health endpoint stay open either way.
func (s *Server) Handler(metricsHandler http.Handler, apiToken string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Compress(5, "application/json", "text/html"))

	r.Get("/-/healthy", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		if apiToken != "" {
			r.Use(authmw.Bearer(apiToken))
		}
		r.Get("/results", s.handleListResults)
		r.Get("/results/{id}", s.handleGetResult)
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/"+report.DashboardFile, http.StatusFound)
	})
	r.Handle("/*", http.FileServer(http.Dir(s.outputDir)))

	return r
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), err, "failed to list triage results")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, ok, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.logger.Error(r.Context(), err, "failed to get triage result", "ticket_id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
