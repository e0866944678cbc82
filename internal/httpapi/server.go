// Package httpapi is the HTTP face of the service: upload, history, report
// retrieval, and the server-side view derivation endpoint. Handlers stay thin;
// everything interesting happens in the engine packages.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pe-insights-go/internal/analyzer"
	"pe-insights-go/internal/config"
	"pe-insights-go/internal/logger"
	"pe-insights-go/internal/store"
)

type Server struct {
	cfg    config.Config
	store  *store.Store
	runner *analyzer.Runner
	log    *logger.Logger
}

func New(cfg config.Config, st *store.Store, runner *analyzer.Runner) *Server {
	return &Server{cfg: cfg, store: st, runner: runner, log: logger.New()}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealthz)
	r.Post("/upload", s.handleUpload)
	r.Get("/history", s.handleHistory)
	r.Get("/status/{id}", s.handleStatus)
	r.Get("/report/{id}", s.handleGetReport)
	r.Delete("/report/{id}", s.handleDeleteReport)
	r.Get("/report/{id}/view", s.handleView)
	r.Get("/download/{id}", s.handleDownload)
	r.Get("/settings", s.handleGetSettings)
	r.Post("/settings", s.handlePostSettings)
	r.Get("/pe_firms", s.handleGetPEFirms)
	r.Post("/pe_firms", s.handlePostPEFirms)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
