// Package server exposes the out-of-core HTTP surface: configuration
// and demand upload, run triggering, and timetable streaming.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/khen08/mrt3sim/driver"
	"github.com/khen08/mrt3sim/ingest"
	"github.com/khen08/mrt3sim/store"
)

// Server wires the simulation core to an HTTP surface.
type Server struct {
	Sink   store.Sink
	Log    log.Logger
	router chi.Router

	mu      sync.RWMutex
	lastRun []driver.SchemeResult
}

// New builds a Server with its routes registered.
func New(sink store.Sink, logger log.Logger) *Server {
	if logger == nil {
		logger = log.New("module", "server")
	}
	s := &Server{Sink: sink, Log: logger}
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Get("/health", s.handleHealth)
	r.Post("/api/run", s.handleRun)
	r.Get("/api/stream", s.handleStream)
	r.Get("/ws", s.handleWebsocket)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// runRequest is the multipart-free JSON shape accepted by /api/run:
// both the config and the demand CSV text are carried inline so a
// single request is enough to trigger a run.
type runRequest struct {
	Config   json.RawMessage `json:"config"`
	DemandCSV string         `json:"demand_csv"`
	ReportPath string        `json:"report_path,omitempty"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cfg, err := ingest.LoadConfigFromReader(byteReader(req.Config))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	valid := func(id int) bool { return id >= 1 && id <= len(cfg.StationNames) }
	demand, simDate, warnings, err := ingest.LoadDemandFromReader(stringReader(req.DemandCSV), valid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, warn := range warnings {
		s.Log.Warn("demand ingestion warning", "err", warn)
	}
	if simDate.IsZero() {
		simDate = time.Now()
	}

	runID := uuid.NewString()
	s.Log.Info("run started", "run_id", runID)

	results, err := driver.RunBoth(cfg, demand, simDate, s.Sink, driver.Options{ReportPath: req.ReportPath, Logger: s.Log})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.lastRun = results
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"run_id": runID, "schemes": len(results)})
}

func byteReader(b []byte) *bytes.Reader   { return bytes.NewReader(b) }
func stringReader(s string) *strings.Reader { return strings.NewReader(s) }
