package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Ashenafi-pixel/lootsim/catalog"
	"github.com/Ashenafi-pixel/lootsim/config"
	"github.com/Ashenafi-pixel/lootsim/enchant"
	"github.com/Ashenafi-pixel/lootsim/loot"
	"github.com/Ashenafi-pixel/lootsim/lootfile"
	"github.com/Ashenafi-pixel/lootsim/requirement"
	"github.com/Ashenafi-pixel/lootsim/simulate"
)

// maxBodyBytes bounds request bodies; loot tables are small.
const maxBodyBytes = 1 << 20

type Server struct {
	cfg    *config.Config
	tables *catalog.Store
	book   *enchant.Book
	logger *slog.Logger
}

func New(cfg *config.Config, tables *catalog.Store, book *enchant.Book, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if book == nil {
		book = enchant.Default()
	}
	return &Server{cfg: cfg, tables: tables, book: book, logger: logger}
}

// Handler returns the routed API with its middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /tables", s.listTables)
	mux.HandleFunc("GET /tables/{id}", s.getTable)
	mux.HandleFunc("PUT /tables/{id}", s.putTable)
	mux.HandleFunc("GET /requirements", s.listRequirements)
	mux.HandleFunc("POST /simulate", s.simulate)
	return cors(s.requestLogger(mux))
}

func (s *Server) Run() error {
	port := s.cfg.Port
	if port <= 0 {
		port = 8081
	}
	addr := ":" + strconv.Itoa(port)
	s.logger.Info("lootsim listening", "addr", addr, "tables", len(s.tables.List()))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func cors(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// requestLogger logs method and path for each request (no body or secrets).
func (s *Server) requestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "lootsim"})
}

func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"tables": s.tables.List()})
}

func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
	def, err := s.tables.Get(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// putTable validates and stores a table definition under the path id.
func (s *Server) putTable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	def, err := lootfile.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_JSON")
		return
	}
	if _, err := def.Build(s.book.Choose); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.tables.Register(id, def); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "REGISTER_FAILED")
		return
	}
	s.logger.Info("table registered", "table", id, "pools", len(def.Pools))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "table": id})
}

func (s *Server) listRequirements(w http.ResponseWriter, r *http.Request) {
	reg := requirement.NewRegistry(loot.CryptoRand{})
	writeJSON(w, http.StatusOK, map[string][]string{"requirements": reg.Names()})
}

// SimulateRequest is the body of POST /simulate. Trials of 0 means the
// configured default; Seed of nil draws a fresh seed.
type SimulateRequest struct {
	Table        string                   `json:"table"`
	Trials       int                      `json:"trials"`
	Seed         *int64                   `json:"seed,omitempty"`
	Chests       int                      `json:"chests,omitempty"`
	Requirements []string                 `json:"requirements"`
	Items        []requirement.TargetSpec `json:"items"`
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}
	if req.Table == "" {
		req.Table = s.cfg.DefaultTable
	}
	trials, err := s.trials(req.Trials)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_TRIALS")
		return
	}
	if req.Chests < 0 {
		writeError(w, http.StatusBadRequest, "chests must be >= 0", "INVALID_CHESTS")
		return
	}

	def, err := s.tables.Get(req.Table)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	table, err := def.Build(s.book.Choose)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if req.Chests > 0 {
		table.ChestCount = req.Chests
	}

	var seed int64
	if req.Seed != nil {
		seed = *req.Seed
	} else if seed, err = loot.NewSeed(); err != nil {
		writeDomainError(w, err)
		return
	}
	rng := loot.NewRand(seed)

	reg := requirement.NewRegistry(rng)
	preds, err := reg.Build(&requirement.Spec{Requirements: req.Requirements, Items: req.Items})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	res, err := simulate.New(table, rng, simulate.WithLogger(s.logger)).Run(trials, requirement.NewEvaluator(preds...))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	res.Table = req.Table
	res.Seed = seed
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) trials(n int) (int, error) {
	switch {
	case n < 0:
		return 0, errors.New("trials must be >= 0")
	case n == 0:
		return s.cfg.Trials, nil
	case n > s.cfg.MaxTrials:
		return 0, fmt.Errorf("trials must be <= %d", s.cfg.MaxTrials)
	}
	return n, nil
}
