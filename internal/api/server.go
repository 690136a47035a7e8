// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/edgeport/edgeport/internal/common"
	"github.com/edgeport/edgeport/internal/config"
	"github.com/edgeport/edgeport/internal/convert"
)

// Server exposes the conversion library over HTTP. The library itself is a
// pure boundary (text in, data out); the server adds only transport,
// logging and a result cache for repeated submissions of the same source.
type Server struct {
	router    chi.Router
	converter *convert.Converter
	cache     *lru.Cache[string, convert.Result]
	cfg       config.Config
}

func NewServer(cfg config.Config) (*Server, error) {
	logger := common.Logger()

	converter := convert.NewConverter(convert.Options{
		Providers: cfg.Providers,
		Versions:  cfg.Versions,
		Workers:   cfg.Workers,
	})

	var cache *lru.Cache[string, convert.Result]
	if cfg.CacheSize > 0 {
		built, err := lru.New[string, convert.Result](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("build result cache: %w", err)
		}
		cache = built
	}

	srv := &Server{
		router:    chi.NewRouter(),
		converter: converter,
		cache:     cache,
		cfg:       cfg,
	}
	srv.routes()
	logger.Info("api: server ready", "cache_size", cfg.CacheSize, "workers", cfg.Workers)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/api/convert", s.handleConvert)
	s.router.Post("/api/bundle", s.handleBundle)
	s.router.Get("/api/advisories/{provider}", s.handleAdvisory)
	s.router.Get("/api/logs", s.handleLogs)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
