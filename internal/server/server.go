// Package server exposes the resume processing service over HTTP.
package server

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/karthikeyakondabathula/llm-resume-parser/internal/ai"
	"go.uber.org/zap"
)

// Defaults for the service configuration.
const (
	DefaultAddr      = ":8000"
	DefaultStaticDir = "static"
)

// DefaultAllowedOrigins covers the local frontend dev servers.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// Config carries the service settings.
type Config struct {
	// Addr is the listen address.
	Addr string
	// StaticDir is where generated documents are stored and served from.
	StaticDir string
	// AllowedOrigins lists origins accepted by the CORS middleware.
	AllowedOrigins []string
}

// Server is the resume processing service.
type Server struct {
	cfg       Config
	extractor ai.Extractor
	logger    *zap.Logger
}

// New creates a server around the provided extractor.
func New(cfg Config, extractor ai.Extractor, logger *zap.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = DefaultStaticDir
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = DefaultAllowedOrigins
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{cfg: cfg, extractor: extractor, logger: logger}
}

// Handler builds the routing table with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/upload-resume", s.handleUpload)
	mux.HandleFunc("/download-pdf/", s.handleDownload)
	static := http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticDir)))
	mux.Handle("/static/", s.noListing(static))

	return s.requestID(s.cors(s.logRequests(mux.ServeHTTP)))
}

// noListing hides directory indexes, only concrete files are served.
func (s *Server) noListing(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			s.writeError(w, http.StatusNotFound, "File not found")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// Run ensures the static directory exists and serves until the listener
// fails.
func (s *Server) Run() error {
	if err := os.MkdirAll(s.cfg.StaticDir, 0o755); err != nil {
		return fmt.Errorf("creating static dir %s: %w", s.cfg.StaticDir, err)
	}

	s.logger.Info("starting the resume processing service",
		zap.String("addr", s.cfg.Addr),
		zap.String("static_dir", s.cfg.StaticDir),
	)

	return http.ListenAndServe(s.cfg.Addr, s.Handler())
}
