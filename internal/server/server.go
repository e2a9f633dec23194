// Package server exposes audits and the pattern library over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/analyzer"
	"github.com/ludo-technologies/citescan/internal/constants"
	"github.com/ludo-technologies/citescan/internal/version"
)

// maxBodyBytes bounds request bodies; JSON escaping can inflate content well past its raw size
const maxBodyBytes = 4 * constants.DefaultMaxContentBytes

// PatternCatalog lists the patterns with the weights the audits are scored with.
// *analyzer.Engine implements it.
type PatternCatalog interface {
	Patterns() []domain.PatternInfo
	LookupPattern(id string) (domain.PatternInfo, bool)
}

// Server serves the citescan HTTP API
type Server struct {
	audit    domain.AuditService
	patterns PatternCatalog
	logger   *slog.Logger
}

// New creates a server around an audit service and the catalogue of its engine.
// A nil catalogue serves the default weights.
func New(audit domain.AuditService, patterns PatternCatalog, logger *slog.Logger) *Server {
	if patterns == nil {
		patterns = analyzer.NewEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{audit: audit, patterns: patterns, logger: logger}
}

// Routes returns the HTTP handler of the API
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route(constants.APIPrefix+"/aieo", func(r chi.Router) {
		r.Post("/audit", s.handleAudit)
		r.Get("/patterns", s.handlePatterns)
		r.Get("/patterns/{id}", s.handlePattern)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, domain.ErrCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, domain.ErrCodeInvalidInput, "method not allowed")
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req domain.AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, domain.ErrCodeContentTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid request body")
		return
	}

	if req.URL == "" && req.Content == "" {
		writeError(w, http.StatusBadRequest, domain.ErrCodeInvalidInput, "either url or content must be provided")
		return
	}

	result, err := s.audit.Audit(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"patterns": s.patterns.Patterns(),
	})
}

func (s *Server) handlePattern(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	info, ok := s.patterns.LookupPattern(id)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrCodeNotFound, fmt.Sprintf("pattern %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// writeDomainError maps a service error to its HTTP status
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		s.logger.Error("audit failed", "error", err)
		writeError(w, http.StatusInternalServerError, domain.ErrCodeAnalysis, "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch de.Code {
	case domain.ErrCodeInvalidInput, domain.ErrCodeURLNotSupported:
		status = http.StatusBadRequest
	case domain.ErrCodeContentTooLarge:
		status = http.StatusRequestEntityTooLarge
	case domain.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("audit failed", "code", de.Code, "error", err)
	}
	writeError(w, status, de.Code, de.Message)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
