// Package service exposes the evaluation operations over HTTP for
// long-running deployments, alongside health and Prometheus endpoints.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"faircheck/internal/bias"
	"faircheck/internal/protocol"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Server serves the evaluation API.
type Server struct {
	handler *protocol.Handler
	server  *http.Server
}

// New wires the protocol handler into an HTTP server on the given port.
func New(handler *protocol.Handler, port int) *Server {
	s := &Server{handler: handler}

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.operation(protocol.OpAnalyzeBias))
	mux.HandleFunc("/disparate-impact", s.operation(protocol.OpDisparateImpact))
	mux.HandleFunc("/phi/detect", s.operation(protocol.OpDetectPHI))
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting evaluation server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) operation(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("reading request body: %w", err))
			return
		}

		result, err := s.handler.HandleOperation(r.Context(), op, body)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps boundary error kinds onto HTTP status codes: caller mistakes
// are 4xx, everything else 500.
func statusFor(err error) int {
	var shape *bias.ShapeError
	var missing *protocol.MissingFieldError
	var unknown *protocol.UnknownOperationError
	switch {
	case errors.As(err, &shape), errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.As(err, &unknown):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	log.Warn().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, protocol.NewErrorResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
