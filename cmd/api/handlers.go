package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"promptsmith/internal/envelope"
	"promptsmith/internal/llm"
	"promptsmith/internal/pipeline"
)

// pipelineTimeout bounds one whole pipeline invocation. Cancellation
// propagates into whichever stage call is outstanding.
const pipelineTimeout = 60 * time.Second

type apiServer struct {
	runner *pipeline.Runner
}

func newAPIServer(runner *pipeline.Runner) *apiServer {
	return &apiServer{runner: runner}
}

func buildMux(s *apiServer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/optimize", s.handleOptimize)
	return mux
}

func (s *apiServer) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var in struct {
		Problem string `json:"problem"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(in.Problem) == "" {
		httpError(w, http.StatusBadRequest, "problem is required")
		return
	}

	reqID := uuid.NewString()
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), pipelineTimeout)
	defer cancel()

	result, err := s.runner.Run(ctx, in.Problem)
	if err != nil {
		log.Printf("pipeline run %s failed after %s: %v", reqID, time.Since(start).Round(time.Millisecond), err)
		writeRunError(w, err)
		return
	}
	log.Printf("pipeline run %s completed in %s", reqID, time.Since(start).Round(time.Millisecond))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func writeRunError(w http.ResponseWriter, err error) {
	var upstreamErr *llm.UpstreamError
	var violation *envelope.SchemaViolation
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		httpError(w, http.StatusBadRequest, "problem is required")
	case errors.As(err, &upstreamErr):
		httpError(w, http.StatusBadGateway, "completion service failed")
	case errors.As(err, &violation):
		httpError(w, http.StatusBadGateway, "completion service returned unusable output")
	default:
		httpError(w, http.StatusInternalServerError, "internal error")
	}
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// withCORS reflects any origin; the web forms calling this API are served
// from a separate origin during development.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
