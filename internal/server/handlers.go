package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/fibengine/internal/service"
	"github.com/agbru/fibengine/pkg/models"
)

// computeParseError is a parameter error carrying its HTTP status.
type computeParseError struct {
	Message    string
	StatusCode int
}

func (e computeParseError) Error() string { return e.Message }

// handleHealth answers liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
	})
}

// handleAlgorithms lists the registered algorithm names.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.AlgorithmsResponse{
		Algorithms: s.factory.List(),
	})
}

// handleCompute parses ?n= and ?algo=, runs the computation under the
// request timeout, and returns the result as JSON. Nothing is cached:
// every request computes afresh.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	n, algo, err := parseComputeParams(r)
	if err != nil {
		var parseErr computeParseError
		if errors.As(err, &parseErr) {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.service.Calculate(ctx, algo, n)
	duration := time.Since(start)

	if errors.Is(err, service.ErrMaxValueExceeded) {
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Value of 'n' exceeds maximum allowed (%d). This limit prevents resource exhaustion.", s.securityConfig.MaxNValue))
		return
	}

	s.writeJSONResponse(w, http.StatusOK, buildComputeResponse(n, algo, result, duration, err))
}

func parseComputeParams(r *http.Request) (n uint64, algo string, err error) {
	nStr := r.URL.Query().Get("n")
	if nStr == "" {
		return 0, "", computeParseError{
			Message:    "Missing 'n' parameter",
			StatusCode: http.StatusBadRequest,
		}
	}

	// ParseUint rejects signs, so negative input fails here too.
	n, parseErr := strconv.ParseUint(nStr, 10, 64)
	if parseErr != nil {
		return 0, "", computeParseError{
			Message:    "Invalid 'n' parameter: must be a non-negative integer",
			StatusCode: http.StatusBadRequest,
		}
	}

	algo = r.URL.Query().Get("algo")
	if algo == "" {
		algo = "fast"
	}
	return n, algo, nil
}

func buildComputeResponse(n uint64, algo string, result *big.Int, duration time.Duration, err error) models.ComputeResponse {
	resp := models.ComputeResponse{
		N:         n,
		Algorithm: algo,
		Duration:  duration.String(),
	}
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Result = result
	}
	return resp
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
