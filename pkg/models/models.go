// Package models holds the JSON-tagged data transfer objects shared by
// the HTTP API and the CLI's JSON output mode, so the two surfaces
// always serialize results the same way.
package models

import "math/big"

// ComputeResponse is the payload returned for one computation.
// big.Int marshals as a bare JSON number, so results round-trip without
// precision loss.
type ComputeResponse struct {
	// N is the requested Fibonacci index.
	N uint64 `json:"n"`
	// Algorithm is the name of the algorithm that produced the result.
	Algorithm string `json:"algorithm"`
	// Result is the computed value; omitted when the computation failed.
	Result *big.Int `json:"result,omitempty"`
	// Duration is the formatted execution time.
	Duration string `json:"duration"`
	// Error carries the failure message, if any.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is the standard shape for API-level failures.
type ErrorResponse struct {
	// Error is the short status text.
	Error string `json:"error"`
	// Message describes what went wrong.
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// AlgorithmsResponse lists the registered algorithm names.
type AlgorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
}
