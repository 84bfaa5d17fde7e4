package server

import (
	"net/http"
	"time"
)

// loggingMiddleware logs each request with its processing time.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next(w, r)

		s.logger.Printf("%s %s from %s completed in %v",
			r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	}
}
