package server

import (
	"time"

	"github.com/agbru/fibengine/internal/logging"
	"github.com/agbru/fibengine/internal/service"
)

// Option customizes a Server at construction time.
type Option func(*Server)

// WithLogger injects a logger; nil keeps the default.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithService injects a calculation service, letting tests substitute a
// mock for the real engine.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

// WithRateLimiter replaces the default per-IP rate limiter.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) {
		s.rateLimiter = rl
	}
}

// WithSecurityConfig replaces the default security settings.
func WithSecurityConfig(cfg SecurityConfig) Option {
	return func(s *Server) {
		s.securityConfig = cfg
	}
}

// WithMaxN caps the accepted 'n' parameter.
func WithMaxN(maxN uint64) Option {
	return func(s *Server) {
		s.securityConfig.MaxNValue = maxN
	}
}

// WithTimeouts replaces the default timeout set.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// Timeouts groups every duration bound the server enforces.
type Timeouts struct {
	// RequestTimeout bounds a single computation.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
	// ReadTimeout bounds reading a request, body included.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing a response; generous because very
	// large results take a while to serialize.
	WriteTimeout time.Duration
	// IdleTimeout bounds keep-alive waits between requests.
	IdleTimeout time.Duration
}

func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  5 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}
