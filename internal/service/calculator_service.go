// Package service exposes the computation behind a small interface the
// HTTP layer can depend on without knowing about factories or options.
package service

import (
	"context"
	"errors"
	"math/big"

	"github.com/agbru/fibengine/internal/config"
	"github.com/agbru/fibengine/internal/fibonacci"
)

// ErrMaxValueExceeded is returned when n exceeds the service's limit.
var ErrMaxValueExceeded = errors.New("maximum n value exceeded")

// Service is the calculation contract the server handlers consume.
type Service interface {
	Calculate(ctx context.Context, algoName string, n uint64) (*big.Int, error)
}

// CalculatorService validates requests, resolves the algorithm and runs
// it with the application's configured options.
type CalculatorService struct {
	factory fibonacci.CalculatorFactory
	config  config.AppConfig
	maxN    uint64
}

var _ Service = (*CalculatorService)(nil)

// NewCalculatorService builds a service; maxN of 0 means no limit.
func NewCalculatorService(factory fibonacci.CalculatorFactory, cfg config.AppConfig, maxN uint64) *CalculatorService {
	return &CalculatorService{
		factory: factory,
		config:  cfg,
		maxN:    maxN,
	}
}

// Calculate runs F(n) with the named algorithm. Progress reporting is
// skipped: service callers are synchronous and have no terminal.
func (s *CalculatorService) Calculate(ctx context.Context, algoName string, n uint64) (*big.Int, error) {
	if s.maxN > 0 && n > s.maxN {
		return nil, ErrMaxValueExceeded
	}

	calc, err := s.factory.Get(algoName)
	if err != nil {
		return nil, err
	}

	return calc.Calculate(ctx, nil, 0, n, s.config.ToCalculationOptions())
}
