package fibonacci

import (
	"context"
	"math/big"
	"sync"

	"github.com/agbru/fibengine/internal/parallel"
)

// mulTask and sqrTask describe one product of a step. Each task writes a
// disjoint destination and reads shared, unmodified sources, so a batch
// can run on separate goroutines without locking.
type mulTask struct {
	dest           **big.Int
	x, y           *big.Int
	fft, karatsuba int
}

func (t *mulTask) run() error {
	var err error
	*t.dest, err = smartMultiply(*t.dest, t.x, t.y, t.fft, t.karatsuba)
	return err
}

type sqrTask struct {
	dest           **big.Int
	x              *big.Int
	fft, karatsuba int
}

func (t *sqrTask) run() error {
	var err error
	*t.dest, err = smartSquare(*t.dest, t.x, t.fft, t.karatsuba)
	return err
}

// runTasks executes a batch of squarings and multiplications, in parallel
// when requested. The first error wins; siblings run to completion of
// their own operation and their results are discarded with the state.
// Cancellation is checked once before the goroutines fork; each task is
// indivisible after that.
func runTasks(ctx context.Context, sqrs []sqrTask, muls []mulTask, inParallel bool) error {
	if !inParallel {
		for i := range sqrs {
			if err := sqrs[i].run(); err != nil {
				return err
			}
		}
		for i := range muls {
			if err := muls[i].run(); err != nil {
				return err
			}
		}
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	var ec parallel.ErrorCollector
	wg.Add(len(sqrs) + len(muls))
	for i := range sqrs {
		go func(t *sqrTask) {
			defer wg.Done()
			ec.SetError(t.run())
		}(&sqrs[i])
	}
	for i := range muls {
		go func(t *mulTask) {
			defer wg.Done()
			ec.SetError(t.run())
		}(&muls[i])
	}
	wg.Wait()
	return ec.Err()
}
