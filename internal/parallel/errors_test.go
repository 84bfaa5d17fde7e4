package parallel

import (
	"errors"
	"sync"
	"testing"
)

func TestErrorCollectorFirstWins(t *testing.T) {
	var ec ErrorCollector
	first := errors.New("first")
	second := errors.New("second")

	ec.SetError(nil)
	if ec.Err() != nil {
		t.Error("nil must not be recorded")
	}
	ec.SetError(first)
	ec.SetError(second)
	if ec.Err() != first {
		t.Errorf("got %v, want the first error", ec.Err())
	}

	ec.Reset()
	if ec.Err() != nil {
		t.Error("Reset did not clear the error")
	}
}

func TestErrorCollectorConcurrent(t *testing.T) {
	var ec ErrorCollector
	var wg sync.WaitGroup
	errs := make([]error, 32)
	for i := range errs {
		errs[i] = errors.New("e")
	}
	wg.Add(len(errs))
	for i := range errs {
		go func(e error) {
			defer wg.Done()
			ec.SetError(e)
		}(errs[i])
	}
	wg.Wait()
	if ec.Err() == nil {
		t.Error("no error recorded after concurrent reports")
	}
}
