package fibonacci

import (
	"context"
	"sync"
	"testing"
)

// recordingObserver captures every update it receives.
type recordingObserver struct {
	mu      sync.Mutex
	updates []float64
}

func (r *recordingObserver) Update(calcIndex int, progress float64) {
	r.mu.Lock()
	r.updates = append(r.updates, progress)
	r.mu.Unlock()
}

func (r *recordingObserver) snapshot() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.updates))
	copy(out, r.updates)
	return out
}

func TestSubjectRegisterUnregister(t *testing.T) {
	t.Parallel()

	s := NewProgressSubject()
	a := &recordingObserver{}
	b := &recordingObserver{}

	s.Register(a)
	s.Register(b)
	s.Register(nil)
	if got := s.ObserverCount(); got != 2 {
		t.Fatalf("ObserverCount = %d, want 2", got)
	}

	s.Notify(0, 0.5)
	if len(a.snapshot()) != 1 || len(b.snapshot()) != 1 {
		t.Error("both observers should receive Notify")
	}

	s.Unregister(a)
	if got := s.ObserverCount(); got != 1 {
		t.Fatalf("ObserverCount after Unregister = %d, want 1", got)
	}
	s.Notify(0, 0.7)
	if len(a.snapshot()) != 1 {
		t.Error("unregistered observer must not receive further updates")
	}
	if len(b.snapshot()) != 2 {
		t.Error("remaining observer should keep receiving updates")
	}
}

func TestFreezeSnapshotsObserverList(t *testing.T) {
	t.Parallel()

	s := NewProgressSubject()
	before := &recordingObserver{}
	s.Register(before)

	reporter := s.Freeze(3)

	// Registrations after the freeze are invisible to this reporter.
	after := &recordingObserver{}
	s.Register(after)
	// Unregistration after the freeze does not stop deliveries either.
	s.Unregister(before)

	reporter(0.25)
	reporter(1.0)

	if got := before.snapshot(); len(got) != 2 {
		t.Errorf("frozen observer received %d updates, want 2", len(got))
	}
	if got := after.snapshot(); len(got) != 0 {
		t.Errorf("late observer received %d updates, want 0", len(got))
	}
}

func TestChannelObserverNonBlocking(t *testing.T) {
	t.Parallel()

	ch := make(chan ProgressUpdate, 1)
	o := NewChannelObserver(ch)

	// Fill the buffer, then overflow it; the extra sends must not block.
	o.Update(0, 0.1)
	o.Update(0, 0.2)
	o.Update(0, 0.3)

	got := <-ch
	if got.Value != 0.1 {
		t.Errorf("first delivered value = %v, want 0.1", got.Value)
	}
	select {
	case u := <-ch:
		t.Errorf("unexpected second update %v", u)
	default:
	}
}

func TestChannelObserverClampsOvershoot(t *testing.T) {
	t.Parallel()

	ch := make(chan ProgressUpdate, 1)
	o := NewChannelObserver(ch)
	o.Update(7, 1.02)

	got := <-ch
	if got.Value != 1.0 {
		t.Errorf("Value = %v, want clamped 1.0", got.Value)
	}
	if got.CalculatorIndex != 7 {
		t.Errorf("CalculatorIndex = %d, want 7", got.CalculatorIndex)
	}
}

func TestCalculateNotifiesObservers(t *testing.T) {
	t.Parallel()

	subject := NewProgressSubject()
	rec := &recordingObserver{}
	subject.Register(rec)

	calc := NewCalculator(&FastDoubling{}).(*FibCalculator)
	_, err := calc.CalculateWithObservers(context.Background(), subject, 0, 2000, Options{})
	if err != nil {
		t.Fatal(err)
	}

	updates := rec.snapshot()
	if len(updates) == 0 {
		t.Fatal("no progress updates delivered")
	}
	last := updates[len(updates)-1]
	if last != 1.0 {
		t.Errorf("final progress = %v, want 1.0", last)
	}
	for i := 1; i < len(updates); i++ {
		if updates[i] < updates[i-1] {
			t.Fatalf("progress regressed at %d: %v -> %v", i, updates[i-1], updates[i])
		}
	}
}
