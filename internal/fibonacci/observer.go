package fibonacci

import "sync"

// ProgressObserver receives progress notifications. Implementations must
// tolerate being called from the computation's hot loop: Update should
// not block.
type ProgressObserver interface {
	Update(calcIndex int, progress float64)
}

// ProgressSubject manages observer registration. Registration is rare and
// guarded by a read-write lock; notification during a computation runs
// against a frozen snapshot taken once before the loop starts, so the hot
// path acquires no locks at all.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// NewProgressSubject returns an empty subject.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register adds an observer. Nil observers are ignored.
func (s *ProgressSubject) Register(o ProgressObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Unregister removes a previously registered observer. Frozen snapshots
// already handed out keep notifying it until their computation ends.
func (s *ProgressSubject) Unregister(o ProgressObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, reg := range s.observers {
		if reg == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// ObserverCount reports the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// Notify delivers one update to the currently registered observers under
// the read lock. The computation loops do not use this path; they use a
// frozen snapshot instead.
func (s *ProgressSubject) Notify(calcIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(calcIndex, progress)
	}
}

// Freeze captures the observer list once under the read lock and returns
// a reporter that iterates the private copy with no further
// synchronization. The snapshot is taken exactly once, before a
// computation's iteration loop begins.
func (s *ProgressSubject) Freeze(calcIndex int) ProgressReporter {
	s.mu.RLock()
	snapshot := make([]ProgressObserver, len(s.observers))
	copy(snapshot, s.observers)
	s.mu.RUnlock()

	return func(progress float64) {
		for _, o := range snapshot {
			o.Update(calcIndex, progress)
		}
	}
}
