package storage

import "sync"

// Shared wraps a store used by several sessions at once. Calls are
// serialized and Save never lowers the persisted high score, so a session
// that loaded an older value cannot overwrite a better one saved meanwhile.
type Shared struct {
	mu    sync.Mutex
	store ScoreStore
}

// NewShared wraps store for concurrent use.
func NewShared(store ScoreStore) *Shared {
	return &Shared{store: store}
}

// Load returns the stored high score.
func (s *Shared) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load()
}

// Save persists score if it beats the stored high score.
func (s *Shared) Save(score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.Load()
	if err != nil {
		return err
	}
	if score <= current {
		return nil
	}
	return s.store.Save(score)
}

// Reset clears the underlying store.
func (s *Shared) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Reset()
}

// Close closes the underlying store.
func (s *Shared) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}

// RecordRun records a finished run when the underlying store keeps history.
func (s *Shared) RecordRun(score int) error {
	rec, ok := s.store.(RunRecorder)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return rec.RecordRun(score)
}

// TopRuns returns the best runs, or nil when the underlying store keeps no history.
func (s *Shared) TopRuns(limit int) ([]RunEntry, error) {
	rec, ok := s.store.(RunRecorder)
	if !ok {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return rec.TopRuns(limit)
}

var (
	_ ScoreStore  = (*Shared)(nil)
	_ RunRecorder = (*Shared)(nil)
)
