package capture

import (
	"fmt"
	"sync"

	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/monitoring"
	"github.com/banshee-data/facescore/internal/normalize"
)

// Session accumulates the normalized captures of one multi-photo flow.
// Every Add or Remove recomputes the AveragedResult. Safe for concurrent
// use.
type Session struct {
	mu       sync.Mutex
	opts     Options
	normOpts normalize.Options
	captures []*normalize.Result
	result   *AveragedResult
}

// NewSession returns an empty session.
func NewSession(opts Options, normOpts normalize.Options) *Session {
	return &Session{opts: opts, normOpts: normOpts}
}

// Add normalizes raw and folds it into the session. A capture without the
// normalization references is rejected so the caller can re-capture.
func (s *Session) Add(raw *landmark.Set) (*AveragedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.MaxCaptures > 0 && len(s.captures) >= s.opts.MaxCaptures {
		return nil, &TooManyCapturesError{Count: len(s.captures) + 1, Max: s.opts.MaxCaptures}
	}
	norm, err := normalize.Normalize(raw, s.normOpts)
	if err != nil {
		return nil, fmt.Errorf("normalize capture %d: %w", len(s.captures), err)
	}

	captures := append(append([]*normalize.Result(nil), s.captures...), norm)
	result, err := Average(sets(captures), s.opts)
	if err != nil {
		return nil, err
	}
	s.captures = captures
	s.result = result
	monitoring.Logf("capture session: %d capture(s), consistency %.1f (%s)", result.CaptureCount, result.ConsistencyScore, result.Tier)
	return result, nil
}

// Remove drops the capture at position i. When the last capture is
// removed the result is nil.
func (s *Session) Remove(i int) (*AveragedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.captures) {
		return nil, fmt.Errorf("capture %d out of range [0, %d)", i, len(s.captures))
	}
	captures := append(append([]*normalize.Result(nil), s.captures[:i]...), s.captures[i+1:]...)
	if len(captures) == 0 {
		s.captures = nil
		s.result = nil
		return nil, nil
	}
	result, err := Average(sets(captures), s.opts)
	if err != nil {
		return nil, err
	}
	s.captures = captures
	s.result = result
	return result, nil
}

// Result returns the current averaged result, or nil if empty.
func (s *Session) Result() *AveragedResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Len returns the number of captures held.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.captures)
}

// Transforms returns the normalization parameters of each capture in
// insertion order.
func (s *Session) Transforms() []normalize.TransformParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]normalize.TransformParams, len(s.captures))
	for i, c := range s.captures {
		out[i] = c.Params
	}
	return out
}

// Reset discards every capture.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captures = nil
	s.result = nil
}

func sets(results []*normalize.Result) []*landmark.Set {
	out := make([]*landmark.Set, len(results))
	for i, r := range results {
		out[i] = r.Set
	}
	return out
}
