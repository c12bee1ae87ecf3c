package researchagent

import (
	"maps"
	"sync"
)

// Stats holds the counters of a single agent run.
//
// Tool calls of one model turn run concurrently, so all methods are safe for
// concurrent use.
type Stats struct {
	mu       sync.RWMutex
	counters map[string]int64
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{counters: make(map[string]int64)}
}

// Incr increments a counter by delta. Creates the counter if it doesn't exist.
//
// Panics if delta is negative (counters only go up).
func (s *Stats) Incr(key string, delta int64) {
	if delta < 0 {
		panic("researchagent: Stats.Incr called with negative delta")
	}
	s.mu.Lock()
	s.counters[key] += delta
	s.mu.Unlock()
}

// Get returns the current value of a counter, or 0 if not set.
func (s *Stats) Get(key string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[key]
}

// Counters returns a snapshot of all counters.
func (s *Stats) Counters() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.counters)
}

// RecordToolCall counts one call of the named tool, and one error when failed is true.
func (s *Stats) RecordToolCall(tool string, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[KeyToolCalls]++
	s.counters[KeyToolCallsFor+tool]++
	if failed {
		s.counters[KeyToolCallsErrorTotal]++
		s.counters[KeyToolCallsErrorFor+tool]++
	}
}

// RecordGeneration counts one model call and its token usage.
func (s *Stats) RecordGeneration(info *GenerationInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[KeyIterations]++
	if info != nil {
		s.counters[KeyInputTokens] += int64(info.InputTokens)
		s.counters[KeyOutputTokens] += int64(info.OutputTokens)
	}
}

// GetIterations returns the number of model calls made.
func (s *Stats) GetIterations() int64 { return s.Get(KeyIterations) }

// GetToolCallCount returns the total number of tool calls made.
func (s *Stats) GetToolCallCount() int64 { return s.Get(KeyToolCalls) }

// GetTotalInputTokens returns the input tokens used across all model calls.
func (s *Stats) GetTotalInputTokens() int64 { return s.Get(KeyInputTokens) }

// GetTotalOutputTokens returns the output tokens used across all model calls.
func (s *Stats) GetTotalOutputTokens() int64 { return s.Get(KeyOutputTokens) }
