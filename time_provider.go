package researchagent

import (
	"sync"
	"time"
)

// TimestampLayout is the layout used for timestamps written by tools.
const TimestampLayout = "2006-01-02 15:04:05"

// TimeProvider is the clock used by tools and prompts. Inject a
// MockTimeProvider in tests to get deterministic output.
type TimeProvider interface {
	// Now returns the current time.
	Now() time.Time

	// Today returns today's date as YYYY-MM-DD.
	Today() string

	// Format returns the current time formatted with the given layout.
	Format(layout string) string
}

// DefaultTimeProvider uses the system clock.
type DefaultTimeProvider struct{}

// NewDefaultTimeProvider creates a new DefaultTimeProvider.
func NewDefaultTimeProvider() *DefaultTimeProvider {
	return &DefaultTimeProvider{}
}

func (p *DefaultTimeProvider) Now() time.Time { return time.Now() }

func (p *DefaultTimeProvider) Today() string { return p.Now().Format(time.DateOnly) }

func (p *DefaultTimeProvider) Format(layout string) string { return p.Now().Format(layout) }

// MockTimeProvider returns a fixed time until SetTime moves it.
type MockTimeProvider struct {
	mu        sync.RWMutex
	fixedTime time.Time
}

// NewMockTimeProvider creates a MockTimeProvider fixed at t.
func NewMockTimeProvider(t time.Time) *MockTimeProvider {
	return &MockTimeProvider{fixedTime: t}
}

// SetTime updates the fixed time.
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	m.fixedTime = t
	m.mu.Unlock()
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fixedTime
}

func (m *MockTimeProvider) Today() string { return m.Now().Format(time.DateOnly) }

func (m *MockTimeProvider) Format(layout string) string { return m.Now().Format(layout) }

var (
	_ TimeProvider = (*DefaultTimeProvider)(nil)
	_ TimeProvider = (*MockTimeProvider)(nil)
)
