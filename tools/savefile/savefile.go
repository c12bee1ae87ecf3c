// Package savefile is the "save_text_to_file" tool: it appends research output
// to a text file with a timestamped header.
package savefile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tmc/langchaingo/tools"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
)

const (
	// Name is the tool name the model calls.
	Name = "save_text_to_file"

	// DefaultPath is the file written when no path is configured.
	DefaultPath = "research_output.txt"
)

// Tool appends text to a file. Create it with New.
type Tool struct {
	path  string
	clock researchagent.TimeProvider

	// Concurrent calls within one turn must not interleave their entries.
	mu sync.Mutex
}

// Option configures the Tool.
type Option func(*Tool)

// WithTimeProvider sets the clock used for entry timestamps.
func WithTimeProvider(tp researchagent.TimeProvider) Option {
	return func(t *Tool) { t.clock = tp }
}

// New creates a tool appending to path, or DefaultPath when path is empty.
func New(path string, opts ...Option) *Tool {
	if path == "" {
		path = DefaultPath
	}
	t := &Tool{
		path:  path,
		clock: researchagent.NewDefaultTimeProvider(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Path returns the file the tool appends to.
func (t *Tool) Path() string { return t.path }

func (t *Tool) Name() string { return Name }

func (t *Tool) Description() string {
	return "Saves structured research data to a text file."
}

func (t *Tool) InputDescription() string {
	return "The text to save"
}

// Call appends one entry:
//
//	--- Research Output ---
//	Timestamp: 2025-02-15 14:30:05
//
//	<input>
//
// The parent directory is created if needed.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	entry := fmt.Sprintf("--- Research Output ---\nTimestamp: %s\n\n%s\n\n",
		t.clock.Format(researchagent.TimestampLayout), input)

	t.mu.Lock()
	defer t.mu.Unlock()

	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("savefile: create directory: %w", err)
		}
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("savefile: open %s: %w", t.path, err)
	}
	if _, err := f.WriteString(entry); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("savefile: write %s: %w", t.path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("savefile: close %s: %w", t.path, err)
	}

	return "Data successfully saved to " + t.path, nil
}

var (
	_ researchagent.Tool           = (*Tool)(nil)
	_ researchagent.InputDescriber = (*Tool)(nil)
	_ tools.Tool                   = (*Tool)(nil)
)
