package savefile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	researchagent "github.com/vishnuvardhanreddy31/research-agent"
)

func TestTool_Call(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "research.txt")
	clock := researchagent.NewMockTimeProvider(time.Date(2025, 2, 15, 14, 30, 5, 0, time.UTC))
	tool := New(path, WithTimeProvider(clock))

	output, err := tool.Call(context.Background(), "The printing press spread literacy.")
	require.NoError(t, err)
	assert.Equal(t, "Data successfully saved to "+path, output)

	clock.SetTime(clock.Now().Add(time.Minute))
	_, err = tool.Call(context.Background(), "Second entry.")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"--- Research Output ---\nTimestamp: 2025-02-15 14:30:05\n\nThe printing press spread literacy.\n\n"+
			"--- Research Output ---\nTimestamp: 2025-02-15 14:31:05\n\nSecond entry.\n\n",
		string(content))
}

func TestTool_Call_ConcurrentEntriesDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "research.txt")
	tool := New(path)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tool.Call(context.Background(), strings.Repeat("x", 4096))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, strings.Count(string(content), "--- Research Output ---"))
	for _, entry := range strings.Split(string(content), "--- Research Output ---\n")[1:] {
		assert.Contains(t, entry, "\n\n"+strings.Repeat("x", 4096)+"\n\n")
	}
}

func TestTool_Call_Errors(t *testing.T) {
	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(filepath.Join(t.TempDir(), "x.txt")).Call(ctx, "data")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("path is a directory", func(t *testing.T) {
		_, err := New(t.TempDir()).Call(context.Background(), "data")
		assert.ErrorContains(t, err, "savefile: open")
	})
}

func TestNew_DefaultPath(t *testing.T) {
	tool := New("")

	assert.Equal(t, DefaultPath, tool.Path())
	assert.Equal(t, "save_text_to_file", tool.Name())
}
