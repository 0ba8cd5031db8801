package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/labprotocol/internal/cli"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Harness is a scratch directory holding the files of one integration test.
type Harness struct {
	t   *testing.T
	Dir string
}

// HarnessResult holds the outcomes of one command run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
}

// NewHarness writes files into a fresh temporary directory. Keys are paths
// relative to that directory; subdirectories are created as needed.
func NewHarness(t *testing.T, files map[string]string) *Harness {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return &Harness{t: t, Dir: dir}
}

// Path returns the absolute path of name inside the harness directory.
func (h *Harness) Path(name string) string {
	return filepath.Join(h.Dir, name)
}

// Read returns the content of a file inside the harness directory.
func (h *Harness) Read(name string) string {
	h.t.Helper()
	data, err := os.ReadFile(h.Path(name))
	require.NoError(h.t, err)
	return string(data)
}

// Run executes the command line args with debug logging. The settings file
// is lpd.yaml inside the harness directory, so tests never pick up one from
// the working directory.
func (h *Harness) Run(args ...string) *HarnessResult {
	h.t.Helper()
	return h.RunWithContext(context.Background(), args...)
}

// RunWithContext is Run with a caller-provided context.
func (h *Harness) RunWithContext(ctx context.Context, args ...string) *HarnessResult {
	h.t.Helper()

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	full := append([]string{"--config", h.Path("lpd.yaml"), "--log-level", "debug"}, args...)
	err := cli.Execute(ctx, full, out, logs)

	if os.Getenv("LPD_TEST_LOGS") == "true" {
		h.t.Logf("--- Full Log Output for %s ---\n%s", h.t.Name(), logs.String())
	}

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       err,
	}
}
