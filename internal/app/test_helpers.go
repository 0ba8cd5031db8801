package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/labprotocol/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates an App backed by the HCL loader, logging at debug
// level into a buffer. Set LPD_TEST_LOGS=true to print the log of each test.
func SetupAppTest(t *testing.T, appConfig *Config) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp := NewApp(out, logs, appConfig, hcl.NewLoader())

	t.Cleanup(func() {
		if os.Getenv("LPD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}
