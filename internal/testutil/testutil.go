// Package testutil provides shared test helpers for creating config files and a fake record store.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/wordlog/internal/config"
)

type testConfig struct {
	supabaseURL   string
	geminiBaseURL string
	offlineDriver string
	probeAddress  string
}

// ConfigOption configures optional fields of the generated config file.
type ConfigOption func(*testConfig)

// WithSupabaseURL points the record store at url, usually a FakeSupabase server.
func WithSupabaseURL(url string) ConfigOption {
	return func(c *testConfig) {
		c.supabaseURL = url
	}
}

// WithGeminiBaseURL points the model client at url.
func WithGeminiBaseURL(url string) ConfigOption {
	return func(c *testConfig) {
		c.geminiBaseURL = url
	}
}

// WithOfflineDriver selects the local queue backend.
func WithOfflineDriver(driver string) ConfigOption {
	return func(c *testConfig) {
		c.offlineDriver = driver
	}
}

// WithProbeAddress sets the host:port dialed to decide whether the network is available.
// Pointing it at a running test server makes the commands behave as online.
func WithProbeAddress(address string) ConfigOption {
	return func(c *testConfig) {
		c.probeAddress = address
	}
}

// SetupTestConfig creates a config file that uses the supabase driver and a local queue under tmpDir.
// Nothing it points at is reachable unless an option overrides it.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, opts ...ConfigOption) string {
	t.Helper()

	cfg := testConfig{
		supabaseURL:   "http://127.0.0.1:1",
		geminiBaseURL: "http://127.0.0.1:1",
		offlineDriver: config.OfflineDriverFile,
		probeAddress:  "127.0.0.1:1",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	offlinePath := filepath.Join(tmpDir, "queue")
	if cfg.offlineDriver == config.OfflineDriverSQLite {
		offlinePath = filepath.Join(tmpDir, "offline.db")
	}

	configContent := fmt.Sprintf(`remote:
  driver: supabase
supabase:
  url: %s
  api_key: test-key
gemini:
  base_url: %s
  model: gemini-test
  timeout: 2s
offline:
  driver: %s
  path: %s
connectivity:
  probe_address: %s
  timeout: 100ms
`,
		cfg.supabaseURL,
		cfg.geminiBaseURL,
		cfg.offlineDriver,
		offlinePath,
		cfg.probeAddress,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}
