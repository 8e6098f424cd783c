package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// An empty working directory means no config file, so only defaults apply.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 10, cfg.Orchestrator.MaxConcurrent)
	require.Equal(t, time.Duration(0), cfg.Orchestrator.JobTimeout)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weft.yaml")
	content := []byte(`
orchestrator:
  max_concurrent: 4
  job_timeout: 30s
logging:
  level: debug
  format: text
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 4, cfg.Orchestrator.MaxConcurrent)
	require.Equal(t, 30*time.Second, cfg.Orchestrator.JobTimeout)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WEFT_ORCHESTRATOR_MAX_CONCURRENT", "7")
	t.Setenv("WEFT_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 7, cfg.Orchestrator.MaxConcurrent)
	require.Equal(t, "warn", cfg.Logging.Level)
}
