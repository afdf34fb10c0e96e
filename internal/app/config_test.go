package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leaseledger/leaseledger-backend/internal/pkg/logger"
)

func configTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadConfigMetricsToggleFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := LoadConfig(configTestLogger(t))
	if cfg.MetricsEnabled {
		t.Fatal("METRICS_ENABLED=false should disable metrics")
	}
}

func TestLoadConfigEnvWinsOverFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9999"
metrics:
  enabled: false
auth:
  access_token_ttl: 60
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("METRICS_ENABLED", "true")

	cfg := LoadConfig(configTestLogger(t))
	if cfg.Port != "7070" {
		t.Fatalf("port = %q, want env value 7070", cfg.Port)
	}
	if !cfg.MetricsEnabled {
		t.Fatal("METRICS_ENABLED=true should win over the file")
	}
	// access_token_ttl has no env var set, so the file fills it in.
	if cfg.AccessTokenTTL != 60*time.Second {
		t.Fatalf("access ttl = %v, want 60s from file", cfg.AccessTokenTTL)
	}
}

func TestLoadConfigFileFillsUnsetMetricsToggle(t *testing.T) {
	path := writeConfigFile(t, `
metrics:
  enabled: false
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("METRICS_ENABLED", "")

	cfg := LoadConfig(configTestLogger(t))
	if cfg.MetricsEnabled {
		t.Fatal("file metrics.enabled=false should apply when the env var is unset")
	}
}
