package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "session_secret: test-secret\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.SessionSecret != "test-secret" {
		t.Errorf("expected session secret from file, got %q", cfg.SessionSecret)
	}
	if cfg.APIHost != DefaultAPIHost {
		t.Errorf("expected default host, got %q", cfg.APIHost)
	}
	if cfg.APIPort != DefaultAPIPort {
		t.Errorf("expected default port, got %d", cfg.APIPort)
	}
	if cfg.DBPath != DefaultDBPath {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.SessionTTLHours != DefaultSessionTTLHours {
		t.Errorf("expected default session ttl, got %d", cfg.SessionTTLHours)
	}
}

// There is no insecure fallback secret: startup must fail instead.
func TestLoadRequiresSessionSecret(t *testing.T) {
	path := writeConfig(t, "api_port: 9000\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error for missing session_secret")
	}
	if !strings.Contains(err.Error(), "session_secret") {
		t.Errorf("expected session_secret in error, got: %v", err)
	}
}

func TestLoadSecretFromEnvironment(t *testing.T) {
	t.Setenv("AUTHDESK_SESSION_SECRET", "env-secret")
	path := writeConfig(t, "api_port: 9000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.SessionSecret != "env-secret" {
		t.Errorf("expected secret from environment, got %q", cfg.SessionSecret)
	}
	if cfg.APIPort != 9000 {
		t.Errorf("expected port from file, got %d", cfg.APIPort)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	path := writeConfig(t, "session_secret: test-secret\napi_port: 70000\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for out-of-range port")
	}
}
