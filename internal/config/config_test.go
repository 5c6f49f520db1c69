// config_test.go tests configuration loading, defaults, and validation.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "responder.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
log_path: /var/log/custom/ar.log
log_destination: journal
exec_timeout_ms: 30000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogPath != "/var/log/custom/ar.log" {
		t.Errorf("LogPath = %q", cfg.LogPath)
	}
	if cfg.LogDestination != "journal" {
		t.Errorf("LogDestination = %q", cfg.LogDestination)
	}
	if got := cfg.ExecTimeout(); got != 30*time.Second {
		t.Errorf("ExecTimeout() = %v, want 30s", got)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be an error, got: %v", err)
	}
	if cfg.LogPath != DefaultLogPath {
		t.Errorf("LogPath = %q, want default", cfg.LogPath)
	}
	if cfg.LogDestination != "file" {
		t.Errorf("LogDestination = %q, want file", cfg.LogDestination)
	}
	if cfg.ExecTimeout() != 0 {
		t.Errorf("ExecTimeout() = %v, want 0", cfg.ExecTimeout())
	}
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "exec_timeout_ms: 5000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogPath != DefaultLogPath {
		t.Errorf("LogPath = %q, want default", cfg.LogPath)
	}
	if cfg.ExecTimeoutMs != 5000 {
		t.Errorf("ExecTimeoutMs = %d, want 5000", cfg.ExecTimeoutMs)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, "log_path: [this is\n  not: closed\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoad_BadDestination(t *testing.T) {
	path := writeConfig(t, "log_destination: syslog\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidDestination) {
		t.Errorf("error = %v, want ErrInvalidDestination", err)
	}
}

func TestLoad_NegativeTimeout(t *testing.T) {
	path := writeConfig(t, "exec_timeout_ms: -1\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidTimeout) {
		t.Errorf("error = %v, want ErrInvalidTimeout", err)
	}
}

func TestYAML_RendersAllKeys(t *testing.T) {
	data, err := Default().YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	doc := string(data)
	for _, key := range []string{"log_path:", "log_destination:", "exec_timeout_ms:"} {
		if !strings.Contains(doc, key) {
			t.Errorf("rendered config missing %q:\n%s", key, doc)
		}
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	data, err := Default().YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	path := writeConfig(t, string(data))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of rendered defaults failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("round-trip mismatch: %+v vs %+v", cfg, Default())
	}
}
