package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diploma.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  static_dir: ./pages
upstream:
  type: graphql
  endpoint: https://idp.example.com/graphql
  timeout: 5s
validity:
  window: 30m
  sweep_interval: 10m
revocation:
  path: /var/lib/diploma/revoked.json
audit:
  type: file
  path: /var/lib/diploma/audit.jsonl
admin:
  signing_key: super-secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		Server: ServerConfig{Addr: ":9000", StaticDir: "./pages"},
		Upstream: UpstreamConfig{
			Type: "graphql",
			// inline fields land in the free-form config map
			Config: map[string]any{
				"endpoint": "https://idp.example.com/graphql",
				"timeout":  "5s",
			},
		},
		Validity: ValidityConfig{
			Window:        30 * time.Minute,
			SweepInterval: 10 * time.Minute,
		},
		Revocation: RevocationConfig{Path: "/var/lib/diploma/revoked.json"},
		Audit:      AuditConfig{Type: "file", Path: "/var/lib/diploma/audit.jsonl"},
		Admin:      AdminConfig{SigningKey: "super-secret"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.Upstream.Type != "static" {
		t.Errorf("default upstream type = %q", cfg.Upstream.Type)
	}
	if cfg.Validity.Window != time.Hour {
		t.Errorf("default window = %v", cfg.Validity.Window)
	}
	if cfg.Validity.SweepInterval != time.Hour {
		t.Errorf("default sweep interval = %v", cfg.Validity.SweepInterval)
	}
	if cfg.Audit.Type != "memory" {
		t.Errorf("default audit type = %q", cfg.Audit.Type)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Unparsable YAML", `server: [`},
		{"File Audit Without Path", "audit:\n  type: file"},
		{"Unknown Audit Type", "audit:\n  type: syslog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() should have failed")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}
