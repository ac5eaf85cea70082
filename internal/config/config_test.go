package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/bitsctl/internal/protocol/packet"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestTemplateLoadsAsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Decode.Limits() != packet.DefaultLimits() {
		t.Fatalf("template limits differ from defaults: %+v", cfg.Decode)
	}
	if cfg.Server.Addr != ":9400" || len(cfg.Server.CorsOrigins) != 1 {
		t.Fatalf("unexpected server section: %+v", cfg.Server)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, "[decode]\nmax_depth = 12\n\n[server]\ncors_origins = [\" http://a \", \"\"]\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Decode.MaxDepth != 12 {
		t.Fatalf("max_depth: got %d", cfg.Decode.MaxDepth)
	}
	if cfg.Decode.MaxPackets != packet.DefaultLimits().MaxPackets {
		t.Fatalf("max_packets default lost: %d", cfg.Decode.MaxPackets)
	}
	if cfg.Server.Name != "bitsctl" {
		t.Fatalf("name default lost: %q", cfg.Server.Name)
	}
	if len(cfg.Server.CorsOrigins) != 1 || cfg.Server.CorsOrigins[0] != "http://a" {
		t.Fatalf("origins not normalized: %q", cfg.Server.CorsOrigins)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[decode]\nmax_dept = 3\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "decode.max_dept") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative limit": "[decode]\nmax_packets = -1\n",
		"empty addr":     "[server]\naddr = \"  \"\n",
		"bad level":      "[log]\nlevel = \"loud\"\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
