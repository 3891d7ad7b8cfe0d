package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	return Load(f)
}

func TestDefaults(t *testing.T) {
	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ListenAddr != "localhost:8080" {
		t.Errorf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if cfg.DataDir != "data" {
		t.Errorf("unexpected data dir: %q", cfg.DataDir)
	}
	if !cfg.BackupOnImport {
		t.Error("expected backups on import by default")
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("unexpected upload limit: %d", cfg.MaxUploadBytes)
	}
}

func TestFlagOverride(t *testing.T) {
	cfg, err := load(t, "--listen-addr", "127.0.0.1:9999", "--data-dir", "/tmp/tracker")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("flag did not override listen addr: %q", cfg.ListenAddr)
	}
	if cfg.DataDir != "/tmp/tracker" {
		t.Errorf("flag did not override data dir: %q", cfg.DataDir)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("JOBTRACK_LISTEN_ADDR", "0.0.0.0:8888")
	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ListenAddr != "0.0.0.0:8888" {
		t.Errorf("environment did not override listen addr: %q", cfg.ListenAddr)
	}
}

func TestInvalidListenAddr(t *testing.T) {
	if _, err := load(t, "--listen-addr", "not an address"); err == nil {
		t.Error("expected a validation error for a bad listen address")
	}
}
