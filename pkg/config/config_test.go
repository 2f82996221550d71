package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marc47marc47/netstatw/pkg/collector/netbytes"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netstatw.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.SampleInterval != 800*time.Millisecond {
		t.Fatalf("unexpected default interval: %v", cfg.SampleInterval)
	}
	if cfg.TopPIDs != 0 {
		t.Fatalf("default should be uncapped, got %d", cfg.TopPIDs)
	}
	if cfg.Proto != "all" || cfg.Family != "all" {
		t.Fatalf("default filters wrong: %+v", cfg)
	}
	if cfg.NetCountersPin != netbytes.DefaultPinPath {
		t.Fatalf("unexpected pin path: %s", cfg.NetCountersPin)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"full: true",
		"sample_interval: 2s",
		"top_pids: 3",
		"proto: tcp",
	}, "\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.Full || cfg.SampleInterval != 2*time.Second || cfg.TopPIDs != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Proto != "tcp" {
		t.Fatalf("proto override lost: %q", cfg.Proto)
	}
	if cfg.Family != "all" || cfg.NetCountersPin != netbytes.DefaultPinPath {
		t.Fatalf("unset fields must keep defaults: %+v", cfg)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "sample_interval: fast\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "sample_interval") {
		t.Fatalf("expected sample_interval parse error, got %v", err)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("explicitly named missing config must fail")
	}
}

func TestLoadDefaultMissingFileIsFine(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default config should load defaults: %v", err)
	}
	if cfg.SampleInterval != 800*time.Millisecond {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidateRejectsNonPositiveInterval(t *testing.T) {
	cfg := Default()
	for _, interval := range []time.Duration{0, -time.Second} {
		cfg.SampleInterval = interval
		if err := cfg.Validate(); err == nil {
			t.Fatalf("interval %v must be rejected", interval)
		}
	}
}

func TestValidateRejectsNegativeCap(t *testing.T) {
	cfg := Default()
	cfg.TopPIDs = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("negative top pids cap must be rejected")
	}
}
