package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxFileSize != 1<<20 {
		t.Errorf("MaxFileSize = %d, want 1MiB", cfg.MaxFileSize)
	}
	if cfg.FollowSymlinks {
		t.Error("FollowSymlinks should default to false")
	}
	if cfg.PurposeTag != "GynTree:" {
		t.Errorf("PurposeTag = %q, want %q", cfg.PurposeTag, "GynTree:")
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should default to true")
	}
}

func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `max_file_size: 512kb
follow_symlinks: true
purpose_tag: "Purpose:"
workers: 4
log_level: debug
history:
  enabled: false
  db_path: /tmp/history.db
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MaxFileSize != 512*1024 {
		t.Errorf("MaxFileSize = %d, want %d", cfg.MaxFileSize, 512*1024)
	}
	if !cfg.FollowSymlinks {
		t.Error("FollowSymlinks = false, want true")
	}
	if cfg.PurposeTag != "Purpose:" {
		t.Errorf("PurposeTag = %q, want %q", cfg.PurposeTag, "Purpose:")
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.History.DBPath != "/tmp/history.db" {
		t.Errorf("History.DBPath = %q", cfg.History.DBPath)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() on missing file error = %v", err)
	}
	if cfg.PurposeTag != "GynTree:" {
		t.Errorf("PurposeTag = %q, want default", cfg.PurposeTag)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workers: [not an int"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() on malformed YAML should fail")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	for name, content := range map[string]string{
		"bad size":  "max_file_size: -5mb",
		"bad level": "log_level: loud",
		"bad unit":  "max_file_size: 5parsecs",
	} {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: LoadConfig() should fail", name)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"65536", 65536},
		{"64kb", 64 * 1024},
		{"1mb", 1 << 20},
		{"2GB", 2 << 30},
		{"128b", 128},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if err != nil {
			t.Errorf("ParseSize(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if _, err := ParseSize("many"); err == nil {
		t.Error("ParseSize(\"many\") should fail")
	}
}
