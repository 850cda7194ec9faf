package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"alpinesearch-cli/cmd/config"
)

func TestIsConfigFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/work/alpinesearch.yaml", true},
		{"/work/alpinesearch.yml", true},
		{"/work/alpinesearch.toml", true},
		{"/work/alpinesearch.json", true},
		{"/work/AlpineSearch.YAML", true},
		{"/work/alpinesearch.yaml.bak", false},
		{"/work/other.yaml", false},
		{"/work/notes.txt", false},
	}
	for _, tt := range tests {
		if got := isConfigFile(tt.path); got != tt.want {
			t.Errorf("isConfigFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestConfigWatcherReloads(t *testing.T) {
	dir := t.TempDir()

	reloaded := make(chan *config.Config, 1)
	stop, err := StartConfigWatcher(dir, func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("StartConfigWatcher failed: %v", err)
	}
	defer stop()

	path := filepath.Join(dir, "alpinesearch.yaml")
	if err := os.WriteFile(path, []byte("server_url: http://reloaded:9999\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.ServerURL != "http://reloaded:9999" {
			t.Errorf("reloaded server_url = %q", cfg.ServerURL)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload within 3s")
	}
}

func TestConfigWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	reloaded := make(chan struct{}, 1)
	stop, err := StartConfigWatcher(dir, func(*config.Config) {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("StartConfigWatcher failed: %v", err)
	}
	defer stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	select {
	case <-reloaded:
		t.Fatal("non-config file triggered a reload")
	case <-time.After(500 * time.Millisecond):
	}
}
