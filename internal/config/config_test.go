package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/journaldb/internal/config"
)

func writeConfig(t *testing.T, home string, data map[string]any) {
	t.Helper()
	configPath := config.GetConfigPath(home)

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}

	raw, err := yaml.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal config data: %v", err)
	}

	if err := os.WriteFile(configPath, raw, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadAcceptsSupportedEditors(t *testing.T) {
	editors := []string{"nvim", "vim", "nano", "code", "vscode"}

	for _, editor := range editors {
		editor := editor
		t.Run(editor, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, map[string]any{"editor": editor})

			cfg, err := config.Load(home)
			if err != nil {
				t.Fatalf("expected load to succeed for editor %q: %v", editor, err)
			}
			if cfg.Editor != editor {
				t.Fatalf("expected editor %q, got %q", editor, cfg.Editor)
			}
		})
	}
}

func TestLoadRejectsUnknownEditor(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{"editor": "emacs"})

	_, err := config.Load(home)
	if err == nil {
		t.Fatal("expected load to fail for unsupported editor")
	}
	if !strings.Contains(err.Error(), "invalid editor") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsBadRenderModeAndLogLevel(t *testing.T) {
	cases := map[string]map[string]any{
		"render":    {"render": "html"},
		"log level": {"log_level": "loud"},
	}

	for name, data := range cases {
		data := data
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, data)
			if _, err := config.Load(home); err == nil {
				t.Fatalf("expected load to fail for %v", data)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBDir != "." || cfg.DBName != "journal.db" || cfg.IndexDir != "searchindex" {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.DefaultFile != "entry.txt" || cfg.Render != "auto" || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if got := cfg.DBPath(); got != "journal.db" {
		t.Fatalf("expected db path journal.db, got %q", got)
	}
	if got := cfg.IndexPath(); got != filepath.Join("searchindex", "index.db") {
		t.Fatalf("unexpected index path %q", got)
	}
}

func TestIndexPathHonorsAbsoluteDirectory(t *testing.T) {
	home := t.TempDir()
	abs := filepath.Join(home, "elsewhere")
	writeConfig(t, home, map[string]any{"dbdir": filepath.Join(home, "data"), "indexdir": abs})

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := cfg.IndexPath(); got != filepath.Join(abs, "index.db") {
		t.Fatalf("unexpected index path %q", got)
	}
	if got := cfg.DBPath(); got != filepath.Join(home, "data", "journal.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}

func TestEnsureConfigExistsCreatesDefaultFile(t *testing.T) {
	home := t.TempDir()

	cfg, err := config.EnsureConfigExists(home)
	if err != nil {
		t.Fatalf("EnsureConfigExists returned error: %v", err)
	}
	if _, err := os.Stat(config.GetConfigPath(home)); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	if cfg.GetConfigPath() != config.GetConfigPath(home) {
		t.Fatalf("unexpected config path %q", cfg.GetConfigPath())
	}

	if err := cfg.ChangeEditor("nano"); err != nil {
		t.Fatalf("ChangeEditor returned error: %v", err)
	}
	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if reloaded.Editor != "nano" {
		t.Fatalf("expected persisted editor nano, got %q", reloaded.Editor)
	}

	if err := cfg.ChangeEditor("ed"); err == nil {
		t.Fatal("expected ChangeEditor to reject unsupported editor")
	}
}

func TestEnsureConfigExistsReportsBrokenFile(t *testing.T) {
	home := t.TempDir()
	path := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("dbdir: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := config.EnsureConfigExists(home)
	var initErr *config.ConfigInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected ConfigInitError, got %v", err)
	}
}
