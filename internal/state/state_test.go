package state

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/journaldb/internal/entry"
)

func writeConfigFile(t *testing.T, dir string, data map[string]any) string {
	t.Helper()
	raw, err := yaml.Marshal(data)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestStateOpensAndClosesStores(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfgPath := writeConfigFile(t, dir, map[string]any{
		"dbdir":     filepath.Join(dir, "data"),
		"log_level": "debug",
	})

	var logs bytes.Buffer
	s := New()
	if err := s.Init(Options{ConfigPath: cfgPath, LogWriter: &logs}); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	ctx := context.Background()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Open(ctx); err != nil {
		t.Fatalf("second Open returned error: %v", err)
	}

	date, _ := entry.ParseDate("2024-01-05")
	created, err := s.Journal.Create(ctx, entry.Document{Title: "Day One", Tags: "+hike", Date: date, Content: "Walked far."})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	status, err := s.IndexStatus(ctx)
	if err != nil {
		t.Fatalf("IndexStatus returned error: %v", err)
	}
	if status != "Idx: entries 1 · documents 1" {
		t.Fatalf("unexpected status %q", status)
	}

	if _, err := os.Stat(filepath.Join(dir, "data", "journal.db")); err != nil {
		t.Fatalf("expected record store file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "searchindex", "index.db")); err != nil {
		t.Fatalf("expected search index file: %v", err)
	}
	if logs.Len() == 0 {
		t.Fatal("expected debug logs to be written")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}

	reopened := New()
	if err := reopened.Init(Options{ConfigPath: cfgPath, LogWriter: &logs}); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if err := reopened.Open(ctx); err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Journal.Get(ctx, created.ID)
	if err != nil || got.Title != "Day One" {
		t.Fatalf("expected persisted entry, got %+v err=%v", got, err)
	}
}

func TestStateFlagOverridesWin(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfgPath := writeConfigFile(t, dir, map[string]any{"dbdir": filepath.Join(dir, "fromfile")})
	viper.Set("dbdir", filepath.Join(dir, "fromflag"))
	viper.Set("dbname", "other.db")

	s := New()
	if err := s.Init(Options{ConfigPath: cfgPath}); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if got := s.Config.DBPath(); got != filepath.Join(dir, "fromflag", "other.db") {
		t.Fatalf("expected flag override, got %q", got)
	}
}

func TestOpenRequiresInit(t *testing.T) {
	if err := New().Open(context.Background()); err == nil {
		t.Fatal("expected Open to fail before Init")
	}
	if err := New().Close(); err != nil {
		t.Fatalf("Close on unopened state returned error: %v", err)
	}
}
