// Package cmdtest builds initialized state and runs commands for command
// tests.
package cmdtest

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/journaldb/internal/codec"
	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/state"
)

// WriteConfig writes a config file into dir and returns its path.
func WriteConfig(t *testing.T, dir string, data map[string]any) string {
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

// NewState returns an initialized state whose databases live in a temp
// directory. The state is closed when the test ends.
func NewState(t *testing.T) *state.State {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	cfgPath := WriteConfig(t, dir, map[string]any{
		"dbdir":        filepath.Join(dir, "data"),
		"default_file": filepath.Join(dir, "entry.txt"),
		"render":       "plain",
	})

	s := state.New()
	if err := s.Init(state.Options{ConfigPath: cfgPath, LogWriter: io.Discard}); err != nil {
		t.Fatalf("init state: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Run executes cmd with args and returns what it wrote to stdout and
// stderr.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// Date parses a calendar date or fails the test.
func Date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := entry.ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

// WriteEntryFile encodes doc into dir/name.
func WriteEntryFile(t *testing.T, dir, name string, doc entry.Document) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := codec.WriteFile(path, doc); err != nil {
		t.Fatalf("write entry file: %v", err)
	}
	return path
}

// Seed opens the state and creates one entry per document.
func Seed(t *testing.T, s *state.State, docs ...entry.Document) []entry.Entry {
	t.Helper()

	ctx := context.Background()
	if err := s.Open(ctx); err != nil {
		t.Fatalf("open state: %v", err)
	}

	created := make([]entry.Entry, 0, len(docs))
	for _, doc := range docs {
		e, err := s.Journal.Create(ctx, doc)
		if err != nil {
			t.Fatalf("seed %q: %v", doc.Title, err)
		}
		created = append(created, e)
	}
	return created
}
