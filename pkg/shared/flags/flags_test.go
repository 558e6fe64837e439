package flags

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/config"
)

func TestHandleRender(t *testing.T) {
	cfg := config.Default()
	cfg.Render = "plain"

	cases := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "falls back to config", want: "plain"},
		{name: "flag wins", args: []string{"--render", "Markdown"}, want: "markdown"},
		{name: "rejects unknown", args: []string{"--render", "html"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "show"}
			AddRender(cmd)
			if err := cmd.ParseFlags(tc.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}

			got, err := HandleRender(cmd, cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("HandleRender returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("HandleRender = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPasteAndYesDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	AddPaste(cmd)
	AddYes(cmd)

	if err := cmd.ParseFlags([]string{"-y"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	paste, err := HandlePaste(cmd)
	if err != nil || paste {
		t.Fatalf("expected paste=false, got %v (%v)", paste, err)
	}
	if !HandleYes(cmd) {
		t.Fatal("expected --yes to be set")
	}
}
