package changeEditor

import (
	"strings"
	"testing"

	"github.com/Paintersrp/journaldb/internal/config"
	"github.com/Paintersrp/journaldb/pkg/cmd/cmdtest"
)

func TestChangeEditorSavesConfig(t *testing.T) {
	s := cmdtest.NewState(t)
	path := s.Config.GetConfigPath()

	out, _, err := cmdtest.Run(t, NewCmdChangeEditor(s), "vim")
	if err != nil {
		t.Fatalf("change-editor returned error: %v", err)
	}
	if out != "Editor set to vim in "+path+"\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if s.Config.Editor != "vim" {
		t.Fatalf("expected in-memory editor vim, got %q", s.Config.Editor)
	}

	saved, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if saved.Editor != "vim" {
		t.Fatalf("expected saved editor vim, got %q", saved.Editor)
	}
}

func TestChangeEditorRejectsUnknownEditor(t *testing.T) {
	s := cmdtest.NewState(t)
	before := s.Config.Editor

	_, _, err := cmdtest.Run(t, NewCmdChangeEditor(s), "notepad")
	if err == nil || !strings.Contains(err.Error(), "invalid editor") {
		t.Fatalf("expected invalid editor error, got %v", err)
	}
	if s.Config.Editor != before {
		t.Fatalf("editor changed to %q after a rejected value", s.Config.Editor)
	}
}
