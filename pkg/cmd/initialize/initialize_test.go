package initialize

import (
	"os"
	"strings"
	"testing"

	"github.com/Paintersrp/journaldb/internal/config"
	"github.com/Paintersrp/journaldb/pkg/cmd/cmdtest"
)

func TestInitCreatesConfigAndDatabases(t *testing.T) {
	s := cmdtest.NewState(t)

	out, _, err := cmdtest.Run(t, NewCmdInit(s))
	if err != nil {
		t.Fatalf("init returned error: %v", err)
	}

	cfgPath := config.GetConfigPath(s.Home)
	if !strings.Contains(out, "Config: "+cfgPath+"\n") {
		t.Fatalf("expected config path in output, got %q", out)
	}
	if !strings.Contains(out, "Journal: "+s.Config.DBPath()+"\n") {
		t.Fatalf("expected journal path in output, got %q", out)
	}

	for _, path := range []string{cfgPath, s.Config.DBPath(), s.Config.IndexPath()} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
	}
}

func TestInitKeepsExistingConfig(t *testing.T) {
	s := cmdtest.NewState(t)

	if _, _, err := cmdtest.Run(t, NewCmdInit(s)); err != nil {
		t.Fatalf("first init: %v", err)
	}
	cfgPath := config.GetConfigPath(s.Home)
	first, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	if _, _, err := cmdtest.Run(t, NewCmdInit(s)); err != nil {
		t.Fatalf("second init: %v", err)
	}
	second, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("init rewrote an existing config file")
	}
}
