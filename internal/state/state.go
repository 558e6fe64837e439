package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Paintersrp/journaldb/internal/config"
	"github.com/Paintersrp/journaldb/internal/constants"
	"github.com/Paintersrp/journaldb/internal/logging"
	"github.com/Paintersrp/journaldb/internal/pathutil"
	"github.com/Paintersrp/journaldb/internal/search"
	indexsvc "github.com/Paintersrp/journaldb/internal/services/index"
	"github.com/Paintersrp/journaldb/internal/services/journal"
	"github.com/Paintersrp/journaldb/internal/services/query"
	"github.com/Paintersrp/journaldb/internal/store"
)

// State is shared by every command of one invocation. Configuration is
// loaded by Init; the record store and search index are opened on first use
// by Open and released by Close.
type State struct {
	Config *config.Config
	Home   string
	Logger zerolog.Logger

	Store   *store.SQLiteStore
	Index   *search.FTSIndex
	Journal *journal.Service
	Query   *query.Service
	Indexer *indexsvc.Service
}

// Options carries the per-invocation overrides collected from flags.
type Options struct {
	ConfigPath string
	LogWriter  io.Writer
}

// New returns an empty state. Commands are built against it before flags
// are parsed.
func New() *State {
	return &State{Logger: zerolog.Nop()}
}

// Init loads the configuration and builds the logger. Values bound into
// viper (flags, JDB_ environment variables) override the config file.
func (s *State) Init(opts Options) error {
	home, err := GetHomeDir()
	if err != nil {
		return err
	}
	s.Home = home

	cfg, err := LoadConfig(home, opts.ConfigPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, home)
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.Config = cfg

	w := opts.LogWriter
	if w == nil {
		w = os.Stderr
	}
	logger, err := logging.New(w, cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return err
	}
	s.Logger = logger
	return nil
}

// Open opens the record store and the search index and wires the services.
// Calling it again is a no-op.
func (s *State) Open(ctx context.Context) error {
	if s.Journal != nil {
		return nil
	}
	if s.Config == nil {
		return errors.New("state is not initialized")
	}

	st, err := store.Open(ctx, s.Config.DBPath(), s.Logger)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}

	idx, err := search.Open(ctx, s.Config.IndexPath(), s.Logger)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("failed to open search index: %w", err)
	}

	s.OpenWith(st, idx)
	return nil
}

// OpenWith wires the services over already opened handles. The state takes
// ownership of both.
func (s *State) OpenWith(st *store.SQLiteStore, idx *search.FTSIndex) {
	s.Store = st
	s.Index = idx
	s.Journal = journal.NewService(st, idx, s.Logger)
	s.Query = query.NewService(idx, st, s.Logger)
	s.Indexer = indexsvc.NewService(st, idx, s.Logger)
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

// LoadConfig reads the explicit config file when one is given and the file
// under home otherwise.
func LoadConfig(home, explicit string) (*config.Config, error) {
	if explicit != "" {
		return config.LoadFile(pathutil.ExpandHome(explicit, home))
	}
	return config.Load(home)
}

func applyOverrides(cfg *config.Config, home string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(viper.GetString(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.DBDir, "dbdir")
	set(&cfg.DBName, "dbname")
	set(&cfg.IndexDir, "indexdir")
	set(&cfg.Editor, "editor")
	set(&cfg.NvimArgs, "nvimargs")
	set(&cfg.LogLevel, "log_level")
	set(&cfg.DefaultFile, "default_file")
	set(&cfg.Render, "render")
	if viper.IsSet("pretty_logs") {
		cfg.PrettyLogs = viper.GetBool("pretty_logs")
	}

	cfg.DBDir = pathutil.ExpandHome(cfg.DBDir, home)
	if filepath.IsAbs(cfg.IndexDir) || strings.HasPrefix(cfg.IndexDir, "~") {
		cfg.IndexDir = pathutil.ExpandHome(cfg.IndexDir, home)
	}
	if cfg.IndexDir == "" {
		cfg.IndexDir = constants.DefaultIndexDir
	}
}

// Close releases the search index and the record store. It is safe to call
// more than once and on a state that never opened them.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.Indexer != nil {
		if err := s.Indexer.Close(); err != nil && !errors.Is(err, indexsvc.ErrClosed) {
			errs = append(errs, err)
		}
		s.Indexer = nil
	}
	if s.Index != nil {
		if err := s.Index.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close search index: %w", err))
		}
		s.Index = nil
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close record store: %w", err))
		}
		s.Store = nil
	}
	s.Journal = nil
	s.Query = nil

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
