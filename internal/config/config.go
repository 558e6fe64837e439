package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/journaldb/internal/constants"
)

type Config struct {
	DBDir       string `yaml:"dbdir"        json:"dbdir"`
	DBName      string `yaml:"dbname"       json:"dbname"`
	IndexDir    string `yaml:"indexdir"     json:"indexdir"`
	Editor      string `yaml:"editor"       json:"editor"`
	NvimArgs    string `yaml:"nvimargs"     json:"nvim_args"`
	LogLevel    string `yaml:"log_level"    json:"log_level"`
	PrettyLogs  bool   `yaml:"pretty_logs"  json:"pretty_logs"`
	DefaultFile string `yaml:"default_file" json:"default_file"`
	Render      string `yaml:"render"       json:"render"`

	path string
}

var validEditorNames = []string{"nvim", "vim", "nano", "code", "vscode", "custom"}

var ValidEditors = func() map[string]bool {
	editors := make(map[string]bool, len(validEditorNames))
	for _, editor := range validEditorNames {
		editors[editor] = true
	}

	return editors
}()

var ValidRenderModes = map[string]bool{
	"auto":     true,
	"plain":    true,
	"markdown": true,
}

func ValidateEditor(editor string) error {
	if _, valid := ValidEditors[editor]; valid {
		return nil
	}

	return fmt.Errorf(
		"invalid editor: %q. Please choose from %s.",
		editor,
		validEditorList(),
	)
}

func ValidateRenderMode(mode string) error {
	if ValidRenderModes[mode] {
		return nil
	}
	return fmt.Errorf("invalid render mode: %q. Please choose from 'auto', 'plain', or 'markdown'.", mode)
}

func validEditorList() string {
	quoted := make([]string, len(validEditorNames))
	for i, name := range validEditorNames {
		quoted[i] = fmt.Sprintf("'%s'", name)
	}

	if len(quoted) == 0 {
		return ""
	}

	if len(quoted) == 1 {
		return quoted[0]
	}

	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DBDir:       constants.DefaultDBDir,
		DBName:      constants.DefaultDBName,
		IndexDir:    constants.DefaultIndexDir,
		LogLevel:    constants.DefaultLogLevel,
		DefaultFile: constants.DefaultEntryFile,
		Render:      constants.DefaultRenderMode,
	}
}

// Load reads the config file under home. A missing or empty file yields the
// defaults.
func Load(home string) (*Config, error) {
	return LoadFile(GetConfigPath(home))
}

// LoadFile reads the config file at path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	case len(strings.TrimSpace(string(data))) > 0:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.ensureDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.syncViper()
	return cfg, nil
}

func (cfg *Config) ensureDefaults() {
	defaults := Default()
	if strings.TrimSpace(cfg.DBDir) == "" {
		cfg.DBDir = defaults.DBDir
	}
	if strings.TrimSpace(cfg.DBName) == "" {
		cfg.DBName = defaults.DBName
	}
	if strings.TrimSpace(cfg.IndexDir) == "" {
		cfg.IndexDir = defaults.IndexDir
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if strings.TrimSpace(cfg.DefaultFile) == "" {
		cfg.DefaultFile = defaults.DefaultFile
	}
	if strings.TrimSpace(cfg.Render) == "" {
		cfg.Render = defaults.Render
	}
}

// Validate checks the enumerated settings.
func (cfg *Config) Validate() error {
	if cfg.Editor != "" {
		if err := ValidateEditor(cfg.Editor); err != nil {
			return err
		}
	}
	if err := ValidateRenderMode(cfg.Render); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return nil
}

// syncViper publishes the file values as viper defaults so flags and JDB_
// environment variables bound later take precedence.
func (cfg *Config) syncViper() {
	viper.SetDefault("dbdir", cfg.DBDir)
	viper.SetDefault("dbname", cfg.DBName)
	viper.SetDefault("indexdir", cfg.IndexDir)
	viper.SetDefault("editor", cfg.Editor)
	viper.SetDefault("nvimargs", cfg.NvimArgs)
	viper.SetDefault("log_level", cfg.LogLevel)
	viper.SetDefault("pretty_logs", cfg.PrettyLogs)
	viper.SetDefault("default_file", cfg.DefaultFile)
	viper.SetDefault("render", cfg.Render)
}

func (cfg *Config) GetConfigPath() string {
	return cfg.path
}

// DBPath is the record store file.
func (cfg *Config) DBPath() string {
	return filepath.Join(cfg.DBDir, cfg.DBName)
}

// IndexPath is the search index file. A relative index directory lives
// under the database directory.
func (cfg *Config) IndexPath() string {
	dir := cfg.IndexDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.DBDir, dir)
	}
	return filepath.Join(dir, constants.DefaultIndexFile)
}

func (cfg *Config) ChangeEditor(editor string) error {
	if err := ValidateEditor(editor); err != nil {
		return err
	}
	cfg.Editor = editor
	return cfg.Save()
}

func (cfg *Config) Save() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.path == "" {
		return errors.New("config path is not set")
	}

	cfg.syncViper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(cfg.path, data, 0o644)
}
