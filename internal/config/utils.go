package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Paintersrp/journaldb/internal/constants"
)

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// EnsureConfigExists writes a default config file under homeDir when none
// exists and checks that the result loads.
func EnsureConfigExists(homeDir string) (*Config, error) {
	configPath := GetConfigPath(homeDir)

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.path = configPath
		if err := cfg.Save(); err != nil {
			return nil, &ConfigInitError{msg: fmt.Sprintf("failed to create config file: %v", err)}
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check config file existence: %w", err)
	}

	cfg, err := Load(homeDir)
	if err != nil {
		return nil, &ConfigInitError{msg: fmt.Sprintf("failed to load config: %v", err)}
	}
	return cfg, nil
}
