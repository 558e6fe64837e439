/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package initialize

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/config"
	"github.com/Paintersrp/journaldb/internal/state"
)

func NewCmdInit(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initialize",
		Aliases: []string{"i", "init"},
		Short:   "Initialize the journal configuration and databases",
		Long: `This command writes a default configuration file under ~/.journaldb when none exists
and creates the journal database and search index in the configured directory.`,
		Example: "jdb init",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.EnsureConfigExists(s.Home)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config: %s\n", cfg.GetConfigPath())

			if err := s.Open(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Journal: %s\nSearch index: %s\n", s.Config.DBPath(), s.Config.IndexPath())
			return nil
		},
	}

	return cmd
}
