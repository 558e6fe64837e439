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
package changeEditor

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/config"
	"github.com/Paintersrp/journaldb/internal/state"
)

func NewCmdChangeEditor(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "change-editor [editor]",
		Short: "Change the default text editor",
		Long: `The change-editor command updates the editor used by 'jdb edit' and saves the new setting to the configuration file.
Supported editors are nvim, vim, nano, code, vscode and custom ($VISUAL or $EDITOR).`,
		Example: `
    # Change the default editor to 'vim'
    jdb change-editor vim
    `,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reload from disk so flag and environment overrides are not saved.
			cfg, err := config.LoadFile(s.Config.GetConfigPath())
			if err != nil {
				return err
			}
			if err := cfg.ChangeEditor(args[0]); err != nil {
				return err
			}
			s.Config.Editor = cfg.Editor

			fmt.Fprintf(cmd.OutOrStdout(), "Editor set to %s in %s\n", cfg.Editor, cfg.GetConfigPath())
			return nil
		},
	}

	return cmd
}
