package update

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/codec"
	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/state"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
)

func NewCmdUpdate(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [file]",
		Short: "Update a journal entry from a file.",
		Long: heredoc.Doc(`
			Reads an entry file and writes its values over the entry named by the id
			in the file header. The id must refer to an existing entry; use
			'jdb write ID' to export an entry with its id first.

			Example:
			  jdb write 3 entry.txt
			  jdb update entry.txt
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdpkg.Open(cmd, s); err != nil {
				return err
			}

			doc, err := codec.ReadFile(args[0])
			if err != nil {
				return err
			}

			updated, err := s.Journal.Update(cmd.Context(), doc)
			if err != nil && !entry.IsDesync(err) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d: %s\n", updated.ID, updated.Summary())

			return cmdpkg.ReportDesync(cmd, err)
		},
	}

	return cmd
}
