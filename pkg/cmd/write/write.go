package write

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/codec"
	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/state"
	"github.com/Paintersrp/journaldb/pkg/arg"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
)

func NewCmdWrite(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write [id] [file]",
		Short: "Write a journal entry to a file.",
		Long: heredoc.Doc(`
			Exports an entry, including its id, to an entry file. Edit the file and
			run 'jdb update' on it to save the changes. The file defaults to
			entry.txt and is overwritten if it exists.

			Examples:
			  jdb write 3
			  jdb write 3 day-one.txt
		`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := arg.HandleID(args, 0)
			if err != nil {
				return err
			}
			if err := cmdpkg.Open(cmd, s); err != nil {
				return err
			}

			e, err := s.Journal.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			path := cmdpkg.EntryFile(s, arg.HandleOptional(args, 1))
			if err := codec.WriteFile(path, entry.ToDocument(e)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote entry %d to %s\n", e.ID, path)
			return nil
		},
	}

	return cmd
}
