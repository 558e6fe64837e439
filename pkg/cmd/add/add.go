package add

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/state"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
)

func NewCmdAdd(s *state.State) *cobra.Command {
	var writeBack bool

	cmd := &cobra.Command{
		Use:   "add [file]",
		Short: "Add a new journal entry from a file.",
		Long: heredoc.Doc(`
			Reads an entry file, stores it as a new entry and indexes it for search.
			The id in the file header is ignored; a new id is assigned.

			An entry with the same title and date as an existing one is rejected.

			Examples:
			  jdb add entry.txt
			  jdb add entry.txt --write-back   // record the assigned id in the file
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, args[0], writeBack)
		},
	}

	cmd.Flags().
		BoolVarP(&writeBack, "write-back", "w", false, "Rewrite the file with the assigned entry id")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, path string, writeBack bool) error {
	if err := cmdpkg.Open(cmd, s); err != nil {
		return err
	}

	created, err := cmdpkg.CreateFromFile(cmd.Context(), s, path, writeBack)
	if created.ID != 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Added entry %d: %s\n", created.ID, created.Summary())
	}
	return cmdpkg.ReportDesync(cmd, err)
}
