package delete

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/state"
	"github.com/Paintersrp/journaldb/pkg/arg"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
	"github.com/Paintersrp/journaldb/pkg/shared/flags"
)

var (
	confirm = func(prompt string) (bool, error) {
		return confirmation.New(prompt, confirmation.No).RunPrompt()
	}
	isInteractive = func(cmd *cobra.Command) bool {
		f, ok := cmd.InOrStdin().(interface{ Fd() uintptr })
		return ok && term.IsTerminal(int(f.Fd()))
	}
)

func NewCmdDelete(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete [id] [--yes]",
		Aliases: []string{"rm"},
		Short:   "Delete a journal entry.",
		Long: heredoc.Doc(`
			Removes an entry from the journal and from the search index.
			Asks for confirmation unless --yes is given.

			Examples:
			  jdb delete 3
			  jdb delete 3 --yes
		`),
		Args: cobra.ExactArgs(1),
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

			if !flags.HandleYes(cmd) {
				if !isInteractive(cmd) {
					return errors.New("refusing to delete without confirmation; pass --yes")
				}
				ok, err := confirm(fmt.Sprintf("Delete entry %d: %s?", e.ID, e.Summary()))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
					return nil
				}
			}

			err = s.Journal.Delete(cmd.Context(), id)
			if err != nil && !entry.IsDesync(err) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d: %s\n", e.ID, e.Summary())

			return cmdpkg.ReportDesync(cmd, err)
		},
	}

	flags.AddYes(cmd)

	return cmd
}
