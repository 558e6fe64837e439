package edit

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/codec"
	"github.com/Paintersrp/journaldb/internal/editor"
	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/state"
	"github.com/Paintersrp/journaldb/pkg/arg"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
)

var openEditor = editor.Open

func NewCmdEdit(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a journal entry in your editor.",
		Long: heredoc.Doc(`
			Writes the entry to a temporary file, opens it in the configured editor
			and saves the changes when the editor exits. Keep the id line unchanged.

			The editor comes from the config file ('jdb change-editor'); the
			'custom' editor uses $VISUAL or $EDITOR.

			Example:
			  jdb edit 3
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

			current, err := s.Journal.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			file, err := os.CreateTemp("", fmt.Sprintf("jdb-%d-*.txt", id))
			if err != nil {
				return fmt.Errorf("failed to create temporary file: %w", err)
			}
			path := file.Name()
			file.Close()
			defer os.Remove(path)

			if err := codec.WriteFile(path, entry.ToDocument(current)); err != nil {
				return err
			}

			if err := openEditor(path, s.Config.Editor, s.Config.NvimArgs); err != nil {
				return fmt.Errorf("error opening editor: %w", err)
			}

			doc, err := codec.ReadFile(path)
			if err != nil {
				return err
			}
			if doc.ID != id {
				return fmt.Errorf("the id in the edited file changed from %d to %d; nothing saved", id, doc.ID)
			}

			updated, err := s.Journal.Update(cmd.Context(), doc)
			if err != nil && !entry.IsDesync(err) {
				return err
			}

			if updated.SameValues(current) {
				fmt.Fprintf(cmd.OutOrStdout(), "No changes to entry %d.\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d: %s\n", updated.ID, updated.Summary())
			}
			return cmdpkg.ReportDesync(cmd, err)
		},
	}

	return cmd
}
