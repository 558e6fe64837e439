package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/constants"
	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/state"
	"github.com/Paintersrp/journaldb/internal/watcher"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
)

func NewCmdWatch(s *state.State) *cobra.Command {
	var (
		ext       string
		writeBack bool
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a directory and save entry files as they change.",
		Long: heredoc.Doc(`
			Watches a directory tree for entry files. Each saved file with id 0 is
			added as a new entry and rewritten with its assigned id; files with an id
			update that entry. Files that fail to parse are reported and skipped.

			Stop with Ctrl-C.

			Example:
			  jdb watch ~/journal
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdpkg.Open(cmd, s); err != nil {
				return err
			}

			w, err := watcher.New(args[0], ext, s.Logger)
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for %s files. Press Ctrl-C to stop.\n", args[0], ext)

			err = w.Run(ctx, Handler(cmd, s, writeBack))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&ext, "ext", constants.EntryFileExtension, "Entry file extension")
	cmd.Flags().BoolVar(&writeBack, "write-back", true, "Rewrite new entry files with their assigned id")

	return cmd
}

// Handler saves one changed entry file and reports the outcome.
func Handler(cmd *cobra.Command, s *state.State, writeBack bool) watcher.HandlerFunc {
	return func(ctx context.Context, path string) error {
		e, created, err := cmdpkg.SyncFile(ctx, s, path, writeBack)
		if err != nil && !entry.IsDesync(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s: %v\n", path, err)
			return err
		}

		verb := "Updated"
		if created {
			verb = "Added"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s entry %d from %s\n", verb, e.ID, path)
		return cmdpkg.ReportDesync(cmd, err)
	}
}
