package reindex

import (
	"errors"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	indexsvc "github.com/Paintersrp/journaldb/internal/services/index"
	"github.com/Paintersrp/journaldb/internal/state"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
)

// ErrOutOfSync is returned by --check when the index disagrees with the
// journal.
var ErrOutOfSync = errors.New("search index is out of sync; run `jdb reindex` to rebuild it")

func NewCmdReindex(s *state.State) *cobra.Command {
	var (
		check  bool
		repair bool
	)

	cmd := &cobra.Command{
		Use:   "reindex [--check | --repair]",
		Short: "Rebuild the search index from the journal.",
		Long: heredoc.Doc(`
			The journal database is the source of truth; the search index is a copy
			of it. When an index write fails after an entry was saved, the two
			disagree until the index is rebuilt.

			Examples:
			  jdb reindex            // rebuild the whole index
			  jdb reindex --check    // report disagreements, exit non-zero if any
			  jdb reindex --repair   // fix only the entries that disagree
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdpkg.Open(cmd, s); err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case check:
				report, err := s.Indexer.Verify(ctx)
				if err != nil {
					return err
				}
				printReport(out, report)
				if !report.Consistent() {
					return ErrOutOfSync
				}
			case repair:
				report, err := s.Indexer.Repair(ctx)
				if err != nil {
					return err
				}
				printReport(out, report)
				if !report.Consistent() {
					fmt.Fprintln(out, "Repaired.")
				}
			default:
				n, err := s.Indexer.Rebuild(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Indexed %d entries.\n", n)
			}

			status, err := s.IndexStatus(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Only verify that the index matches the journal")
	cmd.Flags().BoolVar(&repair, "repair", false, "Re-index only the entries that disagree")
	cmd.MarkFlagsMutuallyExclusive("check", "repair")

	return cmd
}

func printReport(w io.Writer, r indexsvc.Report) {
	fmt.Fprintf(w, "Checked %d entries: %d missing, %d stale, %d orphaned\n",
		r.Checked, len(r.Missing), len(r.Stale), len(r.Orphaned))
	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "  missing:  %v\n", r.Missing)
	}
	if len(r.Stale) > 0 {
		fmt.Fprintf(w, "  stale:    %v\n", r.Stale)
	}
	if len(r.Orphaned) > 0 {
		fmt.Fprintf(w, "  orphaned: %v\n", r.Orphaned)
	}
}
