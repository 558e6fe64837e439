package find

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/entry"
	"github.com/Paintersrp/journaldb/internal/render"
	"github.com/Paintersrp/journaldb/internal/state"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
)

func NewCmdFind(s *state.State) *cobra.Command {
	var (
		title   string
		tags    string
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "find [--title pattern | --tags pattern]",
		Short: "Find entries whose title or tags match a pattern.",
		Long: heredoc.Doc(`
			Looks entries up in the journal by a title or tags pattern. A pattern
			without '*' matches anywhere in the value; '*' matches any run of
			characters.

			Examples:
			  jdb find --title trip
			  jdb find --title "Day*"
			  jdb find --tags +hike --preview
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && tags == "" {
				return errors.New("one of --title or --tags is required")
			}
			if err := cmdpkg.Open(cmd, s); err != nil {
				return err
			}

			var (
				entries []entry.Entry
				err     error
			)
			if title != "" {
				entries, err = s.Journal.FindByTitle(cmd.Context(), title)
			} else {
				entries, err = s.Journal.FindByTags(cmd.Context(), tags)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No entries found.")
				return nil
			}

			r := render.New(cmd.OutOrStdout(), s.Config.Render)
			for _, e := range entries {
				if err := r.ListLine(e, preview); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Title pattern")
	cmd.Flags().StringVar(&tags, "tags", "", "Tags pattern")
	cmd.Flags().BoolVarP(&preview, "preview", "p", false, "Add a body preview to each entry")
	cmd.MarkFlagsMutuallyExclusive("title", "tags")

	return cmd
}
