package search

import (
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/render"
	"github.com/Paintersrp/journaldb/internal/search"
	"github.com/Paintersrp/journaldb/internal/services/query"
	"github.com/Paintersrp/journaldb/internal/state"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
	"github.com/Paintersrp/journaldb/pkg/shared/flags"
)

type options struct {
	full   bool
	limit  int
	fields []string
}

func NewCmdSearch(s *state.State) *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "search [query] [--full] [--limit n] [--field name]",
		Short: "Search journal entries.",
		Long: heredoc.Doc(`
			Searches titles, content and tags. An entry matches when it contains any
			of the query words; results are ranked by relevance, best first.

			Examples:
			  jdb search alpine trip
			  jdb search hike --full        // print every field of each match
			  jdb search hike --limit 5
			  jdb search hike --field tags  // only match tags
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, strings.Join(args, " "), o)
		},
	}

	cmd.Flags().BoolVarP(&o.full, "full", "f", false, "Show full entry information")
	cmd.Flags().IntVarP(&o.limit, "limit", "n", 0, "Show at most this many results")
	cmd.Flags().StringSliceVar(&o.fields, "field", nil, "Restrict matching to title, content or tags")
	flags.AddRender(cmd)

	return cmd
}

func run(cmd *cobra.Command, s *state.State, text string, o options) error {
	mode, err := flags.HandleRender(cmd, s.Config)
	if err != nil {
		return err
	}
	fields, err := search.ParseFields(o.fields)
	if err != nil {
		return err
	}
	if err := cmdpkg.Open(cmd, s); err != nil {
		return err
	}

	results, err := s.Query.Search(cmd.Context(), text, query.SearchOptions{
		Limit:  o.limit,
		Fields: fields,
	})
	if err != nil {
		return err
	}

	r := render.New(cmd.OutOrStdout(), mode)
	if len(results) == 0 {
		return r.NoResults()
	}

	for _, res := range results {
		if o.full {
			err = r.SearchFull(res.Entry)
		} else {
			err = r.SearchLine(res.Entry, res.Score)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
