package show

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/render"
	"github.com/Paintersrp/journaldb/internal/state"
	"github.com/Paintersrp/journaldb/pkg/arg"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
	"github.com/Paintersrp/journaldb/pkg/shared/flags"
)

var errEntryZero = errors.New("Entry 0 doesn't exist. Please provide valid entry id.")

type options struct {
	list    bool
	preview bool
	pick    bool
}

func NewCmdShow(s *state.State) *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "show [id] [--list [--preview]] [--pick] [--render mode]",
		Short: "Show a journal entry by id, or list all entries.",
		Long: heredoc.Doc(`
			Prints one entry with its title, date, tags and content.

			Examples:
			  jdb show 3
			  jdb show 3 --render markdown   // render the body with glamour
			  jdb show --list                // one line per entry
			  jdb show --list --preview      // include a plain text preview
			  jdb show --pick                // choose an entry with a fuzzy finder
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, args, o)
		},
	}

	cmd.Flags().BoolVarP(&o.list, "list", "l", false, "Show all entries")
	cmd.Flags().BoolVarP(&o.preview, "preview", "p", false, "Add a body preview to each listed entry")
	cmd.Flags().BoolVar(&o.pick, "pick", false, "Select the entry to show interactively")
	flags.AddRender(cmd)
	cmd.MarkFlagsMutuallyExclusive("list", "pick")

	return cmd
}

func run(cmd *cobra.Command, s *state.State, args []string, o options) error {
	mode, err := flags.HandleRender(cmd, s.Config)
	if err != nil {
		return err
	}
	if err := cmdpkg.Open(cmd, s); err != nil {
		return err
	}

	ctx := cmd.Context()
	r := render.New(cmd.OutOrStdout(), mode)

	switch {
	case o.list:
		entries, err := s.Journal.List(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := r.ListLine(e, o.preview); err != nil {
				return err
			}
		}
		return nil

	case o.pick:
		entries, err := s.Journal.List(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No entries found.")
			return nil
		}
		idx, err := cmdpkg.PickEntry(entries)
		if errors.Is(err, cmdpkg.ErrNoSelection) {
			return nil
		}
		if err != nil {
			return err
		}
		return r.Entry(entries[idx])
	}

	if len(args) == 0 || args[0] == "0" {
		return errEntryZero
	}
	id, err := arg.HandleID(args, 0)
	if err != nil {
		return err
	}

	e, err := s.Journal.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.Entry(e)
}
