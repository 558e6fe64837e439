package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/araddon/dateparse"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/journaldb/internal/codec"
	"github.com/Paintersrp/journaldb/internal/state"
	"github.com/Paintersrp/journaldb/pkg/arg"
	cmdpkg "github.com/Paintersrp/journaldb/pkg/cmd"
	"github.com/Paintersrp/journaldb/pkg/shared/flags"
)

var readClipboard = clipboard.ReadAll

func NewCmdTemplate(s *state.State) *cobra.Command {
	var (
		id   int64
		date string
	)

	cmd := &cobra.Command{
		Use:   "template [file] [--id id] [--date date] [--paste]",
		Short: "Create a template entry file.",
		Long: heredoc.Doc(`
			Writes a placeholder entry file to fill in and add with 'jdb add'.
			The file defaults to entry.txt and is never overwritten.

			The date defaults to today and accepts most common formats.

			Examples:
			  jdb template
			  jdb template trip.txt --date "March 3, 2024"
			  jdb template --paste   // use the clipboard as the body
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if id < 0 {
				return fmt.Errorf("invalid --id %d: must not be negative", id)
			}

			day, err := parseDate(date)
			if err != nil {
				return err
			}

			content := ""
			paste, err := flags.HandlePaste(cmd)
			if err != nil {
				return err
			}
			if paste {
				msg, err := readClipboard()
				if err == nil && strings.TrimSpace(msg) != "" {
					content = msg
				}
			}

			path := cmdpkg.EntryFile(s, arg.HandleOptional(args, 0))
			if err := codec.WriteTemplate(path, id, day, content); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote template to %s\n", path)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Entry id to put in the header (0 creates a new entry)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Entry date (defaults to today)")
	flags.AddPaste(cmd)

	return cmd
}

func parseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Now(), nil
	}

	t, err := dateparse.ParseLocal(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", raw, err)
	}
	return t, nil
}
