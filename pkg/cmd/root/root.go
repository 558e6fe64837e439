package root

import (
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/journaldb/internal/constants"
	"github.com/Paintersrp/journaldb/internal/state"
	"github.com/Paintersrp/journaldb/pkg/cmd/add"
	"github.com/Paintersrp/journaldb/pkg/cmd/changeEditor"
	"github.com/Paintersrp/journaldb/pkg/cmd/delete"
	"github.com/Paintersrp/journaldb/pkg/cmd/edit"
	"github.com/Paintersrp/journaldb/pkg/cmd/find"
	"github.com/Paintersrp/journaldb/pkg/cmd/initialize"
	"github.com/Paintersrp/journaldb/pkg/cmd/reindex"
	"github.com/Paintersrp/journaldb/pkg/cmd/search"
	"github.com/Paintersrp/journaldb/pkg/cmd/show"
	"github.com/Paintersrp/journaldb/pkg/cmd/template"
	"github.com/Paintersrp/journaldb/pkg/cmd/update"
	"github.com/Paintersrp/journaldb/pkg/cmd/watch"
	"github.com/Paintersrp/journaldb/pkg/cmd/write"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	var configPath string

	cmd := &cobra.Command{
		Use:     constants.AppName,
		Short:   "A journal of dated entries with full-text search.",
		Version: constants.Version,
		Long: heredoc.Doc(`
			Keeps dated journal entries in a local database and a search index.
			Entries are written as plain text files with a short header:

			  ---
			  title: Day One
			  tags: +hike
			  date: 2024-01-05
			  id: 0
			  ---

			  Walked far.

			Start with 'jdb template', fill in the file and 'jdb add' it.
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.Init(state.Options{
				ConfigPath: configPath,
				LogWriter:  cmd.ErrOrStderr(),
			})
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.Close()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ~/.journaldb/config.yaml)")
	pf.String("dbdir", "", "Directory where the database is stored (default: current directory)")
	pf.String("dbname", "", "Database file name (default: journal.db)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.BindPFlag("dbdir", pf.Lookup("dbdir"))
	viper.BindPFlag("dbname", pf.Lookup("dbname"))
	viper.BindPFlag("log_level", pf.Lookup("log-level"))

	cmd.AddCommand(
		initialize.NewCmdInit(s),
		add.NewCmdAdd(s),
		update.NewCmdUpdate(s),
		show.NewCmdShow(s),
		write.NewCmdWrite(s),
		template.NewCmdTemplate(s),
		search.NewCmdSearch(s),
		delete.NewCmdDelete(s),
		edit.NewCmdEdit(s),
		find.NewCmdFind(s),
		reindex.NewCmdReindex(s),
		watch.NewCmdWatch(s),
		changeEditor.NewCmdChangeEditor(s),
	)

	return cmd, nil
}
