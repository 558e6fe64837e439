package constants

const (
	Version        = `0.1.0`
	AppName        = `jdb`
	ConfigFile     = `config`
	ConfigFileType = `yaml`
	ConfigDir      = `/.journaldb/`
	EnvPrefix      = `JDB`

	DefaultDBDir       = `.`
	DefaultDBName      = `journal.db`
	DefaultIndexDir    = `searchindex`
	DefaultIndexFile   = `index.db`
	DefaultEntryFile   = `entry.txt`
	DefaultLogLevel    = `warn`
	DefaultRenderMode  = `auto`
	EntryFileExtension = `.txt`

	// DateLayout is the only accepted calendar date format in entry files.
	DateLayout = `2006-01-02`

	// HeaderMarker delimits the header block of an entry file.
	HeaderMarker = `---`
)
