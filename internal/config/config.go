package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the rate limits paste sites are known to tolerate;
// more aggressive settings risk IP bans.
const (
	// DefaultTimeout is the connection timeout for each HTTP request.
	// Paste sites are clearnet services with normal latency, so a
	// generous-but-bounded 30 seconds covers slow responses without
	// hanging a scrape unit indefinitely.
	DefaultTimeout = 30 * time.Second

	// DefaultPollInterval is the delay between archive polls against a
	// paste site. Polling more often than every 30 seconds rarely finds
	// new pastes and risks rate limiting.
	DefaultPollInterval = 30 * time.Second

	// DefaultFetchDelay is the delay between individual paste downloads.
	// This is a politeness setting: the archive poll can surface dozens
	// of new keys at once, and fetching them back-to-back looks like a
	// scraping burst to the site operator.
	DefaultFetchDelay = 1 * time.Second

	// DefaultUserAgent identifies PasteWatch in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows site
	// operators to identify watcher traffic in their logs.
	DefaultUserAgent = "PasteWatch/1.0 (+https://github.com/pastewatch/pastewatch)"

	// DefaultSaveDir is the directory where the save-file action writes
	// matched pastes when the rule file does not override it.
	DefaultSaveDir = "pastes"

	// AppName is the application name used for XDG directory paths.
	AppName = "pastewatch"
)

// Config holds all configuration options for PasteWatch.
// This struct is designed to be populated from CLI flags plus the rule
// file and passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ScrapeConfig, ReportConfig) for simplicity. The number of
// options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	// When set, all scraping traffic is routed through it. Leave empty
	// for a direct connection.
	ProxyAddress string

	// Timeout is the connection timeout for each HTTP request.
	// This applies to individual requests, not the overall watch run.
	Timeout time.Duration

	// PollInterval is the delay between archive polls per source.
	PollInterval time.Duration

	// FetchDelay is the delay between individual paste downloads.
	FetchDelay time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only informational messages and errors are logged.
	Verbose bool

	// JSONLog switches log output to JSON, one object per line.
	// Useful when the watcher runs under a log collector.
	JSONLog bool

	// ConfigFilePath is the path to the rule file.
	// If empty, the tool searches for .pastewatch in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// Rules holds the watch rules loaded from the rule file.
	// This is populated by LoadConfigFile and used to build the
	// matcher and action graph before the pipeline starts.
	Rules *File

	// DBDir is the directory path for storing the SQLite database.
	// When set, scraped pastes and matches are persisted for later
	// reporting. When empty, nothing is persisted.
	// Defaults to XDG data directory (~/.local/share/pastewatch on Linux).
	DBDir string

	// StoreAll persists every scraped paste, not only the matched ones.
	// Requires DBDir. Storage grows quickly; expect several thousand
	// pastes per day from a single busy source.
	StoreAll bool

	// SaveDir is the directory where the save-file action writes
	// matched pastes unless a rule overrides it.
	SaveDir string

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps site operators identify watcher
	// traffic.
	UserAgent string

	// IPCheck logs the watcher's public IP address at startup.
	// Useful for confirming that proxy routing is in effect before any
	// scraping traffic leaves the host.
	IPCheck bool

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts,
// intervals). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		FetchDelay:   DefaultFetchDelay,
		UserAgent:    DefaultUserAgent,
		SaveDir:      DefaultSaveDir,
	}
}

// XDGDataDir returns the XDG data directory for PasteWatch.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/pastewatch
// On macOS: ~/Library/Application Support/pastewatch
// On Windows: %LOCALAPPDATA%\pastewatch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for PasteWatch.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/pastewatch
// On macOS: ~/Library/Application Support/pastewatch
// On Windows: %APPDATA%\pastewatch
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing and rule loading, before the
// pipeline starts.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// PollInterval must be positive to avoid hammering the archive
	if c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}

	// FetchDelay must be non-negative
	if c.FetchDelay < 0 {
		return ErrInvalidFetchDelay
	}

	// StoreAll needs a database to store into
	if c.StoreAll && c.DBDir == "" {
		return ErrStoreAllWithoutDB
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// A watch run with neither matchers nor store-all would scrape
	// pastes and silently discard every one of them.
	if !c.StoreAll && (c.Rules == nil || len(c.Rules.Matchers) == 0) {
		return ErrNothingToDo
	}

	if c.Rules != nil {
		if err := c.Rules.Validate(); err != nil {
			return err
		}
	}

	return nil
}
