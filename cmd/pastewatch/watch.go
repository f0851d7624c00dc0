package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pastewatch/pastewatch/internal/action"
	"github.com/pastewatch/pastewatch/internal/config"
	"github.com/pastewatch/pastewatch/internal/core"
	"github.com/pastewatch/pastewatch/internal/database"
	"github.com/pastewatch/pastewatch/internal/log"
	"github.com/pastewatch/pastewatch/internal/matcher"
	"github.com/pastewatch/pastewatch/internal/scraper"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch paste sites and act on matching pastes",
		Long: `Watch scrapes new pastes from the configured sources, evaluates every
paste against the matchers in the rule file, and runs the bound actions
for each hit. It runs until interrupted (Ctrl+C / SIGTERM) or until a
scrape source fails unrecoverably.

Examples:
  # Watch with rules from .pastewatch in the current or home directory
  pastewatch watch

  # Use an explicit rule file and persist matches to a database
  pastewatch watch -c rules.yaml --db-dir ./data

  # Archive every scraped paste, matched or not
  pastewatch watch --db-dir ./data --store-all

  # Route scraping traffic through a SOCKS5 proxy and verify the exit IP
  pastewatch watch --proxy 127.0.0.1:9050 --ip-check`,
		RunE: runWatchCmd,
	}

	// Rule file
	cmd.Flags().StringP("config", "c", "",
		"Rule file path (default: .pastewatch in current or home directory)")

	// Scrape behavior flags
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address for scraping traffic (e.g., 127.0.0.1:9050)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().Duration("poll-interval", config.DefaultPollInterval,
		"Delay between archive polls per source")
	cmd.Flags().Duration("fetch-delay", config.DefaultFetchDelay,
		"Delay between individual paste downloads")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header for scraping requests")
	cmd.Flags().Bool("ip-check", false,
		"Log the public IP address before scraping starts")

	// Persistence flags
	cmd.Flags().String("db-dir", "",
		"Directory for the SQLite database (enables store actions)")
	cmd.Flags().Bool("store-all", false,
		"Persist every scraped paste, not only matched ones (requires --db-dir)")
	cmd.Flags().String("save-dir", config.DefaultSaveDir,
		"Default directory for the save_file action")

	// Logging flags
	cmd.Flags().Bool("json-log", false,
		"Emit logs as JSON, one object per line")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildWatchConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Store actions without a database would fail on every single hit.
	if cfg.Rules != nil && cfg.Rules.NeedsDatabase() && cfg.DBDir == "" {
		return fmt.Errorf("rule file binds store actions: %w", config.ErrStoreAllWithoutDB)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	return runWatch(cmd.Context(), cfg, logger)
}

// buildWatchConfig creates a Config from cobra command flags and the
// rule file.
func buildWatchConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.PollInterval, err = cmd.Flags().GetDuration("poll-interval")
	if err != nil {
		return nil, err
	}

	cfg.FetchDelay, err = cmd.Flags().GetDuration("fetch-delay")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.IPCheck, err = cmd.Flags().GetBool("ip-check")
	if err != nil {
		return nil, err
	}

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	cfg.StoreAll, err = cmd.Flags().GetBool("store-all")
	if err != nil {
		return nil, err
	}

	cfg.SaveDir, err = cmd.Flags().GetString("save-dir")
	if err != nil {
		return nil, err
	}

	cfg.JSONLog, err = cmd.Flags().GetBool("json-log")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load watch rules.
	// If the user explicitly specified a rule file path, error if not found.
	// If no path specified, a missing rule file is fine as long as
	// store-all provides something to do.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Rules, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("rule file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Rules = &config.File{}
	}

	// The rule file may carry a proxy; an explicit flag wins.
	if cfg.ProxyAddress == "" && cfg.Rules.Proxy != "" {
		cfg.ProxyAddress = cfg.Rules.Proxy
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a redacting structured logger. Paste bodies and
// credential-shaped values never reach the log output.
func setupLogger(cfg *config.Config) *slog.Logger {
	if cfg.JSONLog {
		return log.NewJSONLogger(os.Stderr, cfg.Verbose)
	}
	return log.NewLogger(os.Stderr, cfg.Verbose)
}

// runWatch wires the pipeline from the configuration and runs it until
// a stop signal or a fault.
func runWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting watch",
		"matchers", len(cfg.Rules.Matchers),
		"storeAll", cfg.StoreAll,
		"proxy", cfg.ProxyAddress,
	)

	// Open the database when anything needs it.
	var db *database.PasteDB
	if cfg.DBDir != "" {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	client, err := scraper.NewHTTPClient(cfg.ProxyAddress, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	// An IP check before scraping confirms proxy routing is in effect.
	if cfg.IPCheck {
		ip, err := scraper.PublicIP(ctx, client, scraper.DefaultIPEndpoint)
		if err != nil {
			return fmt.Errorf("ip check failed: %w", err)
		}
		logger.Info("scraping as", "ip", ip)
	}

	opts := []core.Option{
		core.WithLogger(logger),
		core.WithDefaultSource(func() (scraper.Source, error) {
			return newPastebinSource(cfg, client, logger), nil
		}),
	}
	if cfg.StoreAll {
		opts = append(opts, core.WithStoreAll(db))
	}

	orch := core.New(opts...)

	matchers, err := buildMatchers(cfg, db, logger)
	if err != nil {
		return err
	}
	for _, m := range matchers {
		orch.AddMatcher(m)
	}

	for _, src := range cfg.Rules.Sources {
		switch src {
		case "pastebin":
			orch.AddScraper(newPastebinSource(cfg, client, logger), false)
		default:
			return fmt.Errorf("unknown source %q in rule file", src)
		}
	}

	orch.OnError(func() error {
		logger.Error("a scrape source failed unrecoverably, shutting down")
		return nil
	})

	if err := orch.Start(); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}

	orch.Idle()
	return nil
}

// newPastebinSource builds the pastebin source from the configuration.
func newPastebinSource(cfg *config.Config, client *http.Client, logger *slog.Logger) *scraper.Pastebin {
	return scraper.NewPastebin(client,
		scraper.WithPollInterval(cfg.PollInterval),
		scraper.WithFetchDelay(cfg.FetchDelay),
		scraper.WithUserAgent(cfg.UserAgent),
		scraper.WithLogger(logger),
	)
}

// buildMatchers constructs the matcher graph from the rule file.
func buildMatchers(cfg *config.Config, db *database.PasteDB, logger *slog.Logger) ([]matcher.Matcher, error) {
	matchers := make([]matcher.Matcher, 0, len(cfg.Rules.Matchers))

	for i, rule := range cfg.Rules.Matchers {
		actions, err := buildActions(cfg, rule.Actions, db, logger)
		if err != nil {
			return nil, fmt.Errorf("matcher %d (%q): %w", i+1, rule.Name, err)
		}

		switch rule.Type {
		case config.MatcherWord:
			var wordOpts []matcher.WordOption
			if len(rule.Blacklist) > 0 {
				wordOpts = append(wordOpts, matcher.WithBlacklist(rule.Blacklist...))
			}
			if rule.CaseSensitive {
				wordOpts = append(wordOpts, matcher.WithCaseSensitive())
			}
			matchers = append(matchers, matcher.NewWord(rule.Name, actions, rule.Words, wordOpts...))

		case config.MatcherRegex:
			m, err := matcher.NewRegex(rule.Name, actions, rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("matcher %d (%q): %w", i+1, rule.Name, err)
			}
			matchers = append(matchers, m)

		case config.MatcherAlways:
			matchers = append(matchers, matcher.NewAlwaysTrue(actions...))

		default:
			return nil, fmt.Errorf("matcher %d (%q): %w: %q", i+1, rule.Name, config.ErrUnknownMatcherType, rule.Type)
		}
	}

	return matchers, nil
}

// buildActions constructs the actions bound to one matcher rule.
func buildActions(cfg *config.Config, rules []config.ActionRule, db *database.PasteDB, logger *slog.Logger) ([]action.Action, error) {
	actions := make([]action.Action, 0, len(rules))

	for _, rule := range rules {
		switch rule.Type {
		case config.ActionSaveFile:
			path := rule.Path
			if path == "" {
				path = cfg.SaveDir
			}
			path = filepath.Clean(path)

			var opts []action.SaveFileOption
			if rule.FileEnding != "" {
				opts = append(opts, action.WithFileEnding(rule.FileEnding))
			}
			if rule.Template != "" {
				opts = append(opts, action.WithTemplate(rule.Template))
			}
			actions = append(actions, action.NewSaveFile(path, opts...))

		case config.ActionStore:
			if db == nil {
				return nil, config.ErrStoreAllWithoutDB
			}
			actions = append(actions, action.NewRecordMatch(db, db))

		case config.ActionLog:
			actions = append(actions, action.NewLogMatch(logger))

		default:
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownActionType, rule.Type)
		}
	}

	return actions, nil
}
