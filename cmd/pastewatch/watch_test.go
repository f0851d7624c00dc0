package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pastewatch/pastewatch/internal/config"
	"github.com/pastewatch/pastewatch/internal/model"
)

// writeRuleFile writes a rule file into a temp dir and returns its path.
func writeRuleFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}
	return path
}

// TestNewWatchCmd tests the watch command creation.
func TestNewWatchCmd(t *testing.T) {
	t.Parallel()

	cmd := NewWatchCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "watch" {
			t.Errorf("expected use 'watch', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"config", "proxy", "timeout", "poll-interval", "fetch-delay",
			"user-agent", "ip-check", "db-dir", "store-all", "save-dir", "json-log",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})
}

// TestBuildWatchConfig tests flag and rule file merging.
func TestBuildWatchConfig(t *testing.T) {
	t.Run("defaults plus rule file", func(t *testing.T) {
		rulePath := writeRuleFile(t, `proxy: "10.0.0.1:9050"
matchers:
  - name: creds
    type: word
    words: [password]
    actions:
      - type: log
`)

		cmd := NewWatchCmd()
		if err := cmd.ParseFlags([]string{"-c", rulePath}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildWatchConfig(cmd)
		if err != nil {
			t.Fatalf("buildWatchConfig failed: %v", err)
		}

		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("Timeout = %v, want default %v", cfg.Timeout, config.DefaultTimeout)
		}
		if cfg.ProxyAddress != "10.0.0.1:9050" {
			t.Errorf("ProxyAddress = %q, want rule file proxy", cfg.ProxyAddress)
		}
		if len(cfg.Rules.Matchers) != 1 {
			t.Errorf("len(Rules.Matchers) = %d, want 1", len(cfg.Rules.Matchers))
		}

		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("proxy flag beats rule file proxy", func(t *testing.T) {
		rulePath := writeRuleFile(t, `proxy: "10.0.0.1:9050"
matchers:
  - type: always
    actions:
      - type: log
`)

		cmd := NewWatchCmd()
		if err := cmd.ParseFlags([]string{"-c", rulePath, "--proxy", "127.0.0.1:1080"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildWatchConfig(cmd)
		if err != nil {
			t.Fatalf("buildWatchConfig failed: %v", err)
		}
		if cfg.ProxyAddress != "127.0.0.1:1080" {
			t.Errorf("ProxyAddress = %q, want flag value", cfg.ProxyAddress)
		}
	})

	t.Run("explicit missing rule file fails", func(t *testing.T) {
		cmd := NewWatchCmd()
		missing := filepath.Join(t.TempDir(), "nope.yaml")
		if err := cmd.ParseFlags([]string{"-c", missing}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildWatchConfig(cmd); err == nil {
			t.Error("expected error for missing explicit rule file")
		}
	})

	t.Run("flag overrides land in config", func(t *testing.T) {
		rulePath := writeRuleFile(t, "matchers: []\n")

		cmd := NewWatchCmd()
		args := []string{
			"-c", rulePath,
			"--timeout", "5s",
			"--poll-interval", "10s",
			"--fetch-delay", "2s",
			"--db-dir", t.TempDir(),
			"--store-all",
			"--save-dir", "out",
			"--json-log",
			"--ip-check",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildWatchConfig(cmd)
		if err != nil {
			t.Fatalf("buildWatchConfig failed: %v", err)
		}

		if cfg.Timeout != 5*time.Second || cfg.PollInterval != 10*time.Second || cfg.FetchDelay != 2*time.Second {
			t.Errorf("durations not applied: %v/%v/%v", cfg.Timeout, cfg.PollInterval, cfg.FetchDelay)
		}
		if !cfg.StoreAll || !cfg.JSONLog || !cfg.IPCheck || cfg.SaveDir != "out" {
			t.Errorf("flags not applied: %+v", cfg)
		}
	})
}

// TestBuildMatchers tests matcher graph construction from rules.
func TestBuildMatchers(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)

	baseConfig := func(rules *config.File) *config.Config {
		cfg := config.NewConfig()
		cfg.Rules = rules
		return cfg
	}

	t.Run("builds every matcher type", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig(&config.File{Matchers: []config.MatcherRule{
			{
				Name: "creds", Type: config.MatcherWord,
				Words:     []string{"password"},
				Blacklist: []string{"example"},
				Actions: []config.ActionRule{
					{Type: config.ActionSaveFile, Path: "hits", Template: "${body}"},
					{Type: config.ActionLog},
				},
			},
			{
				Name: "keys", Type: config.MatcherRegex,
				Pattern: "BEGIN .*PRIVATE KEY",
				Actions: []config.ActionRule{{Type: config.ActionLog}},
			},
			{
				Type:    config.MatcherAlways,
				Actions: []config.ActionRule{{Type: config.ActionLog}},
			},
		}})

		matchers, err := buildMatchers(cfg, nil, logger)
		if err != nil {
			t.Fatalf("buildMatchers failed: %v", err)
		}
		if len(matchers) != 3 {
			t.Fatalf("built %d matchers, want 3", len(matchers))
		}

		if matchers[0].Name() != "creds" {
			t.Errorf("first matcher name = %q, want creds", matchers[0].Name())
		}
		if len(matchers[0].Actions()) != 2 {
			t.Errorf("first matcher has %d actions, want 2", len(matchers[0].Actions()))
		}

		// The built word matcher actually matches.
		paste := model.NewPaste("k", "", "my PASSWORD leaked", "test")
		hits, err := matchers[0].Match(paste)
		if err != nil {
			t.Fatalf("Match failed: %v", err)
		}
		if len(hits) != 1 || hits[0] != "password" {
			t.Errorf("Match = %v, want [password]", hits)
		}
	})

	t.Run("broken regex fails", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig(&config.File{Matchers: []config.MatcherRule{
			{Type: config.MatcherRegex, Pattern: "([unclosed", Actions: []config.ActionRule{{Type: config.ActionLog}}},
		}})

		if _, err := buildMatchers(cfg, nil, logger); err == nil {
			t.Error("expected error for broken regex pattern")
		}
	})

	t.Run("store action without database fails", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig(&config.File{Matchers: []config.MatcherRule{
			{Type: config.MatcherAlways, Actions: []config.ActionRule{{Type: config.ActionStore}}},
		}})

		if _, err := buildMatchers(cfg, nil, logger); !errors.Is(err, config.ErrStoreAllWithoutDB) {
			t.Errorf("expected ErrStoreAllWithoutDB, got %v", err)
		}
	})

	t.Run("unknown matcher type fails", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig(&config.File{Matchers: []config.MatcherRule{
			{Type: "fuzzy", Actions: []config.ActionRule{{Type: config.ActionLog}}},
		}})

		if _, err := buildMatchers(cfg, nil, logger); !errors.Is(err, config.ErrUnknownMatcherType) {
			t.Errorf("expected ErrUnknownMatcherType, got %v", err)
		}
	})
}

// TestRunWatchCmdValidation tests that watch refuses bad configurations
// before any network activity.
func TestRunWatchCmdValidation(t *testing.T) {
	t.Run("store rules without db-dir fail", func(t *testing.T) {
		rulePath := writeRuleFile(t, `matchers:
  - type: always
    actions:
      - type: store
`)

		cmd := NewWatchCmd()
		cmd.SetArgs([]string{"-c", rulePath})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrStoreAllWithoutDB) {
			t.Errorf("expected ErrStoreAllWithoutDB, got %v", err)
		}
	})

	t.Run("no matchers and no store-all fails", func(t *testing.T) {
		rulePath := writeRuleFile(t, "matchers: []\n")

		cmd := NewWatchCmd()
		cmd.SetArgs([]string{"-c", rulePath})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrNothingToDo) {
			t.Errorf("expected ErrNothingToDo, got %v", err)
		}
	})

	t.Run("unknown source in rule file fails", func(t *testing.T) {
		rulePath := writeRuleFile(t, `sources: [ghostbin]
matchers:
  - type: always
    actions:
      - type: log
`)

		cmd := NewWatchCmd()
		cmd.SetArgs([]string{"-c", rulePath})

		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "unknown source") {
			t.Errorf("expected unknown source error, got %v", err)
		}
	})
}
