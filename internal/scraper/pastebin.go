package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pastewatch/pastewatch/internal/model"
)

// Pastebin defaults. Pastebin tolerates modest polling of the public
// archive page; anything more aggressive needs their paid scraping API.
const (
	// DefaultPastebinURL is the base URL of the public pastebin site.
	DefaultPastebinURL = "https://pastebin.com"

	// DefaultPollInterval is the delay between archive page polls.
	DefaultPollInterval = 30 * time.Second

	// DefaultFetchDelay is the politeness delay between raw-paste fetches.
	DefaultFetchDelay = 1 * time.Second

	// DefaultFailureBudget is the number of consecutive failed polls
	// tolerated before the source gives up and faults the pipeline.
	DefaultFailureBudget = 5

	// DefaultMaxBodySize caps how much of a raw paste is read. 1MB is
	// generous for text pastes and keeps a hostile paste from exhausting
	// memory.
	DefaultMaxBodySize = 1 * 1024 * 1024

	// seenLimit bounds the duplicate-detection set. The archive page
	// lists a few dozen pastes, so a couple thousand remembered keys is
	// ample headroom before old entries can safely be forgotten.
	seenLimit = 2048
)

// pasteKeyPattern matches pastebin paste keys: eight alphanumerics.
var pasteKeyPattern = regexp.MustCompile(`^/([A-Za-z0-9]{8})$`)

// Pastebin scrapes the public pastebin archive page.
//
// Each poll parses the archive HTML for paste keys, then fetches the raw
// body of every key not seen before. Within the source, pastes are
// produced in the order the archive lists them.
type Pastebin struct {
	client       *http.Client
	baseURL      string
	userAgent    string
	pollInterval time.Duration
	fetchDelay   time.Duration
	budget       int
	maxBodySize  int64
	logger       *slog.Logger

	// failures counts consecutive failed polls toward the budget.
	failures int

	// seen tracks keys already produced; seenOrder is its FIFO eviction order.
	seen      map[string]bool
	seenOrder []string

	// pending holds keys discovered but not yet fetched.
	pending []string
}

// PastebinOption configures a Pastebin source.
type PastebinOption func(*Pastebin)

// WithBaseURL overrides the pastebin base URL. Used by tests and by
// operators pointing the source at a mirror.
func WithBaseURL(url string) PastebinOption {
	return func(s *Pastebin) {
		s.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithPollInterval sets the delay between archive polls.
func WithPollInterval(d time.Duration) PastebinOption {
	return func(s *Pastebin) {
		s.pollInterval = d
	}
}

// WithFetchDelay sets the politeness delay between raw-paste fetches.
func WithFetchDelay(d time.Duration) PastebinOption {
	return func(s *Pastebin) {
		s.fetchDelay = d
	}
}

// WithFailureBudget sets how many consecutive failed polls are tolerated
// before Next returns an unrecoverable error.
func WithFailureBudget(n int) PastebinOption {
	return func(s *Pastebin) {
		if n > 0 {
			s.budget = n
		}
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) PastebinOption {
	return func(s *Pastebin) {
		s.userAgent = ua
	}
}

// WithLogger sets the source's logger.
func WithLogger(logger *slog.Logger) PastebinOption {
	return func(s *Pastebin) {
		s.logger = logger
	}
}

// NewPastebin creates a pastebin archive source using the given HTTP
// client. The client should come from NewHTTPClient so proxy and timeout
// configuration apply.
func NewPastebin(client *http.Client, opts ...PastebinOption) *Pastebin {
	s := &Pastebin{
		client:       client,
		baseURL:      DefaultPastebinURL,
		userAgent:    "pastewatch/1.0 (+https://github.com/pastewatch/pastewatch)",
		pollInterval: DefaultPollInterval,
		fetchDelay:   DefaultFetchDelay,
		budget:       DefaultFailureBudget,
		maxBodySize:  DefaultMaxBodySize,
		seen:         make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Name returns the source name.
func (s *Pastebin) Name() string {
	return "pastebin"
}

// Next blocks until a new paste is available or the context is cancelled.
// Transient poll and fetch errors are retried internally; only an
// exhausted failure budget is surfaced as an error.
func (s *Pastebin) Next(ctx context.Context) (*model.Paste, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Drain discovered keys before polling again.
		for len(s.pending) > 0 {
			key := s.pending[0]
			s.pending = s.pending[1:]

			paste, err := s.fetchPaste(ctx, key)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				// A vanished or unreadable paste is normal churn on
				// pastebin; skip it and move on.
				s.logger.Warn("failed to fetch paste", "source", s.Name(), "paste_key", key, "error", err)
				continue
			}

			if err := s.sleep(ctx, s.fetchDelay); err != nil {
				return paste, nil //nolint:nilerr // Paste is already fetched; deliver it before stopping
			}
			return paste, nil
		}

		fresh, err := s.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			s.failures++
			s.logger.Warn("archive poll failed",
				"source", s.Name(),
				"consecutive_failures", s.failures,
				"budget", s.budget,
				"error", err,
			)
			if s.failures >= s.budget {
				return nil, fmt.Errorf("pastebin source gave up after %d consecutive failed polls: %w", s.failures, err)
			}
		} else {
			s.failures = 0
			s.pending = append(s.pending, fresh...)
			if len(fresh) > 0 {
				continue
			}
		}

		if err := s.sleep(ctx, s.pollInterval); err != nil {
			return nil, err
		}
	}
}

// poll fetches the archive page and returns newly discovered paste keys
// in page order.
func (s *Pastebin) poll(ctx context.Context) ([]string, error) {
	body, err := s.get(ctx, s.baseURL+"/archive")
	if err != nil {
		return nil, err
	}

	keys, err := parseArchiveKeys(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse archive page: %w", err)
	}

	var fresh []string
	for _, key := range keys {
		if s.seen[key] {
			continue
		}
		s.markSeen(key)
		fresh = append(fresh, key)
	}

	s.logger.Debug("archive polled",
		"source", s.Name(),
		"listed", len(keys),
		"new", len(fresh),
	)
	return fresh, nil
}

// fetchPaste downloads the raw body for one paste key.
func (s *Pastebin) fetchPaste(ctx context.Context, key string) (*model.Paste, error) {
	body, err := s.get(ctx, s.baseURL+"/raw/"+key)
	if err != nil {
		return nil, err
	}
	return model.NewPaste(key, "", body, s.Name()), nil
}

// get performs one GET request and returns the response body, capped at
// maxBodySize.
func (s *Pastebin) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only response body

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	return string(data), nil
}

// markSeen records a key in the duplicate set, evicting the oldest entry
// once the set exceeds its bound.
func (s *Pastebin) markSeen(key string) {
	s.seen[key] = true
	s.seenOrder = append(s.seenOrder, key)

	if len(s.seenOrder) > seenLimit {
		oldest := s.seenOrder[0]
		s.seenOrder = s.seenOrder[1:]
		delete(s.seen, oldest)
	}
}

// sleep waits for d or until the context is cancelled.
func (s *Pastebin) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// parseArchiveKeys extracts paste keys from the archive page HTML.
// Keys appear as anchors with href="/<8 alphanumerics>"; duplicates are
// collapsed while preserving first-occurrence order.
func parseArchiveKeys(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var keys []string
	found := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if m := pasteKeyPattern.FindStringSubmatch(attr.Val); m != nil && !found[m[1]] {
					found[m[1]] = true
					keys = append(keys, m[1])
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return keys, nil
}
