package report

import (
	"cmp"
	"context"
	"slices"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pastewatch/pastewatch/internal/database"
)

// DefaultRecentLimit is how many recent matches a summary includes.
const DefaultRecentLimit = 20

// SourceCount is the number of stored pastes for one source.
type SourceCount struct {
	// Source is the scrape source name.
	Source string `json:"source"`

	// Count is the number of pastes stored from this source.
	Count int `json:"count"`
}

// MatcherCount is the number of recorded matches for one matcher.
type MatcherCount struct {
	// Matcher is the matcher name as recorded in the database.
	Matcher string `json:"matcher"`

	// Count is the number of matches recorded for this matcher.
	Count int `json:"count"`
}

// Summary aggregates the watch activity stored in the database.
// It is the single input structure for all report writers.
type Summary struct {
	// GeneratedAt is when the summary was built.
	GeneratedAt time.Time `json:"generated_at"`

	// TotalPastes is the total number of stored pastes.
	TotalPastes int `json:"total_pastes"`

	// TotalMatches is the total number of recorded matches.
	TotalMatches int `json:"total_matches"`

	// PastesBySource lists paste counts per source, busiest first.
	PastesBySource []SourceCount `json:"pastes_by_source"`

	// MatchesByMatcher lists match counts per matcher, busiest first.
	MatchesByMatcher []MatcherCount `json:"matches_by_matcher"`

	// Recent holds the most recent match records, newest first.
	Recent []database.MatchRecord `json:"recent,omitempty"`
}

// HasMatches reports whether any match was recorded.
func (s *Summary) HasMatches() bool {
	return s.TotalMatches > 0
}

// BuildSummary queries the database and assembles a Summary.
// Counts are sorted by volume so the busiest sources and matchers come
// first; ties are broken alphabetically for stable output.
func BuildSummary(ctx context.Context, db *database.PasteDB, recentLimit int) (*Summary, error) {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}

	pasteCounts, err := db.CountPastesBySource(ctx)
	if err != nil {
		return nil, err
	}

	matchCounts, err := db.CountMatchesByMatcher(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := db.RecentMatches(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		GeneratedAt: time.Now(),
		Recent:      recent,
	}

	for source, count := range pasteCounts {
		s.PastesBySource = append(s.PastesBySource, SourceCount{Source: source, Count: count})
		s.TotalPastes += count
	}
	slices.SortFunc(s.PastesBySource, func(a, b SourceCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Source, b.Source)
	})

	for matcher, count := range matchCounts {
		s.MatchesByMatcher = append(s.MatchesByMatcher, MatcherCount{Matcher: matcher, Count: count})
		s.TotalMatches += count
	}
	slices.SortFunc(s.MatchesByMatcher, func(a, b MatcherCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Matcher, b.Matcher)
	})

	return s, nil
}

// titleCaser renders matcher names as section labels. Matcher names are
// operator-chosen lowercase identifiers; title case reads better in
// report headings.
var titleCaser = cases.Title(language.English)

// displayName returns the human-facing form of a matcher or source name.
func displayName(name string) string {
	return titleCaser.String(name)
}
