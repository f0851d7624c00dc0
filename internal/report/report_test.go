package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pastewatch/pastewatch/internal/database"
	"github.com/pastewatch/pastewatch/internal/model"
)

// sampleSummary returns a summary with data in every section.
func sampleSummary() *Summary {
	return &Summary{
		GeneratedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		TotalPastes:  5,
		TotalMatches: 3,
		PastesBySource: []SourceCount{
			{Source: "pastebin", Count: 5},
		},
		MatchesByMatcher: []MatcherCount{
			{Matcher: "credentials", Count: 2},
			{Matcher: "api keys", Count: 1},
		},
		Recent: []database.MatchRecord{
			{
				ID:        1,
				PasteKey:  "abc12345",
				Source:    "pastebin",
				Matcher:   "credentials",
				Matched:   []string{"password"},
				CreatedAt: time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC),
			},
		},
	}
}

// TestBuildSummary tests aggregation over a populated database.
func TestBuildSummary(t *testing.T) {
	t.Parallel()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	pastes := []*model.Paste{
		model.NewPaste("k1", "", "body one", "pastebin"),
		model.NewPaste("k2", "", "body two", "pastebin"),
		model.NewPaste("k3", "", "body three", "other"),
	}
	for _, p := range pastes {
		if err := db.StorePaste(ctx, p); err != nil {
			t.Fatalf("failed to store paste: %v", err)
		}
	}

	if err := db.StoreMatch(ctx, pastes[0], "credentials", []string{"password"}); err != nil {
		t.Fatalf("failed to store match: %v", err)
	}
	if err := db.StoreMatch(ctx, pastes[1], "credentials", []string{"secret"}); err != nil {
		t.Fatalf("failed to store match: %v", err)
	}
	if err := db.StoreMatch(ctx, pastes[2], "emails", []string{"a@b.io"}); err != nil {
		t.Fatalf("failed to store match: %v", err)
	}

	s, err := BuildSummary(ctx, db, 10)
	if err != nil {
		t.Fatalf("BuildSummary failed: %v", err)
	}

	if s.TotalPastes != 3 {
		t.Errorf("TotalPastes = %d, want 3", s.TotalPastes)
	}
	if s.TotalMatches != 3 {
		t.Errorf("TotalMatches = %d, want 3", s.TotalMatches)
	}
	if !s.HasMatches() {
		t.Error("HasMatches should be true")
	}

	// Busiest first.
	if len(s.PastesBySource) != 2 || s.PastesBySource[0].Source != "pastebin" {
		t.Errorf("PastesBySource = %+v, want pastebin first", s.PastesBySource)
	}
	if len(s.MatchesByMatcher) != 2 || s.MatchesByMatcher[0].Matcher != "credentials" {
		t.Errorf("MatchesByMatcher = %+v, want credentials first", s.MatchesByMatcher)
	}

	if len(s.Recent) != 3 {
		t.Errorf("len(Recent) = %d, want 3", len(s.Recent))
	}
}

// TestBuildSummaryEmpty tests aggregation over an empty database.
func TestBuildSummaryEmpty(t *testing.T) {
	t.Parallel()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	s, err := BuildSummary(context.Background(), db, 0)
	if err != nil {
		t.Fatalf("BuildSummary failed: %v", err)
	}

	if s.TotalPastes != 0 || s.TotalMatches != 0 || s.HasMatches() {
		t.Errorf("empty database produced non-empty summary: %+v", s)
	}
}

// TestSimpleWriter tests the human-readable format.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("with data", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.Write(sampleSummary())
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"PASTEWATCH REPORT",
			"Stored Pastes:  5",
			"Matches:        3",
			"PASTES BY SOURCE",
			"MATCHES BY MATCHER",
			"Credentials",
			"RECENT MATCHES",
			"pastebin/abc12345",
			"password",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("empty summary hides sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(&Summary{GeneratedAt: time.Now()}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		if strings.Contains(buf.String(), "RECENT MATCHES") {
			t.Error("empty summary should not render the recent section")
		}
	})

	t.Run("show empty sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))

		if _, err := w.Write(&Summary{GeneratedAt: time.Now()}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "No pastes stored") || !strings.Contains(out, "No matches recorded") {
			t.Error("show-empty should render placeholder sections")
		}
	})
}

// TestJSONWriter tests the JSON format round trip.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("plain summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(sampleSummary()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		var got Summary
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.TotalMatches != 3 || len(got.Recent) != 1 {
			t.Errorf("round trip lost data: %+v", got)
		}
	})

	t.Run("versioned wrapper", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithVersion("1.2.3"))

		if _, err := w.Write(sampleSummary()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		var got struct {
			Version string   `json:"version"`
			Summary *Summary `json:"summary"`
		}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.Version != "1.2.3" || got.Summary == nil || got.Summary.TotalPastes != 5 {
			t.Errorf("versioned wrapper wrong: %+v", got)
		}
	})
}

// TestMarkdownWriter tests the Markdown format.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("with data", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(sampleSummary()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# PasteWatch Report",
			"## Pastes by Source",
			"## Matches by Matcher",
			"## Recent Matches",
			"mermaid",
			"Credentials",
			"`abc12345`",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("empty summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(&Summary{GeneratedAt: time.Now()}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "No activity recorded yet") {
			t.Error("empty summary should render the no-activity tip")
		}
		if strings.Contains(out, "mermaid") {
			t.Error("empty summary should not render a pie chart")
		}
	})
}

// TestMultiWriter tests fan-out to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, md bytes.Buffer
	w := NewMultiWriter(NewSimpleWriter(&text), NewMarkdownWriter(&md))

	if _, err := w.Write(sampleSummary()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if text.Len() == 0 || md.Len() == 0 {
		t.Error("both writers should receive output")
	}
}

// TestDisplayName tests matcher name rendering.
func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"credentials", "Credentials"},
		{"api keys", "Api Keys"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := displayName(tt.in); got != tt.want {
			t.Errorf("displayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
