package template

import (
	"testing"
	"time"

	"github.com/pastewatch/pastewatch/internal/model"
)

// testPaste returns a paste with fixed fields for template tests.
func testPaste() *model.Paste {
	return &model.Paste{
		Key:       "abc123",
		Title:     "dump",
		Body:      "My PASSWORD is leaked",
		Source:    "pastebin",
		ScrapedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

// TestFill tests placeholder expansion.
func TestFill(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tmpl    string
		matches []string
		want    string
	}{
		{
			name: "body only",
			tmpl: "${body}",
			want: "My PASSWORD is leaked",
		},
		{
			name: "empty template defaults to body",
			tmpl: "",
			want: "My PASSWORD is leaked",
		},
		{
			name:    "all fields",
			tmpl:    "${key}|${title}|${source}|${matcher}|${matches}",
			matches: []string{"password", "leaked"},
			want:    "abc123|dump|pastebin|credentials|password, leaked",
		},
		{
			name: "date placeholder",
			tmpl: "${date}",
			want: "2026-03-14T09:26:53Z",
		},
		{
			name: "unknown placeholder expands empty",
			tmpl: "a${bogus}b",
			want: "ab",
		},
		{
			name: "literal text preserved",
			tmpl: "== ${key} ==\n${body}",
			want: "== abc123 ==\nMy PASSWORD is leaked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Fill(tt.tmpl, testPaste(), "credentials", tt.matches)
			if got != tt.want {
				t.Errorf("Fill(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}
