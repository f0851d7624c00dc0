package action

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pastewatch/pastewatch/internal/model"
)

// TestSaveFilePerform tests writing matched pastes to disk.
func TestSaveFilePerform(t *testing.T) {
	t.Parallel()

	t.Run("writes body to key.txt by default", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := NewSaveFile(dir)
		paste := model.NewPaste("abc123", "", "leaked content", "pastebin")

		if err := a.Perform(context.Background(), paste, "credentials", []string{"leaked"}); err != nil {
			t.Fatalf("Perform failed: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "abc123.txt"))
		if err != nil {
			t.Fatalf("expected file abc123.txt: %v", err)
		}
		if string(data) != "leaked content" {
			t.Errorf("file content = %q, want %q", string(data), "leaked content")
		}
	})

	t.Run("creates missing output directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "out")
		a := NewSaveFile(dir)
		paste := model.NewPaste("xyz", "", "body", "pastebin")

		if err := a.Perform(context.Background(), paste, "m", nil); err != nil {
			t.Fatalf("Perform failed: %v", err)
		}

		if _, err := os.Stat(filepath.Join(dir, "xyz.txt")); err != nil {
			t.Errorf("expected file in created directory: %v", err)
		}
	})

	t.Run("fills configured template", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := NewSaveFile(dir, WithTemplate("${matcher}: ${matches}\n${body}"))
		paste := model.NewPaste("k1", "", "text", "pastebin")

		if err := a.Perform(context.Background(), paste, "words", []string{"a", "b"}); err != nil {
			t.Fatalf("Perform failed: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "k1.txt"))
		if err != nil {
			t.Fatal(err)
		}
		want := "words: a, b\ntext"
		if string(data) != want {
			t.Errorf("file content = %q, want %q", string(data), want)
		}
	})
}

// TestSaveFileFileName tests file name construction from endings.
func TestSaveFileFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ending string
		want   string
	}{
		{name: "dot ending", ending: ".txt", want: "abc.txt"},
		{name: "bare ending gets dot", ending: "json", want: "abc.json"},
		{name: "empty ending", ending: "", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := NewSaveFile(t.TempDir(), WithFileEnding(tt.ending))
			if got := a.fileName("abc"); got != tt.want {
				t.Errorf("fileName = %q, want %q", got, tt.want)
			}
		})
	}
}
