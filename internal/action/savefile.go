package action

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pastewatch/pastewatch/internal/model"
	"github.com/pastewatch/pastewatch/internal/template"
)

// DefaultFileEnding is the file extension used when none is configured.
const DefaultFileEnding = ".txt"

// SaveFile writes each matched paste to a file named after its key.
//
// The file content is produced by filling the configured template with
// paste data, so operators can persist metadata (matcher name, matched
// terms, scrape date) alongside the body.
type SaveFile struct {
	// path is the directory the files are written into. It is created
	// on first use if it does not exist.
	path string

	// fileEnding is appended to the paste key to form the file name.
	// A leading dot is optional; "txt" and ".txt" are equivalent.
	fileEnding string

	// tmpl describes the file content. Empty means template.DefaultTemplate.
	tmpl string
}

// SaveFileOption configures a SaveFile action.
type SaveFileOption func(*SaveFile)

// WithFileEnding sets the file extension for saved pastes.
func WithFileEnding(ending string) SaveFileOption {
	return func(a *SaveFile) {
		a.fileEnding = ending
	}
}

// WithTemplate sets the content template for saved pastes.
func WithTemplate(tmpl string) SaveFileOption {
	return func(a *SaveFile) {
		a.tmpl = tmpl
	}
}

// NewSaveFile creates a SaveFile action writing into the given directory.
func NewSaveFile(path string, opts ...SaveFileOption) *SaveFile {
	a := &SaveFile{
		path:       path,
		fileEnding: DefaultFileEnding,
		tmpl:       template.DefaultTemplate,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Name returns the action name.
func (a *SaveFile) Name() string {
	return "savefile"
}

// Perform writes the paste to <path>/<key><ending>. The output directory
// is created if missing; that is an expected operational condition, not
// an error.
func (a *SaveFile) Perform(_ context.Context, paste *model.Paste, matcherName string, matches []string) error {
	if err := os.MkdirAll(a.path, 0750); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", a.path, err)
	}

	content := template.Fill(a.tmpl, paste, matcherName, matches)
	target := filepath.Join(a.path, a.fileName(paste.Key))

	if err := os.WriteFile(target, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write paste file %s: %w", target, err)
	}

	return nil
}

// fileName builds the output file name from the paste key and the
// configured ending.
func (a *SaveFile) fileName(key string) string {
	switch {
	case a.fileEnding == "":
		return key
	case strings.HasPrefix(a.fileEnding, "."):
		return key + a.fileEnding
	default:
		return key + "." + a.fileEnding
	}
}
