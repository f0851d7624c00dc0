package model

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// Paste represents a single text snippet harvested from an external source.
//
// A Paste is immutable once produced by a scrape source: the pipeline stages
// read it but never modify it. Ownership follows the queues — whichever queue
// or stage currently holds the Paste is its owner until the final stage
// consumes it.
type Paste struct {
	// Key is the unique identifier assigned by the source (e.g. the
	// pastebin paste ID). Keys are only unique within one source.
	Key string `json:"key" yaml:"key"`

	// Title is the optional human-readable title of the paste.
	// Many sources leave this empty or set it to "Untitled".
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Body is the full text content of the paste.
	Body string `json:"body" yaml:"body"`

	// Source identifies which scrape source produced this paste.
	Source string `json:"source" yaml:"source"`

	// ScrapedAt is the time the paste was fetched from the source.
	ScrapedAt time.Time `json:"scraped_at" yaml:"scraped_at"`
}

// NewPaste creates a Paste with the scrape timestamp set to now.
func NewPaste(key, title, body, source string) *Paste {
	return &Paste{
		Key:       key,
		Title:     title,
		Body:      body,
		Source:    source,
		ScrapedAt: time.Now(),
	}
}

// BodyHash returns the SHA3-256 hash of the paste body as a hex string.
// The hash is used for duplicate detection across re-scrapes of the same
// key and as a stable fingerprint in the database.
func (p *Paste) BodyHash() string {
	hash := sha3.Sum256([]byte(p.Body))
	return hex.EncodeToString(hash[:])
}

// String returns a short human-readable description of the paste.
// The body is intentionally excluded: paste bodies frequently contain
// leaked credentials and must not end up in log output by accident.
func (p *Paste) String() string {
	return fmt.Sprintf("paste %s from %s (%d bytes)", p.Key, p.Source, len(p.Body))
}

// Snippet returns the first n runes of the body with newlines collapsed.
// Useful for compact log or report output.
func (p *Paste) Snippet(n int) string {
	body := strings.Join(strings.Fields(p.Body), " ")
	runes := []rune(body)
	if len(runes) <= n {
		return body
	}
	return string(runes[:n]) + "..."
}
