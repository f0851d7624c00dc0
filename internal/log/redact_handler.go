package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// secretKeys contains attribute keys whose values are always masked.
// These are the keys pipeline components use when logging data extracted
// from paste bodies, plus common credential key names.
var secretKeys = map[string]bool{
	// Paste content. The body is never logged in full; components log
	// keys and sizes instead, but mask it if it slips through.
	"body":    true,
	"content": true,

	// Credentials commonly found in leaked pastes
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"access_token":  true,
	"refresh_token": true,
	"private_key":   true,
	"secret_key":    true,

	// Authentication headers used by the scraping client
	"authorization": true,
	"cookie":        true,
	"x-api-key":     true,
}

// secretPatterns contains regex patterns that indicate secret values.
// Values matching any of these are masked regardless of the key name.
var secretPatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// AWS access keys, a frequent paste-leak payload
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),

	// PEM private key markers
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),

	// user:password pairs as matched by credential matchers
	regexp.MustCompile(`^[^\s:@]+:[^\s:@]{6,}$`),
}

// MaskValue is the string used to replace masked values.
const MaskValue = "***REDACTED***"

// RedactHandler wraps an slog.Handler and masks attribute values that match
// secret key names or secret value patterns before passing records on.
//
// We wrap a handler rather than define a custom logger so the redaction
// composes with any underlying handler (text, JSON) and with libraries
// that accept a plain *slog.Logger.
type RedactHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler
}

// NewRedactHandler creates a RedactHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactHandler(handler slog.Handler) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the underlying handler.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added,
// masked first.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks a single attribute, recursively handling groups.
func (h *RedactHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if secretKeys[keyLower] || containsSecretKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		if isSecretValue(a.Value.String()) {
			return slog.String(a.Key, MaskValue)
		}
	}

	return a
}

// containsSecretKeyword checks if the key contains a credential keyword.
// The bare keyword "key" is intentionally excluded: paste keys are the
// primary identifier in this system and must stay visible in logs.
func containsSecretKeyword(key string) bool {
	keywords := []string{
		"password", "passwd", "secret", "token", "credential", "private",
	}

	for _, keyword := range keywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSecretValue checks if a value matches any secret pattern.
func isSecretValue(value string) bool {
	for _, pattern := range secretPatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// NewLogger creates a *slog.Logger with text output and redaction.
//
// Parameters:
//   - w: the io.Writer for log output (typically os.Stderr)
//   - verbose: if true, log level is Debug; otherwise Info
//
// Info is the default level (not Warn) because the watcher is a
// long-running unattended process and operators expect a heartbeat.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewRedactHandler(textHandler))
}

// NewJSONLogger creates a *slog.Logger with JSON output and redaction.
// Useful when the watcher's logs are shipped to an aggregator.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewRedactHandler(jsonHandler))
}
