// Package log provides slog-based structured logging for pastewatch.
//
// Pastes routinely contain leaked credentials, tokens, and private keys.
// The redacting handler in this package masks attribute values that look
// like secrets so the watcher's own logs do not become a second leak.
package log
