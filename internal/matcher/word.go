package matcher

import (
	"fmt"
	"strings"

	"github.com/pastewatch/pastewatch/internal/action"
	"github.com/pastewatch/pastewatch/internal/model"
)

// Word matches pastes by substring containment of target words.
//
// Matching is deliberately substring-based, not tokenized: a target word
// that appears inside a larger word still counts as a hit, which is what
// you want when hunting for "password" inside "password123".
type Word struct {
	// name identifies this matcher instance in logs and match records.
	name string

	// words are the target words. Every word found in the paste body is
	// returned, not just the first.
	words []string

	// blacklist suppresses the match entirely if any of its words occur
	// anywhere in the paste body, regardless of target hits.
	blacklist []string

	// caseSensitive controls whether matching respects letter case.
	// It applies to both the target words and the blacklist.
	caseSensitive bool

	// actions are the handlers triggered when this matcher hits.
	actions []action.Action
}

// WordOption configures a Word matcher.
type WordOption func(*Word)

// WithBlacklist sets words whose presence suppresses any match.
func WithBlacklist(words ...string) WordOption {
	return func(m *Word) {
		m.blacklist = words
	}
}

// WithCaseSensitive makes matching respect letter case.
// The default is case-insensitive, which catches far more leaks.
func WithCaseSensitive() WordOption {
	return func(m *Word) {
		m.caseSensitive = true
	}
}

// NewWord creates a word matcher with the given name, bound actions, and
// target words.
func NewWord(name string, actions []action.Action, words []string, opts ...WordOption) *Word {
	m := &Word{
		name:    name,
		words:   words,
		actions: actions,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Name returns the matcher name.
func (m *Word) Name() string {
	if m.name != "" {
		return m.name
	}
	return fmt.Sprintf("word (%s)", strings.Join(m.words, ", "))
}

// Actions returns the bound actions.
func (m *Word) Actions() []action.Action {
	return m.actions
}

// Match returns every target word contained in the paste body. A hit on
// the blacklist returns no match regardless of target hits.
//
// Case normalization is a pure read of the configuration: the configured
// word lists are never modified, so concurrent evaluation is safe.
func (m *Word) Match(paste *model.Paste) ([]string, error) {
	if paste == nil {
		return nil, nil
	}

	body := paste.Body
	if !m.caseSensitive {
		body = strings.ToLower(body)
	}

	for _, word := range m.blacklist {
		if !m.caseSensitive {
			word = strings.ToLower(word)
		}
		if strings.Contains(body, word) {
			return nil, nil
		}
	}

	var matches []string
	for _, word := range m.words {
		needle := word
		if !m.caseSensitive {
			needle = strings.ToLower(word)
		}
		if strings.Contains(body, needle) {
			matches = append(matches, word)
		}
	}

	return matches, nil
}
