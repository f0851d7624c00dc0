package core

import (
	"context"
	"sync"

	"github.com/pastewatch/pastewatch/internal/action"
	"github.com/pastewatch/pastewatch/internal/model"
)

// stubSource is a channel-fed test double for scraper.Source.
// Closing the channel makes Next return failWith, or block until
// cancellation when failWith is nil.
type stubSource struct {
	name     string
	pastes   chan *model.Paste
	failWith error
}

func newStubSource(name string, failWith error, pastes ...*model.Paste) *stubSource {
	ch := make(chan *model.Paste, len(pastes)+16)
	for _, p := range pastes {
		ch <- p
	}
	if len(pastes) > 0 || failWith != nil {
		close(ch)
	}
	return &stubSource{name: name, pastes: ch, failWith: failWith}
}

func (s *stubSource) Name() string {
	return s.name
}

func (s *stubSource) Next(ctx context.Context) (*model.Paste, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case p, ok := <-s.pastes:
		if !ok {
			if s.failWith != nil {
				return nil, s.failWith
			}
			// Drained without a configured failure: behave like a
			// quiet source and block until cancelled.
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return p, nil
	}
}

// stubMatcher is a configurable test double for matcher.Matcher.
type stubMatcher struct {
	name    string
	matches []string
	err     error
	panics  bool
	actions []action.Action
}

func (m *stubMatcher) Name() string {
	return m.name
}

func (m *stubMatcher) Actions() []action.Action {
	return m.actions
}

func (m *stubMatcher) Match(_ *model.Paste) ([]string, error) {
	if m.panics {
		panic("matcher blew up")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

// stubAction records its invocations and signals each one on a channel
// so tests can wait without polling.
type stubAction struct {
	name   string
	err    error
	panics bool

	mu    sync.Mutex
	calls []string // "<paste_key>/<matcher_name>"

	performed chan struct{}
}

func newStubAction(name string) *stubAction {
	return &stubAction{name: name, performed: make(chan struct{}, 64)}
}

func (a *stubAction) Name() string {
	return a.name
}

func (a *stubAction) Perform(_ context.Context, paste *model.Paste, matcherName string, _ []string) error {
	a.mu.Lock()
	a.calls = append(a.calls, paste.Key+"/"+matcherName)
	a.mu.Unlock()
	a.performed <- struct{}{}

	if a.panics {
		panic("action blew up")
	}
	return a.err
}

func (a *stubAction) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func (a *stubAction) callAt(i int) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[i]
}
