package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pastewatch/pastewatch/internal/action"
	"github.com/pastewatch/pastewatch/internal/matcher"
	"github.com/pastewatch/pastewatch/internal/model"
)

// ActionInvocation carries one matched paste to one bound action. Only
// the dispatcher constructs invocations; the action runner consumes each
// exactly once.
type ActionInvocation struct {
	// Action is the handler to invoke.
	Action action.Action

	// Paste is the matched paste.
	Paste *model.Paste

	// MatcherName identifies the matcher that produced the match.
	MatcherName string

	// Matches is the list of matched terms.
	Matches []string
}

// Dispatcher drains the paste queue and evaluates every registered
// matcher against each paste, in registration order. For every matcher
// that hits, it enqueues one ActionInvocation per bound action.
//
// A failing matcher is a local fault: it is logged and the remaining
// matchers still see the paste. Two matchers hitting the same paste are
// independent; nothing is deduplicated.
type Dispatcher struct {
	pasteQueue  *Queue[*model.Paste]
	actionQueue *Queue[ActionInvocation]
	logger      *slog.Logger

	mu       sync.Mutex
	matchers []matcher.Matcher
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewDispatcher creates a dispatcher between the two queues.
func NewDispatcher(pasteQueue *Queue[*model.Paste], actionQueue *Queue[ActionInvocation], logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		pasteQueue:  pasteQueue,
		actionQueue: actionQueue,
		logger:      logger,
	}
}

// AddMatcher registers a matcher. Registration order is evaluation
// order. Matchers must be registered before Start; a matcher added
// mid-flight is only guaranteed to see pastes dequeued after the add.
func (d *Dispatcher) AddMatcher(m matcher.Matcher) {
	d.mu.Lock()
	d.matchers = append(d.matchers, m)
	d.mu.Unlock()
}

// MatcherCount returns the number of registered matchers.
func (d *Dispatcher) MatcherCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.matchers)
}

// Start launches the dispatch loop. Starting twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true

	go d.run(ctx)
	d.logger.Info("dispatcher started", "matchers", len(d.matchers))
}

// Stop requests the loop to exit after its current paste finishes and
// waits for it. No dequeued paste is dropped mid-evaluation.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	cancel := d.cancel
	done := d.done
	d.running = false
	d.mu.Unlock()

	cancel()
	<-done

	d.logger.Info("dispatcher stopped")
}

// run is the dispatch loop.
func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)

	for {
		paste, err := d.pasteQueue.Pop(ctx)
		if err != nil {
			return
		}
		d.dispatch(paste)
	}
}

// dispatch evaluates all matchers against one paste and enqueues the
// resulting invocations.
func (d *Dispatcher) dispatch(paste *model.Paste) {
	d.mu.Lock()
	matchers := d.matchers
	d.mu.Unlock()

	for _, m := range matchers {
		matches, err := d.evaluate(m, paste)
		if err != nil {
			d.logger.Error("matcher failed, skipping",
				"matcher", m.Name(),
				"paste_key", paste.Key,
				"error", err,
			)
			continue
		}
		if len(matches) == 0 {
			continue
		}

		d.logger.Debug("matcher hit",
			"matcher", m.Name(),
			"paste_key", paste.Key,
			"match_count", len(matches),
		)

		for _, act := range m.Actions() {
			d.actionQueue.Push(ActionInvocation{
				Action:      act,
				Paste:       paste,
				MatcherName: m.Name(),
				Matches:     matches,
			})
		}
	}
}

// evaluate runs one matcher with a panic boundary so a misbehaving
// matcher cannot take down the dispatch loop.
func (d *Dispatcher) evaluate(m matcher.Matcher, paste *model.Paste) (matches []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = fmt.Errorf("matcher panicked: %v", r)
		}
	}()

	return m.Match(paste)
}
