package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// ActionRunner drains the action queue and executes each recorded
// invocation against its paste and match data.
//
// An action failure is caught and logged but never halts the stage and
// never sets the fault signal — a misbehaving alert hook must not stop
// ingestion of unrelated matches. This is a deliberate asymmetry versus
// source faults, which are fatal.
type ActionRunner struct {
	queue  *Queue[ActionInvocation]
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewActionRunner creates a runner draining the given invocation queue.
func NewActionRunner(queue *Queue[ActionInvocation], logger *slog.Logger) *ActionRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionRunner{
		queue:  queue,
		logger: logger,
	}
}

// Start launches the execution loop. Starting twice is a no-op.
func (r *ActionRunner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true

	go r.run(ctx)
	r.logger.Info("action runner started")
}

// Stop requests the loop to exit after its current invocation finishes
// and waits for it.
func (r *ActionRunner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	done := r.done
	r.running = false
	r.mu.Unlock()

	cancel()
	<-done

	r.logger.Info("action runner stopped")
}

// run is the execution loop.
func (r *ActionRunner) run(ctx context.Context) {
	defer close(r.done)

	for {
		inv, err := r.queue.Pop(ctx)
		if err != nil {
			return
		}

		// Stop is cooperative: an invocation already dequeued runs to
		// completion, so its context must outlive the loop context.
		if err := r.execute(context.WithoutCancel(ctx), inv); err != nil {
			r.logger.Error("action failed",
				"action", inv.Action.Name(),
				"matcher", inv.MatcherName,
				"paste_key", inv.Paste.Key,
				"error", err,
			)
			continue
		}

		r.logger.Debug("action executed",
			"action", inv.Action.Name(),
			"matcher", inv.MatcherName,
			"paste_key", inv.Paste.Key,
		)
	}
}

// execute runs one invocation with a panic boundary so a misbehaving
// action cannot take down the execution loop.
func (r *ActionRunner) execute(ctx context.Context, inv ActionInvocation) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("action panicked: %v", rec)
		}
	}()

	return inv.Action.Perform(ctx, inv.Paste, inv.MatcherName, inv.Matches)
}
