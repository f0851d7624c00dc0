package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pastewatch/pastewatch/internal/action"
	"github.com/pastewatch/pastewatch/internal/matcher"
	"github.com/pastewatch/pastewatch/internal/model"
	"github.com/pastewatch/pastewatch/internal/scraper"
)

// Orchestrator lifecycle errors.
var (
	// ErrFaultSet is returned by Start when the fault signal is already
	// set. The pipeline must be reset before it can start again.
	ErrFaultSet = errors.New("fault signal is set: reset required before start")

	// ErrAlreadyRunning is returned by Start when the pipeline is
	// already running.
	ErrAlreadyRunning = errors.New("pipeline is already running")

	// ErrStillRunning is returned by Reset while the pipeline runs.
	ErrStillRunning = errors.New("pipeline is still running: stop it before reset")
)

// DefaultIdleInterval is how often the idle loop checks the fault signal.
const DefaultIdleInterval = 1 * time.Second

// Callback is an operator-supplied hook. Returned errors are logged;
// one failing callback never prevents the others from running.
type Callback func() error

// Orchestrator wires the pipeline together: it owns the two queues and
// the fault signal, supervises the three stages, and runs the
// operator-supplied error and onstart callbacks.
type Orchestrator struct {
	pasteQueue  *Queue[*model.Paste]
	actionQueue *Queue[ActionInvocation]
	fault       *FaultSignal

	scraping *ScrapingManager
	dispatch *Dispatcher
	actions  *ActionRunner

	logger       *slog.Logger
	idleInterval time.Duration

	// defaultSource is started when no source was registered before
	// Start. Lazily constructed so client setup errors surface at
	// Start, not at New.
	defaultSource func() (scraper.Source, error)

	mu              sync.Mutex
	running         bool
	errorHandlers   []Callback
	onstartHandlers []Callback

	// faultHandled guards the error callbacks: at most one invocation
	// round per fault episode.
	faultHandled bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithIdleInterval overrides the idle polling interval. Used by tests;
// operators have no reason to change it.
func WithIdleInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.idleInterval = d
		}
	}
}

// WithDefaultSource overrides the source auto-registered by Start when
// none was added.
func WithDefaultSource(build func() (scraper.Source, error)) Option {
	return func(o *Orchestrator) {
		o.defaultSource = build
	}
}

// WithStoreAll registers an always-true matcher bound to a store action,
// so every scraped paste is persisted regardless of other matchers.
func WithStoreAll(store action.Store) Option {
	return func(o *Orchestrator) {
		o.dispatch.AddMatcher(matcher.NewAlwaysTrue(action.NewStorePaste(store)))
	}
}

// New creates an orchestrator with freshly wired queues and stages.
func New(opts ...Option) *Orchestrator {
	pasteQueue := NewQueue[*model.Paste]()
	actionQueue := NewQueue[ActionInvocation]()
	fault := NewFaultSignal()

	o := &Orchestrator{
		pasteQueue:   pasteQueue,
		actionQueue:  actionQueue,
		fault:        fault,
		idleInterval: DefaultIdleInterval,
	}

	// Stages are created before options run so options can register
	// matchers.
	o.scraping = NewScrapingManager(pasteQueue, fault, nil)
	o.dispatch = NewDispatcher(pasteQueue, actionQueue, nil)
	o.actions = NewActionRunner(actionQueue, nil)

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.scraping.logger = o.logger
	o.dispatch.logger = o.logger
	o.actions.logger = o.logger

	if o.defaultSource == nil {
		o.defaultSource = func() (scraper.Source, error) {
			client, err := scraper.NewHTTPClient("", 30*time.Second)
			if err != nil {
				return nil, err
			}
			return scraper.NewPastebin(client, scraper.WithLogger(o.logger)), nil
		}
	}

	return o
}

// Fault exposes the shared fault signal, mainly for sources and tests
// that need to observe or provoke a fault episode.
func (o *Orchestrator) Fault() *FaultSignal {
	return o.fault
}

// AddScraper registers a scrape source. See ScrapingManager.Add for the
// restart semantics.
func (o *Orchestrator) AddScraper(src scraper.Source, restart bool) {
	o.scraping.Add(src, restart)
}

// AddMatcher registers a matcher. Registration order is evaluation order.
func (o *Orchestrator) AddMatcher(m matcher.Matcher) {
	o.dispatch.AddMatcher(m)
}

// OnError registers a callback invoked when a fault episode begins.
// Callbacks run in registration order, each in its own failure boundary.
func (o *Orchestrator) OnError(cb Callback) {
	o.mu.Lock()
	o.errorHandlers = append(o.errorHandlers, cb)
	o.mu.Unlock()
}

// OnStart registers a callback invoked after all stages have started.
func (o *Orchestrator) OnStart(cb Callback) {
	o.mu.Lock()
	o.onstartHandlers = append(o.onstartHandlers, cb)
	o.mu.Unlock()
}

// Start brings the pipeline up: scraping manager first, then dispatcher,
// then action runner, then the onstart callbacks. Starting with the
// fault signal already set fails without starting any stage.
func (o *Orchestrator) Start() error {
	o.mu.Lock()

	if o.fault.IsSet() {
		o.mu.Unlock()
		return ErrFaultSet
	}
	if o.running {
		o.mu.Unlock()
		return ErrAlreadyRunning
	}

	if !o.scraping.HasSources() {
		src, err := o.defaultSource()
		if err != nil {
			o.mu.Unlock()
			return fmt.Errorf("failed to build default scrape source: %w", err)
		}
		o.logger.Info("no scrape source registered, using default", "source", src.Name())
		o.scraping.Add(src, false)
	}

	o.scraping.Start()
	o.dispatch.Start()
	o.actions.Start()
	o.running = true
	handlers := o.onstartHandlers
	o.mu.Unlock()

	// Callbacks run outside the lock: they may legitimately call back
	// into the orchestrator.
	for _, cb := range handlers {
		o.runCallback("onstart", cb)
	}

	o.logger.Info("pipeline started")
	return nil
}

// Stop brings the pipeline down. Each stage only depends on its queue,
// not on the other stages' liveness, so a simple sequential stop is
// sufficient. Stopping a stopped pipeline is a no-op.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	o.running = false
	o.mu.Unlock()

	o.scraping.Stop()
	o.dispatch.Stop()
	o.actions.Stop()

	o.logger.Info("pipeline stopped")
}

// Reset clears the fault signal after a full stop so the pipeline can
// start a new run. Resetting a running pipeline is an error.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return ErrStillRunning
	}

	o.fault.Reset()
	o.faultHandled = false
	return nil
}

// Idle blocks until one of the stop signals arrives or the fault signal
// is set, then stops the pipeline. On a fault, every registered error
// callback is invoked exactly once before shutdown.
//
// The wait is a cooperative poll at the configured interval rather than
// an event subscription; a one-second reaction delay is irrelevant for
// an unattended watcher and keeps the fault signal a plain flag.
func (o *Orchestrator) Idle(stopSignals ...os.Signal) {
	if len(stopSignals) == 0 {
		stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, stopSignals...)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(o.idleInterval)
	defer ticker.Stop()

	o.logger.Info("idling", "interval", o.idleInterval)

	for {
		select {
		case sig := <-sigCh:
			o.logger.Info("received signal, stopping", "signal", sig.String())
			o.Stop()
			return
		case <-ticker.C:
			if o.fault.IsSet() {
				o.logger.Warn("fault signal set, calling error handlers and going down")
				o.handleFault()
				o.Stop()
				return
			}
		}
	}
}

// handleFault runs the error callbacks at most once per fault episode.
func (o *Orchestrator) handleFault() {
	o.mu.Lock()
	if o.faultHandled {
		o.mu.Unlock()
		return
	}
	o.faultHandled = true
	handlers := o.errorHandlers
	o.mu.Unlock()

	for _, cb := range handlers {
		o.runCallback("error", cb)
	}
}

// runCallback invokes one operator callback inside a failure boundary.
func (o *Orchestrator) runCallback(kind string, cb Callback) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("callback panicked, pipeline still running",
				"kind", kind,
				"panic", fmt.Sprint(r),
			)
		}
	}()

	if err := cb(); err != nil {
		o.logger.Error("callback failed, pipeline still running",
			"kind", kind,
			"error", err,
		)
	}
}
