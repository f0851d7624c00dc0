package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pastewatch/pastewatch/internal/model"
	"github.com/pastewatch/pastewatch/internal/scraper"
)

// ScrapingManager owns the registered scrape sources and runs each on
// its own goroutine, feeding every produced paste into the paste queue.
//
// A unit that hits an unrecoverable source error sets the fault signal
// and terminates; sibling units keep running until the orchestrator
// reacts to the fault. Stop is cooperative via context cancellation, so
// a unit blocked inside a slow fetch delays shutdown until that call
// returns. That is an accepted limitation, not hidden behavior.
type ScrapingManager struct {
	queue  *Queue[*model.Paste]
	fault  *FaultSignal
	logger *slog.Logger

	mu      sync.Mutex
	sources []scraper.Source
	running bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// NewScrapingManager creates a manager feeding the given paste queue.
func NewScrapingManager(queue *Queue[*model.Paste], fault *FaultSignal, logger *slog.Logger) *ScrapingManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScrapingManager{
		queue:  queue,
		fault:  fault,
		logger: logger,
	}
}

// Add registers a scrape source. When the manager is already running,
// the new source only takes effect on the next Start unless restart is
// true, in which case the whole manager is restarted — the simple,
// always-correct fallback for picking up a changed source set.
func (m *ScrapingManager) Add(src scraper.Source, restart bool) {
	m.mu.Lock()
	m.sources = append(m.sources, src)
	needRestart := restart && m.running
	m.mu.Unlock()

	if needRestart {
		m.logger.Info("restarting scraping manager for new source", "source", src.Name())
		m.Stop()
		m.Start()
	}
}

// HasSources reports whether any source is registered.
func (m *ScrapingManager) HasSources() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources) > 0
}

// Start launches one goroutine per registered source. Starting an
// already-running manager is a no-op.
func (m *ScrapingManager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.group = new(errgroup.Group)
	m.running = true

	for _, src := range m.sources {
		m.group.Go(func() error {
			m.runSource(ctx, src)
			return nil
		})
	}

	m.logger.Info("scraping manager started", "sources", len(m.sources))
}

// Stop signals every unit to exit and waits for their termination.
func (m *ScrapingManager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	group := m.group
	m.running = false
	m.mu.Unlock()

	cancel()
	_ = group.Wait() //nolint:errcheck // Units never return errors; faults go through the signal

	m.logger.Info("scraping manager stopped")
}

// runSource is one scraping unit: pull the next paste from the source,
// push it onto the paste queue, repeat until cancelled or faulted.
func (m *ScrapingManager) runSource(ctx context.Context, src scraper.Source) {
	m.logger.Info("scraping unit started", "source", src.Name())

	for {
		paste, err := src.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				m.logger.Debug("scraping unit stopping", "source", src.Name())
			case errors.Is(err, scraper.ErrSourceExhausted):
				m.logger.Info("scrape source exhausted", "source", src.Name())
			default:
				// Unrecoverable source fault: halt the whole pipeline,
				// but never crash sibling units.
				m.logger.Error("scrape source failed", "source", src.Name(), "error", err)
				m.fault.Set()
			}
			return
		}

		m.queue.Push(paste)
		m.logger.Debug("paste scraped", "source", src.Name(), "paste_key", paste.Key)
	}
}
