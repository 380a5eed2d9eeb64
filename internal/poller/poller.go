package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"standings-ticker/internal/domain"
	"standings-ticker/internal/league"
	"standings-ticker/internal/logging"
	"standings-ticker/internal/metrics"
)

const defaultInterval = time.Hour

// SectionFetcher produces a single league's section for a refresh cycle.
type SectionFetcher interface {
	Section(ctx context.Context, d league.Descriptor) domain.LeagueSection
}

// SectionStore receives the snapshot assembled by a refresh cycle.
type SectionStore interface {
	SetSections(sections []domain.LeagueSection)
}

// Poller refreshes every enabled league on an interval and publishes the
// resulting snapshot to the store.
type Poller struct {
	fetcher  SectionFetcher
	leagues  []league.Descriptor
	store    SectionStore
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the refresh loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(fetcher SectionFetcher, leagues []league.Descriptor, store SectionStore, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		fetcher:  fetcher,
		leagues:  leagues,
		store:    store,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins refreshing until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		p.logInfo("poller started",
			logging.FieldCount, len(p.leagues),
			logging.FieldDurationMS, p.interval.Milliseconds(),
		)
		// Initial refresh to warm the display on boot.
		p.refreshOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				p.logInfo("poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				p.logInfo("poller stopped")
				return
			case <-p.ticker.C:
				p.refreshOnce(ctx)
			}
		}
	}()
}

// Stop halts the refresh loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// RefreshNow runs a single refresh cycle synchronously.
func (p *Poller) RefreshNow(ctx context.Context) {
	p.refreshOnce(ctx)
}

func (p *Poller) refreshOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)

	sections := make([]domain.LeagueSection, 0, len(p.leagues))
	teams := 0
	for _, d := range p.leagues {
		if ctx.Err() != nil {
			return
		}
		section := p.fetcher.Section(ctx, d)
		if len(section.Teams) == 0 {
			continue
		}
		sections = append(sections, section)
		teams += len(section.Teams)
	}

	var cycleErr error
	if len(sections) == 0 && len(p.leagues) > 0 {
		cycleErr = errors.New("no league produced standings")
	}
	if p.metrics != nil {
		p.metrics.RecordUpdateCycle(time.Since(start), cycleErr)
	}
	if cycleErr != nil {
		p.logError("refresh cycle produced no sections", cycleErr,
			logging.FieldDurationMS, time.Since(start).Milliseconds(),
		)
		p.recordFailure(cycleErr, start)
		return
	}

	if p.store != nil {
		p.store.SetSections(sections)
	}
	p.recordSuccess(start)
	p.logInfo("refreshed standings",
		logging.FieldCount, len(sections),
		"teams", teams,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) logInfo(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Poller) logError(msg string, err error, attrs ...any) {
	if p.logger != nil {
		p.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
