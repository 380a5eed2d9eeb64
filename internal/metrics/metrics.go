package metrics

import (
	"sync"
	"time"
)

type leagueStats struct {
	fetches          int
	errors           int
	lastFetchLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about the pipeline and
// mirrors them to OpenTelemetry instruments when telemetry is enabled. A nil
// Recorder is safe to call.
type Recorder struct {
	mu          sync.Mutex
	apiCalls    map[string]int
	cacheHits   map[string]int
	cacheMisses map[string]int
	leagues     map[string]*leagueStats
	cycles      int
	cycleErrors int
	otel        *otelInstruments
}

// NewRecorder constructs a Recorder without a telemetry backend.
func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		apiCalls:    make(map[string]int),
		cacheHits:   make(map[string]int),
		cacheMisses: make(map[string]int),
		leagues:     make(map[string]*leagueStats),
		otel:        otel,
	}
}

// RecordAPICall counts an outbound upstream call. It is the backend for the
// injected call-counter hook.
func (r *Recorder) RecordAPICall(kind string, count int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.apiCalls[kind] += count
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordAPICall(kind, count)
	}
}

// RecordCacheHit counts a fresh read-through hit for a cache namespace.
func (r *Recorder) RecordCacheHit(namespace string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cacheHits[namespace]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCacheLookup(namespace, true)
	}
}

// RecordCacheMiss counts an absent or stale read for a cache namespace.
func (r *Recorder) RecordCacheMiss(namespace string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cacheMisses[namespace]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCacheLookup(namespace, false)
	}
}

// RecordFetch tracks the outcome and latency of one league fetch.
func (r *Recorder) RecordFetch(leagueKey string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.leagues[leagueKey]
	if stats == nil {
		stats = &leagueStats{}
		r.leagues[leagueKey] = stats
	}
	stats.fetches++
	stats.lastFetchLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFetch(leagueKey, duration, err)
	}
}

// RecordUpdateCycle tracks one full update cycle across all enabled leagues.
func (r *Recorder) RecordUpdateCycle(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cycles++
	if err != nil {
		r.cycleErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordUpdateCycle(duration, err)
	}
}

// APICalls returns how many outbound calls of the given kind were recorded.
func (r *Recorder) APICalls(kind string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apiCalls[kind]
}

// CacheHits returns the hit count for a namespace.
func (r *Recorder) CacheHits(namespace string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheHits[namespace]
}

// CacheMisses returns the miss count for a namespace.
func (r *Recorder) CacheMisses(namespace string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheMisses[namespace]
}

// FetchCalls returns how many fetches were recorded for a league.
func (r *Recorder) FetchCalls(leagueKey string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats := r.leagues[leagueKey]; stats != nil {
		return stats.fetches
	}
	return 0
}

// FetchErrors returns how many failed fetches were recorded for a league.
func (r *Recorder) FetchErrors(leagueKey string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats := r.leagues[leagueKey]; stats != nil {
		return stats.errors
	}
	return 0
}

// UpdateCycles returns the recorded cycle and cycle-error counts.
func (r *Recorder) UpdateCycles() (cycles, errors int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cycles, r.cycleErrors
}
