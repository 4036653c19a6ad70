package metrics

import (
	"sync"
	"time"
)

type feedStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

// Recorder captures in-memory feed, tool and route stats and forwards every
// observation to OpenTelemetry instruments when configured. A nil Recorder
// is valid and records nothing.
type Recorder struct {
	mu     sync.Mutex
	feeds  map[string]*feedStats
	tools  map[string]int
	routes map[string]int
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		feeds:  make(map[string]*feedStats),
		tools:  make(map[string]int),
		routes: make(map[string]int),
		otel:   otel,
	}
}

// RecordFeedAttempt counts one fetch attempt against a feed.
func (r *Recorder) RecordFeedAttempt(feed string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.feeds[feed]
	if !ok {
		stats = &feedStats{}
		r.feeds[feed] = stats
	}
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordFeedAttempt(feed, duration, err)
	}
}

// RecordCatalogLoad tracks a catalog build and the number of records it produced.
func (r *Recorder) RecordCatalogLoad(records int, duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordCatalogLoad(records, duration, err)
}

func (r *Recorder) RecordToolCall(tool string, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.tools[tool]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordToolCall(tool, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.routes[path]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordHTTPRequest(method, path, status, duration)
	}
}

// Snapshot is a copy of the stats for one feed.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(feed string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.feeds[feed]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		LastCallLatency: stats.lastCallLatency,
	}
}

func (r *Recorder) ToolCalls(tool string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tools[tool]
}

// HTTPRequests reports how many requests were served for a route pattern.
func (r *Recorder) HTTPRequests(path string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.routes[path]
}
