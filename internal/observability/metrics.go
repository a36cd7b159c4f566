package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for pipeline stages and
// HTTP requests.
type Metrics struct {
	mu           sync.Mutex
	stageCount   map[string]int64
	requestCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		stageCount:   make(map[string]int64),
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordStage increments the counter for a completed pipeline stage
// (extracted, classified, persisted, displayed).
func (m *Metrics) RecordStage(stage string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stageCount[stage]++
}

// RecordRequest increments counters for HTTP requests in serve mode.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters keyed by scope and error code.
func (m *Metrics) RecordError(scope, code string) {
	if m == nil {
		return
	}
	key := scope + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// StageCount returns the current counter for a stage.
func (m *Metrics) StageCount(stage string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stageCount[stage]
}
