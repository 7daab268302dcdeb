package monitor

import (
	"sort"
	"sync"
	"time"
)

// Metrics tracks reconciliation counters for monitoring and debugging.
//
// Counters are tracked per monitor. The journal records individual cycles;
// metrics give the aggregate picture, typically dumped at shutdown or when
// debugging a misbehaving monitor.
type Metrics struct {
	mu sync.RWMutex

	monitorMetrics map[string]*monitorMetrics
}

// monitorMetrics holds the counters for a single monitor.
type monitorMetrics struct {
	Monitor             string
	Cycles              int64
	Idles               int64
	Opens               int64
	Resolves            int64
	Failures            int64
	InvariantViolations int64
	LastCycleAt         time.Time
	LastChangeAt        time.Time
}

// NewMetrics creates an empty Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		monitorMetrics: make(map[string]*monitorMetrics),
	}
}

func (m *Metrics) get(monitor string) *monitorMetrics {
	if mm, exists := m.monitorMetrics[monitor]; exists {
		return mm
	}
	mm := &monitorMetrics{Monitor: monitor}
	m.monitorMetrics[monitor] = mm
	return mm
}

// RecordCycle records the start of a reconciliation cycle.
func (m *Metrics) RecordCycle(monitor string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mm := m.get(monitor)
	mm.Cycles++
	mm.LastCycleAt = time.Now()
}

// RecordIdle records a cycle that issued no mutation.
func (m *Metrics) RecordIdle(monitor string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(monitor).Idles++
}

// RecordOpen records an incident creation.
func (m *Metrics) RecordOpen(monitor string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mm := m.get(monitor)
	mm.Opens++
	mm.LastChangeAt = time.Now()
}

// RecordResolve records an incident resolution.
func (m *Metrics) RecordResolve(monitor string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mm := m.get(monitor)
	mm.Resolves++
	mm.LastChangeAt = time.Now()
}

// RecordFailure records a failed cycle.
func (m *Metrics) RecordFailure(monitor string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(monitor).Failures++
}

// RecordInvariantViolation records a cycle that found more than one open
// incident. Persistent growth of this counter means an operator needs to
// clean up the store.
func (m *Metrics) RecordInvariantViolation(monitor string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mm := m.get(monitor)
	mm.InvariantViolations++
	mm.Failures++
}

// MonitorSummary is a read-only view of one monitor's counters.
type MonitorSummary struct {
	Monitor             string    `json:"monitor"`
	Cycles              int64     `json:"cycles"`
	Idles               int64     `json:"idles"`
	Opens               int64     `json:"opens"`
	Resolves            int64     `json:"resolves"`
	Failures            int64     `json:"failures"`
	InvariantViolations int64     `json:"invariant_violations"`
	LastCycleAt         time.Time `json:"last_cycle_at,omitempty"`
	LastChangeAt        time.Time `json:"last_change_at,omitempty"`
}

// Summary returns per-monitor counter views, sorted by monitor name.
func (m *Metrics) Summary() []MonitorSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]MonitorSummary, 0, len(m.monitorMetrics))
	for _, mm := range m.monitorMetrics {
		summaries = append(summaries, MonitorSummary{
			Monitor:             mm.Monitor,
			Cycles:              mm.Cycles,
			Idles:               mm.Idles,
			Opens:               mm.Opens,
			Resolves:            mm.Resolves,
			Failures:            mm.Failures,
			InvariantViolations: mm.InvariantViolations,
			LastCycleAt:         mm.LastCycleAt,
			LastChangeAt:        mm.LastChangeAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Monitor < summaries[j].Monitor })
	return summaries
}

// Global metrics instance shared by all loops in the process.
var (
	globalMetrics     *Metrics
	globalMetricsOnce sync.Once
)

// GetMetrics returns the global metrics instance, creating it on first use.
func GetMetrics() *Metrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = NewMetrics()
	})
	return globalMetrics
}
