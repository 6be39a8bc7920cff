package entities

import "runtime"

// Memory monitor defaults: sample every 50 documents, trigger cleanup at
// 80% of the configured heap budget.
const (
	DefaultSampleInterval = 50
	DefaultMemoryFraction = 0.8
	DefaultMemoryBudget   = 512 << 20 // bytes
)

// memoryMonitor samples process heap usage every interval documents and
// asks for a backend reset when usage crosses the threshold. Advisory
// cleanup only; tagging correctness never depends on it.
type memoryMonitor struct {
	interval  int
	budget    uint64
	threshold float64
	resets    int
	lastHeap  uint64
}

func newMemoryMonitor(interval int, budget uint64, threshold float64) *memoryMonitor {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	if budget == 0 {
		budget = DefaultMemoryBudget
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMemoryFraction
	}
	return &memoryMonitor{interval: interval, budget: budget, threshold: threshold}
}

// check samples on interval boundaries and reports whether a cleanup
// cycle is due. processed is the running document count.
func (m *memoryMonitor) check(processed int) bool {
	if processed == 0 || processed%m.interval != 0 {
		return false
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.lastHeap = ms.HeapAlloc

	return float64(ms.HeapAlloc) > m.threshold*float64(m.budget)
}

// cleanup records a forced reset cycle and returns memory to the OS
// collector's discretion.
func (m *memoryMonitor) cleanup() {
	m.resets++
	runtime.GC()
}
