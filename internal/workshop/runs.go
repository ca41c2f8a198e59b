package workshop

import (
	"sync"
	"time"
)

// RunRecord describes one processing run
type RunRecord struct {
	ID          string     `json:"id"`
	Workers     int        `json:"workers"`
	Orders      int        `json:"orders"`
	Status      string     `json:"status"` // running, completed, empty, failed
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// RunHistory is a thread-safe ring buffer of processing runs
type RunHistory struct {
	mu      sync.RWMutex
	entries []RunRecord
	cap     int
}

// NewRunHistory creates a new run history with the given capacity
func NewRunHistory(capacity int) *RunHistory {
	return &RunHistory{
		entries: make([]RunRecord, 0, capacity),
		cap:     capacity,
	}
}

// Add records a run
func (rh *RunHistory) Add(run RunRecord) {
	rh.mu.Lock()
	defer rh.mu.Unlock()

	if len(rh.entries) >= rh.cap {
		copy(rh.entries, rh.entries[1:])
		rh.entries[len(rh.entries)-1] = run
	} else {
		rh.entries = append(rh.entries, run)
	}
}

// Entries returns all runs (newest first)
func (rh *RunHistory) Entries() []RunRecord {
	rh.mu.RLock()
	defer rh.mu.RUnlock()

	result := make([]RunRecord, len(rh.entries))
	// Reverse order so newest is first
	for i, j := 0, len(rh.entries)-1; j >= 0; i, j = i+1, j-1 {
		result[i] = rh.entries[j]
	}
	return result
}

// Finish updates the status of a run by ID
func (rh *RunHistory) Finish(runID, status string, orders int, errMsg string) {
	rh.mu.Lock()
	defer rh.mu.Unlock()

	for i := len(rh.entries) - 1; i >= 0; i-- {
		if rh.entries[i].ID == runID {
			now := time.Now()
			rh.entries[i].Status = status
			rh.entries[i].Orders = orders
			rh.entries[i].CompletedAt = &now
			if errMsg != "" {
				rh.entries[i].Error = errMsg
			}
			return
		}
	}
}
