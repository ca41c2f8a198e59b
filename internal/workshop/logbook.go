package workshop

import (
	"fmt"
	"sync"
	"time"
)

// LogEntry represents a single activity line
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Logbook is a thread-safe ring buffer for the activity lines shown on the page
type Logbook struct {
	mu      sync.RWMutex
	entries []LogEntry
	cap     int
}

// NewLogbook creates a new logbook with the given capacity
func NewLogbook(capacity int) *Logbook {
	if capacity <= 0 {
		capacity = 500
	}
	return &Logbook{
		entries: make([]LogEntry, 0, capacity),
		cap:     capacity,
	}
}

// Add appends a line, dropping the oldest when full
func (lb *Logbook) Add(level, message string) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}

	if len(lb.entries) >= lb.cap {
		// Shift everything left by 1, drop oldest
		copy(lb.entries, lb.entries[1:])
		lb.entries[len(lb.entries)-1] = entry
	} else {
		lb.entries = append(lb.entries, entry)
	}
}

// Infof adds an info line
func (lb *Logbook) Infof(format string, args ...interface{}) {
	lb.Add("info", fmt.Sprintf(format, args...))
}

// Warnf adds a warning line
func (lb *Logbook) Warnf(format string, args ...interface{}) {
	lb.Add("warn", fmt.Sprintf(format, args...))
}

// Entries returns a copy of all entries, oldest first
func (lb *Logbook) Entries() []LogEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	result := make([]LogEntry, len(lb.entries))
	copy(result, lb.entries)
	return result
}

// Lines returns the messages, oldest first
func (lb *Logbook) Lines() []string {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	lines := make([]string, len(lb.entries))
	for i, e := range lb.entries {
		lines[i] = e.Message
	}
	return lines
}

// Clear removes all entries
func (lb *Logbook) Clear() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.entries = lb.entries[:0]
}
