// Package status keeps the log panel and the orders table in step with the
// workshop server, by polling its JSON status endpoint or by listening on its
// WebSocket feed.
package status

import (
	"strconv"
	"sync"
	"time"
)

// Order is a server-owned order as reported by the status endpoint.
type Order struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	PrepTime    int    `json:"prep_time"`
	Priority    int    `json:"priority"`
	WorkerID    *int   `json:"worker_id"`
	Status      string `json:"status"`
}

// Row renders the order as the six table cells: id, description, prep time,
// priority, worker (blank when unassigned) and status.
func (o Order) Row() []string {
	worker := ""
	if o.WorkerID != nil {
		worker = strconv.Itoa(*o.WorkerID)
	}
	return []string{
		strconv.Itoa(o.ID),
		o.Description,
		strconv.Itoa(o.PrepTime),
		strconv.Itoa(o.Priority),
		worker,
		o.Status,
	}
}

// Snapshot is one status response. Nil Logs or Orders mean the field was absent
// and the matching region is left alone.
type Snapshot struct {
	Processing bool     `json:"processing"`
	Logs       []string `json:"logs"`
	Orders     []Order  `json:"orders"`
}

// Rows renders every order.
func (s Snapshot) Rows() [][]string {
	rows := make([][]string, len(s.Orders))
	for i, o := range s.Orders {
		rows[i] = o.Row()
	}
	return rows
}

// View is the part of the page a snapshot replaces. Each call swaps the whole
// region.
type View interface {
	ReplaceLogs(lines []string)
	ReplaceOrders(rows [][]string)
}

// ConnectionStatus represents the connection to the workshop server
type ConnectionStatus struct {
	Connected    bool
	Reconnecting bool
	LastError    string
	LastSeen     time.Time
}

// applier applies snapshots in generation order. A response for an older
// generation than the last one applied is dropped.
type applier struct {
	view View

	mu      sync.Mutex
	applied uint64

	// OnApply, when set, runs after a snapshot reaches the view.
	onApply func(Snapshot)
}

func (a *applier) apply(gen uint64, snap Snapshot) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if gen <= a.applied {
		return false
	}
	a.applied = gen

	if snap.Logs != nil {
		a.view.ReplaceLogs(snap.Logs)
	}
	if snap.Orders != nil {
		a.view.ReplaceOrders(snap.Rows())
	}
	if a.onApply != nil {
		a.onApply(snap)
	}
	return true
}
