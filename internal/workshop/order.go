// Package workshop is the order service behind the panel: it stores orders,
// simulates the workshops that process them, and keeps the activity log shown
// on the page.
package workshop

import (
	"errors"
	"strconv"
	"strings"
)

// Status of an order. The values are what the page displays.
type Status string

const (
	StatusPending    Status = "Pendiente"
	StatusInProgress Status = "En proceso"
	StatusCompleted  Status = "Completada"
)

// Priorities run from low to high.
const (
	PriorityLow  = 1
	PriorityHigh = 3
)

// DefaultDescription replaces a blank description.
const DefaultDescription = "Orden sin descripción"

var ErrNotFound = errors.New("order not found")

// Order is a unit of work handled by one workshop.
type Order struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	PrepTime    int    `json:"prep_time"`
	Priority    int    `json:"priority"`
	Status      Status `json:"status"`
	WorkerID    *int   `json:"worker_id"`
}

// NewOrder builds a pending order from raw form values. Nothing is rejected:
// a blank description gets a placeholder, an unusable prep time becomes 1 and
// the priority is clamped to 1..3.
func NewOrder(description, prepTime, priority string) Order {
	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = DefaultDescription
	}

	prep, err := strconv.Atoi(strings.TrimSpace(prepTime))
	if err != nil || prep < 1 {
		prep = 1
	}

	prio, err := strconv.Atoi(strings.TrimSpace(priority))
	if err != nil || prio < PriorityLow {
		prio = PriorityLow
	}
	if prio > PriorityHigh {
		prio = PriorityHigh
	}

	return Order{
		Description: desc,
		PrepTime:    prep,
		Priority:    prio,
		Status:      StatusPending,
	}
}
