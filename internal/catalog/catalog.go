// Package catalog holds the immutable list of suggested workshop tasks used to
// prefill the order form.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Task is a named unit of work with a default preparation time and priority.
type Task struct {
	Name     string `json:"name"`
	Time     int    `json:"time"`
	Priority int    `json:"priority"`
}

// Defaults are the form values a task name resolves to.
type Defaults struct {
	Time     int
	Priority int
}

// Catalog is built once and never mutated. Share it by pointer.
type Catalog struct {
	tasks []Task
	index map[string]Defaults
}

// New normalises tasks and builds the name index. Nameless tasks are dropped,
// time and priority below 1 become 1. A later task with the same name (ignoring
// case) wins in the index; both stay in the ordered list.
func New(tasks []Task) *Catalog {
	c := &Catalog{
		tasks: make([]Task, 0, len(tasks)),
		index: make(map[string]Defaults, len(tasks)),
	}
	for _, t := range tasks {
		if strings.TrimSpace(t.Name) == "" {
			continue
		}
		if t.Time < 1 {
			t.Time = 1
		}
		if t.Priority < 1 {
			t.Priority = 1
		}
		c.tasks = append(c.tasks, t)
		c.index[strings.ToLower(t.Name)] = Defaults{Time: t.Time, Priority: t.Priority}
	}
	return c
}

// Empty returns a catalog with no tasks.
func Empty() *Catalog {
	return New(nil)
}

// Parse decodes a JSON array of tasks.
func Parse(raw []byte) (*Catalog, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		trimmed = "[]"
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(trimmed), &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	return New(tasks), nil
}

// Load is Parse that never fails: malformed data is logged and yields an empty
// catalog.
func Load(raw []byte, logger *zap.Logger) *Catalog {
	c, err := Parse(raw)
	if err != nil {
		logger.Error("invalid embedded task data, using empty catalog", zap.Error(err))
		return Empty()
	}
	return c
}

// Tasks returns the tasks in catalog order.
func (c *Catalog) Tasks() []Task {
	out := make([]Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Len returns the number of tasks.
func (c *Catalog) Len() int {
	return len(c.tasks)
}

// Lookup resolves an exact task name, ignoring case and surrounding spaces.
func (c *Catalog) Lookup(name string) (Defaults, bool) {
	d, ok := c.index[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// MarshalJSON encodes the ordered task list, the same shape Parse accepts.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.tasks)
}
