// Package suggest filters the task catalog for the description field and keeps
// the state of the suggestion dropdown.
package suggest

import (
	"strings"

	"github.com/jetsetgo/taller-orders/internal/catalog"
)

// NoMatches is the label of the placeholder entry shown when nothing matches.
const NoMatches = "Sin coincidencias"

// Entry is one rendered line of the dropdown.
type Entry struct {
	Label    string
	Disabled bool
	Task     catalog.Task
}

// Listing is what the dropdown shows for a given filter.
type Listing struct {
	Entries []Entry
}

// Empty reports whether the listing is the single "no matches" placeholder.
func (l Listing) Empty() bool {
	return len(l.Entries) == 1 && l.Entries[0].Disabled
}

// Engine matches filter text against a catalog.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates an engine over c.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Catalog returns the catalog the engine searches.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Match returns the tasks whose name contains filter, ignoring case, in catalog
// order. A blank filter matches every task.
func (e *Engine) Match(filter string) []catalog.Task {
	q := strings.ToLower(strings.TrimSpace(filter))
	tasks := e.catalog.Tasks()
	if q == "" {
		return tasks
	}

	matches := make([]catalog.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Name), q) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Render turns the matches for filter into dropdown entries.
func (e *Engine) Render(filter string) Listing {
	matches := e.Match(filter)
	if len(matches) == 0 {
		return Listing{Entries: []Entry{{Label: NoMatches, Disabled: true}}}
	}

	entries := make([]Entry, len(matches))
	for i, t := range matches {
		entries[i] = Entry{Label: t.Name, Task: t}
	}
	return Listing{Entries: entries}
}
