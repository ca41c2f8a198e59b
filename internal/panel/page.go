// Package panel is a terminal front end for the workshop page: it holds the
// page state the status feed and the suggestion dropdown write into, draws it,
// and maps typed commands onto the page events.
package panel

import (
	"strconv"
	"sync"

	"github.com/jetsetgo/taller-orders/internal/form"
	"github.com/jetsetgo/taller-orders/internal/suggest"
)

// DefaultLogHeight is the number of log lines visible at once.
const DefaultLogHeight = 12

// Page is the in-memory page. It satisfies status.View and suggest.Form.
type Page struct {
	mu sync.RWMutex

	description string
	prepTime    string
	priority    string

	logs      []string
	logHeight int
	logScroll int

	rows           [][]string
	refreshVisible bool

	suggestionsVisible bool
	suggestions        suggest.Listing
}

// State is a copy of the page taken for rendering.
type State struct {
	Description string
	PrepTime    string
	Priority    string

	Logs      []string // visible window
	LogTotal  int
	LogScroll int

	Rows           [][]string
	RefreshVisible bool

	SuggestionsVisible bool
	Suggestions        suggest.Listing
}

// NewPage creates an empty page showing logHeight log lines.
func NewPage(logHeight int) *Page {
	if logHeight <= 0 {
		logHeight = DefaultLogHeight
	}
	return &Page{logHeight: logHeight}
}

// ReplaceLogs swaps the whole log panel and scrolls it to the bottom.
func (p *Page) ReplaceLogs(lines []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logs = append([]string(nil), lines...)
	p.logScroll = max(0, len(p.logs)-p.logHeight)
}

// ReplaceOrders swaps the table body and updates the refresh control.
func (p *Page) ReplaceOrders(rows [][]string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rows = make([][]string, len(rows))
	for i, r := range rows {
		p.rows[i] = append([]string(nil), r...)
	}
	p.refreshVisible = form.RefreshVisible(p.statusesLocked())
}

// ScrollLogs moves the log window by delta lines, clamped to the content.
func (p *Page) ScrollLogs(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logScroll = min(max(0, p.logScroll+delta), max(0, len(p.logs)-p.logHeight))
}

func (p *Page) SetDescription(v string) {
	p.mu.Lock()
	p.description = v
	p.mu.Unlock()
}

func (p *Page) SetPrepTime(v int) {
	p.SetPrepTimeText(strconv.Itoa(v))
}

func (p *Page) SetPriority(v int) {
	p.SetPriorityText(strconv.Itoa(v))
}

// SetPrepTimeText stores the prep time exactly as typed.
func (p *Page) SetPrepTimeText(v string) {
	p.mu.Lock()
	p.prepTime = v
	p.mu.Unlock()
}

// SetPriorityText selects a priority option; blank clears the selection.
func (p *Page) SetPriorityText(v string) {
	p.mu.Lock()
	p.priority = v
	p.mu.Unlock()
}

// ClearForm empties the add-order form, as a page reload does.
func (p *Page) ClearForm() {
	p.mu.Lock()
	p.description, p.prepTime, p.priority = "", "", ""
	p.mu.Unlock()
}

// Fields returns the add-order form as typed.
func (p *Page) Fields() form.Fields {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return form.Fields{Description: p.description, PrepTime: p.prepTime, Priority: p.priority}
}

// Description returns the description field value.
func (p *Page) Description() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.description
}

// RowCount returns the number of rows in the orders table.
func (p *Page) RowCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.rows)
}

// RefreshVisible reports whether the manual refresh control is shown.
func (p *Page) RefreshVisible() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.refreshVisible
}

// ShowSuggestions mirrors the dropdown. It matches suggest.Dropdown.OnChange.
func (p *Page) ShowSuggestions(visible bool, listing suggest.Listing) {
	p.mu.Lock()
	p.suggestionsVisible = visible
	p.suggestions = listing
	p.mu.Unlock()
}

// Snapshot copies the page for rendering.
func (p *Page) Snapshot() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	end := min(len(p.logs), p.logScroll+p.logHeight)
	s := State{
		Description:        p.description,
		PrepTime:           p.prepTime,
		Priority:           p.priority,
		Logs:               append([]string(nil), p.logs[p.logScroll:end]...),
		LogTotal:           len(p.logs),
		LogScroll:          p.logScroll,
		Rows:               make([][]string, len(p.rows)),
		RefreshVisible:     p.refreshVisible,
		SuggestionsVisible: p.suggestionsVisible,
		Suggestions:        p.suggestions,
	}
	for i, r := range p.rows {
		s.Rows[i] = append([]string(nil), r...)
	}
	return s
}

// statusesLocked reads the status column, the last cell of each row.
func (p *Page) statusesLocked() []string {
	out := make([]string, 0, len(p.rows))
	for _, r := range p.rows {
		if len(r) > 0 {
			out = append(out, r[len(r)-1])
		}
	}
	return out
}
