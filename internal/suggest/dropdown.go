package suggest

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultBlurDelay leaves room for a pointer-down selection to land before the
// list hides on focus loss.
const DefaultBlurDelay = 120 * time.Millisecond

// Form receives the values written by a selection or an exact-name commit.
type Form interface {
	SetDescription(string)
	SetPrepTime(int)
	SetPriority(int)
}

// Target identifies where a click landed.
type Target int

const (
	TargetOther Target = iota
	TargetInput
	TargetList
)

// Dropdown is the event-driven adapter around Engine. Each method corresponds to
// one UI event on the description field or the list.
type Dropdown struct {
	engine    *Engine
	form      Form
	blurDelay time.Duration
	logger    *zap.Logger

	mu        sync.Mutex
	visible   bool
	listing   Listing
	blurTimer *time.Timer

	// OnChange, when set, is called after every visibility or content change.
	OnChange func(visible bool, listing Listing)
}

// NewDropdown binds an engine to a form.
func NewDropdown(engine *Engine, form Form, blurDelay time.Duration, logger *zap.Logger) *Dropdown {
	if blurDelay <= 0 {
		blurDelay = DefaultBlurDelay
	}
	return &Dropdown{
		engine:    engine,
		form:      form,
		blurDelay: blurDelay,
		logger:    logger,
	}
}

// Focus shows the list for the current value, or the whole catalog when blank.
func (d *Dropdown) Focus(value string) {
	d.mu.Lock()
	if d.blurTimer != nil {
		d.blurTimer.Stop()
		d.blurTimer = nil
	}
	d.show(value)
	d.mu.Unlock()
	d.changed()
}

// Input re-renders on every keystroke; a blank value hides the list.
func (d *Dropdown) Input(value string) {
	d.mu.Lock()
	if strings.TrimSpace(value) == "" {
		d.visible = false
	} else {
		d.show(value)
	}
	d.mu.Unlock()
	d.changed()
}

// Blur hides the list after the blur delay.
func (d *Dropdown) Blur() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.blurTimer != nil {
		d.blurTimer.Stop()
	}
	d.blurTimer = time.AfterFunc(d.blurDelay, func() {
		d.mu.Lock()
		d.visible = false
		d.blurTimer = nil
		d.mu.Unlock()
		d.changed()
	})
}

// ClickOutside hides the list unless the click landed on the input or the list.
func (d *Dropdown) ClickOutside(target Target) {
	if target == TargetInput || target == TargetList {
		return
	}
	d.mu.Lock()
	d.visible = false
	d.mu.Unlock()
	d.changed()
}

// PointerDown selects entry i of the visible list: the task's name, time and
// priority go into the form and the list hides. It reports whether a task was
// selected; hidden lists, out-of-range indexes and the placeholder do nothing.
func (d *Dropdown) PointerDown(i int) bool {
	d.mu.Lock()
	if !d.visible || i < 0 || i >= len(d.listing.Entries) || d.listing.Entries[i].Disabled {
		d.mu.Unlock()
		return false
	}
	task := d.listing.Entries[i].Task
	d.visible = false
	d.mu.Unlock()

	d.form.SetDescription(task.Name)
	d.form.SetPrepTime(task.Time)
	d.form.SetPriority(task.Priority)
	d.logger.Debug("suggestion selected", zap.String("task", task.Name))

	d.changed()
	return true
}

// Commit handles the change event of the description field. An exact task name,
// ignoring case, re-applies its time and priority whether or not the list was
// ever opened.
func (d *Dropdown) Commit(value string) bool {
	defaults, ok := d.engine.Catalog().Lookup(value)
	if !ok {
		return false
	}
	d.form.SetPrepTime(defaults.Time)
	d.form.SetPriority(defaults.Priority)
	return true
}

// Visible reports whether the list is shown.
func (d *Dropdown) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

// Listing returns the last rendered entries.
func (d *Dropdown) Listing() Listing {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listing
}

func (d *Dropdown) show(value string) {
	d.listing = d.engine.Render(value)
	d.visible = true
}

func (d *Dropdown) changed() {
	if d.OnChange == nil {
		return
	}
	d.mu.Lock()
	visible, listing := d.visible, d.listing
	d.mu.Unlock()
	d.OnChange(visible, listing)
}
