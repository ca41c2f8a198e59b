package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the poll period of the status endpoint.
const DefaultInterval = time.Second

// ErrStale is returned by PollOnce when a newer response was applied first.
var ErrStale = errors.New("stale status response")

// Poller fetches the status endpoint on a fixed interval and replaces the view
// with every successful response. Ticks do not wait for slow requests, so
// several may be in flight; the generation guard keeps the newest one.
type Poller struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *zap.Logger
	applier  *applier

	issued atomic.Uint64

	mu        sync.Mutex
	connected bool
	lastError error
	lastSeen  time.Time
	cancel    context.CancelFunc
	started   bool

	refresh chan struct{}
	wg      sync.WaitGroup
}

// NewPoller creates a poller for statusURL. A zero timeout means none.
func NewPoller(statusURL string, interval, timeout time.Duration, view View, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		url:      statusURL,
		interval: interval,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		applier:  &applier{view: view},
		refresh:  make(chan struct{}, 1),
	}
}

// OnApply registers a hook run after each applied snapshot. Call before Start.
func (p *Poller) OnApply(fn func(Snapshot)) {
	p.applier.onApply = fn
}

// Start polls immediately and then on every tick until ctx is done or Stop is
// called. Only the first call starts the loop.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go p.pollLoop(ctx)
}

// Stop cancels the loop and any request in flight, and waits for them.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Refresh asks the loop for an immediate poll outside the tick schedule.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Status returns the current connection status
func (p *Poller) Status() ConnectionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	errStr := ""
	if p.lastError != nil {
		errStr = p.lastError.Error()
	}

	return ConnectionStatus{
		Connected: p.connected,
		LastError: errStr,
		LastSeen:  p.lastSeen,
	}
}

func (p *Poller) pollLoop(ctx context.Context) {
	defer p.wg.Done()

	p.spawn(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.spawn(ctx)
		case <-p.refresh:
			p.spawn(ctx)
		}
	}
}

func (p *Poller) spawn(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_ = p.PollOnce(ctx)
	}()
}

// PollOnce performs one fetch-and-apply cycle. Failures are logged and leave the
// view untouched.
func (p *Poller) PollOnce(ctx context.Context) error {
	gen := p.issued.Add(1)

	snap, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("status poll failed", zap.String("url", p.url), zap.Error(err))
		}
		p.setError(err)
		return err
	}

	p.mu.Lock()
	p.connected = true
	p.lastError = nil
	p.lastSeen = time.Now()
	p.mu.Unlock()

	if !p.applier.apply(gen, snap) {
		p.logger.Debug("dropped stale status response", zap.Uint64("generation", gen))
		return ErrStale
	}
	return nil
}

func (p *Poller) fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Snapshot{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Snapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Snapshot{}, fmt.Errorf("status returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode status: %w", err)
	}
	return snap, nil
}

func (p *Poller) setError(err error) {
	p.mu.Lock()
	p.connected = false
	p.lastError = err
	p.mu.Unlock()
}
