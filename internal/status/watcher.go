package status

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Watcher receives snapshots pushed over the workshop's WebSocket feed and
// reconnects with exponential backoff when the connection drops.
type Watcher struct {
	url          string
	reconnect    time.Duration
	maxReconnect time.Duration
	logger       *zap.Logger
	applier      *applier

	mu           sync.Mutex
	conn         *websocket.Conn
	connected    bool
	reconnecting bool
	lastError    error
	lastSeen     time.Time
	cancel       context.CancelFunc
	started      bool
	gen          uint64

	done chan struct{}
}

// NewWatcher creates a watcher for wsURL (ws:// or wss://).
func NewWatcher(wsURL string, reconnect, maxReconnect time.Duration, view View, logger *zap.Logger) *Watcher {
	if reconnect <= 0 {
		reconnect = time.Second
	}
	if maxReconnect < reconnect {
		maxReconnect = reconnect
	}
	return &Watcher{
		url:          wsURL,
		reconnect:    reconnect,
		maxReconnect: maxReconnect,
		logger:       logger,
		applier:      &applier{view: view},
		done:         make(chan struct{}),
	}
}

// OnApply registers a hook run after each applied snapshot. Call before Start.
func (w *Watcher) OnApply(fn func(Snapshot)) {
	w.applier.onApply = fn
}

// Start begins the connection and reconnection loop. Later calls are no-ops.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	go func() {
		defer close(w.done)
		w.connectionLoop(ctx)
	}()
}

// Stop closes the connection and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-w.done
}

// Status returns the current connection status
func (w *Watcher) Status() ConnectionStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	errStr := ""
	if w.lastError != nil {
		errStr = w.lastError.Error()
	}

	return ConnectionStatus{
		Connected:    w.connected,
		Reconnecting: w.reconnecting,
		LastError:    errStr,
		LastSeen:     w.lastSeen,
	}
}

func (w *Watcher) connectionLoop(ctx context.Context) {
	delay := w.reconnect

	for {
		if ctx.Err() != nil {
			return
		}

		err := w.connect(ctx)
		if err != nil {
			w.mu.Lock()
			w.connected = false
			w.reconnecting = true
			w.lastError = err
			w.mu.Unlock()

			w.logger.Warn("status feed connection failed",
				zap.String("url", w.url), zap.Duration("retry_in", delay), zap.Error(err))

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			delay *= 2
			if delay > w.maxReconnect {
				delay = w.maxReconnect
			}
			continue
		}

		delay = w.reconnect
		w.readLoop(ctx)
	}
}

func (w *Watcher) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.reconnecting = false
	w.lastError = nil
	w.mu.Unlock()

	w.logger.Info("status feed connected", zap.String("url", w.url))
	return nil
}

func (w *Watcher) readLoop(ctx context.Context) {
	w.mu.Lock()
	current := w.conn
	w.mu.Unlock()
	if current == nil {
		return
	}
	// Unblocks ReadMessage on shutdown.
	stop := context.AfterFunc(ctx, func() { current.Close() })
	defer stop()

	defer func() {
		w.mu.Lock()
		w.connected = false
		if w.conn != nil {
			w.conn.Close()
			w.conn = nil
		}
		w.mu.Unlock()
	}()

	for {
		w.mu.Lock()
		conn := w.conn
		w.mu.Unlock()
		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.logger.Warn("status feed read error", zap.Error(err))
			}
			return
		}

		var snap Snapshot
		if err := json.Unmarshal(message, &snap); err != nil {
			w.logger.Warn("invalid status message", zap.Error(err))
			continue
		}

		w.mu.Lock()
		w.gen++
		gen := w.gen
		w.lastSeen = time.Now()
		w.mu.Unlock()

		w.applier.apply(gen, snap)
	}
}
