package workshop

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jetsetgo/taller-orders/internal/catalog"
	"github.com/jetsetgo/taller-orders/internal/config"
)

// ErrBusy is returned when a processing run is already in flight.
var ErrBusy = errors.New("processing already in progress")

// Snapshot is the state served by the status endpoint.
type Snapshot struct {
	Processing bool     `json:"processing"`
	Orders     []Order  `json:"orders"`
	Logs       []string `json:"logs"`
}

// Workshop owns the orders and runs the processing simulation.
type Workshop struct {
	store   Store
	tasks   *catalog.Catalog
	logbook *Logbook
	runs    *RunHistory
	workers int
	unit    time.Duration
	logger  *zap.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	mu         sync.Mutex
	processing bool
	runCancel  context.CancelFunc
	runDone    chan struct{}
	runWG      sync.WaitGroup

	subsMu sync.Mutex
	subs   map[chan struct{}]struct{}
}

// New creates a workshop over store, offering tasks as form suggestions.
func New(store Store, tasks *catalog.Catalog, cfg config.WorkshopConfig, logger *zap.Logger) *Workshop {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Workshop{
		store:   store,
		tasks:   tasks,
		logbook: NewLogbook(cfg.LogCapacity),
		runs:    NewRunHistory(50),
		workers: workers,
		unit:    cfg.UnitDuration,
		logger:  logger,
		baseCtx: ctx,
		cancel:  cancel,
		subs:    make(map[chan struct{}]struct{}),
	}
}

// Tasks returns the suggestion catalog.
func (w *Workshop) Tasks() *catalog.Catalog {
	return w.tasks
}

// Runs returns the processing history, newest first.
func (w *Workshop) Runs() []RunRecord {
	return w.runs.Entries()
}

// AddOrder normalises the raw form values and stores a pending order.
func (w *Workshop) AddOrder(ctx context.Context, description, prepTime, priority string) (Order, error) {
	o, err := w.store.Add(ctx, NewOrder(description, prepTime, priority))
	if err != nil {
		return Order{}, fmt.Errorf("add order: %w", err)
	}
	w.logger.Info("order added",
		zap.Int("id", o.ID), zap.String("description", o.Description),
		zap.Int("prep_time", o.PrepTime), zap.Int("priority", o.Priority))
	w.notify()
	return o, nil
}

// Reset removes every order and log line and restarts ids at 1. A run in
// flight is cancelled and has finished before anything is cleared.
func (w *Workshop) Reset(ctx context.Context) error {
	w.mu.Lock()
	for w.processing {
		cancel, done := w.runCancel, w.runDone
		w.mu.Unlock()
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		w.mu.Lock()
	}
	err := w.store.Reset(ctx)
	if err == nil {
		w.logbook.Clear()
	}
	w.mu.Unlock()
	if err != nil {
		return fmt.Errorf("reset orders: %w", err)
	}

	w.logger.Info("workshop reset")
	w.notify()
	return nil
}

// Processing reports whether a run is in flight.
func (w *Workshop) Processing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.processing
}

// Snapshot returns the current orders and log lines.
func (w *Workshop) Snapshot(ctx context.Context) (Snapshot, error) {
	orders, err := w.store.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return Snapshot{
		Processing: w.Processing(),
		Orders:     orders,
		Logs:       w.logbook.Lines(),
	}, nil
}

// StartProcessing launches a run in the background and returns its id. It
// returns false when a run is already in flight.
func (w *Workshop) StartProcessing() (string, bool) {
	ctx, runID, ok := w.begin(w.baseCtx)
	if !ok {
		return "", false
	}

	w.runWG.Add(1)
	go func() {
		defer w.runWG.Done()
		if err := w.run(ctx, runID); err != nil {
			w.logger.Error("processing run failed", zap.String("run_id", runID), zap.Error(err))
		}
	}()
	return runID, true
}

// Process runs synchronously. It fails with ErrBusy when a run is in flight.
func (w *Workshop) Process(ctx context.Context) error {
	ctx, runID, ok := w.begin(ctx)
	if !ok {
		return ErrBusy
	}
	return w.run(ctx, runID)
}

// Wait blocks until background runs finish.
func (w *Workshop) Wait() {
	w.runWG.Wait()
}

// Close stops background runs and waits for them.
func (w *Workshop) Close() {
	w.cancel()
	w.runWG.Wait()
}

// Subscribe returns a channel signalled after every state change, and a
// function that cancels the subscription.
func (w *Workshop) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	w.subsMu.Lock()
	w.subs[ch] = struct{}{}
	w.subsMu.Unlock()

	return ch, func() {
		w.subsMu.Lock()
		delete(w.subs, ch)
		w.subsMu.Unlock()
	}
}

func (w *Workshop) notify() {
	w.subsMu.Lock()
	defer w.subsMu.Unlock()
	for ch := range w.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// begin claims the single run slot and returns the run's context, which Reset
// cancels.
func (w *Workshop) begin(parent context.Context) (context.Context, string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.processing {
		return nil, "", false
	}
	ctx, cancel := context.WithCancel(parent)
	w.processing = true
	w.runCancel = cancel
	w.runDone = make(chan struct{})
	return ctx, uuid.NewString(), true
}

func (w *Workshop) end() {
	w.mu.Lock()
	w.processing = false
	w.runCancel()
	close(w.runDone)
	w.runCancel, w.runDone = nil, nil
	w.mu.Unlock()
	w.notify()
}

// run resets every order to pending and hands them to the workers by priority,
// highest first, then by arrival.
func (w *Workshop) run(ctx context.Context, runID string) error {
	defer w.end()

	logger := w.logger.With(zap.String("run_id", runID))
	w.runs.Add(RunRecord{ID: runID, Workers: w.workers, Status: "running", StartedAt: time.Now()})

	w.logbook.Clear()
	orders, err := w.store.List(ctx)
	if err != nil {
		w.runs.Finish(runID, "failed", 0, err.Error())
		return fmt.Errorf("list orders: %w", err)
	}
	for i := range orders {
		orders[i].Status = StatusPending
		orders[i].WorkerID = nil
		if err := w.store.Update(ctx, orders[i]); err != nil {
			w.runs.Finish(runID, "failed", 0, err.Error())
			return fmt.Errorf("reset order %d: %w", orders[i].ID, err)
		}
	}
	w.notify()

	if len(orders) == 0 {
		w.logbook.Warnf("⚠ No hay órdenes para procesar.")
		w.runs.Finish(runID, "empty", 0, "")
		logger.Info("nothing to process")
		return nil
	}

	w.logbook.Infof("🔓 Ya abrieron los %d talleres y recibieron las primeras órdenes.", w.workers)
	logger.Info("processing started", zap.Int("orders", len(orders)), zap.Int("workers", w.workers))

	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Priority != orders[j].Priority {
			return orders[i].Priority > orders[j].Priority
		}
		return orders[i].ID < orders[j].ID
	})

	queue := make(chan Order, len(orders))
	for _, o := range orders {
		queue <- o
	}
	close(queue)

	var wg sync.WaitGroup
	for workerID := 1; workerID <= w.workers; workerID++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for o := range queue {
				if err := w.processOrder(ctx, workerID, o); err != nil {
					logger.Warn("order not completed", zap.Int("order_id", o.ID), zap.Int("worker", workerID), zap.Error(err))
				}
			}
		}(workerID)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		w.runs.Finish(runID, "failed", len(orders), err.Error())
		return err
	}

	w.logbook.Infof("🏁 Simulación finalizada: todas las órdenes fueron atendidas.")
	w.runs.Finish(runID, "completed", len(orders), "")
	logger.Info("processing finished", zap.Int("orders", len(orders)))
	return nil
}

func (w *Workshop) processOrder(ctx context.Context, workerID int, o Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o.Status = StatusInProgress
	if err := w.store.Update(ctx, o); err != nil {
		return err
	}
	w.logbook.Infof("🚗 Taller %d inicia orden %d (%s) – tiempo lógico %d.", workerID, o.ID, o.Description, o.PrepTime)
	w.notify()

	if err := w.work(ctx, o.PrepTime); err != nil {
		return err
	}

	o.Status = StatusCompleted
	o.WorkerID = &workerID
	if err := w.store.Update(ctx, o); err != nil {
		return err
	}
	w.logbook.Infof("✅ Taller %d finaliza orden %d (%s).", workerID, o.ID, o.Description)
	w.notify()
	return nil
}

// work simulates units of effort; the order only completes after the last one.
func (w *Workshop) work(ctx context.Context, units int) error {
	if w.unit <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(units) * w.unit)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
