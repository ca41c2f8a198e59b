package workshop

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jetsetgo/taller-orders/internal/catalog"
	"github.com/jetsetgo/taller-orders/internal/config"
)

func testConfig(workers int) config.WorkshopConfig {
	return config.WorkshopConfig{Workers: workers, UnitDuration: time.Millisecond, LogCapacity: 100}
}

func newTestWorkshop(t *testing.T, store Store, workers int) *Workshop {
	t.Helper()
	w := New(store, catalog.New(DefaultTasks()), testConfig(workers), zap.NewNop())
	t.Cleanup(func() {
		w.Close()
		store.Close()
	})
	return w
}

func storesUnderTest(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "taller.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestNewOrderNormalises(t *testing.T) {
	tests := []struct {
		name               string
		desc, prep, prio   string
		wantDesc           string
		wantPrep, wantPrio int
	}{
		{"valid", "Cambio de aceite", "50", "2", "Cambio de aceite", 50, 2},
		{"blank description", "   ", "10", "1", DefaultDescription, 10, 1},
		{"non numeric prep", "x", "abc", "3", "x", 1, 3},
		{"zero prep", "x", "0", "3", "x", 1, 3},
		{"priority too high", "x", "5", "9", "x", 5, PriorityHigh},
		{"priority too low", "x", "5", "-2", "x", 5, PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrder(tt.desc, tt.prep, tt.prio)
			assert.Equal(t, tt.wantDesc, o.Description)
			assert.Equal(t, tt.wantPrep, o.PrepTime)
			assert.Equal(t, tt.wantPrio, o.Priority)
			assert.Equal(t, StatusPending, o.Status)
			assert.Nil(t, o.WorkerID)
		})
	}
}

func TestStores(t *testing.T) {
	for name, open := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			a, err := s.Add(ctx, NewOrder("uno", "1", "1"))
			require.NoError(t, err)
			b, err := s.Add(ctx, NewOrder("dos", "2", "2"))
			require.NoError(t, err)
			assert.Equal(t, 1, a.ID)
			assert.Equal(t, 2, b.ID)

			worker := 2
			b.Status = StatusCompleted
			b.WorkerID = &worker
			require.NoError(t, s.Update(ctx, b))

			orders, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, orders, 2)
			assert.Equal(t, "uno", orders[0].Description)
			assert.Nil(t, orders[0].WorkerID)
			assert.Equal(t, StatusCompleted, orders[1].Status)
			require.NotNil(t, orders[1].WorkerID)
			assert.Equal(t, 2, *orders[1].WorkerID)

			assert.ErrorIs(t, s.Update(ctx, Order{ID: 99}), ErrNotFound)

			require.NoError(t, s.Reset(ctx))
			orders, err = s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, orders)

			c, err := s.Add(ctx, NewOrder("tres", "3", "3"))
			require.NoError(t, err)
			assert.Equal(t, 1, c.ID, "ids restart after reset")
		})
	}
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := OpenStore("postgres", "")
	assert.Error(t, err)
}

func TestProcessEmpty(t *testing.T) {
	w := newTestWorkshop(t, NewMemoryStore(), 3)

	require.NoError(t, w.Process(context.Background()))

	snap, err := w.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"⚠ No hay órdenes para procesar."}, snap.Logs)
	assert.Empty(t, snap.Orders)
	assert.False(t, snap.Processing)
	assert.Equal(t, "empty", w.Runs()[0].Status)
}

func TestProcessCompletesAllOrders(t *testing.T) {
	for name, open := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			w := newTestWorkshop(t, open(t), 3)

			_, err := w.AddOrder(ctx, "Lavado general", "2", "1")
			require.NoError(t, err)
			_, err = w.AddOrder(ctx, "Revisión de frenos completa", "3", "3")
			require.NoError(t, err)
			_, err = w.AddOrder(ctx, "Cambio de aceite", "1", "2")
			require.NoError(t, err)

			require.NoError(t, w.Process(ctx))

			snap, err := w.Snapshot(ctx)
			require.NoError(t, err)
			require.Len(t, snap.Orders, 3)
			for _, o := range snap.Orders {
				assert.Equal(t, StatusCompleted, o.Status)
				require.NotNil(t, o.WorkerID)
				assert.True(t, *o.WorkerID >= 1 && *o.WorkerID <= 3)
			}

			require.NotEmpty(t, snap.Logs)
			assert.Equal(t, "🔓 Ya abrieron los 3 talleres y recibieron las primeras órdenes.", snap.Logs[0])
			assert.Equal(t, "🏁 Simulación finalizada: todas las órdenes fueron atendidas.", snap.Logs[len(snap.Logs)-1])
			assert.Len(t, snap.Logs, 2+2*3)
			assert.Equal(t, "completed", w.Runs()[0].Status)
			assert.Equal(t, 3, w.Runs()[0].Orders)
		})
	}
}

func TestProcessOrderIsPriorityThenID(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkshop(t, NewMemoryStore(), 1)

	for _, in := range [][3]string{{"a", "1", "1"}, {"b", "1", "3"}, {"c", "1", "2"}, {"d", "1", "3"}} {
		_, err := w.AddOrder(ctx, in[0], in[1], in[2])
		require.NoError(t, err)
	}
	require.NoError(t, w.Process(ctx))

	snap, err := w.Snapshot(ctx)
	require.NoError(t, err)

	startLine := regexp.MustCompile(`inicia orden \d+ \((.+)\)`)
	var started []string
	for _, line := range snap.Logs {
		if m := startLine.FindStringSubmatch(line); m != nil {
			started = append(started, m[1])
		}
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, started)
}

func TestProcessRerunResetsStatuses(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkshop(t, NewMemoryStore(), 2)

	_, err := w.AddOrder(ctx, "uno", "1", "1")
	require.NoError(t, err)
	require.NoError(t, w.Process(ctx))
	require.NoError(t, w.Process(ctx))

	snap, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Logs, 4, "logs are cleared at the start of every run")
	assert.Equal(t, StatusCompleted, snap.Orders[0].Status)
	assert.Len(t, w.Runs(), 2)
}

func TestStartProcessingIgnoredWhileRunning(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	w := New(store, catalog.Empty(), config.WorkshopConfig{Workers: 1, UnitDuration: 20 * time.Millisecond}, zap.NewNop())
	t.Cleanup(w.Close)

	_, err := w.AddOrder(ctx, "lento", "10", "1")
	require.NoError(t, err)

	id, ok := w.StartProcessing()
	require.True(t, ok)
	assert.NotEmpty(t, id)
	assert.True(t, w.Processing())

	_, ok = w.StartProcessing()
	assert.False(t, ok)
	assert.ErrorIs(t, w.Process(ctx), ErrBusy)

	w.Wait()
	assert.False(t, w.Processing())

	snap, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, snap.Orders[0].Status)
}

func TestCloseCancelsRun(t *testing.T) {
	ctx := context.Background()
	w := New(NewMemoryStore(), catalog.Empty(), config.WorkshopConfig{Workers: 1, UnitDuration: time.Hour}, zap.NewNop())

	_, err := w.AddOrder(ctx, "eterna", "1", "1")
	require.NoError(t, err)
	_, ok := w.StartProcessing()
	require.True(t, ok)

	done := make(chan struct{})
	go func() {
		w.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not stop the run")
	}
	assert.False(t, w.Processing())
	assert.Equal(t, "failed", w.Runs()[0].Status)
}

func TestResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	w := newTestWorkshop(t, NewMemoryStore(), 3)

	_, err := w.AddOrder(ctx, "uno", "1", "1")
	require.NoError(t, err)
	require.NoError(t, w.Process(ctx))
	require.NoError(t, w.Reset(ctx))

	snap, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.Logs)

	o, err := w.AddOrder(ctx, "dos", "1", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, o.ID)
}

func TestResetDuringRunLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	w := New(NewMemoryStore(), catalog.Empty(), config.WorkshopConfig{Workers: 2, UnitDuration: time.Hour, LogCapacity: 100}, zap.NewNop())

	for _, d := range []string{"a", "b", "c"} {
		_, err := w.AddOrder(ctx, d, "1", "1")
		require.NoError(t, err)
	}
	_, ok := w.StartProcessing()
	require.True(t, ok)
	require.Eventually(t, func() bool {
		snap, err := w.Snapshot(ctx)
		return err == nil && len(snap.Logs) >= 3
	}, 2*time.Second, 5*time.Millisecond)

	resetCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, w.Reset(resetCtx))
	assert.False(t, w.Processing())
	assert.Equal(t, "failed", w.Runs()[0].Status)

	w.Wait()
	snap, err := w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.Logs, "no worker writes after the reset")

	o, err := w.AddOrder(ctx, "nueva", "1", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, o.ID)
	snap, err = w.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, snap.Orders[0].Status)
}

func TestSubscribeIsNotified(t *testing.T) {
	w := newTestWorkshop(t, NewMemoryStore(), 1)

	ch, unsubscribe := w.Subscribe()
	defer unsubscribe()

	_, err := w.AddOrder(context.Background(), "uno", "1", "1")
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification after AddOrder")
	}
}

func TestLogbookDropsOldest(t *testing.T) {
	lb := NewLogbook(2)
	lb.Infof("uno")
	lb.Infof("dos")
	lb.Warnf("tres")

	assert.Equal(t, []string{"dos", "tres"}, lb.Lines())
	assert.Equal(t, "warn", lb.Entries()[1].Level)

	lb.Clear()
	assert.Empty(t, lb.Lines())
}

func TestDefaultTasks(t *testing.T) {
	tasks := DefaultTasks()
	assert.Len(t, tasks, 27)

	c := catalog.New(tasks)
	task, ok := c.Lookup("  CAMBIO DE ACEITE ")
	require.True(t, ok)
	assert.Equal(t, 50, task.Time)
	assert.Equal(t, 2, task.Priority)
}
