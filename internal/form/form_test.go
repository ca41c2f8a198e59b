package form

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFieldsValid(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   bool
	}{
		{"complete", Fields{Description: "Wash dishes", PrepTime: "5", Priority: "2"}, true},
		{"padded time", Fields{Description: "Wash dishes", PrepTime: " 5 ", Priority: "2"}, true},
		{"empty description", Fields{Description: "", PrepTime: "5", Priority: "2"}, false},
		{"blank description", Fields{Description: "   ", PrepTime: "5", Priority: "2"}, false},
		{"zero time", Fields{Description: "Wash dishes", PrepTime: "0", Priority: "2"}, false},
		{"negative time", Fields{Description: "Wash dishes", PrepTime: "-3", Priority: "2"}, false},
		{"non-numeric time", Fields{Description: "Wash dishes", PrepTime: "abc", Priority: "2"}, false},
		{"fractional time", Fields{Description: "Wash dishes", PrepTime: "1.5", Priority: "2"}, false},
		{"no priority", Fields{Description: "Wash dishes", PrepTime: "5", Priority: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fields.Valid())
		})
	}
}

type recordingAlerter struct {
	messages []string
}

func (a *recordingAlerter) Alert(message string) {
	a.messages = append(a.messages, message)
}

type fakeSubmitter struct {
	mu       sync.Mutex
	calls    []string
	addErr   error
	addDelay time.Duration
}

func (s *fakeSubmitter) AddOrder(ctx context.Context, f Fields) error {
	time.Sleep(s.addDelay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "add:"+f.Description)
	return s.addErr
}

func (s *fakeSubmitter) ProcessOrders(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "process")
	return nil
}

func TestSubmitAddInvalidAlertsOnce(t *testing.T) {
	sub := &fakeSubmitter{}
	alerts := &recordingAlerter{}
	c := NewCoordinator(sub, alerts, zap.NewNop())

	err := c.SubmitAdd(context.Background(), Fields{Description: "x", PrepTime: "0"})

	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, []string{RequiredMessage}, alerts.messages)
	assert.Empty(t, sub.calls)
}

func TestSubmitAddValid(t *testing.T) {
	sub := &fakeSubmitter{}
	alerts := &recordingAlerter{}
	c := NewCoordinator(sub, alerts, zap.NewNop())

	err := c.SubmitAdd(context.Background(), Fields{Description: "Lavado", PrepTime: "40", Priority: "1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"add:Lavado"}, sub.calls)
	assert.Empty(t, alerts.messages)
}

func TestSubmitProcessBlockedWithoutOrders(t *testing.T) {
	sub := &fakeSubmitter{}
	alerts := &recordingAlerter{}
	c := NewCoordinator(sub, alerts, zap.NewNop())

	err := c.SubmitProcess(context.Background(), Fields{}, 0)

	assert.ErrorIs(t, err, ErrNoOrders)
	assert.Equal(t, []string{NoOrdersMessage}, alerts.messages)
	assert.Empty(t, sub.calls, "no request is issued")
}

func TestSubmitProcessWithRowsAndEmptyForm(t *testing.T) {
	sub := &fakeSubmitter{}
	c := NewCoordinator(sub, &recordingAlerter{}, zap.NewNop())

	require.NoError(t, c.SubmitProcess(context.Background(), Fields{}, 2))
	assert.Equal(t, []string{"process"}, sub.calls)
}

func TestSubmitProcessSavesPendingOrderFirst(t *testing.T) {
	sub := &fakeSubmitter{addDelay: 20 * time.Millisecond}
	c := NewCoordinator(sub, &recordingAlerter{}, zap.NewNop())

	f := Fields{Description: "Cambio de aceite", PrepTime: "50", Priority: "2"}
	require.NoError(t, c.SubmitProcess(context.Background(), f, 0))
	assert.Equal(t, []string{"add:Cambio de aceite", "process"}, sub.calls)
}

func TestSubmitProcessAbortsWhenPreSubmitFails(t *testing.T) {
	sub := &fakeSubmitter{addErr: errors.New("boom")}
	alerts := &recordingAlerter{}
	c := NewCoordinator(sub, alerts, zap.NewNop())

	f := Fields{Description: "Cambio de aceite", PrepTime: "50", Priority: "2"}
	err := c.SubmitProcess(context.Background(), f, 3)

	assert.ErrorIs(t, err, ErrPreSubmit)
	assert.Equal(t, []string{PreSubmitMessage}, alerts.messages)
	assert.Equal(t, []string{"add:Cambio de aceite"}, sub.calls, "process never fires")
}

func TestAllCompleted(t *testing.T) {
	assert.True(t, AllCompleted([]string{"Completada", "COMPLETADA", "completada"}))
	assert.False(t, AllCompleted([]string{"Completada", "En proceso"}))
	assert.False(t, AllCompleted([]string{"Pendiente"}))
	assert.True(t, AllCompleted(nil))

	assert.False(t, RefreshVisible([]string{" completada "}))
	assert.True(t, RefreshVisible([]string{"Completada", "Pendiente"}))
}

func TestClientPostsForm(t *testing.T) {
	var got url.Values
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/add-order" {
			assert.NoError(t, r.ParseForm())
			got = r.PostForm
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "/add-order", "/process-orders", 0)

	f := Fields{Description: "Lavado general", PrepTime: "40", Priority: "1"}
	require.NoError(t, c.AddOrder(context.Background(), f))
	require.NoError(t, c.ProcessOrders(context.Background()))

	assert.Equal(t, "Lavado general", got.Get(FieldDescription))
	assert.Equal(t, "40", got.Get(FieldPrepTime))
	assert.Equal(t, "1", got.Get(FieldPriority))
	assert.Equal(t, []string{"POST /add-order", "POST /process-orders"}, paths)
}

func TestClientFollowsRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/add-order" {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		_, _ = io.WriteString(w, "<html></html>")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "/add-order", "/process-orders", time.Second)
	assert.NoError(t, c.AddOrder(context.Background(), Fields{Description: "x", PrepTime: "1", Priority: "1"}))
}

func TestClientNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "/add-order", "/process-orders", 0)
	err := c.AddOrder(context.Background(), Fields{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, "/add-order", "/process-orders", 0)
	assert.Error(t, c.AddOrder(context.Background(), Fields{}))
}
