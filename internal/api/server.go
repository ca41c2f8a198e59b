// Package api serves the workshop page, its form endpoints and the status feed
// the panel polls or subscribes to.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jetsetgo/taller-orders/internal/config"
	"github.com/jetsetgo/taller-orders/internal/workshop"
)

const wsWriteWait = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	workshop *workshop.Workshop
	logger   *zap.Logger
	router   chi.Router
	upgrader websocket.Upgrader

	httpServer *http.Server
	closeOnce  sync.Once
	done       chan struct{}
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, ws *workshop.Workshop, logger *zap.Logger) *Server {
	s := &Server{
		config:   cfg,
		workshop: ws,
		logger:   logger,
		router:   chi.NewRouter(),
		done:     make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)

	s.router.Get("/health", s.handleHealth)

	// Page
	s.router.Get("/", s.handleUI)
	s.router.Get("/static/panel.js", s.handlePanelJS)

	// Forms
	s.router.Post("/add-order", s.handleAddOrder)
	s.router.Post("/process-orders", s.handleProcessOrders)
	s.router.Post("/reset", s.handleReset)

	// Status
	s.router.Get("/estado-json", s.handleStatus)
	s.router.Get("/estado-ws", s.handleStatusWS)
	s.router.Get("/runs", s.handleRuns)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes status subscriptions and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.done) })
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// the panel polls every second
		if r.URL.Path == "/estado-json" && ww.Status() == http.StatusOK {
			return
		}
		s.logger.Debug("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// handleUI renders the page with the current orders and log
func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	snap, err := s.workshop.Snapshot(r.Context())
	if err != nil {
		s.fail(w, "load page", err)
		return
	}

	data := pageData{
		Tasks:        s.workshop.Tasks(),
		Logs:         snap.Logs,
		Processing:   snap.Processing,
		AllCompleted: true,
	}
	for _, o := range snap.Orders {
		worker := ""
		if o.WorkerID != nil {
			worker = strconv.Itoa(*o.WorkerID)
		}
		if o.Status != workshop.StatusCompleted {
			data.AllCompleted = false
		}
		data.Orders = append(data.Orders, orderRow{
			ID:          o.ID,
			Description: o.Description,
			PrepTime:    o.PrepTime,
			Priority:    o.Priority,
			Worker:      worker,
			Status:      string(o.Status),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

func (s *Server) handlePanelJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write([]byte(panelJS))
}

// handleAddOrder stores the submitted order. Fields are normalised, never
// rejected.
func (s *Server) handleAddOrder(w http.ResponseWriter, r *http.Request) {
	_, err := s.workshop.AddOrder(r.Context(),
		r.FormValue("description"),
		r.FormValue("prep_time"),
		r.FormValue("priority"))
	if err != nil {
		s.fail(w, "add order", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleProcessOrders starts a run in the background and returns at once.
func (s *Server) handleProcessOrders(w http.ResponseWriter, r *http.Request) {
	if runID, ok := s.workshop.StartProcessing(); ok {
		s.logger.Info("processing requested", zap.String("run_id", runID))
	} else {
		s.logger.Info("processing already running, request ignored")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.workshop.Reset(r.Context()); err != nil {
		s.fail(w, "reset", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleStatus returns the processing flag, orders and log lines
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.workshop.Snapshot(r.Context())
	if err != nil {
		s.fail(w, "status", err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, snap)
}

// handleRuns lists recent processing runs
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs": s.workshop.Runs(),
	})
}

// handleStatusWS pushes a snapshot on connect and after every change.
func (s *Server) handleStatusWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	changes, unsubscribe := s.workshop.Subscribe()
	defer unsubscribe()

	// Drain client frames so close and ping are handled.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	logger := s.logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))
	logger.Debug("status subscriber connected")

	push := func() bool {
		snap, err := s.workshop.Snapshot(r.Context())
		if err != nil {
			logger.Error("status snapshot failed", zap.Error(err))
			return false
		}
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(snap); err != nil {
			logger.Debug("status push failed", zap.Error(err))
			return false
		}
		return true
	}

	if !push() {
		return
	}
	for {
		select {
		case <-changes:
			if !push() {
				return
			}
		case <-closed:
			logger.Debug("status subscriber disconnected")
			return
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			return
		}
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
