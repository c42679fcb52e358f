// Package web serves a live dashboard of a running benchmark sweep over HTTP
// and WebSocket.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fft-contest/bench"
)

//go:embed static/*
var staticFiles embed.FS

// ErrNotStarted is returned by Addr before Start has bound a listener.
var ErrNotStarted = errors.New("web: server not started")

// Message is the envelope of every WebSocket message.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// StatePayload describes the progress of the sweep.
type StatePayload struct {
	Engines   []string `json:"engines"`
	Precision string   `json:"precision"`
	Completed int      `json:"completed"`
	Total     int      `json:"total"`
	Done      bool     `json:"done"`
	Error     string   `json:"error,omitempty"`
}

// Server streams records to browser dashboards. It implements bench.Listener.
type Server struct {
	addr       string
	hub        *Hub
	httpServer *http.Server
	listener   net.Listener
	cancel     context.CancelFunc

	mu      sync.RWMutex
	state   StatePayload
	records []bench.Record
}

// NewServer creates a server for a sweep over total sizes. addr is a
// net.Listen address such as ":8080".
func NewServer(addr string, engines []string, precision string, total int) *Server {
	return &Server{
		addr: addr,
		hub:  NewHub(),
		state: StatePayload{
			Engines:   engines,
			Precision: precision,
			Total:     total,
		},
	}
}

// Handler returns the HTTP routes of the dashboard. The hub must be running
// for WebSocket clients to receive updates, see Start.
func (s *Server) Handler() http.Handler {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// static/ is embedded at build time
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/state", s.handleAPIState)
	mux.HandleFunc("/api/records", s.handleAPIRecords)

	return mux
}

// Start binds the listen address and serves in the background until
// Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	hubCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return hubCtx },
	}

	go s.hub.Run(hubCtx)

	go func() {
		slog.Info("Web server starting", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Web server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() (net.Addr, error) {
	if s.listener == nil {
		return nil, ErrNotStarted
	}

	return s.listener.Addr(), nil
}

// Shutdown stops the HTTP server and disconnects all clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// OnRecord stores rec and broadcasts it to all dashboards.
func (s *Server) OnRecord(rec bench.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	s.state.Completed++

	s.broadcast(Message{Type: "record", Payload: rec})
	s.broadcast(Message{Type: "state", Payload: s.state})
}

// Finish marks the sweep as complete. A non-nil err is shown on the dashboard.
func (s *Server) Finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Done = true
	if err != nil {
		s.state.Error = err.Error()
	}

	s.broadcast(Message{Type: "state", Payload: s.state})
}

func (s *Server) snapshot() (StatePayload, []bench.Record) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *Server) snapshotLocked() (StatePayload, []bench.Record) {
	records := make([]bench.Record, len(s.records))
	copy(records, s.records)

	return s.state, records
}

// attach registers c with the hub and queues the current snapshot for it.
// Broadcasts happen under s.mu, so c receives each record exactly once:
// either inside the snapshot or as a later broadcast.
func (s *Server) attach(ctx context.Context, c *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hub.join(ctx, c) {
		return false
	}

	state, records := s.snapshotLocked()
	s.send(c, Message{Type: "state", Payload: state})
	s.send(c, Message{Type: "records", Payload: records})

	return true
}

func (s *Server) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal message", "type", msg.Type, "error", err)
		return
	}
	s.hub.Broadcast(data)
}

func (s *Server) send(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal message", "type", msg.Type, "error", err)
		return
	}
	s.hub.Send(c, data)
}

// handleIndex serves the dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

//nolint:gochecknoglobals // WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true // dashboard is served locally
	},
}

// handleWebSocket registers a dashboard and sends it the current snapshot.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}

	ctx := r.Context()
	if !s.attach(ctx, client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump(ctx, s.handleClientMessage)
}

func (s *Server) sendSnapshot(c *Client) {
	state, records := s.snapshot()
	s.send(c, Message{Type: "state", Payload: state})
	s.send(c, Message{Type: "records", Payload: records})
}

// handleClientMessage answers dashboard requests.
func (s *Server) handleClientMessage(c *Client, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Error("Failed to parse WebSocket message", "error", err)
		return
	}

	switch msg.Type {
	case "replay":
		s.sendSnapshot(c)
	default:
		slog.Warn("Unknown WebSocket message", "type", msg.Type)
	}
}

// handleAPIState serves the sweep progress.
func (s *Server) handleAPIState(w http.ResponseWriter, _ *http.Request) {
	state, _ := s.snapshot()

	w.Header().Set("Content-Type", "application/json")
	//nolint:errchkjson // StatePayload is a well-defined struct
	_ = json.NewEncoder(w).Encode(state)
}

// handleAPIRecords serves every record measured so far.
func (s *Server) handleAPIRecords(w http.ResponseWriter, _ *http.Request) {
	_, records := s.snapshot()

	w.Header().Set("Content-Type", "application/json")
	//nolint:errchkjson // records are plain values
	_ = json.NewEncoder(w).Encode(records)
}
