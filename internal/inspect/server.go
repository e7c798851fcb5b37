// Package inspect serves a read-only debug view of running agents over HTTP
// and streams tree snapshots to websocket watchers.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/bt/internal/core/agent"
	"github.com/zeusync/bt/internal/core/bt/snapshot"
	"github.com/zeusync/bt/internal/core/events/bus"
	"github.com/zeusync/bt/internal/core/observability/log"
)

const writeWait = 2 * time.Second

var ErrAlreadyStarted = errors.New("inspector already started")

// AgentInfo is one row of the agent list.
type AgentInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Step   uint64 `json:"step"`
}

// AgentDetail is the full view of a single agent.
type AgentDetail struct {
	AgentInfo
	Snapshot snapshot.Snapshot `json:"snapshot"`
	History  []agent.Decision  `json:"history"`
}

// Frame is pushed to websocket watchers whenever an agent's tree changes.
type Frame struct {
	Agent       string            `json:"agent"`
	Step        uint64            `json:"step"`
	Fingerprint uint64            `json:"fingerprint"`
	Snapshot    snapshot.Snapshot `json:"snapshot"`
}

// room holds the watchers of one agent.
type room struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	last    uint64
}

type Server struct {
	manager  *agent.Manager
	logger   log.Log
	addr     string
	upgrader websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]*room
	sub   bus.Subscription
	srv   *http.Server
	ln    net.Listener
}

// NewServer creates an inspector for manager and subscribes it to the
// manager's step events. Stop cancels the subscription and Start renews it.
func NewServer(manager *agent.Manager, logger log.Log, addr string) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	s := &Server{
		manager: manager,
		logger:  logger.With(log.String("component", "inspect")),
		addr:    addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		rooms: make(map[string]*room),
	}
	s.subscribe()
	return s
}

func (s *Server) subscribe() {
	if s.sub != nil {
		return
	}
	sub, err := s.manager.Events().Subscribe(agent.EventStep, s.onStep)
	if err != nil {
		s.logger.Error("subscribe to step events failed", log.Error(err))
		return
	}
	s.sub = sub
}

// Handler returns the routes served by the inspector.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /agents", s.handleAgents)
	mux.HandleFunc("GET /agents/{id}", s.handleAgent)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return ErrAlreadyStarted
	}
	s.subscribe()

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("inspector listen %s: %w", s.addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("inspector stopped", log.Error(err))
		}
	}(s.srv)
	s.logger.Info("inspector listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr reports the bound address once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Stop shuts the HTTP server down and closes every websocket watcher.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.ln = nil, nil
	rooms := s.rooms
	s.rooms = make(map[string]*room)
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if err := s.manager.Events().Unsubscribe(sub); err != nil {
		s.logger.Warn("unsubscribe failed", log.Error(err))
	}

	for _, r := range rooms {
		r.mu.Lock()
		for conn := range r.clients {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
				time.Now().Add(writeWait))
			_ = conn.Close()
		}
		r.clients = nil
		r.mu.Unlock()
	}

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("inspector shutdown: %w", err)
	}
	return nil
}

func info(a *agent.Agent, snap snapshot.Snapshot) AgentInfo {
	out := AgentInfo{ID: a.ID(), Name: a.Name(), Status: snap.Status}
	if d, ok := a.History().Last(); ok {
		out.Step = d.Step
	}
	return out
}

func (s *Server) handleAgents(w http.ResponseWriter, _ *http.Request) {
	agents := s.manager.Agents()
	out := make([]AgentInfo, 0, len(agents))
	for _, a := range agents {
		out = append(out, info(a, a.Snapshot()))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	a, ok := s.manager.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	snap := a.Snapshot()
	s.writeJSON(w, http.StatusOK, AgentDetail{
		AgentInfo: info(a, snap),
		Snapshot:  snap,
		History:   a.History().Records(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response failed", log.Error(err))
	}
}

func (s *Server) getOrCreateRoom(id string) *room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r
	}
	r := &room{clients: make(map[*websocket.Conn]struct{})}
	s.rooms[id] = r
	return r
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("agent")
	a, ok := s.manager.Get(id)
	if !ok {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.String("agent_id", id), log.Error(err))
		return
	}
	s.logger.Info("watcher connected", log.String("agent_id", id), log.String("remote", conn.RemoteAddr().String()))

	snap := a.Snapshot()
	rm := s.getOrCreateRoom(id)
	fp := snap.Fingerprint()
	rm.mu.Lock()
	err = writeFrame(conn, Frame{Agent: id, Step: info(a, snap).Step, Fingerprint: fp, Snapshot: snap})
	if err == nil {
		rm.clients[conn] = struct{}{}
		rm.last = fp
	}
	rm.mu.Unlock()
	if err != nil {
		s.logger.Warn("initial frame failed", log.String("agent_id", id), log.Error(err))
		_ = conn.Close()
		return
	}

	// Watchers never send anything; reading only detects the close.
	go func() {
		defer s.drop(rm, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) drop(rm *room, conn *websocket.Conn) {
	rm.mu.Lock()
	_, ok := rm.clients[conn]
	delete(rm.clients, conn)
	rm.mu.Unlock()
	if ok {
		s.logger.Info("watcher disconnected", log.String("remote", conn.RemoteAddr().String()))
	}
	_ = conn.Close()
}

// onStep pushes a frame to the agent's watchers when the snapshot changed.
func (s *Server) onStep(e bus.Event) error {
	ev, ok := e.Data().(agent.StepEvent)
	if !ok || ev.Err != nil {
		return nil
	}
	a, res := ev.Agent, ev.Result
	s.mu.Lock()
	rm, ok := s.rooms[a.ID()]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	snap := a.Snapshot()
	fp := snap.Fingerprint()

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if fp == rm.last || len(rm.clients) == 0 {
		rm.last = fp
		return nil
	}
	rm.last = fp
	frame := Frame{Agent: a.ID(), Step: res.Step, Fingerprint: fp, Snapshot: snap}
	for conn := range rm.clients {
		if err := writeFrame(conn, frame); err != nil {
			s.logger.Warn("push frame failed", log.String("agent_id", a.ID()), log.Error(err))
			delete(rm.clients, conn)
			_ = conn.Close()
		}
	}
	return nil
}

func writeFrame(conn *websocket.Conn, f Frame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(f)
}
