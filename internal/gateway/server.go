// Package gateway serves a WebSocket control endpoint. A client sends
// natural-language command frames and receives progress, reply, and
// error frames while the interpreter works.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/armature/armature/internal/bus"
)

// Frame is the wire format in both directions.
//
// Client to server: {"type":"command","text":"pick up the red cube"}
// Server to client: {"type":"progress"|"reply"|"error","text":"…"}
type Frame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Server bridges WebSocket clients onto the command bus.
type Server struct {
	port     int
	bus      bus.Bus
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewServer(port int, b bus.Bus) *Server {
	return &Server{
		port: port,
		bus:  b,
		upgrader: websocket.Upgrader{
			// The gateway binds locally; clients are trusted.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// Start serves the /ws endpoint and fans interpreter replies out to every
// connected client. Blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("gateway: listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go s.broadcastReplies(ctx)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("gateway: %w", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("gateway: upgrade failed", "err", err)
		return
	}
	s.addConn(conn)
	defer s.removeConn(conn)

	slog.Info("gateway: client connected", "remote", conn.RemoteAddr())

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			slog.Info("gateway: client disconnected", "remote", conn.RemoteAddr())
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.writeFrame(conn, Frame{Type: "error", Text: "malformed frame"})
			continue
		}
		if frame.Type != "command" || frame.Text == "" {
			s.writeFrame(conn, Frame{Type: "error", Text: fmt.Sprintf("unsupported frame type %q", frame.Type)})
			continue
		}

		s.bus.PublishCommand(bus.NewCommand("gateway", frame.Text))
	}
}

// broadcastReplies forwards every interpreter reply to all connected
// clients until ctx is cancelled.
func (s *Server) broadcastReplies(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-s.bus.ReplyChan():
			frame := Frame{Type: string(r.Kind), Text: r.Text}
			s.mu.Lock()
			for conn := range s.conns {
				if err := conn.WriteJSON(frame); err != nil {
					slog.Warn("gateway: write failed, dropping client", "err", err)
					conn.Close()
					delete(s.conns, conn)
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := conn.WriteJSON(f); err != nil {
		slog.Warn("gateway: write failed", "err", err)
	}
}

func (s *Server) addConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = true
}

func (s *Server) removeConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn.Close()
	delete(s.conns, conn)
}
