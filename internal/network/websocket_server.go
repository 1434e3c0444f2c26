// Package network serves loq sessions over WebSocket.
package network

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	loqerrors "loq/internal/errors"
	"loq/internal/session"
)

// Reply is sent back for every input line.
type Reply struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// WebSocketConn is one connected client and the session it drives.
type WebSocketConn struct {
	ID   string
	Conn *websocket.Conn
	sess *session.Session
	out  bytes.Buffer
	mu   sync.Mutex
}

// WebSocketServer gives every connection its own session.
type WebSocketServer struct {
	Address  string
	Upgrader websocket.Upgrader
	Server   *http.Server
	Clients  map[string]*WebSocketConn
	opts     session.Options
	recorder session.Recorder
	mu       sync.RWMutex
}

func NewWebSocketServer(address string, opts session.Options) *WebSocketServer {
	server := &WebSocketServer{
		Address: address,
		Clients: make(map[string]*WebSocketConn),
		opts:    opts,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	server.Server = &http.Server{
		Addr:              address,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server
}

// WithRecorder journals every client's lines.
func (s *WebSocketServer) WithRecorder(r session.Recorder) *WebSocketServer {
	s.recorder = r
	return s
}

// Handler routes /repl to the WebSocket upgrade.
func (s *WebSocketServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/repl", s.handleREPL)
	return mux
}

// Serve listens until ctx is cancelled, then shuts down and disconnects clients.
func (s *WebSocketServer) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Address)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *WebSocketServer) ServeListener(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("serving loq sessions on ws://%s/repl", ln.Addr())
		if err := s.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.Server.Shutdown(shutdownCtx)
		s.disconnectAll()
		return err
	})
	return g.Wait()
}

func (s *WebSocketServer) handleREPL(w http.ResponseWriter, r *http.Request) {
	conn, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &WebSocketConn{Conn: conn}
	client.sess = session.New(&client.out, s.opts)
	if s.recorder != nil {
		client.sess.WithRecorder(s.recorder)
	}
	client.ID = client.sess.ID.String()

	s.mu.Lock()
	s.Clients[client.ID] = client
	s.mu.Unlock()
	log.Printf("client %s connected from %s", client.ID, r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.Clients, client.ID)
		s.mu.Unlock()
		conn.Close()
		log.Printf("client %s disconnected after %d lines", client.ID, client.sess.Lines())
	}()

	client.serve(r.Context())
}

func (c *WebSocketConn) serve(ctx context.Context) {
	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		line := string(message)
		if strings.TrimSpace(line) == "exit" {
			c.close(websocket.CloseNormalClosure, "bye")
			return
		}
		if err := c.write(c.eval(ctx, line)); err != nil {
			return
		}
	}
}

func (c *WebSocketConn) eval(ctx context.Context, line string) Reply {
	c.out.Reset()
	err := c.sess.Eval(ctx, line)
	reply := Reply{Output: c.out.String()}
	if err != nil {
		if le, ok := loqerrors.As(err); ok {
			reply.Error = le.Error()
		} else {
			reply.Error = err.Error()
		}
	}
	return reply
}

func (c *WebSocketConn) write(reply Reply) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(reply)
}

func (c *WebSocketConn) close(code int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
}

func (s *WebSocketServer) disconnectAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, client := range s.Clients {
		client.close(websocket.CloseGoingAway, "server shutting down")
		client.Conn.Close()
	}
}

// ClientCount reports the number of connected clients.
func (s *WebSocketServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Clients)
}
