package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsConn carries one protocol line per text frame
type wsConn struct {
	conn *websocket.Conn
}

func newWSConn(conn *websocket.Conn, maxLineBytes int) *wsConn {
	conn.SetReadLimit(int64(maxLineBytes))
	return &wsConn{conn: conn}
}

func (c *wsConn) ReadLine() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
			return nil, io.EOF
		}
		return nil, err
	}
	return data, nil
}

func (c *wsConn) WriteLine(line []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, bytes.TrimSuffix(line, []byte("\n")))
}

func (c *wsConn) Close() error { return c.conn.Close() }

func (c *wsConn) RemoteAddr() string { return c.conn.RemoteAddr().String() }

// listenWebSocket is called from Listen with s.mu held
func (s *Server) listenWebSocket() error {
	ws := s.cfg.Server.WebSocket
	ln, err := net.Listen("tcp", ws.Address)
	if err != nil {
		return fmt.Errorf("failed to start websocket listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(ws.Path, s.handleWebSocket)
	hs := &http.Server{Handler: mux}
	s.httpSrv = hs
	s.wsAddr = ln.Addr()
	s.logger.Info("websocket listening", zap.String("address", ln.Addr().String()), zap.String("path", ws.Path))

	go func() {
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("websocket server failed", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.track() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.conns.Done()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	s.serveConn(s.ctx, newWSConn(conn, s.cfg.Server.MaxLineBytes))
}
