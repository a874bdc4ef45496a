package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"monopoly/internal/game"
	"monopoly/internal/network"
)

const maxNameLength = 32

var (
	// ErrIdentifyRequired means the first line was not an Identify message
	ErrIdentifyRequired = errors.New("first message must be Identify")
	// ErrInvalidName means the Identify name was empty or too long
	ErrInvalidName = errors.New("invalid player name")
)

// lineConn is one framed client connection, TCP or WebSocket.
// ReadLine is only called from the read loop and WriteLine only from the write loop.
type lineConn interface {
	ReadLine() ([]byte, error)
	WriteLine(line []byte) error
	Close() error
	RemoteAddr() string
}

type tcpConn struct {
	conn    net.Conn
	scanner *bufio.Scanner
	writer  *bufio.Writer
}

func newTCPConn(conn net.Conn, maxLineBytes int) *tcpConn {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &tcpConn{
		conn:    conn,
		scanner: scanner,
		writer:  bufio.NewWriter(conn),
	}
}

func (c *tcpConn) ReadLine() ([]byte, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	line := make([]byte, len(c.scanner.Bytes()))
	copy(line, c.scanner.Bytes())
	return line, nil
}

func (c *tcpConn) WriteLine(line []byte) error {
	if _, err := c.writer.Write(line); err != nil {
		return err
	}
	return c.writer.Flush()
}

func (c *tcpConn) Close() error { return c.conn.Close() }

func (c *tcpConn) RemoteAddr() string { return c.conn.RemoteAddr().String() }

// serveConn runs one client from handshake to cleanup
func (s *Server) serveConn(ctx context.Context, conn lineConn) {
	logger := s.logger.With(zap.String("remote_addr", conn.RemoteAddr()))
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	player, err := s.identify(conn)
	if err != nil {
		logger.Warn("connection rejected", zap.Error(err))
		return
	}
	logger = logger.With(zap.String("player_id", player.ID.String()), zap.String("name", player.Name))
	logger.Info("player identified")

	// closed before removal so a concurrent requeue cannot put it back in the waiting room
	defer func() {
		player.Close()
		s.registry.Remove(player.ID)
	}()

	line, err := network.NewMessage(network.ActionIdentify, player.ID.String()).Encode()
	if err == nil {
		err = player.Send(line)
	}
	if err != nil {
		logger.Error("failed to send identify reply", zap.Error(err))
		return
	}
	s.registry.Enqueue(player)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readLoop(conn, player, logger) })
	g.Go(func() error { return writeLoop(gctx, conn, player) })
	g.Go(func() error {
		<-gctx.Done()
		conn.Close()
		return nil
	})

	err = g.Wait()
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), errors.Is(err, context.Canceled):
		logger.Info("player disconnected")
	case errors.Is(err, game.ErrSlowConsumer):
		logger.Warn("player dropped for falling behind")
	default:
		logger.Warn("player disconnected with error", zap.Error(err))
	}
}

func (s *Server) identify(conn lineConn) (*game.Player, error) {
	line, err := conn.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("read identify: %w", err)
	}
	msg, err := network.Decode(line)
	if err != nil {
		return nil, err
	}
	if msg.Action != network.ActionIdentify {
		return nil, fmt.Errorf("%w: got %s", ErrIdentifyRequired, msg.Action)
	}
	name := strings.TrimSpace(msg.Text())
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return game.NewPlayer(name, s.cfg.Game.StartingMoney, s.cfg.Server.OutboundQueueSize), nil
}

func (s *Server) readLoop(conn lineConn, player *game.Player, logger *zap.Logger) error {
	for {
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		msg, err := network.Decode(line)
		if errors.Is(err, network.ErrEmptyLine) {
			continue
		}
		if err != nil {
			return err
		}
		if msg.Action == network.ActionIdentify {
			logger.Debug("ignoring repeated identify")
			continue
		}

		err = s.registry.Dispatch(player, msg)
		switch {
		case err == nil:
		case errors.Is(err, game.ErrUnknownPlayer):
			logger.Error("action from player missing in own match", zap.Error(err))
		default:
			logger.Debug("action rejected", zap.String("action", string(msg.Action)), zap.Error(err))
		}
	}
}

func writeLoop(ctx context.Context, conn lineConn, player *game.Player) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-player.Done():
			return game.ErrSlowConsumer
		case line := <-player.Outbound():
			if err := conn.WriteLine(line); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}
