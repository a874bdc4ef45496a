// Package client is a terminal front end for the game server
package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"monopoly/internal/network"
)

// Client owns one TCP connection to the server
type Client struct {
	serverAddr string
	conn       net.Conn
	writer     *bufio.Writer
	reader     *bufio.Scanner
	writeMu    sync.Mutex

	display *Display
	input   *InputHandler
	logger  *zap.Logger

	mu    sync.Mutex
	state *State

	closeOnce sync.Once
	done      chan struct{}
}

// NewClient wires a client to the terminal streams
func NewClient(serverAddr string, in io.Reader, out io.Writer, logger *zap.Logger) *Client {
	display := NewDisplay(out)
	return &Client{
		serverAddr: serverAddr,
		display:    display,
		input:      NewInputHandler(in, display),
		logger:     logger,
		state:      newState(""),
		done:       make(chan struct{}),
	}
}

// Start connects, identifies and runs the command loop until quit, game over or disconnect
func (c *Client) Start() error {
	c.display.PrintBanner()

	name, err := c.input.GetName()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.state.SelfName = name
	c.mu.Unlock()

	if err := c.connect(); err != nil {
		c.display.PrintError(fmt.Sprintf("Failed to connect to server: %v", err))
		return err
	}
	defer c.Close()

	if err := c.send(network.NewMessage(network.ActionIdentify, name)); err != nil {
		return fmt.Errorf("failed to identify: %w", err)
	}
	c.display.PrintInfo("Waiting for other players...")

	go c.messageHandler()
	return c.runMainLoop()
}

func (c *Client) connect() error {
	c.display.PrintInfo("Connecting to server...")
	conn, err := net.Dial("tcp", c.serverAddr)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn
	c.writer = bufio.NewWriter(conn)
	c.reader = bufio.NewScanner(conn)
	c.display.PrintServerStatus("Connected to server")
	c.logger.Info("connected", zap.String("server", c.serverAddr))
	return nil
}

func (c *Client) runMainLoop() error {
	c.input.PrintHelp()
	commands := make(chan network.Message)
	inputErr := make(chan error, 1)
	go func() {
		for {
			msg, err := c.input.Next()
			if err != nil {
				inputErr <- err
				return
			}
			select {
			case commands <- msg:
			case <-c.done:
				return
			}
		}
	}()

	for {
		select {
		case <-c.done:
			return nil
		case err := <-inputErr:
			if errors.Is(err, ErrQuit) {
				c.display.PrintInfo("Leaving the match")
				return nil
			}
			return err
		case msg := <-commands:
			c.mu.Lock()
			myTurn := c.state.MyTurn()
			c.mu.Unlock()
			if !myTurn {
				c.display.PrintWarning("It is not your turn")
				continue
			}
			if err := c.send(msg); err != nil {
				c.display.PrintError(fmt.Sprintf("Failed to send: %v", err))
				return err
			}
		}
	}
}

// messageHandler prints server events until the connection drops
func (c *Client) messageHandler() {
	defer c.Close()

	for c.reader.Scan() {
		msg, err := network.Decode(c.reader.Bytes())
		if err != nil {
			c.logger.Warn("bad message from server", zap.Error(err))
			continue
		}
		c.handle(msg)

		c.mu.Lock()
		over := c.state.Over
		c.mu.Unlock()
		if over {
			return
		}
	}
	if err := c.reader.Err(); err != nil {
		c.logger.Debug("read failed", zap.Error(err))
	}
	c.display.PrintServerStatus("Disconnected from server")
}

func (c *Client) handle(msg network.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Apply(msg)
	c.logger.Debug("server message", zap.String("action", string(msg.Action)))
	c.display.PrintEvent(c.state, msg)
}

func (c *Client) send(msg network.Message) error {
	line, err := msg.Encode()
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.writer.Write(line); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Close is safe to call more than once
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}
