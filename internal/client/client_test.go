package client

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"monopoly/internal/network"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeMessage(t *testing.T, w io.Writer, msg network.Message) {
	t.Helper()
	line, err := msg.Encode()
	require.NoError(t, err)
	_, err = w.Write(line)
	require.NoError(t, err)
}

func readMessage(t *testing.T, conn net.Conn, r *bufio.Scanner) network.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.True(t, r.Scan(), "server side read failed: %v", r.Err())
	msg, err := network.Decode(r.Bytes())
	require.NoError(t, err)
	return msg
}

func TestClientPlaysTurnUntilGameOver(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	stdin, typed := io.Pipe()
	defer typed.Close()
	out := &lockedBuffer{}
	c := NewClient(ln.Addr().String(), stdin, out, zaptest.NewLogger(t))

	finished := make(chan error, 1)
	go func() { finished <- c.Start() }()
	_, err = io.WriteString(typed, "alice\n")
	require.NoError(t, err)

	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()
	reader := bufio.NewScanner(conn)

	hello := readMessage(t, conn, reader)
	assert.Equal(t, network.ActionIdentify, hello.Action)
	assert.Equal(t, "alice", hello.Text())

	me, other := uuid.New(), uuid.New()
	writeMessage(t, conn, network.NewMessage(network.ActionIdentify, me.String()))
	writeMessage(t, conn, payloadMust(network.ActionGameStart, []network.PlayerIdentifyData{{ID: me, Name: "alice"}, {ID: other, Name: "bob"}}))
	writeMessage(t, conn, network.NewMessage(network.ActionTurn, me.String()))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "your turn")
	}, 5*time.Second, 10*time.Millisecond)

	_, err = io.WriteString(typed, "roll\n")
	require.NoError(t, err)
	assert.Equal(t, network.ActionRoll, readMessage(t, conn, reader).Action)

	writeMessage(t, conn, network.NewMessage(network.ActionGameOver, me.String()))

	select {
	case err := <-finished:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop after game over")
	}
	assert.Contains(t, out.String(), "identified as alice")
	assert.Contains(t, out.String(), "you won")
}

func payloadMust(action network.Action, v interface{}) network.Message {
	msg, err := network.NewPayloadMessage(action, v)
	if err != nil {
		panic(err)
	}
	return msg
}
