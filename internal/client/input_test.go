package client

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monopoly/internal/network"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  network.Action
	}{
		{"roll", network.ActionRoll},
		{" R ", network.ActionRoll},
		{"buy", network.ActionBuy},
		{"skip", network.ActionSkipBuy},
		{"n", network.ActionSkipBuy},
		{"buyall", network.ActionBuyAll},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			msg, err := ParseCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg.Action)
			assert.Nil(t, msg.Data)
		})
	}

	_, err := ParseCommand("quit")
	assert.ErrorIs(t, err, ErrQuit)
	_, err = ParseCommand("dance")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestNextSkipsUnknownInput(t *testing.T) {
	var out bytes.Buffer
	ih := NewInputHandler(strings.NewReader("\ndance\nhelp\nbuy\n"), NewDisplay(&out))

	msg, err := ih.Next()
	require.NoError(t, err)
	assert.Equal(t, network.ActionBuy, msg.Action)
	assert.Contains(t, out.String(), `unknown command "dance"`)
	assert.Contains(t, out.String(), "commands:")

	_, err = ih.Next()
	assert.ErrorIs(t, err, ErrQuit)
}

func TestGetNameRejectsBlank(t *testing.T) {
	var out bytes.Buffer
	ih := NewInputHandler(strings.NewReader("   \nalice\n"), NewDisplay(&out))

	name, err := ih.GetName()
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
	assert.Contains(t, out.String(), "Name cannot be empty")
}
