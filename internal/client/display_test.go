package client

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monopoly/internal/network"
)

func init() {
	color.NoColor = true
}

func payload(t *testing.T, action network.Action, v interface{}) network.Message {
	t.Helper()
	msg, err := network.NewPayloadMessage(action, v)
	require.NoError(t, err)
	return msg
}

func TestStateTracksRosterAndTurn(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	s := newState("alice")

	s.Apply(network.NewMessage(network.ActionIdentify, me.String()))
	assert.Equal(t, "alice", s.Names[me])
	s.Apply(payload(t, network.ActionGameStart, []network.PlayerIdentifyData{{ID: me, Name: "alice"}, {ID: other, Name: "bob"}}))
	assert.Equal(t, me, s.Self)
	assert.Equal(t, "bob", s.Names[other])
	assert.False(t, s.MyTurn())

	s.Apply(network.NewMessage(network.ActionTurn, me.String()))
	assert.True(t, s.MyTurn())

	s.Apply(network.NewMessage(network.ActionIdentify, "not-a-uuid"))
	assert.Equal(t, me, s.Self)

	s.Apply(network.NewMessage(network.ActionTurn, "not-a-uuid"))
	assert.Equal(t, me, s.Current)

	s.Apply(network.NewMessage(network.ActionGameOver, other.String()))
	assert.True(t, s.Over)
}

func TestDescribe(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	s := newState("alice")
	s.Self = me
	s.Current = other
	s.Names[me] = "alice"
	s.Names[other] = "bob"

	tests := []struct {
		name string
		msg  network.Message
		want string
	}{
		{"identify", network.NewMessage(network.ActionIdentify, me.String()), "identified as alice"},
		{"other turn", network.NewMessage(network.ActionTurn, other.String()), "waiting for bob"},
		{"doubles", payload(t, network.ActionRoll, network.DiceRollData{Dice1: 4, Dice2: 4}), "bob rolled 4 and 4 (doubles)"},
		{"move", network.NewMessage(network.ActionMove, "12"), "bob moved to tile 12"},
		{"offer to other", payload(t, network.ActionAskBuy, network.BuyPropertyData{Position: 12, Player: other}), "bob may buy tile 12"},
		{"offer to me", payload(t, network.ActionAskBuy, network.BuyPropertyData{Position: 3, Player: me}), "tile 3 is for sale, type buy or skip"},
		{"rent", payload(t, network.ActionPayRent, network.PayRentData{Rent: 60, Owner: me, Player: other}), "bob paid 60 rent to you"},
		{"tax", payload(t, network.ActionPayTax, network.AmountData{Player: other, Amount: 200}), "bob paid 200 tax"},
		{"go", payload(t, network.ActionGoTile, network.AmountData{Player: me, Amount: 200}), "you collected 200 on Go"},
		{"jail", network.NewMessage(network.ActionGoToJail, other.String()), "bob was sent to jail"},
		{"skip", network.Bare(network.ActionSkipBuy), "bob declined to buy"},
		{"bankrupt", network.NewMessage(network.ActionBankrupt, other.String()), "bob went bankrupt"},
		{"win", network.NewMessage(network.ActionGameOver, me.String()), "you won"},
		{"lose", network.NewMessage(network.ActionGameOver, other.String()), "bob won the match"},
		{"not shown", network.Bare(network.ActionInvalid), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(s, tt.msg))
		})
	}
}

func TestPrintEventWritesTaggedLine(t *testing.T) {
	var out bytes.Buffer
	d := NewDisplay(&out)
	s := newState("")

	d.PrintEvent(s, network.NewMessage(network.ActionMove, "5"))
	assert.Contains(t, out.String(), "[Move] someone moved to tile 5")

	out.Reset()
	d.PrintEvent(s, network.Bare(network.ActionInvalid))
	assert.Empty(t, out.String())
}
