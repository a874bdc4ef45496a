package network

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeIsNewlineTerminatedJSON(t *testing.T) {
	line, err := NewMessage(ActionIdentify, "alice").Encode()
	require.NoError(t, err)

	assert.Equal(t, `{"action_type":"Identify","data":"alice"}`+"\n", string(line))
}

func TestEncodeBareMessageHasNullData(t *testing.T) {
	line, err := Bare(ActionSkipBuy).Encode()
	require.NoError(t, err)

	assert.Equal(t, `{"action_type":"SkipBuyProperty","data":null}`+"\n", string(line))
}

func TestDecodeRoundTripsPayload(t *testing.T) {
	id := uuid.New()
	msg, err := NewPayloadMessage(ActionPayRent, PayRentData{Rent: 10, Owner: id, Player: id})
	require.NoError(t, err)

	line, err := msg.Encode()
	require.NoError(t, err)

	got, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, ActionPayRent, got.Action)

	var data PayRentData
	require.NoError(t, got.DecodeData(&data))
	assert.Equal(t, 10, data.Rent)
	assert.Equal(t, id, data.Owner)
}

func TestPayloadIsDoubleEncoded(t *testing.T) {
	msg, err := NewPayloadMessage(ActionRoll, DiceRollData{Dice1: 3, Dice2: 4})
	require.NoError(t, err)

	line, err := msg.Encode()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(line, &raw))
	assert.Equal(t, `{"dice1":3,"dice2":4}`, raw["data"])
}

func TestDecodeUnknownActionIsInvalid(t *testing.T) {
	msg, err := Decode([]byte(`{"action_type":"Teleport","data":null}`))
	require.NoError(t, err)

	assert.Equal(t, ActionInvalid, msg.Action)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{name: "blank", line: "  \n", want: ErrEmptyLine},
		{name: "not json", line: "roll please", want: ErrMalformedMessage},
		{name: "missing action", line: `{"data":"x"}`, want: ErrMalformedMessage},
		{name: "wrong data type", line: `{"action_type":"Roll","data":5}`, want: ErrMalformedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.line))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeDataWithoutPayload(t *testing.T) {
	var data DiceRollData
	err := Bare(ActionRoll).DecodeData(&data)

	assert.ErrorIs(t, err, ErrMalformedMessage)
	assert.Equal(t, "", Bare(ActionRoll).Text())
}
