// Package network defines the line-oriented wire protocol shared by the server and clients
package network

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Action is the tag carried by every message on the wire
type Action string

const (
	// Session messages
	ActionIdentify  Action = "Identify"
	ActionGameStart Action = "GameStart"
	ActionTurn      Action = "PlayerTurn"
	ActionGameOver  Action = "GameOver"

	// Turn actions
	ActionRoll     Action = "Roll"
	ActionMove     Action = "Move"
	ActionAskBuy   Action = "AskBuyProperty"
	ActionBuy      Action = "BuyProperty"
	ActionSkipBuy  Action = "SkipBuyProperty"
	ActionBuyAll   Action = "BuyAll"
	ActionPayRent  Action = "PayRent"
	ActionPayTax   Action = "PayTax"
	ActionGoTile   Action = "PlayerGoTile"
	ActionGoToJail Action = "GoToJail"
	ActionFreed    Action = "FreeFromJail"
	ActionBankrupt Action = "PlayerBankrupt"

	// ActionInvalid marks any tag this server does not recognize
	ActionInvalid Action = "Invalid"
)

var knownActions = map[Action]struct{}{
	ActionIdentify:  {},
	ActionGameStart: {},
	ActionTurn:      {},
	ActionGameOver:  {},
	ActionRoll:      {},
	ActionMove:      {},
	ActionAskBuy:    {},
	ActionBuy:       {},
	ActionSkipBuy:   {},
	ActionBuyAll:    {},
	ActionPayRent:   {},
	ActionPayTax:    {},
	ActionGoTile:    {},
	ActionGoToJail:  {},
	ActionFreed:     {},
	ActionBankrupt:  {},
	ActionInvalid:   {},
}

// UnmarshalJSON maps unknown tags to ActionInvalid instead of failing.
func (a *Action) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if _, ok := knownActions[Action(s)]; !ok {
		*a = ActionInvalid
		return nil
	}
	*a = Action(s)
	return nil
}

var (
	// ErrMalformedMessage is returned for input that is not a protocol message
	ErrMalformedMessage = errors.New("malformed message")
	// ErrEmptyLine is returned for a blank line
	ErrEmptyLine = errors.New("empty line")
)

// Message is one line on the wire. Data is a string and often holds JSON itself.
type Message struct {
	Action Action  `json:"action_type"`
	Data   *string `json:"data"`
}

// DiceRollData is the payload of a server Roll broadcast
type DiceRollData struct {
	Dice1 int `json:"dice1"`
	Dice2 int `json:"dice2"`
}

// PlayerIdentifyData is one entry of the GameStart roster
type PlayerIdentifyData struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BuyPropertyData is the payload of AskBuyProperty and BuyProperty
type BuyPropertyData struct {
	Position int       `json:"position"`
	Player   uuid.UUID `json:"player"`
}

// PayRentData is the payload of PayRent
type PayRentData struct {
	Rent   int       `json:"rent"`
	Owner  uuid.UUID `json:"owner"`
	Player uuid.UUID `json:"player"`
}

// AmountData is the payload of PayTax and PlayerGoTile
type AmountData struct {
	Player uuid.UUID `json:"player"`
	Amount int       `json:"amount"`
}

// NewMessage creates a message with a plain string payload
func NewMessage(action Action, data string) Message {
	return Message{Action: action, Data: &data}
}

// Bare creates a message with no payload
func Bare(action Action) Message {
	return Message{Action: action}
}

// NewPayloadMessage creates a message whose data is the JSON encoding of payload
func NewPayloadMessage(action Action, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", action, err)
	}
	return NewMessage(action, string(raw)), nil
}

// Text returns the payload or an empty string
func (m Message) Text() string {
	if m.Data == nil {
		return ""
	}
	return *m.Data
}

// DecodeData unmarshals the double-encoded payload into v
func (m Message) DecodeData(v interface{}) error {
	if m.Data == nil {
		return fmt.Errorf("%w: %s has no data", ErrMalformedMessage, m.Action)
	}
	if err := json.Unmarshal([]byte(*m.Data), v); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrMalformedMessage, m.Action, err)
	}
	return nil
}

// Encode returns the message as a newline-terminated line
func (m Message) Encode() ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Decode parses one line. Trailing whitespace, including the newline, is ignored.
func Decode(line []byte) (Message, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Message{}, ErrEmptyLine
	}
	var msg Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.Action == "" {
		return Message{}, fmt.Errorf("%w: missing action_type", ErrMalformedMessage)
	}
	return msg, nil
}
