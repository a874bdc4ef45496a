package client

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"monopoly/internal/network"
)

// Display renders server events for a terminal
type Display struct {
	out io.Writer

	serverColor  *color.Color
	gameColor    *color.Color
	moneyColor   *color.Color
	jailColor    *color.Color
	winColor     *color.Color
	loseColor    *color.Color
	warningColor *color.Color
	infoColor    *color.Color
	selfColor    *color.Color
}

// NewDisplay writes to out, or to the color-aware stdout when out is nil
func NewDisplay(out io.Writer) *Display {
	if out == nil {
		out = color.Output
	}
	return &Display{
		out:          out,
		serverColor:  color.New(color.FgCyan, color.Bold),
		gameColor:    color.New(color.FgYellow, color.Bold),
		moneyColor:   color.New(color.FgGreen),
		jailColor:    color.New(color.FgRed),
		winColor:     color.New(color.FgGreen, color.Bold, color.BgBlack),
		loseColor:    color.New(color.FgRed, color.Bold, color.BgBlack),
		warningColor: color.New(color.FgYellow),
		infoColor:    color.New(color.FgWhite),
		selfColor:    color.New(color.FgCyan),
	}
}

// PrintBanner displays the game banner
func (d *Display) PrintBanner() {
	banner := `
╔═══════════════════════════════════════╗
║           MONOPOLY CLIENT             ║
╚═══════════════════════════════════════╝
`
	d.gameColor.Fprintln(d.out, banner)
}

func (d *Display) stamp(c *color.Color, tag, text string) {
	c.Fprintf(d.out, "[%s] [%s] %s\n", time.Now().Format("15:04:05"), tag, text)
}

func (d *Display) PrintServerStatus(message string) { d.stamp(d.serverColor, "SERVER", message) }

func (d *Display) PrintInfo(message string) { d.stamp(d.infoColor, "INFO", message) }

func (d *Display) PrintWarning(message string) { d.stamp(d.warningColor, "WARNING", message) }

func (d *Display) PrintError(message string) { d.stamp(d.loseColor, "ERROR", message) }

// PrintEvent renders one server message against the known roster
func (d *Display) PrintEvent(s *State, msg network.Message) {
	text := Describe(s, msg)
	if text == "" {
		return
	}

	c := d.gameColor
	switch msg.Action {
	case network.ActionPayRent, network.ActionPayTax, network.ActionGoTile, network.ActionBuy:
		c = d.moneyColor
	case network.ActionGoToJail, network.ActionFreed:
		c = d.jailColor
	case network.ActionBankrupt:
		c = d.loseColor
	case network.ActionGameOver:
		if msg.Text() == s.Self.String() {
			c = d.winColor
		} else {
			c = d.loseColor
		}
	case network.ActionTurn, network.ActionAskBuy:
		if s.Current == s.Self {
			c = d.selfColor
		}
	}
	d.stamp(c, string(msg.Action), text)
}

// Describe turns a server message into a line of prose, empty for messages not worth showing.
// It expects s to have already applied msg.
func Describe(s *State, msg network.Message) string {
	switch msg.Action {
	case network.ActionIdentify:
		return fmt.Sprintf("identified as %s", s.Names[s.Self])
	case network.ActionGameStart:
		return fmt.Sprintf("match started with %d players", len(s.Names))
	case network.ActionTurn:
		if s.Current == s.Self {
			return "your turn, type roll"
		}
		return fmt.Sprintf("waiting for %s", s.name(s.Current))
	case network.ActionRoll:
		var roll network.DiceRollData
		if err := msg.DecodeData(&roll); err != nil {
			return "dice rolled"
		}
		suffix := ""
		if roll.Dice1 == roll.Dice2 {
			suffix = " (doubles)"
		}
		return fmt.Sprintf("%s rolled %d and %d%s", s.name(s.Current), roll.Dice1, roll.Dice2, suffix)
	case network.ActionMove:
		pos, err := strconv.Atoi(msg.Text())
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%s moved to tile %d", s.name(s.Current), pos)
	case network.ActionAskBuy:
		var offer network.BuyPropertyData
		if err := msg.DecodeData(&offer); err != nil {
			return ""
		}
		if offer.Player == s.Self {
			return fmt.Sprintf("tile %d is for sale, type buy or skip", offer.Position)
		}
		return fmt.Sprintf("%s may buy tile %d", s.name(offer.Player), offer.Position)
	case network.ActionBuy:
		var bought network.BuyPropertyData
		if err := msg.DecodeData(&bought); err != nil {
			return ""
		}
		return fmt.Sprintf("%s bought tile %d", s.name(bought.Player), bought.Position)
	case network.ActionSkipBuy:
		return fmt.Sprintf("%s declined to buy", s.name(s.Current))
	case network.ActionPayRent:
		var rent network.PayRentData
		if err := msg.DecodeData(&rent); err != nil {
			return ""
		}
		return fmt.Sprintf("%s paid %d rent to %s", s.name(rent.Player), rent.Rent, s.name(rent.Owner))
	case network.ActionPayTax:
		var tax network.AmountData
		if err := msg.DecodeData(&tax); err != nil {
			return ""
		}
		return fmt.Sprintf("%s paid %d tax", s.name(tax.Player), tax.Amount)
	case network.ActionGoTile:
		var salary network.AmountData
		if err := msg.DecodeData(&salary); err != nil {
			return ""
		}
		return fmt.Sprintf("%s collected %d on Go", s.name(salary.Player), salary.Amount)
	case network.ActionGoToJail:
		return fmt.Sprintf("%s was sent to jail", s.nameOf(msg.Text()))
	case network.ActionFreed:
		return fmt.Sprintf("%s is out of jail", s.nameOf(msg.Text()))
	case network.ActionBankrupt:
		return fmt.Sprintf("%s went bankrupt", s.nameOf(msg.Text()))
	case network.ActionGameOver:
		if msg.Text() == s.Self.String() {
			return "you won"
		}
		return fmt.Sprintf("%s won the match", s.nameOf(msg.Text()))
	}
	return ""
}

// State is what the client remembers between messages
type State struct {
	Self     uuid.UUID
	SelfName string
	Current  uuid.UUID
	Names    map[uuid.UUID]string
	Over     bool
}

func newState(name string) *State {
	return &State{SelfName: name, Names: make(map[uuid.UUID]string)}
}

// Apply records the roster and turn changes carried by msg
func (s *State) Apply(msg network.Message) {
	switch msg.Action {
	case network.ActionIdentify:
		if id, err := uuid.Parse(msg.Text()); err == nil {
			s.Self = id
			s.Names[id] = s.SelfName
		}
	case network.ActionGameStart:
		var roster []network.PlayerIdentifyData
		if err := msg.DecodeData(&roster); err == nil {
			for _, p := range roster {
				s.Names[p.ID] = p.Name
			}
		}
	case network.ActionTurn:
		if id, err := uuid.Parse(msg.Text()); err == nil {
			s.Current = id
		}
	case network.ActionGameOver:
		s.Over = true
	}
}

// MyTurn reports whether the local player holds the turn
func (s *State) MyTurn() bool {
	return s.Self != uuid.Nil && s.Current == s.Self
}

func (s *State) name(id uuid.UUID) string {
	if id == s.Self && id != uuid.Nil {
		return "you"
	}
	if name, ok := s.Names[id]; ok {
		return name
	}
	return "someone"
}

func (s *State) nameOf(raw string) string {
	id, err := uuid.Parse(raw)
	if err != nil {
		return raw
	}
	return s.name(id)
}
