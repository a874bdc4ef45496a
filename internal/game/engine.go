package game

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"monopoly/internal/network"
)

var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrPurchasePending   = errors.New("purchase decision pending")
	ErrNoPendingPurchase = errors.New("no purchase decision pending")
	ErrMatchOver         = errors.New("match is over")
	ErrUnknownPlayer     = errors.New("player not in match")
	ErrDebugDisabled     = errors.New("debug actions disabled")
	ErrUnsupportedAction = errors.New("unsupported action")
)

// Handle applies one inbound action from playerID.
// Rejected actions return an error and leave the match untouched.
func (m *Match) Handle(playerID uuid.UUID, msg network.Message) error {
	if !m.Active {
		return ErrMatchOver
	}
	idx := m.indexOf(playerID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if idx != m.PlayerTurn {
		return ErrNotYourTurn
	}

	switch msg.Action {
	case network.ActionRoll:
		if m.Phase == PhaseAwaitingPurchase {
			return ErrPurchasePending
		}
		m.roll()
	case network.ActionBuy:
		if m.Phase != PhaseAwaitingPurchase {
			return ErrNoPendingPurchase
		}
		m.buy()
	case network.ActionSkipBuy:
		if m.Phase != PhaseAwaitingPurchase {
			return ErrNoPendingPurchase
		}
		m.skip()
	case network.ActionBuyAll:
		if !m.rules.DebugActions {
			return ErrDebugDisabled
		}
		m.buyAll()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedAction, msg.Action)
	}
	return nil
}

func (m *Match) roll() {
	p := m.Current()
	d1, d2 := m.dice.Roll()
	sum := d1 + d2

	if p.InJail {
		if d1 != d2 {
			p.JailTurns--
			if p.JailTurns <= 0 {
				// announced even though the player does not move this turn
				m.release(p)
			} else {
				m.logger.Debug("still in jail", zap.String("player_id", p.ID.String()), zap.Int("jail_turns", p.JailTurns))
			}
			m.advanceTurn()
			return
		}
		m.release(p)
	}

	p.Position = (p.Position + sum) % len(m.Board)
	m.lastRoll = sum
	m.logger.Debug("player moved",
		zap.String("player_id", p.ID.String()),
		zap.Int("dice1", d1),
		zap.Int("dice2", d2),
		zap.Int("position", p.Position),
	)
	m.broadcastPayload(network.ActionRoll, network.DiceRollData{Dice1: d1, Dice2: d2})
	m.broadcast(network.NewMessage(network.ActionMove, strconv.Itoa(p.Position)))

	m.resolveTile(p)
}

func (m *Match) release(p *Player) {
	p.InJail = false
	p.JailTurns = 0
	m.broadcast(network.NewMessage(network.ActionFreed, p.ID.String()))
}

// resolveTile applies the effect of the tile p landed on
func (m *Match) resolveTile(p *Player) {
	tile := m.Board[p.Position]
	if o, ok := tile.(Ownable); ok {
		m.resolveOwnable(p, o)
		return
	}

	switch t := tile.(type) {
	case *Go:
		p.Money += t.Amount
		m.broadcastPayload(network.ActionGoTile, network.AmountData{Player: p.ID, Amount: t.Amount})
	case *GoToJail:
		jail, ok := m.Board.JailIndex()
		if !ok {
			m.logger.Error("board has no jail", zap.Int("position", p.Position))
			break
		}
		p.Position = jail
		p.InJail = true
		p.JailTurns = m.rules.JailTurns
		m.broadcast(network.NewMessage(network.ActionGoToJail, p.ID.String()))
	case *Tax:
		if p.Money < t.Price {
			m.bankrupt(p)
			return
		}
		p.Money -= t.Price
		m.broadcastPayload(network.ActionPayTax, network.AmountData{Player: p.ID, Amount: t.Price})
	}
	m.advanceTurn()
}

func (m *Match) resolveOwnable(p *Player, o Ownable) {
	owner := o.Holder()
	switch {
	case owner == uuid.Nil:
		if p.Money >= o.Price() {
			m.Phase = PhaseAwaitingPurchase
			m.pendingPosition = p.Position
			m.broadcastPayload(network.ActionAskBuy, network.BuyPropertyData{Position: p.Position, Player: p.ID})
			return
		}
	case owner == p.ID:
	default:
		landlord := m.Player(owner)
		if landlord == nil {
			m.logger.Error("tile owner not in match",
				zap.String("owner_id", owner.String()),
				zap.Int("position", p.Position),
			)
			break
		}
		rent := o.Rent(m.Board, m.lastRoll)
		if p.Money < rent {
			m.bankrupt(p)
			return
		}
		p.Money -= rent
		landlord.Money += rent
		m.broadcastPayload(network.ActionPayRent, network.PayRentData{Rent: rent, Owner: owner, Player: p.ID})
	}
	m.advanceTurn()
}

// bankrupt removes p from play and ends the turn
func (m *Match) bankrupt(p *Player) {
	p.Bankrupt = true
	p.Money = 0
	m.Board.ReleaseAll(p.ID)
	m.logger.Info("player bankrupt", zap.String("player_id", p.ID.String()))
	m.broadcast(network.NewMessage(network.ActionBankrupt, p.ID.String()))
	m.advanceTurn()
}

func (m *Match) buy() {
	p := m.Current()
	pos := m.pendingPosition

	o, ok := m.Board[pos].(Ownable)
	if !ok || o.Holder() != uuid.Nil || p.Money < o.Price() {
		m.logger.Warn("purchase no longer possible", zap.String("player_id", p.ID.String()), zap.Int("position", pos))
		m.skip()
		return
	}

	p.Money -= o.Price()
	o.Assign(p.ID)
	m.broadcastPayload(network.ActionBuy, network.BuyPropertyData{Position: pos, Player: p.ID})
	m.advanceTurn()
}

func (m *Match) skip() {
	m.broadcast(network.Bare(network.ActionSkipBuy))
	m.advanceTurn()
}

// buyAll hands every unowned street to the turn holder for free
func (m *Match) buyAll() {
	p := m.Current()
	for i, t := range m.Board {
		street, ok := t.(*Property)
		if !ok || street.Holder() != uuid.Nil {
			continue
		}
		street.Assign(p.ID)
		m.broadcastPayload(network.ActionBuy, network.BuyPropertyData{Position: i, Player: p.ID})
	}
	m.logger.Warn("debug buy-all used", zap.String("player_id", p.ID.String()))
}
