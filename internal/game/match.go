package game

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"monopoly/internal/network"
)

// Phase is where a match sits in the turn state machine
type Phase int

const (
	PhaseAwaitingRoll Phase = iota
	PhaseAwaitingPurchase
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingRoll:
		return "AWAITING_ROLL"
	case PhaseAwaitingPurchase:
		return "AWAITING_PURCHASE_DECISION"
	case PhaseGameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}

// Rules are the per-match tunables
type Rules struct {
	JailTurns    int
	DebugActions bool
}

// DefaultRules match the classic game
func DefaultRules() Rules {
	return Rules{JailTurns: 3}
}

// Match is one game with fixed membership and a private board
type Match struct {
	ID         uuid.UUID
	Players    []*Player
	Board      Board
	PlayerTurn int
	TurnCount  int
	Active     bool
	Phase      Phase

	// position of the tile offered in PhaseAwaitingPurchase
	pendingPosition int
	lastRoll        int

	rules  Rules
	dice   Dice
	logger *zap.Logger
}

// NewMatch builds an active match. board must already be a private copy.
func NewMatch(players []*Player, board Board, startTurn int, rules Rules, dice Dice, logger *zap.Logger) *Match {
	if dice == nil {
		dice = RandomDice{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	if len(players) > 0 {
		startTurn = ((startTurn % len(players)) + len(players)) % len(players)
	}
	return &Match{
		ID:         id,
		Players:    players,
		Board:      board,
		PlayerTurn: startTurn,
		Active:     len(players) > 0,
		Phase:      PhaseAwaitingRoll,
		rules:      rules,
		dice:       dice,
		logger:     logger.With(zap.String("match_id", id.String())),
	}
}

// Start announces the participants and the first turn
func (m *Match) Start() {
	roster := make([]network.PlayerIdentifyData, 0, len(m.Players))
	for _, p := range m.Players {
		roster = append(roster, network.PlayerIdentifyData{ID: p.ID, Name: p.Name})
	}
	m.broadcastPayload(network.ActionGameStart, roster)
	if current := m.Current(); current != nil {
		m.broadcast(network.NewMessage(network.ActionTurn, current.ID.String()))
	}
	m.logger.Info("match started", zap.Int("players", len(m.Players)), zap.Int("first_turn", m.PlayerTurn))
}

// Current returns the turn holder
func (m *Match) Current() *Player {
	if m.PlayerTurn < 0 || m.PlayerTurn >= len(m.Players) {
		return nil
	}
	return m.Players[m.PlayerTurn]
}

// Player looks a participant up by id
func (m *Match) Player(id uuid.UUID) *Player {
	if i := m.indexOf(id); i >= 0 {
		return m.Players[i]
	}
	return nil
}

// Has reports whether id takes part in this match
func (m *Match) Has(id uuid.UUID) bool {
	return m.indexOf(id) >= 0
}

func (m *Match) indexOf(id uuid.UUID) int {
	for i, p := range m.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *Match) solvent() int {
	n := 0
	for _, p := range m.Players {
		if !p.Bankrupt {
			n++
		}
	}
	return n
}

// advanceTurn ends the current turn. It is the last step of every action path.
func (m *Match) advanceTurn() {
	m.Phase = PhaseAwaitingRoll
	if m.solvent() <= 1 {
		m.finish()
		return
	}

	m.TurnCount++
	next := (m.PlayerTurn + 1) % len(m.Players)
	for m.Players[next].Bankrupt {
		next = (next + 1) % len(m.Players)
	}
	m.PlayerTurn = next

	current := m.Players[next]
	m.logger.Debug("turn advanced", zap.Int("turn", m.TurnCount), zap.String("player_id", current.ID.String()))
	m.broadcast(network.NewMessage(network.ActionTurn, current.ID.String()))
}

// finish deactivates the match and names the sole solvent player, if any
func (m *Match) finish() {
	m.Active = false
	m.Phase = PhaseGameOver
	for _, p := range m.Players {
		if !p.Bankrupt {
			m.broadcast(network.NewMessage(network.ActionGameOver, p.ID.String()))
			m.logger.Info("match over", zap.String("winner_id", p.ID.String()), zap.Int("turns", m.TurnCount))
			return
		}
	}
	m.logger.Info("match abandoned", zap.Int("turns", m.TurnCount))
}

// RemovePlayer drops a departed participant and keeps the turn invariant.
// It reports whether the player was part of this match.
func (m *Match) RemovePlayer(id uuid.UUID) bool {
	idx := m.indexOf(id)
	if idx < 0 {
		return false
	}
	heldTurn := idx == m.PlayerTurn

	if n := m.Board.ReleaseAll(id); n > 0 {
		m.logger.Debug("deeds returned to bank", zap.String("player_id", id.String()), zap.Int("tiles", n))
	}
	m.Players = append(m.Players[:idx], m.Players[idx+1:]...)

	if len(m.Players) == 0 {
		m.Active = false
		m.Phase = PhaseGameOver
		return true
	}
	if idx < m.PlayerTurn {
		m.PlayerTurn--
	}
	if !m.Active {
		if m.PlayerTurn >= len(m.Players) {
			m.PlayerTurn = 0
		}
		return true
	}

	if heldTurn {
		// step back so advanceTurn lands on whoever sat after the departed player
		m.PlayerTurn = (idx - 1 + len(m.Players)) % len(m.Players)
		m.advanceTurn()
		return true
	}
	if m.solvent() <= 1 {
		m.finish()
	}
	return true
}

func (m *Match) broadcast(msg network.Message) {
	line, err := msg.Encode()
	if err != nil {
		m.logger.Error("failed to encode broadcast", zap.String("action", string(msg.Action)), zap.Error(err))
		return
	}
	for _, p := range m.Players {
		if err := p.Send(line); err != nil {
			m.logger.Warn("dropped message",
				zap.String("player_id", p.ID.String()),
				zap.String("action", string(msg.Action)),
				zap.Error(err),
			)
		}
	}
}

func (m *Match) broadcastPayload(action network.Action, payload interface{}) {
	msg, err := network.NewPayloadMessage(action, payload)
	if err != nil {
		m.logger.Error("failed to encode payload", zap.String("action", string(action)), zap.Error(err))
		return
	}
	m.broadcast(msg)
}
