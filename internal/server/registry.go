package server

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"monopoly/internal/game"
	"monopoly/internal/network"
)

// ErrNotInMatch is returned for actions from a player who has no match yet
var ErrNotInMatch = errors.New("player is not in a match")

// RegistryConfig holds what every new match is built from
type RegistryConfig struct {
	MatchSize int
	Board     game.Board
	Rules     game.Rules
	Dice      game.Dice
	// StartTurn picks the first turn index in [0,n); defaults to uniform random
	StartTurn func(n int) int
}

// Registry owns the waiting room and the active matches.
// Lock order is waitingMu before matchesMu whenever both are held.
// Every turn action for every match runs under matchesMu, broadcasts included.
type Registry struct {
	waitingMu sync.Mutex
	waiting   []*game.Player

	matchesMu sync.Mutex
	matches   map[uuid.UUID]*game.Match
	byPlayer  map[uuid.UUID]uuid.UUID

	cfg    RegistryConfig
	logger *zap.Logger

	pending sync.WaitGroup
}

// NewRegistry creates an empty registry
func NewRegistry(cfg RegistryConfig, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MatchSize < 2 {
		cfg.MatchSize = 2
	}
	if cfg.Board == nil {
		cfg.Board = game.ClassicBoard()
	}
	if cfg.Rules.JailTurns < 1 {
		cfg.Rules.JailTurns = game.DefaultRules().JailTurns
	}
	if cfg.Dice == nil {
		cfg.Dice = game.RandomDice{}
	}
	if cfg.StartTurn == nil {
		cfg.StartTurn = rand.IntN
	}
	return &Registry{
		matches:  make(map[uuid.UUID]*game.Match),
		byPlayer: make(map[uuid.UUID]uuid.UUID),
		cfg:      cfg,
		logger:   logger,
	}
}

// Enqueue puts p in the waiting room and starts matchmaking in the background once it is full.
// A closed player is dropped.
func (r *Registry) Enqueue(p *game.Player) {
	r.waitingMu.Lock()
	if p.Closed() {
		r.waitingMu.Unlock()
		r.logger.Debug("not queueing closed player", zap.String("player_id", p.ID.String()))
		return
	}
	r.waiting = append(r.waiting, p)
	full := len(r.waiting) >= r.cfg.MatchSize
	waiting := len(r.waiting)
	r.waitingMu.Unlock()

	r.logger.Info("player waiting",
		zap.String("player_id", p.ID.String()),
		zap.String("name", p.Name),
		zap.Int("waiting", waiting),
	)

	if full {
		r.pending.Add(1)
		go func() {
			defer r.pending.Done()
			r.StartMatch()
		}()
	}
}

// RemoveFromWaiting is idempotent
func (r *Registry) RemoveFromWaiting(id uuid.UUID) bool {
	r.waitingMu.Lock()
	defer r.waitingMu.Unlock()

	for i, p := range r.waiting {
		if p.ID == id {
			r.waiting = append(r.waiting[:i], r.waiting[i+1:]...)
			return true
		}
	}
	return false
}

// StartMatch drains MatchSize players from the waiting room into a new match.
// It does nothing when the room has emptied out in the meantime.
func (r *Registry) StartMatch() (uuid.UUID, bool) {
	r.waitingMu.Lock()
	defer r.waitingMu.Unlock()

	n := r.cfg.MatchSize
	if len(r.waiting) < n {
		return uuid.Nil, false
	}
	players := make([]*game.Player, n)
	copy(players, r.waiting[:n])
	r.waiting = append(r.waiting[:0], r.waiting[n:]...)

	r.matchesMu.Lock()
	defer r.matchesMu.Unlock()

	m := game.NewMatch(players, r.cfg.Board.Clone(), r.cfg.StartTurn(n), r.cfg.Rules, r.cfg.Dice, r.logger)
	r.matches[m.ID] = m
	for _, p := range players {
		r.byPlayer[p.ID] = m.ID
	}
	m.Start()
	return m.ID, true
}

// RemovePlayerFromMatches takes id out of its match and closes finished or empty matches.
// Players left in a closed match go back to the waiting room.
func (r *Registry) RemovePlayerFromMatches(id uuid.UUID) bool {
	r.matchesMu.Lock()
	removed := false
	if matchID, ok := r.byPlayer[id]; ok {
		delete(r.byPlayer, id)
		m, ok := r.matches[matchID]
		if !ok {
			r.logger.Error("player indexed to missing match",
				zap.String("player_id", id.String()),
				zap.String("match_id", matchID.String()),
			)
		} else if removed = m.RemovePlayer(id); !removed {
			r.logger.Error("player indexed to match without them",
				zap.String("player_id", id.String()),
				zap.String("match_id", matchID.String()),
			)
		}
	}

	var survivors []*game.Player
	for matchID, m := range r.matches {
		if len(m.Players) > 0 && m.Active {
			continue
		}
		survivors = append(survivors, r.closeMatchLocked(matchID)...)
	}
	r.matchesMu.Unlock()

	r.requeue(survivors)
	return removed
}

// closeMatchLocked drops a match and returns its remaining players; matchesMu must be held
func (r *Registry) closeMatchLocked(matchID uuid.UUID) []*game.Player {
	m, ok := r.matches[matchID]
	if !ok {
		return nil
	}
	for _, p := range m.Players {
		delete(r.byPlayer, p.ID)
	}
	delete(r.matches, matchID)
	r.logger.Info("match closed", zap.String("match_id", matchID.String()), zap.Int("turns", m.TurnCount))
	return m.Players
}

// requeue sends players from a closed match back to the waiting room.
// It must run without matchesMu held since Enqueue takes waitingMu.
func (r *Registry) requeue(players []*game.Player) {
	for _, p := range players {
		p.Reset()
		r.Enqueue(p)
	}
}

// Remove takes id out of whichever structure holds it
func (r *Registry) Remove(id uuid.UUID) {
	if r.RemoveFromWaiting(id) {
		return
	}
	r.RemovePlayerFromMatches(id)
}

// Dispatch routes an inbound action by the sender's current membership
func (r *Registry) Dispatch(p *game.Player, msg network.Message) error {
	r.matchesMu.Lock()

	matchID, ok := r.byPlayer[p.ID]
	if !ok {
		r.matchesMu.Unlock()
		return ErrNotInMatch
	}
	m, ok := r.matches[matchID]
	if !ok {
		r.matchesMu.Unlock()
		return ErrNotInMatch
	}
	err := m.Handle(p.ID, msg)

	var survivors []*game.Player
	if !m.Active {
		survivors = r.closeMatchLocked(matchID)
	}
	r.matchesMu.Unlock()

	r.requeue(survivors)
	return err
}

// Counts reports the waiting room size and the number of tracked matches
func (r *Registry) Counts() (waiting, matches int) {
	r.waitingMu.Lock()
	waiting = len(r.waiting)
	r.waitingMu.Unlock()

	r.matchesMu.Lock()
	matches = len(r.matches)
	r.matchesMu.Unlock()
	return waiting, matches
}

// Wait blocks until background matchmaking has finished
func (r *Registry) Wait() {
	r.pending.Wait()
}

// inspect runs fn under the match lock for the match holding playerID
func (r *Registry) inspect(playerID uuid.UUID, fn func(m *game.Match)) bool {
	r.matchesMu.Lock()
	defer r.matchesMu.Unlock()

	m, ok := r.matches[r.byPlayer[playerID]]
	if !ok {
		return false
	}
	fn(m)
	return true
}
