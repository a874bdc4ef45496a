package game

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrSlowConsumer means a player's outbound queue was full and the player was cut off
	ErrSlowConsumer = errors.New("outbound queue full")
	// ErrPlayerClosed means the player's connection has already gone away
	ErrPlayerClosed = errors.New("player closed")
)

// Player is a connected, identified participant.
// The game fields are only touched while the owning registry lock is held.
type Player struct {
	ID   uuid.UUID
	Name string

	Money     int
	Position  int
	InJail    bool
	JailTurns int
	Bankrupt  bool

	startMoney int
	outbound   chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewPlayer creates a player with a fresh id and a bounded outbound queue
func NewPlayer(name string, money, queueSize int) *Player {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Player{
		ID:       uuid.New(),
		Name:     name,
		Money:      money,
		startMoney: money,
		outbound:   make(chan []byte, queueSize),
		done:       make(chan struct{}),
	}
}

// Reset restores the starting money and clears board state for a new match
func (p *Player) Reset() {
	p.Money = p.startMoney
	p.Position = 0
	p.InJail = false
	p.JailTurns = 0
	p.Bankrupt = false
}

// Closed reports whether Close has been called
func (p *Player) Closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Send enqueues an encoded line without blocking. A full queue closes the player.
func (p *Player) Send(line []byte) error {
	select {
	case <-p.done:
		return ErrPlayerClosed
	default:
	}

	select {
	case p.outbound <- line:
		return nil
	default:
		p.Close()
		return ErrSlowConsumer
	}
}

// Outbound is drained by the connection's write loop
func (p *Player) Outbound() <-chan []byte { return p.outbound }

// Done is closed once the player is closed
func (p *Player) Done() <-chan struct{} { return p.done }

// Close is idempotent
func (p *Player) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}

// Dice produces two independent die values in [1,6]
type Dice interface {
	Roll() (int, int)
}

// RandomDice rolls with the runtime's shared generator
type RandomDice struct{}

func (RandomDice) Roll() (int, int) {
	return rand.IntN(6) + 1, rand.IntN(6) + 1
}
