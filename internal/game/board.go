package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidBoard is returned when board data cannot be played on
var ErrInvalidBoard = errors.New("invalid board")

// Board is the ordered ring of tiles
type Board []Tile

// Clone deep-copies the board so ownership never leaks between matches
func (b Board) Clone() Board {
	c := make(Board, len(b))
	for i, t := range b {
		c[i] = t.clone()
	}
	return c
}

// JailIndex returns the position of the first Jail tile
func (b Board) JailIndex() (int, bool) {
	for i, t := range b {
		if t.Kind() == KindJail {
			return i, true
		}
	}
	return 0, false
}

// CountOwned counts tiles of kind held by owner
func (b Board) CountOwned(kind TileKind, owner uuid.UUID) int {
	if owner == uuid.Nil {
		return 0
	}
	n := 0
	for _, t := range b {
		if t.Kind() != kind {
			continue
		}
		if o, ok := t.(Ownable); ok && o.Holder() == owner {
			n++
		}
	}
	return n
}

// ReleaseAll returns every deed held by owner to the bank and reports how many were released
func (b Board) ReleaseAll(owner uuid.UUID) int {
	n := 0
	for _, t := range b {
		if o, ok := t.(Ownable); ok && o.Holder() == owner && owner != uuid.Nil {
			o.Release()
			n++
		}
	}
	return n
}

// Validate checks the invariants the turn engine relies on
func (b Board) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: no tiles", ErrInvalidBoard)
	}
	hasJail, needsJail := false, false
	for i, t := range b {
		switch v := t.(type) {
		case nil:
			return fmt.Errorf("%w: tile %d is empty", ErrInvalidBoard, i)
		case *Property:
			if len(v.Costs) == 0 || len(v.Rents) == 0 {
				return fmt.Errorf("%w: property %q at %d needs costs and rents", ErrInvalidBoard, v.Name, i)
			}
		case *Railroad:
			if len(v.Rents) == 0 {
				return fmt.Errorf("%w: railroad %q at %d needs rents", ErrInvalidBoard, v.Name, i)
			}
		case *Jail:
			hasJail = true
		case *GoToJail:
			needsJail = true
		}
	}
	if needsJail && !hasJail {
		return fmt.Errorf("%w: go-to-jail tile without a jail", ErrInvalidBoard)
	}
	return nil
}

// ClassicBoard returns a fresh copy of the standard 40-tile board
func ClassicBoard() Board {
	street := func(name string, price, house int, rents ...int) *Property {
		return &Property{Name: name, Costs: []int{price, house}, Rents: rents}
	}
	railroad := func(name string) *Railroad {
		return &Railroad{Name: name, Cost: 200, Rents: []int{25, 50, 100, 200}}
	}

	return Board{
		&Go{Amount: 200},
		street("Mediterranean Avenue", 60, 50, 2, 10, 30, 90, 160, 250),
		&Chance{Label: "Community Chest"},
		street("Baltic Avenue", 60, 50, 4, 20, 60, 180, 320, 450),
		&Tax{Name: "Income Tax", Price: 200},
		railroad("Reading Railroad"),
		street("Oriental Avenue", 100, 50, 6, 30, 90, 270, 400, 550),
		&Chance{Label: "Chance"},
		street("Vermont Avenue", 100, 50, 6, 30, 90, 270, 400, 550),
		street("Connecticut Avenue", 120, 50, 8, 40, 100, 300, 450, 600),
		&Jail{},
		street("St. Charles Place", 140, 100, 10, 50, 150, 450, 625, 750),
		&Utility{Name: "Electric Company", Cost: 150},
		street("States Avenue", 140, 100, 10, 50, 150, 450, 625, 750),
		street("Virginia Avenue", 160, 100, 12, 60, 180, 500, 700, 900),
		railroad("Pennsylvania Railroad"),
		street("St. James Place", 180, 100, 14, 70, 200, 550, 750, 950),
		&Chance{Label: "Community Chest"},
		street("Tennessee Avenue", 180, 100, 14, 70, 200, 550, 750, 950),
		street("New York Avenue", 200, 100, 16, 80, 220, 600, 800, 1000),
		&FreeParking{},
		street("Kentucky Avenue", 220, 150, 18, 90, 250, 700, 875, 1050),
		&Chance{Label: "Chance"},
		street("Indiana Avenue", 220, 150, 18, 90, 250, 700, 875, 1050),
		street("Illinois Avenue", 240, 150, 20, 100, 300, 750, 925, 1100),
		railroad("B. & O. Railroad"),
		street("Atlantic Avenue", 260, 150, 22, 110, 330, 800, 975, 1150),
		street("Ventnor Avenue", 260, 150, 22, 110, 330, 800, 975, 1150),
		&Utility{Name: "Water Works", Cost: 150},
		street("Marvin Gardens", 280, 150, 24, 120, 360, 850, 1025, 1200),
		&GoToJail{},
		street("Pacific Avenue", 300, 200, 26, 130, 390, 900, 1100, 1275),
		street("North Carolina Avenue", 300, 200, 26, 130, 390, 900, 1100, 1275),
		&Chance{Label: "Community Chest"},
		street("Pennsylvania Avenue", 320, 200, 28, 150, 450, 1000, 1200, 1400),
		railroad("Short Line"),
		&Chance{Label: "Chance"},
		street("Park Place", 350, 200, 35, 175, 500, 1100, 1300, 1500),
		&Tax{Name: "Luxury Tax", Price: 100, Luxury: true},
		street("Boardwalk", 400, 200, 50, 200, 600, 1400, 1700, 2000),
	}
}
