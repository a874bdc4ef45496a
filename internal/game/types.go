package game

import "github.com/google/uuid"

// TileKind names a tile variant
type TileKind string

const (
	KindProperty    TileKind = "property"
	KindRailroad    TileKind = "railroad"
	KindUtility     TileKind = "utility"
	KindTax         TileKind = "tax"
	KindLuxuryTax   TileKind = "luxury_tax"
	KindGo          TileKind = "go"
	KindJail        TileKind = "jail"
	KindGoToJail    TileKind = "go_to_jail"
	KindFreeParking TileKind = "free_parking"
	KindChance      TileKind = "chance"
)

// Tile is one position on the board. The set of implementations is closed.
type Tile interface {
	Kind() TileKind
	clone() Tile
}

// Ownable is a tile that can be bought and charges rent
type Ownable interface {
	Tile
	Holder() uuid.UUID
	Assign(owner uuid.UUID)
	Release()
	// Price is what the bank charges for the deed
	Price() int
	// Rent owed by a visitor; roll is the dice sum that brought them here
	Rent(board Board, roll int) int
}

// Deed tracks ownership. uuid.Nil means the bank holds it.
type Deed struct {
	Owner uuid.UUID `json:"-"`
}

// Holder returns the owner id or uuid.Nil
func (d *Deed) Holder() uuid.UUID { return d.Owner }

// Assign transfers the deed to owner
func (d *Deed) Assign(owner uuid.UUID) { d.Owner = owner }

// Release returns the deed to the bank
func (d *Deed) Release() { d.Owner = uuid.Nil }

// Property is a street. Costs holds the price per improvement level, Rents the rent per level.
type Property struct {
	Name  string
	Costs []int
	Rents []int
	Level int
	Deed
}

func (p *Property) Kind() TileKind { return KindProperty }

func (p *Property) Price() int {
	if len(p.Costs) == 0 {
		return 0
	}
	return p.Costs[0]
}

func (p *Property) Rent(Board, int) int {
	return tier(p.Rents, p.Level)
}

// Release also drops any improvements
func (p *Property) Release() {
	p.Owner = uuid.Nil
	p.Level = 0
}

func (p *Property) clone() Tile {
	c := *p
	return &c
}

// Railroad rent grows with the number of railroads held by the same owner.
// Rents[0] is the rent for one railroad.
type Railroad struct {
	Name  string
	Cost  int
	Rents []int
	Deed
}

func (r *Railroad) Kind() TileKind { return KindRailroad }
func (r *Railroad) Price() int     { return r.Cost }

func (r *Railroad) Rent(board Board, _ int) int {
	n := board.CountOwned(KindRailroad, r.Owner)
	if n == 0 {
		return 0
	}
	return tier(r.Rents, n-1)
}

func (r *Railroad) clone() Tile {
	c := *r
	return &c
}

// Utility rent is a multiple of the dice sum
type Utility struct {
	Name string
	Cost int
	Deed
}

func (u *Utility) Kind() TileKind { return KindUtility }
func (u *Utility) Price() int     { return u.Cost }

func (u *Utility) Rent(board Board, roll int) int {
	switch board.CountOwned(KindUtility, u.Owner) {
	case 1:
		return 4 * roll
	case 2:
		return 10 * roll
	default:
		return 0
	}
}

func (u *Utility) clone() Tile {
	c := *u
	return &c
}

// Tax is a fixed payment to the bank
type Tax struct {
	Name   string
	Price  int
	Luxury bool
}

func (t *Tax) Kind() TileKind {
	if t.Luxury {
		return KindLuxuryTax
	}
	return KindTax
}

func (t *Tax) clone() Tile {
	c := *t
	return &c
}

// Go pays Amount to whoever lands on it
type Go struct {
	Amount int
}

func (g *Go) Kind() TileKind { return KindGo }
func (g *Go) clone() Tile {
	c := *g
	return &c
}

type Jail struct{}

func (*Jail) Kind() TileKind { return KindJail }
func (*Jail) clone() Tile    { return &Jail{} }

type GoToJail struct{}

func (*GoToJail) Kind() TileKind { return KindGoToJail }
func (*GoToJail) clone() Tile    { return &GoToJail{} }

type FreeParking struct{}

func (*FreeParking) Kind() TileKind { return KindFreeParking }
func (*FreeParking) clone() Tile    { return &FreeParking{} }

// Chance cards are not drawn; the tile has no effect
type Chance struct {
	Label string
}

func (c *Chance) Kind() TileKind { return KindChance }
func (c *Chance) clone() Tile {
	cp := *c
	return &cp
}

// tier returns table[i], clamped to the table bounds
func tier(table []int, i int) int {
	if len(table) == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i >= len(table) {
		i = len(table) - 1
	}
	return table[i]
}
