// Package game holds the board model, player and match state and the turn engine
package game

import (
	"encoding/json"
	"fmt"
	"os"
)

// tileDef is the on-disk form of a tile; Type selects which fields apply
type tileDef struct {
	Type   TileKind `json:"type"`
	Name   string   `json:"name,omitempty"`
	Costs  []int    `json:"costs,omitempty"`
	Rents  []int    `json:"rents,omitempty"`
	Cost   int      `json:"cost,omitempty"`
	Price  int      `json:"price,omitempty"`
	Amount int      `json:"amount,omitempty"`
}

// LoadBoard reads a JSON array of tiles from path and validates it
func LoadBoard(path string) (Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}
	return ParseBoard(data)
}

// ParseBoard decodes board JSON
func ParseBoard(data []byte) (Board, error) {
	var defs []tileDef
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse board JSON: %w", err)
	}

	board := make(Board, 0, len(defs))
	for i, def := range defs {
		tile, err := def.tile()
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		board = append(board, tile)
	}

	if err := board.Validate(); err != nil {
		return nil, err
	}
	return board, nil
}

func (d tileDef) tile() (Tile, error) {
	switch d.Type {
	case KindProperty:
		return &Property{Name: d.Name, Costs: d.Costs, Rents: d.Rents}, nil
	case KindRailroad:
		return &Railroad{Name: d.Name, Cost: d.Cost, Rents: d.Rents}, nil
	case KindUtility:
		return &Utility{Name: d.Name, Cost: d.Cost}, nil
	case KindTax:
		return &Tax{Name: d.Name, Price: d.Price}, nil
	case KindLuxuryTax:
		return &Tax{Name: d.Name, Price: d.Price, Luxury: true}, nil
	case KindGo:
		return &Go{Amount: d.Amount}, nil
	case KindJail:
		return &Jail{}, nil
	case KindGoToJail:
		return &GoToJail{}, nil
	case KindFreeParking:
		return &FreeParking{}, nil
	case KindChance:
		return &Chance{Label: d.Name}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tile type %q", ErrInvalidBoard, d.Type)
	}
}
