package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassicBoardLayout(t *testing.T) {
	b := ClassicBoard()
	require.NoError(t, b.Validate())
	require.Len(t, b, 40)

	jail, ok := b.JailIndex()
	require.True(t, ok)
	assert.Equal(t, 10, jail)
	assert.Equal(t, KindGo, b[0].Kind())
	assert.Equal(t, KindGoToJail, b[30].Kind())
	assert.Equal(t, KindLuxuryTax, b[38].Kind())

	railroads, utilities := 0, 0
	for _, tile := range b {
		switch tile.Kind() {
		case KindRailroad:
			railroads++
		case KindUtility:
			utilities++
		}
	}
	assert.Equal(t, 4, railroads)
	assert.Equal(t, 2, utilities)
}

func TestCloneIsolatesOwnership(t *testing.T) {
	original := ClassicBoard()
	copyA := original.Clone()
	copyB := original.Clone()
	owner := uuid.New()

	copyA[1].(Ownable).Assign(owner)

	assert.Equal(t, owner, copyA[1].(Ownable).Holder())
	assert.Equal(t, uuid.Nil, copyB[1].(Ownable).Holder())
	assert.Equal(t, uuid.Nil, original[1].(Ownable).Holder())
}

func TestCountAndReleaseOwned(t *testing.T) {
	b := ClassicBoard()
	owner := uuid.New()
	b[5].(Ownable).Assign(owner)
	b[15].(Ownable).Assign(owner)
	b[1].(Ownable).Assign(owner)
	b[1].(*Property).Level = 3

	assert.Equal(t, 2, b.CountOwned(KindRailroad, owner))
	assert.Equal(t, 1, b.CountOwned(KindProperty, owner))
	assert.Equal(t, 0, b.CountOwned(KindRailroad, uuid.Nil))

	assert.Equal(t, 3, b.ReleaseAll(owner))
	assert.Equal(t, 0, b.CountOwned(KindRailroad, owner))
	assert.Equal(t, 0, b[1].(*Property).Level)
}

func TestValidateRejectsBrokenBoards(t *testing.T) {
	tests := []struct {
		name  string
		board Board
	}{
		{name: "empty", board: Board{}},
		{name: "nil tile", board: Board{&Go{Amount: 200}, nil}},
		{name: "go to jail without jail", board: Board{&Go{Amount: 200}, &GoToJail{}}},
		{name: "property without rents", board: Board{&Property{Name: "x", Costs: []int{10}}}},
		{name: "railroad without rents", board: Board{&Railroad{Name: "x", Cost: 200}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.board.Validate(), ErrInvalidBoard)
		})
	}
}

func TestParseBoard(t *testing.T) {
	data := []byte(`[
		{"type": "go", "amount": 200},
		{"type": "property", "name": "Baltic Avenue", "costs": [60, 50], "rents": [4, 20]},
		{"type": "railroad", "name": "Reading", "cost": 200, "rents": [25, 50]},
		{"type": "utility", "name": "Water Works", "cost": 150},
		{"type": "tax", "name": "Income Tax", "price": 200},
		{"type": "luxury_tax", "name": "Luxury Tax", "price": 100},
		{"type": "chance", "name": "Community Chest"},
		{"type": "jail"},
		{"type": "go_to_jail"},
		{"type": "free_parking"}
	]`)

	b, err := ParseBoard(data)
	require.NoError(t, err)
	require.Len(t, b, 10)

	street := b[1].(*Property)
	assert.Equal(t, "Baltic Avenue", street.Name)
	assert.Equal(t, 60, street.Price())
	assert.Equal(t, 200, b[2].(Ownable).Price())
	assert.Equal(t, KindLuxuryTax, b[5].Kind())
	assert.Equal(t, "Community Chest", b[6].(*Chance).Label)
	assert.Equal(t, KindFreeParking, b[9].Kind())
}

func TestParseBoardErrors(t *testing.T) {
	_, err := ParseBoard([]byte(`[{"type": "casino"}]`))
	assert.ErrorIs(t, err, ErrInvalidBoard)

	_, err = ParseBoard([]byte(`[{"type": "go_to_jail"}]`))
	assert.ErrorIs(t, err, ErrInvalidBoard)

	_, err = ParseBoard([]byte(`{"type": "go"}`))
	assert.Error(t, err)
}

func TestLoadBoardFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"type":"go","amount":100},{"type":"free_parking"}]`), 0o644))

	b, err := LoadBoard(path)
	require.NoError(t, err)
	assert.Equal(t, 100, b[0].(*Go).Amount)

	_, err = LoadBoard(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
