package shadowchess

import (
	"strconv"
)

type Side int8

const (
	NoSide Side = -1
	White  Side = 0 // player 0, advances toward +y
	Black  Side = 1 // player 1, advances toward -y
)

func (s Side) Opponent() Side {
	switch s {
	case White:
		return Black
	case Black:
		return White
	}
	return NoSide
}

func (s Side) Valid() bool { return s == White || s == Black }

type PieceType int8

const (
	PieceNone PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{
	PieceNone: "NONE",
	Pawn:      "PAWN",
	Knight:    "KNIGHT",
	Bishop:    "BISHOP",
	Rook:      "ROOK",
	Queen:     "QUEEN",
	King:      "KING",
}

func (t PieceType) String() string {
	if t < 0 || int(t) >= len(pieceTypeNames) {
		return "NONE"
	}
	return pieceTypeNames[t]
}

// ParsePieceType accepts the upper-case names produced by String.
func ParsePieceType(s string) (PieceType, bool) {
	for i, name := range pieceTypeNames {
		if i == 0 {
			continue
		}
		if name == s {
			return PieceType(i), true
		}
	}
	return PieceNone, false
}

// Standard material values, shared by search ordering and evaluation.
var pieceValues = [...]int{
	PieceNone: 0,
	Pawn:      1,
	Knight:    3,
	Bishop:    3,
	Rook:      5,
	Queen:     9,
	King:      1000,
}

func (t PieceType) Value() int {
	if t < 0 || int(t) >= len(pieceValues) {
		return 0
	}
	return pieceValues[t]
}

type Terrain int8

const (
	TerrainNone Terrain = iota // out of range lookups
	Plain
	Forest
	Ruins
	Sacred
	Swamp
)

var terrainNames = [...]string{
	TerrainNone: "NONE",
	Plain:       "PLAIN",
	Forest:      "FOREST",
	Ruins:       "RUINS",
	Sacred:      "SACRED",
	Swamp:       "SWAMP",
}

func (t Terrain) String() string {
	if t < 0 || int(t) >= len(terrainNames) {
		return "NONE"
	}
	return terrainNames[t]
}

func ParseTerrain(s string) (Terrain, bool) {
	for i, name := range terrainNames {
		if i == 0 {
			continue
		}
		if name == s {
			return Terrain(i), true
		}
	}
	return TerrainNone, false
}

type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key is the "x,y" form used by the browser client and the save format.
func (p Pos) Key() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

func (p Pos) Add(dx, dy int) Pos { return Pos{X: p.X + dx, Y: p.Y + dy} }

func ManhattanDistance(a, b Pos) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// SquareSet collapses duplicate squares naturally.
type SquareSet map[Pos]struct{}

func (s SquareSet) Add(p Pos) { s[p] = struct{}{} }

func (s SquareSet) Has(p Pos) bool {
	_, ok := s[p]
	return ok
}

func (s SquareSet) Len() int { return len(s) }

func (s SquareSet) Clone() SquareSet {
	out := make(SquareSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Keys returns the "x,y" keys in row-major order.
func (s SquareSet) Keys() []string {
	ps := s.Sorted()
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Key()
	}
	return out
}

// Sorted returns the squares in row-major order (y, then x).
func (s SquareSet) Sorted() []Pos {
	out := make([]Pos, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

type Move struct {
	PieceID     string `json:"piece_id"`
	From        Pos    `json:"from"`
	To          Pos    `json:"to"`
	IsGhostMove bool   `json:"is_ghost_move,omitempty"`
	Score       int    `json:"-"` // search ordering only
}

type Player struct {
	ID        Side   `json:"id"`
	Name      string `json:"name"`
	GhostUsed bool   `json:"ghost_used"`
}
