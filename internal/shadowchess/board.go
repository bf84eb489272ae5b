package shadowchess

import (
	"math"
	"sort"
)

const (
	// Base reach of sliding units before terrain modifiers.
	BaseSlideRange = 8
	// Smallest board that fits the standard eight-file setup.
	MinBoardSize = 8
)

type Board struct {
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Terrain [][]Terrain `json:"terrain"` // [y][x]
}

// NewBoard builds a board with terrain generated from width*height.
func NewBoard(width, height int) *Board {
	return &Board{
		Width:   width,
		Height:  height,
		Terrain: GenerateTerrain(width, height, width*height),
	}
}

// NewBoardWithTerrain adopts terrain supplied by a save or a test fixture.
// The rows are copied.
func NewBoardWithTerrain(width, height int, terrain [][]Terrain) *Board {
	b := &Board{Width: width, Height: height}
	b.Terrain = copyTerrain(terrain)
	return b
}

// NewPlainBoard is a board without any terrain effects.
func NewPlainBoard(width, height int) *Board {
	t := make([][]Terrain, height)
	for y := range t {
		t[y] = make([]Terrain, width)
		for x := range t[y] {
			t[y][x] = Plain
		}
	}
	return &Board{Width: width, Height: height, Terrain: t}
}

// GenerateTerrain is deterministic for a given seed: a linear congruential
// stream perturbs a low-frequency sine field which is then bucketed.
func GenerateTerrain(width, height, seed int) [][]Terrain {
	state := int64(seed)
	next := func() float64 {
		state = (state*9301 + 49297) % 233280
		return float64(state) / 233280
	}

	t := make([][]Terrain, height)
	for y := 0; y < height; y++ {
		t[y] = make([]Terrain, width)
		for x := 0; x < width; x++ {
			r1 := next()
			r2 := next()
			fx, fy := float64(x), float64(y)
			noise := math.Sin(fx*0.1+r1)*math.Cos(fy*0.1+r2) +
				math.Sin(fx*0.05+fy*0.05)*0.5

			switch {
			case noise > 0.8:
				t[y][x] = Sacred
			case noise > 0.5:
				t[y][x] = Swamp
			case noise > 0.2:
				t[y][x] = Forest
			case noise > -0.3:
				t[y][x] = Plain
			default:
				t[y][x] = Ruins
			}
		}
	}
	return t
}

func (b *Board) IsValidPosition(p Pos) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// TerrainAt reports TerrainNone for squares off the board.
func (b *Board) TerrainAt(p Pos) Terrain {
	if !b.IsValidPosition(p) {
		return TerrainNone
	}
	return b.Terrain[p.Y][p.X]
}

// SetTerrain is used by fixtures and the codec; out of range writes are ignored.
func (b *Board) SetTerrain(p Pos, t Terrain) {
	if !b.IsValidPosition(p) {
		return
	}
	b.Terrain[p.Y][p.X] = t
}

// IsObstacle: ruins block sliding rays and sight lines but hold no unit slot.
func (b *Board) IsObstacle(p Pos) bool {
	return b.TerrainAt(p) == Ruins
}

// Modifier is either a hard block or an additive change to slide reach.
type Modifier struct {
	Blocked bool
	Range   float64
}

func TerrainModifier(t Terrain, pt PieceType) Modifier {
	switch t {
	case Forest:
		if pt == Knight {
			return Modifier{Blocked: true}
		}
		return Modifier{Range: -0.5}
	case Sacred:
		return Modifier{Range: 1}
	case Swamp:
		return Modifier{Range: -1}
	default:
		return Modifier{}
	}
}

// SlideRange is the number of squares a sliding unit standing on the given
// terrain may travel along one ray. Zero means the unit cannot slide.
func SlideRange(t Terrain, pt PieceType) int {
	mod := TerrainModifier(t, pt)
	if mod.Blocked {
		return 0
	}
	reach := int(math.Floor(BaseSlideRange + mod.Range))
	if reach < 1 {
		reach = 1
	}
	return reach
}

// DistanceToEdge is min over both axes of min(coord, dimension-coord).
func (b *Board) DistanceToEdge(p Pos) int {
	dx := min(p.X, b.Width-p.X)
	dy := min(p.Y, b.Height-p.Y)
	return min(dx, dy)
}

func (b *Board) Clone() *Board {
	return &Board{
		Width:   b.Width,
		Height:  b.Height,
		Terrain: copyTerrain(b.Terrain),
	}
}

func copyTerrain(src [][]Terrain) [][]Terrain {
	out := make([][]Terrain, len(src))
	for y, row := range src {
		out[y] = append([]Terrain(nil), row...)
	}
	return out
}

func sortPositions(ps []Pos) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
}
