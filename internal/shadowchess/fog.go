package shadowchess

// RecentDecayTurns is how long a square stays "recently revealed" after it
// drops out of sight.
const RecentDecayTurns = 3

// Fog is kept for the acting player only.
type Fog struct {
	Visible          SquareSet
	RecentlyRevealed map[Pos]int // square -> turn it was last seen
	Memory           SquareSet
}

func NewFog() Fog {
	return Fog{
		Visible:          make(SquareSet),
		RecentlyRevealed: make(map[Pos]int),
		Memory:           make(SquareSet),
	}
}

func (f Fog) Clone() Fog {
	c := Fog{
		Visible:          cloneSet(f.Visible),
		RecentlyRevealed: make(map[Pos]int, len(f.RecentlyRevealed)),
		Memory:           cloneSet(f.Memory),
	}
	for p, t := range f.RecentlyRevealed {
		c.RecentlyRevealed[p] = t
	}
	return c
}

func cloneSet(s SquareSet) SquareSet {
	if s == nil {
		return make(SquareSet)
	}
	return s.Clone()
}

// UpdateFog recomputes sight for the player whose turn it is and advances the
// recently-revealed and memory layers.
func UpdateFog(s *State) { UpdateFogFor(s, s.CurrentTurn) }

// UpdateFogFor is UpdateFog from a fixed side's point of view.
func UpdateFogFor(s *State, side Side) {
	if s.Fog.Visible == nil || s.Fog.RecentlyRevealed == nil || s.Fog.Memory == nil {
		s.Fog = NewFog()
	}
	now := VisibleSquares(s, side)

	for sq := range s.Fog.Visible {
		if !now.Has(sq) {
			s.Fog.RecentlyRevealed[sq] = s.TurnCount
		}
	}
	for sq := range now {
		delete(s.Fog.RecentlyRevealed, sq)
		s.Fog.Memory.Add(sq)
	}
	s.Fog.Visible = now

	cutoff := s.TurnCount - RecentDecayTurns
	for sq, seen := range s.Fog.RecentlyRevealed {
		if seen < cutoff {
			delete(s.Fog.RecentlyRevealed, sq)
		}
	}
}

type SquareVisibility int8

const (
	Unseen SquareVisibility = iota
	Remembered
	Recent
	Visible
)

func (v SquareVisibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Recent:
		return "recent"
	case Remembered:
		return "remembered"
	}
	return "unseen"
}

func (f Fog) SquareState(p Pos) SquareVisibility {
	switch {
	case f.Visible.Has(p):
		return Visible
	case f.RecentlyRevealed != nil && hasKey(f.RecentlyRevealed, p):
		return Recent
	case f.Memory.Has(p):
		return Remembered
	}
	return Unseen
}

func hasKey(m map[Pos]int, p Pos) bool {
	_, ok := m[p]
	return ok
}
