package shadowchess

import "testing"

// buildState lays units on a plain board, then applies terrain overrides.
func buildState(t *testing.T, w, h int, units []Piece, terrain map[Pos]Terrain) *State {
	t.Helper()
	b := NewPlainBoard(w, h)
	for p, tr := range terrain {
		if !b.IsValidPosition(p) {
			t.Fatalf("terrain override off board: %+v", p)
		}
		b.SetTerrain(p, tr)
	}
	st := NewState(b, DefaultPlayers(), append([]Piece(nil), units...))
	seen := map[Pos]bool{}
	for _, pc := range st.Pieces {
		if seen[pc.Pos] {
			t.Fatalf("two units on %s", pc.Pos.Key())
		}
		seen[pc.Pos] = true
	}
	return st
}

func hasPos(ps []Pos, p Pos) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func countDir(ps []Pos, from Pos, dx, dy int) int {
	n := 0
	for _, p := range ps {
		ddx, ddy := p.X-from.X, p.Y-from.Y
		if sign(ddx) == dx && sign(ddy) == dy {
			if dx != 0 && dy != 0 && abs(ddx) != abs(ddy) {
				continue
			}
			n++
		}
	}
	return n
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
