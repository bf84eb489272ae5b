package shadowchess

// PulseRange is how far a sliding unit's echo beam carries.
const PulseRange = 8

// Pulse is the echo a unit gives off when it moves normally or is pinged.
// It is cosmetic: it never changes fog or the board.
type Pulse struct {
	PieceID string `json:"piece_id"`
	Type    string `json:"type"`
	Origin  Pos    `json:"origin"`
	Area    []Pos  `json:"area"`
}

// EmitPulse returns the echo of pc from where it stands. Beams ignore
// terrain and units; only the board edge cuts them.
func EmitPulse(b *Board, pc *Piece) Pulse {
	return Pulse{PieceID: pc.ID, Type: pc.Type.String(), Origin: pc.Pos, Area: PulseArea(b, pc)}
}

func PulseArea(b *Board, pc *Piece) []Pos {
	var out []Pos
	add := func(p Pos) {
		if b.IsValidPosition(p) {
			out = append(out, p)
		}
	}
	switch pc.Type {
	case Rook, Bishop, Queen:
		for _, d := range slideDirs(pc.Type) {
			for dist := 1; dist <= PulseRange; dist++ {
				add(pc.Pos.Add(d[0]*dist, d[1]*dist))
			}
		}
	case Knight:
		for _, d := range knightOffsets {
			add(pc.Pos.Add(d[0], d[1]))
		}
	case King:
		// diamond of radius 2
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				if abs(dx)+abs(dy) <= 2 {
					add(pc.Pos.Add(dx, dy))
				}
			}
		}
	case Pawn:
		dir := pawnDir(pc.Owner)
		add(pc.Pos.Add(-1, dir))
		add(pc.Pos.Add(1, dir))
	}
	return out
}
