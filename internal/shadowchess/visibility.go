package shadowchess

// VisibleSquares is the set of squares threatened, and therefore seen, by
// side's units.
func VisibleSquares(s *State, side Side) SquareSet {
	visible := make(SquareSet)
	for i := range s.Pieces {
		pc := &s.Pieces[i]
		if pc.Owner != side {
			continue
		}
		for _, sq := range ThreatSquares(s, pc) {
			visible.Add(sq)
		}
	}
	return visible
}

// ThreatSquares uses the movement patterns without occupancy filtering:
// sight passes through units. Rays run to the board edge and stop on (and
// include) the first ruins square. Pawns only see their two capture squares.
func ThreatSquares(s *State, pc *Piece) []Pos {
	var out []Pos
	switch pc.Type {
	case Rook, Bishop, Queen:
		for _, d := range slideDirs(pc.Type) {
			to := pc.Pos.Add(d[0], d[1])
			for s.IsValidSquare(to) {
				out = append(out, to)
				if s.Board.IsObstacle(to) {
					break
				}
				to = to.Add(d[0], d[1])
			}
		}
	case Knight:
		for _, d := range knightOffsets {
			out = appendOnBoard(s, out, pc.Pos.Add(d[0], d[1]))
		}
	case King:
		for _, d := range kingOffsets {
			out = appendOnBoard(s, out, pc.Pos.Add(d[0], d[1]))
		}
	case Pawn:
		dir := pawnDir(pc.Owner)
		out = appendOnBoard(s, out, pc.Pos.Add(-1, dir))
		out = appendOnBoard(s, out, pc.Pos.Add(1, dir))
	}
	return out
}

func appendOnBoard(s *State, out []Pos, p Pos) []Pos {
	if s.IsValidSquare(p) {
		return append(out, p)
	}
	return out
}
