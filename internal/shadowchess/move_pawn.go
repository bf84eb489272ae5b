package shadowchess

func genPawnMoves(s *State, pc *Piece, moves *[]Pos) {
	dir := pawnDir(pc.Owner)

	// Straight ahead never captures.
	one := pc.Pos.Add(0, dir)
	oneFree := s.IsValidSquare(one) && !s.IsOccupied(one)
	if oneFree {
		*moves = append(*moves, one)
	}

	if !pc.HasMoved && oneFree {
		mod := TerrainModifier(s.Board.TerrainAt(pc.Pos), Pawn)
		two := pc.Pos.Add(0, 2*dir)
		if !mod.Blocked && s.IsValidSquare(two) && !s.IsOccupied(two) {
			*moves = append(*moves, two)
		}
	}

	for _, dx := range [2]int{-1, 1} {
		to := pc.Pos.Add(dx, dir)
		if s.IsValidSquare(to) && s.IsEnemyPiece(to, pc.Owner) {
			*moves = append(*moves, to)
		}
	}
}
