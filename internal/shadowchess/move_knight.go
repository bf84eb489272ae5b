package shadowchess

var knightOffsets = [8][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// Knights cannot leave a forest square at all and cannot land on ruins.
func genKnightMoves(s *State, pc *Piece, moves *[]Pos) {
	if TerrainModifier(s.Board.TerrainAt(pc.Pos), Knight).Blocked {
		return
	}
	for _, d := range knightOffsets {
		to := pc.Pos.Add(d[0], d[1])
		if !s.IsValidSquare(to) || s.Board.IsObstacle(to) {
			continue
		}
		if occ := s.PieceAt(to); occ == nil || occ.Owner != pc.Owner {
			*moves = append(*moves, to)
		}
	}
}
