package shadowchess

// Direction tables, {dx, dy}. Order matters only for move ordering.
var (
	rookDirs   = [][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([][2]int{}, rookDirs...), bishopDirs...)

	kingOffsets = [][2]int{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
)

func slideDirs(pt PieceType) [][2]int {
	switch pt {
	case Rook:
		return rookDirs
	case Bishop:
		return bishopDirs
	case Queen:
		return queenDirs
	}
	return nil
}

// Rook / bishop / queen. Reach comes from the origin square's terrain; a ray
// stops before ruins and at the first occupied square, which is kept only
// when it holds an enemy.
func genSlidingMoves(s *State, pc *Piece, moves *[]Pos) {
	reach := SlideRange(s.Board.TerrainAt(pc.Pos), pc.Type)
	if reach == 0 {
		return
	}
	for _, d := range slideDirs(pc.Type) {
		to := pc.Pos.Add(d[0], d[1])
		for steps := 0; s.IsValidSquare(to) && steps < reach; steps++ {
			if s.Board.IsObstacle(to) {
				break
			}
			if occ := s.PieceAt(to); occ != nil {
				if occ.Owner != pc.Owner {
					*moves = append(*moves, to)
				}
				break
			}
			*moves = append(*moves, to)
			to = to.Add(d[0], d[1])
		}
	}
}

// King: one square any way. No check rules exist in this variant.
func genKingMoves(s *State, pc *Piece, moves *[]Pos) {
	for _, d := range kingOffsets {
		to := pc.Pos.Add(d[0], d[1])
		if !s.IsValidSquare(to) {
			continue
		}
		if occ := s.PieceAt(to); occ == nil || occ.Owner != pc.Owner {
			*moves = append(*moves, to)
		}
	}
}
