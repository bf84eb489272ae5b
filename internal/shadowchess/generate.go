package shadowchess

// ValidMoves lists the squares pc may reach this turn, in generation order.
// Whose turn it is is not checked here.
func ValidMoves(s *State, pc *Piece) []Pos {
	if pc == nil {
		return nil
	}
	var moves []Pos
	switch pc.Type {
	case Pawn:
		genPawnMoves(s, pc, &moves)
	case Rook, Bishop, Queen:
		genSlidingMoves(s, pc, &moves)
	case Knight:
		genKnightMoves(s, pc, &moves)
	case King:
		genKingMoves(s, pc, &moves)
	}
	return moves
}

// IsValidMove reports whether to is among ValidMoves(s, pc).
func IsValidMove(s *State, pc *Piece, to Pos) bool {
	for _, m := range ValidMoves(s, pc) {
		if m == to {
			return true
		}
	}
	return false
}

// LegalMoves expands every unit of side into (unit, destination) pairs, in
// unit order then generation order.
func LegalMoves(s *State, side Side) []Move {
	var out []Move
	for i := range s.Pieces {
		pc := &s.Pieces[i]
		if pc.Owner != side {
			continue
		}
		for _, to := range ValidMoves(s, pc) {
			out = append(out, Move{PieceID: pc.ID, From: pc.Pos, To: to})
		}
	}
	return out
}

// MoveUndo carries what UnmakeMove needs to restore the state exactly.
type MoveUndo struct {
	applied     bool
	moverIdx    int
	from        Pos
	hadMoved    bool
	wasGhost    bool
	captured    Piece
	capturedIdx int
	turn        Side
	turnCount   int
	gameOver    bool
	winner      Side
}

// MakeMove applies a move in place for search: relocates the unit, removes
// whatever else stands on the destination, settles a king capture and passes
// the turn. An unknown unit leaves the state untouched.
func (s *State) MakeMove(mv Move) MoveUndo {
	mover := s.pieceIndexByID(mv.PieceID)
	if mover < 0 {
		return MoveUndo{}
	}
	u := MoveUndo{
		applied:     true,
		moverIdx:    mover,
		from:        s.Pieces[mover].Pos,
		hadMoved:    s.Pieces[mover].HasMoved,
		wasGhost:    s.Pieces[mover].GhostActive,
		capturedIdx: -1,
		turn:        s.CurrentTurn,
		turnCount:   s.TurnCount,
		gameOver:    s.GameOver,
		winner:      s.Winner,
	}

	for i := range s.Pieces {
		if i != mover && s.Pieces[i].Pos == mv.To {
			u.capturedIdx = i
			u.captured = s.Pieces[i]
			break
		}
	}

	s.Pieces[mover].Pos = mv.To
	s.Pieces[mover].HasMoved = true
	if mv.IsGhostMove {
		s.Pieces[mover].GhostActive = false
	}
	owner := s.Pieces[mover].Owner

	if u.capturedIdx >= 0 {
		i := u.capturedIdx
		s.Pieces = append(s.Pieces[:i], s.Pieces[i+1:]...)
		if u.captured.IsKing() {
			s.SetWinner(owner)
		}
	}

	s.CurrentTurn = s.CurrentTurn.Opponent()
	s.TurnCount++
	return u
}

func (s *State) UnmakeMove(u MoveUndo) {
	if !u.applied {
		return
	}
	if u.capturedIdx >= 0 {
		i := u.capturedIdx
		s.Pieces = append(s.Pieces, Piece{})
		copy(s.Pieces[i+1:], s.Pieces[i:])
		s.Pieces[i] = u.captured
	}
	pc := &s.Pieces[u.moverIdx]
	pc.Pos = u.from
	pc.HasMoved = u.hadMoved
	pc.GhostActive = u.wasGhost

	s.CurrentTurn = u.turn
	s.TurnCount = u.turnCount
	s.GameOver = u.gameOver
	s.Winner = u.winner
}
