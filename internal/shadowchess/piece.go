package shadowchess

// Piece keeps the true type and the disguise flag apart; what an opponent may
// see is DisplayType, never Type.
type Piece struct {
	ID          string    `json:"id"`
	Type        PieceType `json:"type"`
	Owner       Side      `json:"owner"`
	Pos         Pos       `json:"position"`
	HasMoved    bool      `json:"has_moved"`
	GhostActive bool      `json:"is_ghost_active"`
	Disguised   bool      `json:"is_disguised"`
}

func NewPiece(id string, pt PieceType, owner Side, at Pos) Piece {
	return Piece{ID: id, Type: pt, Owner: owner, Pos: at}
}

// NewKing: kings always start disguised.
func NewKing(id string, owner Side, at Pos) Piece {
	pc := NewPiece(id, King, owner, at)
	pc.Disguised = true
	return pc
}

// NewDecoy is a pawn shown to the opponent as an unknown unit.
func NewDecoy(id string, owner Side, at Pos) Piece {
	pc := NewPiece(id, Pawn, owner, at)
	pc.Disguised = true
	return pc
}

func (p *Piece) DisplayType() PieceType {
	if p.Disguised {
		return Pawn
	}
	return p.Type
}

func (p *Piece) IsKing() bool  { return p.Type == King }
func (p *Piece) IsDecoy() bool { return p.Disguised && p.Type != King }

func (p *Piece) MoveTo(at Pos) {
	p.Pos = at
	p.HasMoved = true
}
