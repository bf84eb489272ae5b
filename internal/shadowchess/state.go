package shadowchess

import (
	"errors"
	"fmt"
)

var ErrBoardSize = errors.New("board size too small")

// State is the whole game: board, units, players, turn bookkeeping, fog and
// a bounded undo history.
type State struct {
	Board       *Board
	Pieces      []Piece
	Players     [2]Player
	CurrentTurn Side
	TurnCount   int
	Fog         Fog
	GameOver    bool
	Winner      Side

	// UI only. Never part of history, snapshots or search copies' semantics.
	Selected   string
	ValidMoves []Pos

	history []snapshot
}

func NewState(board *Board, players [2]Player, pieces []Piece) *State {
	return &State{
		Board:       board,
		Pieces:      pieces,
		Players:     players,
		CurrentTurn: White,
		Fog:         NewFog(),
		Winner:      NoSide,
	}
}

func DefaultPlayers() [2]Player {
	return [2]Player{
		{ID: White, Name: "Player"},
		{ID: Black, Name: "Opponent"},
	}
}

// NewInitialState builds the standard square setup: a back row of
// R N B Q K B N R centred on the board, a pawn row in front of it and three
// decoys two rows ahead of the pawns, mirrored for the second player.
func NewInitialState(size int) (*State, error) {
	if size < MinBoardSize {
		return nil, fmt.Errorf("%w: %d (minimum %d)", ErrBoardSize, size, MinBoardSize)
	}
	board := NewBoard(size, size)
	return NewState(board, DefaultPlayers(), initialPieces(size, size)), nil
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

const decoysPerSide = 3

func initialPieces(width, height int) []Piece {
	pieces := make([]Piece, 0, 2*(len(backRank)+8+decoysPerSide))
	startRows := [2]int{0, height - 1}
	pawnRows := [2]int{1, height - 2}
	colOffset := (width - 8) / 2

	for _, side := range []Side{White, Black} {
		backRow := startRows[side]
		pawnRow := pawnRows[side]
		dir := pawnDir(side)

		for i, pt := range backRank {
			id := fmt.Sprintf("p%d_%s_%d", side, pt, i)
			at := Pos{X: colOffset + i, Y: backRow}
			if pt == King {
				pieces = append(pieces, NewKing(id, side, at))
				continue
			}
			pieces = append(pieces, NewPiece(id, pt, side, at))
		}

		for i := 0; i < 8; i++ {
			id := fmt.Sprintf("p%d_%s_%d", side, Pawn, i)
			pieces = append(pieces, NewPiece(id, Pawn, side, Pos{X: colOffset + i, Y: pawnRow}))
		}

		for i := 0; i < decoysPerSide; i++ {
			id := fmt.Sprintf("p%d_DECOY_%d", side, i)
			at := Pos{X: colOffset + 2 + i, Y: pawnRow + 2*dir}
			pieces = append(pieces, NewDecoy(id, side, at))
		}
	}
	return pieces
}

// pawnDir: player 0 walks down the board (+y), player 1 up (-y).
func pawnDir(side Side) int {
	if side == White {
		return 1
	}
	return -1
}

func (s *State) IsValidSquare(p Pos) bool {
	return s.Board.IsValidPosition(p)
}

func (s *State) pieceIndexAt(p Pos) int {
	for i := range s.Pieces {
		if s.Pieces[i].Pos == p {
			return i
		}
	}
	return -1
}

func (s *State) pieceIndexByID(id string) int {
	for i := range s.Pieces {
		if s.Pieces[i].ID == id {
			return i
		}
	}
	return -1
}

// PieceAt returns a pointer into Pieces; it is invalidated by any removal.
func (s *State) PieceAt(p Pos) *Piece {
	if i := s.pieceIndexAt(p); i >= 0 {
		return &s.Pieces[i]
	}
	return nil
}

func (s *State) PieceByID(id string) *Piece {
	if i := s.pieceIndexByID(id); i >= 0 {
		return &s.Pieces[i]
	}
	return nil
}

func (s *State) PiecesByOwner(side Side) []*Piece {
	var out []*Piece
	for i := range s.Pieces {
		if s.Pieces[i].Owner == side {
			out = append(out, &s.Pieces[i])
		}
	}
	return out
}

func (s *State) Player(side Side) *Player {
	if !side.Valid() {
		return nil
	}
	return &s.Players[side]
}

func (s *State) IsOccupied(p Pos) bool {
	return s.pieceIndexAt(p) >= 0
}

func (s *State) IsEnemyPiece(p Pos, owner Side) bool {
	pc := s.PieceAt(p)
	return pc != nil && pc.Owner != owner
}

func (s *State) IsOwnPiece(p Pos, owner Side) bool {
	pc := s.PieceAt(p)
	return pc != nil && pc.Owner == owner
}

func (s *State) RemovePiece(id string) bool {
	i := s.pieceIndexByID(id)
	if i < 0 {
		return false
	}
	s.Pieces = append(s.Pieces[:i], s.Pieces[i+1:]...)
	return true
}

func (s *State) EndTurn() {
	s.CurrentTurn = s.CurrentTurn.Opponent()
	s.TurnCount++
}

func (s *State) SetWinner(side Side) {
	s.GameOver = true
	s.Winner = side
}

// MovePiece relocates a unit, removing an enemy on the destination square.
// Taking a king ends the game in favour of the mover. It does not end the
// turn. ok is false for an unknown unit, an off-board target or a friendly
// occupant; legality beyond that is the caller's job.
func (s *State) MovePiece(id string, to Pos) (captured *Piece, ok bool) {
	if !s.IsValidSquare(to) {
		return nil, false
	}
	mover := s.pieceIndexByID(id)
	if mover < 0 {
		return nil, false
	}
	owner := s.Pieces[mover].Owner

	if ti := s.pieceIndexAt(to); ti >= 0 && ti != mover {
		if s.Pieces[ti].Owner == owner {
			return nil, false
		}
		taken := s.Pieces[ti]
		captured = &taken
		s.Pieces = append(s.Pieces[:ti], s.Pieces[ti+1:]...)
		if ti < mover {
			mover--
		}
	}

	s.Pieces[mover].MoveTo(to)
	if captured != nil && captured.IsKing() {
		s.SetWinner(owner)
	}
	return captured, true
}

// Clone is a deep value copy. History is not carried over.
func (s *State) Clone() *State {
	c := &State{
		Board:       s.Board.Clone(),
		Pieces:      append([]Piece(nil), s.Pieces...),
		Players:     s.Players,
		CurrentTurn: s.CurrentTurn,
		TurnCount:   s.TurnCount,
		Fog:         s.Fog.Clone(),
		GameOver:    s.GameOver,
		Winner:      s.Winner,
		Selected:    s.Selected,
	}
	if s.ValidMoves != nil {
		c.ValidMoves = append([]Pos(nil), s.ValidMoves...)
	}
	return c
}

// ClearSelection drops the transient UI fields.
func (s *State) ClearSelection() {
	s.Selected = ""
	s.ValidMoves = nil
}
