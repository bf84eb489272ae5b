package shadowchess

import "testing"

func TestSightPassesThroughUnits(t *testing.T) {
	st := buildState(t, 8, 8, []Piece{
		NewPiece("r", Rook, White, Pos{X: 0, Y: 0}),
		NewPiece("f", Pawn, White, Pos{X: 0, Y: 2}),
		NewPiece("e", Pawn, Black, Pos{X: 2, Y: 0}),
	}, map[Pos]Terrain{{X: 4, Y: 0}: Ruins})

	vis := VisibleSquares(st, White)
	for _, p := range []Pos{{X: 0, Y: 3}, {X: 0, Y: 7}, {X: 3, Y: 0}, {X: 4, Y: 0}} {
		if !vis.Has(p) {
			t.Fatalf("expected %v visible", p)
		}
	}
	if vis.Has(Pos{X: 5, Y: 0}) {
		t.Fatalf("sight crossed ruins")
	}
}

func TestPawnSeesDiagonalsOnly(t *testing.T) {
	st := buildState(t, 8, 8, []Piece{NewPiece("p", Pawn, White, Pos{X: 3, Y: 3})}, nil)
	vis := VisibleSquares(st, White)
	if vis.Len() != 2 || !vis.Has(Pos{X: 2, Y: 4}) || !vis.Has(Pos{X: 4, Y: 4}) {
		t.Fatalf("pawn sight=%v", vis.Sorted())
	}
}

func TestVisibleSquaresOnBoard(t *testing.T) {
	st, err := NewInitialState(16)
	if err != nil {
		t.Fatal(err)
	}
	for _, side := range []Side{White, Black} {
		for p := range VisibleSquares(st, side) {
			if !st.IsValidSquare(p) {
				t.Fatalf("side %d sees off-board %v", side, p)
			}
		}
	}
}

// Any square a unit could capture on, it can also see.
func TestCapturesAreVisible(t *testing.T) {
	st := buildState(t, 10, 10, []Piece{
		NewPiece("q", Queen, White, Pos{X: 4, Y: 4}),
		NewPiece("n", Knight, White, Pos{X: 1, Y: 1}),
		NewPiece("p", Pawn, White, Pos{X: 6, Y: 2}),
		NewKing("k", White, Pos{X: 8, Y: 8}),
		NewPiece("e1", Rook, Black, Pos{X: 4, Y: 9}),
		NewPiece("e2", Pawn, Black, Pos{X: 2, Y: 3}),
		NewPiece("e3", Bishop, Black, Pos{X: 7, Y: 3}),
		NewPiece("e4", Pawn, Black, Pos{X: 9, Y: 9}),
	}, map[Pos]Terrain{{X: 4, Y: 7}: Ruins})

	vis := VisibleSquares(st, White)
	for _, pc := range st.PiecesByOwner(White) {
		for _, to := range ValidMoves(st, pc) {
			if pc.Type == Pawn && !st.IsEnemyPiece(to, White) {
				continue
			}
			if !vis.Has(to) {
				t.Fatalf("%s can reach %v but cannot see it", pc.ID, to)
			}
		}
	}
}
