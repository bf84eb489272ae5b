package shadowchess

import "testing"

func TestUpdateFogLayers(t *testing.T) {
	st := buildState(t, 8, 8, []Piece{NewPiece("r", Rook, White, Pos{X: 0, Y: 0})}, nil)
	UpdateFog(st)

	if st.Fog.Visible.Len() != 14 {
		t.Fatalf("visible=%d want 14", st.Fog.Visible.Len())
	}
	if st.Fog.Memory.Len() != 14 {
		t.Fatalf("memory=%d want 14", st.Fog.Memory.Len())
	}
	if len(st.Fog.RecentlyRevealed) != 0 {
		t.Fatalf("recent should start empty")
	}

	st.PieceByID("r").Pos = Pos{X: 4, Y: 4}
	st.TurnCount = 1
	UpdateFog(st)

	left := Pos{X: 0, Y: 1}
	if got := st.Fog.SquareState(left); got != Recent {
		t.Fatalf("%v state=%v want recent", left, got)
	}
	if st.Fog.RecentlyRevealed[left] != 1 {
		t.Fatalf("recent stamp=%d want 1", st.Fog.RecentlyRevealed[left])
	}
	back := Pos{X: 0, Y: 4}
	if got := st.Fog.SquareState(back); got != Visible {
		t.Fatalf("%v state=%v want visible", back, got)
	}
	if _, ok := st.Fog.RecentlyRevealed[back]; ok {
		t.Fatalf("visible square still listed as recent")
	}
	if st.Fog.Memory.Len() != 14+14-2 {
		t.Fatalf("memory=%d, want union of both views", st.Fog.Memory.Len())
	}
	if got := st.Fog.SquareState(Pos{X: 7, Y: 7}); got != Unseen {
		t.Fatalf("never-seen square state=%v", got)
	}
}

func TestRecentlyRevealedDecays(t *testing.T) {
	st := buildState(t, 8, 8, []Piece{NewPiece("r", Rook, White, Pos{X: 0, Y: 0})}, nil)
	UpdateFog(st)
	st.PieceByID("r").Pos = Pos{X: 4, Y: 4}
	st.TurnCount = 1
	UpdateFog(st)

	left := Pos{X: 0, Y: 1}
	st.TurnCount = 1 + RecentDecayTurns
	UpdateFog(st)
	if st.Fog.SquareState(left) != Recent {
		t.Fatalf("square decayed too early")
	}

	st.TurnCount = 2 + RecentDecayTurns
	UpdateFog(st)
	if got := st.Fog.SquareState(left); got != Remembered {
		t.Fatalf("state=%v want remembered after decay", got)
	}
}

func TestFogCloneIndependent(t *testing.T) {
	f := NewFog()
	f.Visible.Add(Pos{X: 1, Y: 1})
	c := f.Clone()
	c.Visible.Add(Pos{X: 2, Y: 2})
	c.RecentlyRevealed[Pos{X: 3, Y: 3}] = 4
	if f.Visible.Has(Pos{X: 2, Y: 2}) || len(f.RecentlyRevealed) != 0 {
		t.Fatalf("clone shares storage")
	}
}

func TestUpdateFogForFixedSide(t *testing.T) {
	st := buildState(t, 8, 8, []Piece{
		NewPiece("wr", Rook, White, Pos{X: 0, Y: 0}),
		NewPiece("bk", King, Black, Pos{X: 7, Y: 7}),
	}, nil)
	if st.CurrentTurn != White {
		t.Fatalf("turn=%v want white", st.CurrentTurn)
	}

	UpdateFogFor(st, Black)
	if st.Fog.Visible.Len() != 3 {
		t.Fatalf("visible=%d want the king's 3 neighbours", st.Fog.Visible.Len())
	}
	if !st.Fog.Visible.Has(Pos{X: 6, Y: 6}) || st.Fog.Visible.Has(Pos{X: 0, Y: 1}) {
		t.Fatalf("fog computed for the wrong side")
	}
}
