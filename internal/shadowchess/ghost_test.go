package shadowchess

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func ghostFixture(t *testing.T) (*State, *GhostSystem) {
	t.Helper()
	st := buildState(t, 16, 16, []Piece{
		NewPiece("q", Queen, White, Pos{X: 8, Y: 8}),
		NewPiece("edge", Rook, White, Pos{X: 1, Y: 8}),
		NewKing("wk", White, Pos{X: 8, Y: 0}),
		NewPiece("bq", Queen, Black, Pos{X: 10, Y: 10}),
		NewKing("bk", Black, Pos{X: 8, Y: 11}),
	}, nil)
	return st, NewGhostSystem(st, func() time.Time { return fixedNow })
}

func TestGhostCanActivate(t *testing.T) {
	st, g := ghostFixture(t)
	tests := []struct {
		name  string
		side  Side
		piece string
		want  bool
	}{
		{"centre unit", White, "q", true},
		{"near edge", White, "edge", false},
		{"opponent unit", White, "bq", false},
		{"unknown", White, "missing", false},
		{"bad side", NoSide, "q", false},
	}
	for _, tt := range tests {
		if got := g.CanActivate(tt.side, tt.piece); got != tt.want {
			t.Errorf("%s: CanActivate=%v want %v", tt.name, got, tt.want)
		}
	}

	st.Players[White].GhostUsed = true
	if g.CanActivate(White, "q") {
		t.Fatalf("spent ability allowed activation")
	}
}

func TestGhostActivateIsOncePerGame(t *testing.T) {
	st, g := ghostFixture(t)
	if res := g.Activate(White, "q"); !res.Success {
		t.Fatalf("activate failed: %s", res.Reason)
	}
	if !st.Players[White].GhostUsed || !st.PieceByID("q").GhostActive {
		t.Fatalf("activation not recorded on state")
	}
	if st.PieceByID("q").Pos != (Pos{X: 8, Y: 8}) {
		t.Fatalf("activation moved the unit")
	}
	rec, ok := g.Record("q")
	if !ok || rec.Phase != GhostActivated || !rec.ActivatedAt.Equal(fixedNow) {
		t.Fatalf("record=%+v ok=%v", rec, ok)
	}

	g.Cancel("q")
	if res := g.Activate(White, "q"); res.Success || res.Reason != ReasonInvalidActivation {
		t.Fatalf("second activation: %+v", res)
	}
}

func TestGhostExecute(t *testing.T) {
	st, g := ghostFixture(t)
	g.Activate(White, "q")

	res := g.Execute("q", Pos{X: 8, Y: 4})
	if !res.Success || res.Distance != 4 {
		t.Fatalf("execute=%+v", res)
	}
	pc := st.PieceByID("q")
	if pc.Pos != (Pos{X: 8, Y: 4}) || pc.GhostActive {
		t.Fatalf("unit after ghost move: %+v", pc)
	}
	rec, _ := g.Record("q")
	if rec.Phase != GhostExecuted || rec.Origin != (Pos{X: 8, Y: 8}) || rec.Target == nil || *rec.Target != (Pos{X: 8, Y: 4}) {
		t.Fatalf("record=%+v", rec)
	}
	if st.CurrentTurn != White {
		t.Fatalf("execute must leave turn handling to the caller")
	}
}

func TestGhostExecuteFailures(t *testing.T) {
	tests := []struct {
		name   string
		target Pos
		reason string
	}{
		{"too far though legal", Pos{X: 8, Y: 3}, ReasonGhostTooFar},
		{"not a queen move", Pos{X: 9, Y: 10}, ReasonInvalidTarget},
		{"own unit", Pos{X: 8, Y: 8}, ReasonInvalidTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, g := ghostFixture(t)
			g.Activate(White, "q")
			res := g.Execute("q", tt.target)
			if res.Success || res.Reason != tt.reason {
				t.Fatalf("execute=%+v want reason %q", res, tt.reason)
			}
			pc := st.PieceByID("q")
			if pc.GhostActive || pc.Pos != (Pos{X: 8, Y: 8}) {
				t.Fatalf("failed ghost should return to inactive in place: %+v", pc)
			}
			if !st.Players[White].GhostUsed {
				t.Fatalf("failed ghost refunded the ability")
			}
		})
	}
}

func TestGhostExecuteRequiresActivation(t *testing.T) {
	_, g := ghostFixture(t)
	if res := g.Execute("q", Pos{X: 8, Y: 6}); res.Success || res.Reason != ReasonGhostNotActive {
		t.Fatalf("execute without activation: %+v", res)
	}
}

func TestGhostCaptureOfKingEndsGame(t *testing.T) {
	st, g := ghostFixture(t)
	g.Activate(White, "q")
	if res := g.Execute("q", Pos{X: 8, Y: 11}); !res.Success {
		t.Fatalf("execute=%+v", res)
	}
	if !st.GameOver || st.Winner != White {
		t.Fatalf("king taken by ghost: gameOver=%v winner=%v", st.GameOver, st.Winner)
	}
	if st.PieceByID("bk") != nil {
		t.Fatalf("king still present")
	}
}

func TestGhostCancel(t *testing.T) {
	st, g := ghostFixture(t)
	if g.Cancel("q") {
		t.Fatalf("cancel of inactive unit reported success")
	}
	g.Activate(White, "q")
	if !g.Cancel("q") {
		t.Fatalf("cancel failed")
	}
	if st.PieceByID("q").GhostActive {
		t.Fatalf("still active after cancel")
	}
	rec, _ := g.Record("q")
	if rec.Phase != GhostInactive {
		t.Fatalf("phase=%v", rec.Phase)
	}
}
