package engine

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"shadowchess/internal/shadowchess"
)

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestSearchDepth(t *testing.T) {
	tests := []struct {
		width int
		d     Difficulty
		want  int
	}{
		{8, Easy, 2},
		{16, Medium, 4},
		{16, Hard, 6},
		{16, "unknown", 3},
		{20, Hard, 4},
		{24, Hard, 3},
		{32, Medium, 3},
		{24, Easy, 2},
	}
	for _, tt := range tests {
		if got := SearchDepth(tt.width, tt.d); got != tt.want {
			t.Errorf("SearchDepth(%d,%q)=%d want %d", tt.width, tt.d, got, tt.want)
		}
	}
}

func TestGhostUseProbability(t *testing.T) {
	tests := []struct {
		turn int
		d    Difficulty
		want float64
	}{
		{0, Hard, 0.1},
		{4, Easy, 0.1},
		{5, Easy, 0.2},
		{14, Hard, 0.2},
		{15, Easy, 0.15},
		{40, Medium, 0.15},
		{15, Hard, 0.3},
	}
	for _, tt := range tests {
		if got := GhostUseProbability(tt.turn, tt.d); got != tt.want {
			t.Errorf("GhostUseProbability(%d,%q)=%v want %v", tt.turn, tt.d, got, tt.want)
		}
	}
}

func TestAIMakeMoveCaptures(t *testing.T) {
	st := captureFixture(t)
	before := shadowchess.Encode(st)
	ai := NewAIPlayer(shadowchess.Black, Easy, WithRand(seeded()))

	mv, ok := ai.MakeMove(context.Background(), st)
	if !ok {
		t.Fatalf("no move")
	}
	if mv.IsGhostMove || mv.PieceID != "bq" || mv.To != (shadowchess.Pos{X: 2, Y: 2}) {
		t.Fatalf("move=%+v", mv)
	}
	if shadowchess.Encode(st) != before {
		t.Fatalf("a searched move must not be applied by the AI")
	}
}

func TestAIMakeMoveNone(t *testing.T) {
	st := shadowchess.NewState(shadowchess.NewPlainBoard(8, 8), shadowchess.DefaultPlayers(), []shadowchess.Piece{
		shadowchess.NewKing("wk", shadowchess.White, shadowchess.Pos{X: 0, Y: 0}),
	})
	ai := NewAIPlayer(shadowchess.Black, Medium, WithRand(seeded()))
	if mv, ok := ai.MakeMove(context.Background(), st); ok {
		t.Fatalf("expected no move, got %+v", mv)
	}

	st.SetWinner(shadowchess.White)
	if _, ok := ai.MakeMove(context.Background(), st); ok {
		t.Fatalf("moved after game over")
	}
}

func ghostAIFixture(t *testing.T, moved bool) *shadowchess.State {
	t.Helper()
	rook := shadowchess.NewPiece("br", shadowchess.Rook, shadowchess.Black, shadowchess.Pos{X: 8, Y: 8})
	rook.HasMoved = moved
	st := shadowchess.NewState(shadowchess.NewPlainBoard(16, 16), shadowchess.DefaultPlayers(), []shadowchess.Piece{
		rook,
		shadowchess.NewPiece("wq", shadowchess.Queen, shadowchess.White, shadowchess.Pos{X: 8, Y: 5}),
		shadowchess.NewPiece("wp", shadowchess.Pawn, shadowchess.White, shadowchess.Pos{X: 10, Y: 8}),
		shadowchess.NewKing("wk", shadowchess.White, shadowchess.Pos{X: 0, Y: 0}),
		shadowchess.NewKing("bk", shadowchess.Black, shadowchess.Pos{X: 15, Y: 15}),
	})
	st.CurrentTurn = shadowchess.Black
	st.TurnCount = 9
	return st
}

func TestAIGhostTakesBestTarget(t *testing.T) {
	st := ghostAIFixture(t, true)
	gs := shadowchess.NewGhostSystem(st, func() time.Time { return time.Unix(0, 0) })
	ai := NewAIPlayer(shadowchess.Black, Hard, WithRand(seeded()), WithGhostSystem(gs))

	mv, ok := ai.attemptGhost(st)
	if !ok {
		t.Fatalf("ghost attempt failed")
	}
	want := shadowchess.Move{PieceID: "br", From: shadowchess.Pos{X: 8, Y: 8}, To: shadowchess.Pos{X: 8, Y: 5}, IsGhostMove: true}
	if mv != want {
		t.Fatalf("move=%+v want %+v", mv, want)
	}
	if !st.Players[shadowchess.Black].GhostUsed {
		t.Fatalf("ghost ability not spent")
	}
	if st.PieceByID("wq") != nil || st.PieceByID("br").Pos != want.To {
		t.Fatalf("ghost move not applied to the live state")
	}
	if rec, ok := gs.Record("br"); !ok || rec.Phase != shadowchess.GhostExecuted {
		t.Fatalf("record=%+v ok=%v", rec, ok)
	}
	if st.CurrentTurn != shadowchess.Black {
		t.Fatalf("ghost move must leave turn handling to the caller")
	}
}

func TestAIGhostNeedsMovedMajor(t *testing.T) {
	st := ghostAIFixture(t, false)
	ai := NewAIPlayer(shadowchess.Black, Hard, WithRand(seeded()))
	if mv, ok := ai.attemptGhost(st); ok {
		t.Fatalf("unmoved rook used ghost: %+v", mv)
	}
	if st.Players[shadowchess.Black].GhostUsed {
		t.Fatalf("ability spent without a candidate")
	}
}

func TestAIGhostSkippedOnceUsed(t *testing.T) {
	st := ghostAIFixture(t, true)
	st.Players[shadowchess.Black].GhostUsed = true
	ai := NewAIPlayer(shadowchess.Black, Hard, WithRand(seeded()))
	for i := 0; i < 50; i++ {
		if _, ok := ai.tryGhostMove(st); ok {
			t.Fatalf("ghost used twice")
		}
	}
}

func TestEvaluateGhostTarget(t *testing.T) {
	st := ghostAIFixture(t, true)
	if got := evaluateGhostTarget(st, shadowchess.Black, shadowchess.Pos{X: 8, Y: 5}); got != 9*20+5*2 {
		t.Fatalf("queen target=%d", got)
	}
	if got := evaluateGhostTarget(st, shadowchess.Black, shadowchess.Pos{X: 8, Y: 7}); got != 7*2 {
		t.Fatalf("empty target=%d", got)
	}
	if got := evaluateGhostTarget(st, shadowchess.Black, shadowchess.Pos{X: 0, Y: 0}); got != 1000*20+1000 {
		t.Fatalf("king target=%d", got)
	}
}
