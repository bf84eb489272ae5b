package engine

import (
	"context"
	"testing"
	"time"

	"shadowchess/internal/shadowchess"
)

// captureFixture: an 8x8 board of ruins with a small open pocket. Black's
// queen on (1,1) can take the undefended white pawn on (2,2) or step to
// (1,2); both kings sit on ruins, which kings ignore.
func captureFixture(t *testing.T) *shadowchess.State {
	t.Helper()
	b := shadowchess.NewPlainBoard(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b.SetTerrain(shadowchess.Pos{X: x, Y: y}, shadowchess.Ruins)
		}
	}
	for _, p := range []shadowchess.Pos{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}} {
		b.SetTerrain(p, shadowchess.Plain)
	}
	st := shadowchess.NewState(b, shadowchess.DefaultPlayers(), []shadowchess.Piece{
		shadowchess.NewPiece("bq", shadowchess.Queen, shadowchess.Black, shadowchess.Pos{X: 1, Y: 1}),
		shadowchess.NewPiece("wp", shadowchess.Pawn, shadowchess.White, shadowchess.Pos{X: 2, Y: 2}),
		shadowchess.NewKing("bk", shadowchess.Black, shadowchess.Pos{X: 5, Y: 5}),
		shadowchess.NewKing("wk", shadowchess.White, shadowchess.Pos{X: 6, Y: 1}),
	})
	st.CurrentTurn = shadowchess.Black
	st.TurnCount = 1
	return st
}

func TestSearchPrefersCapture(t *testing.T) {
	for _, depth := range []int{1, 2, 3} {
		st := captureFixture(t)
		before := shadowchess.Encode(st)

		e := NewEngine(nil)
		res := e.Search(context.Background(), st, SearchConfig{Player: shadowchess.Black, Depth: depth})
		if !res.Found {
			t.Fatalf("depth %d: no move", depth)
		}
		if res.BestMove.PieceID != "bq" || res.BestMove.To != (shadowchess.Pos{X: 2, Y: 2}) {
			t.Fatalf("depth %d: best=%+v want queen takes pawn", depth, res.BestMove)
		}
		if res.RootMoves != 10 {
			t.Fatalf("depth %d: root moves=%d want 10", depth, res.RootMoves)
		}
		if got := shadowchess.Encode(st); got != before {
			t.Fatalf("depth %d: search mutated the caller's state", depth)
		}
	}
}

func TestSearchTakesKing(t *testing.T) {
	st := captureFixture(t)
	st.RemovePiece("wp")
	st.PieceByID("wk").Pos = shadowchess.Pos{X: 2, Y: 2}

	res := NewEngine(nil).Search(context.Background(), st, SearchConfig{Player: shadowchess.Black, Depth: 2})
	if res.BestMove.To != (shadowchess.Pos{X: 2, Y: 2}) {
		t.Fatalf("best=%+v want king capture", res.BestMove)
	}
	if res.Score < 900 {
		t.Fatalf("score=%v, king capture should dominate", res.Score)
	}
	if st.GameOver || st.PieceByID("wk") == nil {
		t.Fatalf("king capture leaked into the caller's state")
	}
}

func TestPruningDoesNotChangeResult(t *testing.T) {
	for _, depth := range []int{2, 3} {
		st, err := shadowchess.NewInitialState(8)
		if err != nil {
			t.Fatal(err)
		}
		st.PieceByID("p0_PAWN_3").MoveTo(shadowchess.Pos{X: 3, Y: 2})
		st.EndTurn()

		cfg := SearchConfig{Player: shadowchess.Black, Depth: depth}
		pruned := NewEngine(nil).Search(context.Background(), st, cfg)
		cfg.DisablePruning = true
		full := NewEngine(nil).Search(context.Background(), st, cfg)

		if pruned.BestMove != full.BestMove || pruned.Score != full.Score {
			t.Fatalf("depth %d: pruned %+v/%v, full %+v/%v",
				depth, pruned.BestMove, pruned.Score, full.BestMove, full.Score)
		}
		if full.Pruned != 0 {
			t.Fatalf("depth %d: plain minimax reported %d cutoffs", depth, full.Pruned)
		}
		if pruned.Nodes > full.Nodes {
			t.Fatalf("depth %d: pruning visited more nodes (%d > %d)", depth, pruned.Nodes, full.Nodes)
		}
	}
}

func TestSearchNoMoves(t *testing.T) {
	st := shadowchess.NewState(shadowchess.NewPlainBoard(8, 8), shadowchess.DefaultPlayers(), []shadowchess.Piece{
		shadowchess.NewKing("wk", shadowchess.White, shadowchess.Pos{X: 0, Y: 0}),
	})
	res := NewEngine(nil).Search(context.Background(), st, SearchConfig{Player: shadowchess.Black, Depth: 2})
	if res.Found || res.RootMoves != 0 {
		t.Fatalf("expected no move, got %+v", res)
	}
}

func TestSearchRootBudget(t *testing.T) {
	st := captureFixture(t)
	res := NewEngine(nil).Search(context.Background(), st, SearchConfig{
		Player:    shadowchess.Black,
		Depth:     2,
		TimeLimit: time.Nanosecond,
	})
	if !res.Found || !res.TimedOut || res.RootMoves != 1 {
		t.Fatalf("budget: found=%v timedOut=%v rootMoves=%d", res.Found, res.TimedOut, res.RootMoves)
	}
	// Captures are ordered first, so the single searched move is still the capture.
	if res.BestMove.To != (shadowchess.Pos{X: 2, Y: 2}) {
		t.Fatalf("best=%+v", res.BestMove)
	}
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := NewEngine(nil).Search(ctx, captureFixture(t), SearchConfig{Player: shadowchess.Black, Depth: 4})
	if !res.Found || res.RootMoves != 1 {
		t.Fatalf("cancelled search: %+v", res)
	}
}

func TestEngineStatsAccumulate(t *testing.T) {
	e := NewEngine(nil)
	for i := 0; i < 2; i++ {
		e.Search(context.Background(), captureFixture(t), SearchConfig{Player: shadowchess.Black, Depth: 2})
	}
	s := e.Stats()
	if s.Searches != 2 || s.Nodes == 0 {
		t.Fatalf("stats=%+v", s)
	}
	if r := s.PruneRate(); r < 0 || r > 1 {
		t.Fatalf("prune rate %v", r)
	}
	if (Stats{}).PruneRate() != 0 {
		t.Fatalf("empty stats prune rate")
	}
}

func TestOrderedMovesCapturesFirst(t *testing.T) {
	st := captureFixture(t)
	moves := orderedMoves(st, shadowchess.Black)
	if len(moves) == 0 || moves[0].To != (shadowchess.Pos{X: 2, Y: 2}) || moves[0].Score != 10 {
		t.Fatalf("first move %+v", moves[0])
	}
	for i := 1; i < len(moves); i++ {
		if moves[i].Score > moves[i-1].Score {
			t.Fatalf("moves not sorted at %d", i)
		}
	}
}

func TestEvaluate(t *testing.T) {
	st := captureFixture(t)
	// material +8, sight 18 vs 10, unused ghost
	if got := Evaluate(st, shadowchess.Black); got != 8+0.5*8+2 {
		t.Fatalf("Evaluate=%v", got)
	}

	st.Players[shadowchess.Black].GhostUsed = true
	st.Pieces = append(st.Pieces, shadowchess.NewDecoy("bd", shadowchess.Black, shadowchess.Pos{X: 0, Y: 7}))
	// decoy adds 1 material, 3 disguise bonus and sight of (1,6)
	if got := Evaluate(st, shadowchess.Black); got != 9+0.5*9+3 {
		t.Fatalf("Evaluate with decoy=%v", got)
	}
}
