package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"shadowchess/internal/engine"
	"shadowchess/internal/shadowchess"
)

// randomPosition plays random legal moves from the start position.
func randomPosition(rng *rand.Rand, size, plies int) (*shadowchess.State, error) {
	st, err := shadowchess.NewInitialState(size)
	if err != nil {
		return nil, err
	}
	for i := 0; i < plies && !st.GameOver; i++ {
		moves := shadowchess.LegalMoves(st, st.CurrentTurn)
		if len(moves) == 0 {
			break
		}
		mv := moves[rng.IntN(len(moves))]
		st.MovePiece(mv.PieceID, mv.To)
		if !st.GameOver {
			st.EndTurn()
		}
	}
	return st, nil
}

// runBenchmark searches the same positions with and without alpha-beta
// cutoffs and reports node counts. Scores must agree.
func runBenchmark(ctx context.Context, log *zap.Logger, size, depth, positions int, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	pruned := engine.NewEngine(log)
	full := engine.NewEngine(log)

	var (
		nodesAB, nodesFull int64
		timeAB, timeFull   time.Duration
		mismatches         int
	)
	for i := 0; i < positions; i++ {
		if ctx.Err() != nil {
			break
		}
		st, err := randomPosition(rng, size, 4+rng.IntN(20))
		if err != nil {
			fmt.Println(err)
			return
		}
		if st.GameOver {
			continue
		}
		cfg := engine.SearchConfig{Player: st.CurrentTurn, Depth: depth}
		ab := pruned.Search(ctx, st, cfg)
		cfg.DisablePruning = true
		mm := full.Search(ctx, st, cfg)

		nodesAB += ab.Nodes
		nodesFull += mm.Nodes
		timeAB += ab.TimeUsed
		timeFull += mm.TimeUsed
		if ab.Found != mm.Found || ab.Score != mm.Score {
			mismatches++
		}
		fmt.Printf("pos %2d  turn %3d  alpha-beta %8d nodes %8s  minimax %8d nodes %8s  score %.1f\n",
			i+1, st.TurnCount, ab.Nodes, ab.TimeUsed.Round(time.Microsecond), mm.Nodes, mm.TimeUsed.Round(time.Microsecond), ab.Score)
	}

	fmt.Printf("\n=== Depth %d on %dx%d ===\n", depth, size, size)
	fmt.Printf("alpha-beta: %d nodes in %s (prune rate %.3f)\n", nodesAB, timeAB, pruned.Stats().PruneRate())
	fmt.Printf("minimax:    %d nodes in %s\n", nodesFull, timeFull)
	if nodesFull > 0 {
		fmt.Printf("saved:      %.1f%% of nodes\n", 100*(1-float64(nodesAB)/float64(nodesFull)))
	}
	fmt.Printf("score mismatches: %d\n", mismatches)
}
