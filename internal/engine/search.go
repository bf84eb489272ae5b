package engine

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"shadowchess/internal/shadowchess"
)

const defaultDepth = 3

type SearchConfig struct {
	Player    shadowchess.Side // side the search plays for
	Depth     int              // plies; <= 0 means defaultDepth
	TimeLimit time.Duration    // checked between root moves only; 0 = none

	// DisablePruning turns alpha-beta into plain minimax.
	DisablePruning bool
}

type SearchResult struct {
	BestMove  shadowchess.Move
	Found     bool
	Score     float64
	Depth     int
	Nodes     int64
	Pruned    int64
	RootMoves int // root candidates actually searched
	TimedOut  bool
	TimeUsed  time.Duration
}

// Search picks cfg.Player's best move in st. st is never modified; the
// search plays moves on a private clone with make/unmake.
//
// The time budget is only consulted before each root move after the first,
// so one deep subtree can overrun it. A cancelled ctx stops both the root
// loop and any descent in progress, which then falls back to static
// evaluation.
func (e *Engine) Search(ctx context.Context, st *shadowchess.State, cfg SearchConfig) SearchResult {
	if cfg.Depth <= 0 {
		cfg.Depth = defaultDepth
	}
	start := time.Now()
	e.resetCounters()
	defer e.flushCounters()

	root := st.Clone()
	res := SearchResult{Depth: cfg.Depth}

	moves := orderedMoves(root, cfg.Player)
	if len(moves) == 0 {
		res.TimeUsed = time.Since(start)
		return res
	}

	alpha := math.Inf(-1)
	beta := math.Inf(1)
	best := math.Inf(-1)

	for i, mv := range moves {
		if i > 0 {
			if cfg.TimeLimit > 0 && time.Since(start) > cfg.TimeLimit {
				res.TimedOut = true
				break
			}
			if ctx.Err() != nil {
				break
			}
		}

		u := root.MakeMove(mv)
		score := e.minimax(ctx, root, cfg.Depth-1, alpha, beta, false, cfg.Player, cfg.DisablePruning)
		root.UnmakeMove(u)
		res.RootMoves++

		if score > best {
			best = score
			res.BestMove = mv
			res.Found = true
		}
		if !cfg.DisablePruning && score > alpha {
			alpha = score
		}
	}

	res.Score = best
	res.Nodes = e.nodes
	res.Pruned = e.pruned
	res.TimeUsed = time.Since(start)

	e.log.Debug("search done",
		zap.Int("player", int(cfg.Player)),
		zap.Int("depth", cfg.Depth),
		zap.Int("root_moves", res.RootMoves),
		zap.Int("candidates", len(moves)),
		zap.Int64("nodes", res.Nodes),
		zap.Int64("pruned", res.Pruned),
		zap.Float64("score", res.Score),
		zap.Bool("timed_out", res.TimedOut),
		zap.Duration("elapsed", res.TimeUsed),
	)
	return res
}

// minimax: maximizing nodes belong to me, minimizing nodes to the opponent.
func (e *Engine) minimax(ctx context.Context, st *shadowchess.State, depth int, alpha, beta float64, maximizing bool, me shadowchess.Side, noPrune bool) float64 {
	e.nodes++

	if depth <= 0 || st.GameOver || ctx.Err() != nil {
		return Evaluate(st, me)
	}

	side := me
	if !maximizing {
		side = me.Opponent()
	}
	moves := orderedMoves(st, side)
	if len(moves) == 0 {
		return Evaluate(st, me)
	}

	if maximizing {
		best := math.Inf(-1)
		for _, mv := range moves {
			u := st.MakeMove(mv)
			score := e.minimax(ctx, st, depth-1, alpha, beta, false, me, noPrune)
			st.UnmakeMove(u)
			best = math.Max(best, score)
			alpha = math.Max(alpha, score)
			if !noPrune && beta <= alpha {
				e.pruned++
				break
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, mv := range moves {
		u := st.MakeMove(mv)
		score := e.minimax(ctx, st, depth-1, alpha, beta, true, me, noPrune)
		st.UnmakeMove(u)
		best = math.Min(best, score)
		beta = math.Min(beta, score)
		if !noPrune && beta <= alpha {
			e.pruned++
			break
		}
	}
	return best
}

// orderedMoves returns side's moves, captures first by captured value. The
// sort is stable so equal scores keep generation order.
func orderedMoves(st *shadowchess.State, side shadowchess.Side) []shadowchess.Move {
	moves := shadowchess.LegalMoves(st, side)
	for i := range moves {
		if target := st.PieceAt(moves[i].To); target != nil && target.Owner != side {
			moves[i].Score = target.Type.Value() * 10
		}
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})
	return moves
}
