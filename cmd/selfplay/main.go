package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shadowchess/internal/config"
	"shadowchess/internal/engine"
	"shadowchess/internal/shadowchess"
)

type matchConfig struct {
	size        int
	maxTurns    int
	moveTimeout time.Duration
	seed        uint64
}

type matchResult struct {
	whiteDiff engine.Difficulty
	winner    shadowchess.Side
	turns     int
	ghosts    int
	took      time.Duration
}

func main() {
	games := flag.Int("games", 10, "number of games to play")
	size := flag.Int("size", 8, "board size")
	first := flag.String("a", "medium", "difficulty of AI A")
	second := flag.String("b", "easy", "difficulty of AI B")
	maxTurns := flag.Int("maxturns", 300, "turn cap per game (draw beyond it)")
	parallel := flag.Int("parallel", runtime.NumCPU(), "games played at once")
	moveTimeout := flag.Duration("move-timeout", 500*time.Millisecond, "search budget per move")
	seed := flag.Uint64("seed", 1, "random seed")
	bench := flag.Bool("bench", false, "compare alpha-beta with plain minimax instead of playing")
	depth := flag.Int("depth", 3, "benchmark search depth")
	positions := flag.Int("positions", 20, "benchmark positions")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	cfg := config.Default()
	cfg.Development = *dev
	cfg.LogLevel = "warn"
	log, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *bench {
		runBenchmark(ctx, log, *size, *depth, *positions, *seed)
		return
	}

	a, b := engine.Difficulty(*first), engine.Difficulty(*second)
	if !a.Valid() || !b.Valid() {
		fmt.Fprintln(os.Stderr, "difficulty must be easy, medium or hard")
		os.Exit(2)
	}
	mc := matchConfig{size: *size, maxTurns: *maxTurns, moveTimeout: *moveTimeout, seed: *seed}

	results := make([]matchResult, *games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, *parallel))
	for i := range results {
		g.Go(func() error {
			white, black := a, b
			if i%2 == 1 {
				white, black = b, a
			}
			res, err := playMatch(gctx, log.With(zap.Int("game", i+1)), mc, i, white, black)
			if err != nil {
				return err
			}
			results[i] = res
			fmt.Printf("game %d: white=%s black=%s winner=%s turns=%d ghosts=%d took=%s\n",
				i+1, white, black, sideName(res.winner), res.turns, res.ghosts, res.took.Round(time.Millisecond))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	wins := map[engine.Difficulty]int{}
	draws := 0
	for _, r := range results {
		switch r.winner {
		case shadowchess.White:
			wins[r.whiteDiff]++
		case shadowchess.Black:
			if r.whiteDiff == a {
				wins[b]++
			} else {
				wins[a]++
			}
		default:
			draws++
		}
	}
	fmt.Printf("\n=== Final Score ===\n")
	fmt.Printf("A (%s): %d\n", a, wins[a])
	if a != b {
		fmt.Printf("B (%s): %d\n", b, wins[b])
	}
	fmt.Printf("Draws: %d\n", draws)
}

// playMatch runs one AI-vs-AI game on a fresh board. Both sides share one
// ghost bookkeeper, the way a single game does.
func playMatch(ctx context.Context, log *zap.Logger, mc matchConfig, n int, white, black engine.Difficulty) (matchResult, error) {
	st, err := shadowchess.NewInitialState(mc.size)
	if err != nil {
		return matchResult{}, err
	}
	start := time.Now()
	ghosts := shadowchess.NewGhostSystem(st, nil)
	rng := rand.New(rand.NewPCG(mc.seed, uint64(n)))
	players := [2]*engine.AIPlayer{}
	for side, d := range [2]engine.Difficulty{white, black} {
		players[side] = engine.NewAIPlayer(shadowchess.Side(side), d,
			engine.WithRand(rng),
			engine.WithGhostSystem(ghosts),
			engine.WithMoveTimeout(mc.moveTimeout),
			engine.WithLogger(log),
		)
	}
	shadowchess.UpdateFog(st)

	res := matchResult{whiteDiff: white, winner: shadowchess.NoSide}
	for !st.GameOver && st.TurnCount < mc.maxTurns {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		mv, ok := players[st.CurrentTurn].MakeMove(ctx, st)
		switch {
		case ok && mv.IsGhostMove:
			res.ghosts++
		case ok:
			if _, applied := st.MovePiece(mv.PieceID, mv.To); !applied {
				return res, fmt.Errorf("game %d: engine chose an unplayable move %+v", n+1, mv)
			}
		}
		shadowchess.UpdateFog(st)
		if !st.GameOver {
			st.EndTurn()
		}
	}
	res.turns = st.TurnCount
	res.took = time.Since(start)
	if st.GameOver {
		res.winner = st.Winner
	}
	return res, nil
}

func sideName(s shadowchess.Side) string {
	switch s {
	case shadowchess.White:
		return "white"
	case shadowchess.Black:
		return "black"
	}
	return "draw"
}
