package engine

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"shadowchess/internal/shadowchess"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// DefaultMoveTimeout is the root time budget for one AI decision.
const DefaultMoveTimeout = 2000 * time.Millisecond

// DifficultyDepth is the nominal search depth for a difficulty level.
func DifficultyDepth(d Difficulty) int {
	switch d {
	case Easy:
		return 2
	case Medium:
		return 4
	case Hard:
		return 6
	}
	return defaultDepth
}

// BoardDepth limits depth on wide boards, where branching grows fastest.
func BoardDepth(width int) int {
	switch {
	case width >= 24:
		return 3
	case width >= 20:
		return 4
	}
	return 6
}

func SearchDepth(width int, d Difficulty) int {
	return min(DifficultyDepth(d), BoardDepth(width))
}

// GhostUseProbability is the chance per turn that the AI tries its ghost.
func GhostUseProbability(turn int, d Difficulty) float64 {
	switch {
	case turn < 5:
		return 0.1
	case turn < 15:
		return 0.2
	case d == Hard:
		return 0.3
	}
	return 0.15
}

type AIPlayer struct {
	side       shadowchess.Side
	difficulty Difficulty
	engine     *Engine
	ghosts     *shadowchess.GhostSystem
	rng        *rand.Rand
	timeout    time.Duration
	log        *zap.Logger
}

type AIOption func(*AIPlayer)

// WithRand fixes the random source used for ghost decisions.
func WithRand(r *rand.Rand) AIOption {
	return func(a *AIPlayer) { a.rng = r }
}

func WithLogger(log *zap.Logger) AIOption {
	return func(a *AIPlayer) {
		if log != nil {
			a.log = log
		}
	}
}

func WithMoveTimeout(d time.Duration) AIOption {
	return func(a *AIPlayer) { a.timeout = d }
}

func WithEngine(e *Engine) AIOption {
	return func(a *AIPlayer) { a.engine = e }
}

// WithGhostSystem shares the caller's ghost bookkeeping with the AI.
func WithGhostSystem(g *shadowchess.GhostSystem) AIOption {
	return func(a *AIPlayer) { a.ghosts = g }
}

func NewAIPlayer(side shadowchess.Side, difficulty Difficulty, opts ...AIOption) *AIPlayer {
	a := &AIPlayer{
		side:       side,
		difficulty: difficulty,
		timeout:    DefaultMoveTimeout,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.engine == nil {
		a.engine = NewEngine(a.log)
	}
	if a.rng == nil {
		now := uint64(time.Now().UnixNano())
		a.rng = rand.New(rand.NewPCG(now, now>>1))
	}
	return a
}

func (a *AIPlayer) Side() shadowchess.Side { return a.side }

func (a *AIPlayer) Difficulty() Difficulty { return a.difficulty }

func (a *AIPlayer) Engine() *Engine { return a.engine }

func (a *AIPlayer) SetDifficulty(d Difficulty) { a.difficulty = d }

// MakeMove decides the AI's move for st. A ghost move is carried out on st
// before returning (IsGhostMove is set and the caller must not apply it
// again); any other move is only proposed. ok is false when there is
// nothing to play.
func (a *AIPlayer) MakeMove(ctx context.Context, st *shadowchess.State) (shadowchess.Move, bool) {
	if st.GameOver {
		return shadowchess.Move{}, false
	}
	if mv, ok := a.tryGhostMove(st); ok {
		return mv, true
	}

	depth := SearchDepth(st.Board.Width, a.difficulty)
	res := a.engine.Search(ctx, st, SearchConfig{
		Player:    a.side,
		Depth:     depth,
		TimeLimit: a.timeout,
	})
	if !res.Found {
		a.log.Info("ai has no move", zap.Int("player", int(a.side)), zap.Int("turn", st.TurnCount))
		return shadowchess.Move{}, false
	}
	return res.BestMove, true
}

func (a *AIPlayer) tryGhostMove(st *shadowchess.State) (shadowchess.Move, bool) {
	player := st.Player(a.side)
	if player == nil || player.GhostUsed {
		return shadowchess.Move{}, false
	}
	if a.rng.Float64() >= GhostUseProbability(st.TurnCount, a.difficulty) {
		return shadowchess.Move{}, false
	}
	return a.attemptGhost(st)
}

// attemptGhost picks a random moved rook or queen and sends it to its best
// target within ghost range.
func (a *AIPlayer) attemptGhost(st *shadowchess.State) (shadowchess.Move, bool) {
	var candidates []string
	for _, pc := range st.PiecesByOwner(a.side) {
		if (pc.Type == shadowchess.Rook || pc.Type == shadowchess.Queen) && pc.HasMoved {
			candidates = append(candidates, pc.ID)
		}
	}
	if len(candidates) == 0 {
		return shadowchess.Move{}, false
	}
	id := candidates[a.rng.IntN(len(candidates))]

	gs := a.ghostSystem(st)
	if !gs.CanActivate(a.side, id) {
		return shadowchess.Move{}, false
	}

	pc := st.PieceByID(id)
	from := pc.Pos
	var (
		target    shadowchess.Pos
		bestScore = -1
	)
	for _, to := range shadowchess.ValidMoves(st, pc) {
		if shadowchess.ManhattanDistance(from, to) > shadowchess.GhostMaxDistance {
			continue
		}
		if s := evaluateGhostTarget(st, a.side, to); s > bestScore {
			bestScore = s
			target = to
		}
	}
	if bestScore < 0 {
		return shadowchess.Move{}, false
	}

	if res := gs.Activate(a.side, id); !res.Success {
		return shadowchess.Move{}, false
	}
	if res := gs.Execute(id, target); !res.Success {
		a.log.Warn("ghost move failed", zap.String("piece", id), zap.String("reason", res.Reason))
		return shadowchess.Move{}, false
	}
	a.log.Info("ai ghost move",
		zap.String("piece", id),
		zap.String("from", from.Key()),
		zap.String("to", target.Key()),
	)
	return shadowchess.Move{PieceID: id, From: from, To: target, IsGhostMove: true}, true
}

func (a *AIPlayer) ghostSystem(st *shadowchess.State) *shadowchess.GhostSystem {
	if a.ghosts == nil {
		return shadowchess.NewGhostSystem(st, nil)
	}
	a.ghosts.Rebind(st)
	return a.ghosts
}

func evaluateGhostTarget(st *shadowchess.State, side shadowchess.Side, to shadowchess.Pos) int {
	score := 0
	if target := st.PieceAt(to); target != nil && target.Owner != side {
		score += target.Type.Value() * 20
		if target.IsKing() {
			score += 1000
		}
	}
	return score + st.Board.DistanceToEdge(to)*2
}
