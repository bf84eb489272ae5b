package game

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"shadowchess/internal/engine"
	"shadowchess/internal/shadowchess"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameOver      = errors.New("game is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrUnknownPiece  = errors.New("unknown piece")
	ErrIllegalMove   = errors.New("illegal move")
	ErrNothingToUndo = errors.New("no moves to undo")
	ErrBadOptions    = errors.New("invalid game options")
)

const DefaultBoardSize = 16

type Options struct {
	BoardSize   int
	Difficulty  engine.Difficulty
	HumanSide   shadowchess.Side
	MoveTimeout time.Duration
	Seed        uint64 // 0 picks one from the clock
}

func (o Options) withDefaults() Options {
	if o.BoardSize == 0 {
		o.BoardSize = DefaultBoardSize
	}
	if o.Difficulty == "" {
		o.Difficulty = engine.Medium
	}
	if !o.HumanSide.Valid() {
		o.HumanSide = shadowchess.White
	}
	if o.MoveTimeout <= 0 {
		o.MoveTimeout = engine.DefaultMoveTimeout
	}
	return o
}

func (o Options) validate() error {
	if o.BoardSize < shadowchess.MinBoardSize {
		return errors.Join(ErrBadOptions, shadowchess.ErrBoardSize)
	}
	if !o.Difficulty.Valid() {
		return ErrBadOptions
	}
	return nil
}

// asMap is the form stored with saved games.
func (o Options) asMap() map[string]string {
	return map[string]string{
		"board_size":   strconv.Itoa(o.BoardSize),
		"difficulty":   string(o.Difficulty),
		"human_side":   strconv.Itoa(int(o.HumanSide)),
		"move_timeout": o.MoveTimeout.String(),
	}
}

// OptionsFromMap reverses asMap; unknown or missing entries keep defaults.
func OptionsFromMap(m map[string]string) Options {
	var o Options
	if v, err := strconv.Atoi(m["board_size"]); err == nil {
		o.BoardSize = v
	}
	o.Difficulty = engine.Difficulty(m["difficulty"])
	if v, err := strconv.Atoi(m["human_side"]); err == nil {
		o.HumanSide = shadowchess.Side(v)
	} else {
		o.HumanSide = shadowchess.NoSide
	}
	if d, err := time.ParseDuration(m["move_timeout"]); err == nil {
		o.MoveTimeout = d
	}
	o = o.withDefaults()
	if !o.Difficulty.Valid() {
		o.Difficulty = engine.Medium
	}
	return o
}

// Game is one human-vs-AI match. Every method takes the game lock, so an
// AI decision blocks other calls on the same game until it returns.
type Game struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	updatedAt time.Time
	opts      Options
	state     *shadowchess.State
	ghosts    *shadowchess.GhostSystem
	ai        *engine.AIPlayer
	log       *zap.Logger
	now       func() time.Time
	emit      func(Event)
	usedGhost bool
}

func (g *Game) Options() Options {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.opts
}

func (g *Game) UpdatedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.updatedAt
}

func (g *Game) humanSide() shadowchess.Side { return g.opts.HumanSide }

func (g *Game) aiSide() shadowchess.Side { return g.opts.HumanSide.Opponent() }

// Summary describes the match for result bookkeeping.
type Summary struct {
	GameID     string
	Difficulty engine.Difficulty
	Turns      int
	GameOver   bool
	HumanWon   bool
	UsedGhost  bool
	Duration   time.Duration
}

func (g *Game) Summary() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.state
	return Summary{
		GameID:     g.ID,
		Difficulty: g.opts.Difficulty,
		Turns:      st.TurnCount,
		GameOver:   st.GameOver,
		HumanWon:   st.GameOver && st.Winner == g.humanSide(),
		UsedGhost:  g.usedGhost,
		Duration:   g.updatedAt.Sub(g.CreatedAt),
	}
}

// Snapshot captures the game for saving.
func (g *Game) Snapshot() (shadowchess.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.GameOver {
		return shadowchess.Snapshot{}, ErrGameOver
	}
	return shadowchess.NewSnapshot(g.state, g.opts.asMap(), g.now()), nil
}

// EngineStats reports the AI's search counters.
func (g *Game) EngineStats() engine.Stats {
	return g.ai.Engine().Stats()
}
