package game

import (
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shadowchess/internal/engine"
	"shadowchess/internal/shadowchess"
)

// Manager keeps live games in memory and fans their events out to
// subscribers.
type Manager struct {
	mu        sync.RWMutex
	games     map[string]*Game
	listeners []func(Event)
	log       *zap.Logger
	now       func() time.Time
}

func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		games: make(map[string]*Game),
		log:   log,
		now:   time.Now,
	}
}

// NewGame starts a fresh match on the standard square setup.
func (m *Manager) NewGame(opts Options) (*Game, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	st, err := shadowchess.NewInitialState(opts.BoardSize)
	if err != nil {
		return nil, err
	}
	return m.adopt(st, opts), nil
}

// Restore registers a game rebuilt from a save under a new id.
func (m *Manager) Restore(st *shadowchess.State, opts Options) (*Game, error) {
	opts = opts.withDefaults()
	if !opts.Difficulty.Valid() {
		return nil, ErrBadOptions
	}
	opts.BoardSize = st.Board.Width
	return m.adopt(st, opts), nil
}

func (m *Manager) adopt(st *shadowchess.State, opts Options) *Game {
	now := m.now()
	id := uuid.NewString()
	log := m.log.With(zap.String("game", id))

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	g := &Game{
		ID:        id,
		CreatedAt: now,
		updatedAt: now,
		opts:      opts,
		state:     st,
		log:       log,
		now:       m.now,
		emit:      m.publish,
	}
	g.ghosts = shadowchess.NewGhostSystem(st, m.now)
	g.ai = engine.NewAIPlayer(opts.HumanSide.Opponent(), opts.Difficulty,
		engine.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
		engine.WithLogger(log.Named("ai")),
		engine.WithMoveTimeout(opts.MoveTimeout),
		engine.WithGhostSystem(g.ghosts),
	)
	st.ClearSelection()
	shadowchess.UpdateFogFor(st, opts.HumanSide)

	m.mu.Lock()
	m.games[id] = g
	m.mu.Unlock()

	log.Info("game started",
		zap.Int("board_size", opts.BoardSize),
		zap.String("difficulty", string(opts.Difficulty)),
		zap.Int("turn", st.TurnCount),
	)
	m.publish(Event{Type: EventNewGame, GameID: id, TurnCount: st.TurnCount, CurrentTurn: st.CurrentTurn, Winner: shadowchess.NoSide, At: now})
	return g
}

func (m *Manager) Get(id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(m.games, id)
	return nil
}

// List returns game ids, most recently created first.
func (m *Manager) List() []string {
	m.mu.RLock()
	games := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool {
		if games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].ID < games[j].ID
		}
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}

// Subscribe registers fn for every event of every game. fn runs on the
// goroutine that produced the event, with the game lock held, and must not
// call back into the game.
func (m *Manager) Subscribe(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) publish(ev Event) {
	m.mu.RLock()
	listeners := slices.Clone(m.listeners)
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

// EngineStats sums search counters over the live games.
func (m *Manager) EngineStats() engine.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total engine.Stats
	for _, g := range m.games {
		s := g.EngineStats()
		total.Searches += s.Searches
		total.Nodes += s.Nodes
		total.Pruned += s.Pruned
	}
	return total
}
