package engine

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Engine runs searches one at a time. Per-search counters live on the
// Engine; lifetime totals are atomic so Stats may be read from other
// goroutines.
type Engine struct {
	log *zap.Logger

	nodes  int64
	pruned int64

	searches    atomic.Int64
	totalNodes  atomic.Int64
	totalPruned atomic.Int64
}

func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

type Stats struct {
	Searches int64 `json:"searches"`
	Nodes    int64 `json:"nodes"`
	Pruned   int64 `json:"pruned"`
}

// PruneRate is cutoffs per visited node.
func (s Stats) PruneRate() float64 {
	if s.Nodes == 0 {
		return 0
	}
	return float64(s.Pruned) / float64(s.Nodes)
}

func (e *Engine) Stats() Stats {
	return Stats{
		Searches: e.searches.Load(),
		Nodes:    e.totalNodes.Load(),
		Pruned:   e.totalPruned.Load(),
	}
}

func (e *Engine) resetCounters() {
	e.nodes = 0
	e.pruned = 0
}

func (e *Engine) flushCounters() {
	e.searches.Add(1)
	e.totalNodes.Add(e.nodes)
	e.totalPruned.Add(e.pruned)
}
