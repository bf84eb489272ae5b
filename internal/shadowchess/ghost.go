package shadowchess

import "time"

const (
	// GhostMinEdgeDistance: units closer than this to an edge may not ghost.
	GhostMinEdgeDistance = 3
	// GhostMaxDistance caps the Manhattan length of a ghost move.
	GhostMaxDistance = 4
)

const (
	ReasonInvalidActivation = "Invalid ghost activation"
	ReasonGhostNotActive    = "Ghost not active"
	ReasonGhostTooFar       = "Ghost movement limited to 4 squares"
	ReasonInvalidTarget     = "Invalid ghost move target"
)

type GhostPhase int8

const (
	GhostInactive GhostPhase = iota
	GhostActivated
	GhostExecuted
)

func (p GhostPhase) String() string {
	switch p {
	case GhostActivated:
		return "activated"
	case GhostExecuted:
		return "executed"
	}
	return "inactive"
}

type GhostRecord struct {
	Phase       GhostPhase
	Origin      Pos
	Target      *Pos
	ActivatedAt time.Time
}

// Result reports a rule decision; Reason is meant for people.
type Result struct {
	Success  bool
	Reason   string
	Distance int
}

func fail(reason string) Result { return Result{Reason: reason} }

// GhostSystem drives the once-per-game ghost ability over one State.
type GhostSystem struct {
	state   *State
	now     func() time.Time
	records map[string]*GhostRecord
}

func NewGhostSystem(s *State, now func() time.Time) *GhostSystem {
	if now == nil {
		now = time.Now
	}
	return &GhostSystem{
		state:   s,
		now:     now,
		records: make(map[string]*GhostRecord),
	}
}

// Rebind points the system at a replacement state (after load or undo).
func (g *GhostSystem) Rebind(s *State) { g.state = s }

func (g *GhostSystem) CanActivate(side Side, pieceID string) bool {
	player := g.state.Player(side)
	pc := g.state.PieceByID(pieceID)
	if player == nil || pc == nil {
		return false
	}
	if player.GhostUsed {
		return false
	}
	if pc.Owner != side {
		return false
	}
	return g.state.Board.DistanceToEdge(pc.Pos) >= GhostMinEdgeDistance
}

// Activate consumes the player's ability and flags the unit. Nothing moves yet.
func (g *GhostSystem) Activate(side Side, pieceID string) Result {
	if !g.CanActivate(side, pieceID) {
		return fail(ReasonInvalidActivation)
	}
	g.state.Player(side).GhostUsed = true
	pc := g.state.PieceByID(pieceID)
	pc.GhostActive = true

	g.records[pieceID] = &GhostRecord{
		Phase:       GhostActivated,
		Origin:      pc.Pos,
		ActivatedAt: g.now(),
	}
	return Result{Success: true}
}

// Execute performs the ghost move. The distance cap and ordinary move
// legality are both required. A failed attempt drops the unit back to
// inactive; the player's ability stays spent.
func (g *GhostSystem) Execute(pieceID string, target Pos) Result {
	pc := g.state.PieceByID(pieceID)
	if pc == nil || !pc.GhostActive {
		return fail(ReasonGhostNotActive)
	}

	dist := ManhattanDistance(pc.Pos, target)
	if dist > GhostMaxDistance {
		g.deactivate(pc)
		return fail(ReasonGhostTooFar)
	}
	if !IsValidMove(g.state, pc, target) {
		g.deactivate(pc)
		return fail(ReasonInvalidTarget)
	}

	origin := pc.Pos
	if _, ok := g.state.MovePiece(pieceID, target); !ok {
		g.deactivate(g.state.PieceByID(pieceID))
		return fail(ReasonInvalidTarget)
	}
	pc = g.state.PieceByID(pieceID)
	pc.GhostActive = false

	rec := g.record(pieceID, origin)
	rec.Phase = GhostExecuted
	at := pc.Pos
	rec.Target = &at
	return Result{Success: true, Distance: dist}
}

// Cancel drops an activated unit back to inactive without moving it.
func (g *GhostSystem) Cancel(pieceID string) bool {
	pc := g.state.PieceByID(pieceID)
	if pc == nil || !pc.GhostActive {
		return false
	}
	g.deactivate(pc)
	return true
}

func (g *GhostSystem) Record(pieceID string) (GhostRecord, bool) {
	rec, ok := g.records[pieceID]
	if !ok {
		return GhostRecord{}, false
	}
	return *rec, true
}

func (g *GhostSystem) deactivate(pc *Piece) {
	if pc == nil {
		return
	}
	pc.GhostActive = false
	if rec, ok := g.records[pc.ID]; ok && rec.Phase == GhostActivated {
		rec.Phase = GhostInactive
	}
}

func (g *GhostSystem) record(id string, origin Pos) *GhostRecord {
	rec, ok := g.records[id]
	if !ok {
		rec = &GhostRecord{Origin: origin, ActivatedAt: g.now()}
		g.records[id] = rec
	}
	return rec
}
