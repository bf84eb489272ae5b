package game

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"shadowchess/internal/shadowchess"
)

// Outcome is what one turn did.
type Outcome struct {
	Move     shadowchess.Move   `json:"move"`
	Captured string             `json:"captured,omitempty"` // id of the taken unit
	Passed   bool               `json:"passed,omitempty"`
	GameOver bool               `json:"game_over"`
	Winner   shadowchess.Side   `json:"winner"`
	Pulse    *shadowchess.Pulse `json:"pulse,omitempty"` // human moves only
}

// Select marks one of the human's units and returns where it may go. A unit
// in ghost form only lists targets inside ghost range.
func (g *Game) Select(pieceID string) ([]shadowchess.Pos, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pc, err := g.humanPiece(pieceID)
	if err != nil {
		return nil, err
	}
	moves := shadowchess.ValidMoves(g.state, pc)
	if pc.GhostActive {
		moves = slices.DeleteFunc(moves, func(p shadowchess.Pos) bool {
			return shadowchess.ManhattanDistance(pc.Pos, p) > shadowchess.GhostMaxDistance
		})
	}
	g.state.Selected = pc.ID
	g.state.ValidMoves = moves
	return slices.Clone(moves), nil
}

func (g *Game) Deselect() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.ClearSelection()
}

// humanPiece checks that the human may act now with the given unit.
func (g *Game) humanPiece(pieceID string) (*shadowchess.Piece, error) {
	st := g.state
	if st.GameOver {
		return nil, ErrGameOver
	}
	if st.CurrentTurn != g.humanSide() {
		return nil, ErrNotYourTurn
	}
	pc := st.PieceByID(pieceID)
	if pc == nil || pc.Owner != g.humanSide() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPiece, pieceID)
	}
	return pc, nil
}

// Play moves one of the human's units. A unit in ghost form makes its ghost
// move; a rejected ghost move still spends the ability.
func (g *Game) Play(pieceID string, to shadowchess.Pos) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.humanPiece(pieceID); err != nil {
		return Outcome{}, err
	}
	return g.apply(g.humanSide(), pieceID, to)
}

// apply validates and carries out a move for side, then ends the turn.
func (g *Game) apply(side shadowchess.Side, pieceID string, to shadowchess.Pos) (Outcome, error) {
	st := g.state
	pc := st.PieceByID(pieceID)
	if pc == nil || pc.Owner != side {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownPiece, pieceID)
	}
	from := pc.Pos
	ghost := pc.GhostActive

	if !ghost && !shadowchess.IsValidMove(st, pc, to) {
		return Outcome{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, pieceID, to.Key())
	}

	var captured string
	if occ := st.PieceAt(to); occ != nil && occ.Owner != side {
		captured = occ.ID
	}

	if ghost {
		// Execute re-checks range and legality and clears the ghost form
		// when it refuses.
		if shadowchess.ManhattanDistance(from, to) <= shadowchess.GhostMaxDistance && shadowchess.IsValidMove(st, pc, to) && side == g.humanSide() {
			st.SaveToHistory()
		}
		res := g.ghosts.Execute(pieceID, to)
		if !res.Success {
			g.log.Info("ghost move rejected", zap.String("piece", pieceID), zap.String("reason", res.Reason))
			return Outcome{}, fmt.Errorf("%w: %s", ErrIllegalMove, res.Reason)
		}
		if side == g.humanSide() {
			g.usedGhost = true
		}
	} else {
		if side == g.humanSide() {
			st.SaveToHistory()
		}
		if _, ok := st.MovePiece(pieceID, to); !ok {
			return Outcome{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, pieceID, to.Key())
		}
		// moving another unit forfeits a pending ghost move
		for _, own := range st.PiecesByOwner(side) {
			if own.GhostActive && g.ghosts.Cancel(own.ID) {
				g.log.Debug("ghost lapsed", zap.String("piece", own.ID))
			}
		}
	}

	mv := shadowchess.Move{PieceID: pieceID, From: from, To: to, IsGhostMove: ghost}
	return g.finishTurn(side, mv, captured), nil
}

// finishTurn refreshes the human's fog and hands the turn over unless the
// move ended the game.
func (g *Game) finishTurn(side shadowchess.Side, mv shadowchess.Move, captured string) Outcome {
	st := g.state
	st.ClearSelection()
	shadowchess.UpdateFogFor(st, g.humanSide())
	if !st.GameOver {
		st.EndTurn()
	}
	g.updatedAt = g.now()

	g.log.Debug("move",
		zap.Int("side", int(side)),
		zap.String("piece", mv.PieceID),
		zap.String("from", mv.From.Key()),
		zap.String("to", mv.To.Key()),
		zap.Bool("ghost", mv.IsGhostMove),
		zap.String("captured", captured),
	)

	ev := g.event(EventMove, side)
	ev.Captured = captured != ""
	if side == g.humanSide() {
		m := mv
		ev.Move = &m
	}
	g.publish(ev)

	out := Outcome{Move: mv, Captured: captured, GameOver: st.GameOver, Winner: st.Winner}
	if side == g.humanSide() && !mv.IsGhostMove {
		if pc := st.PieceByID(mv.PieceID); pc != nil {
			p := shadowchess.EmitPulse(st.Board, pc)
			out.Pulse = &p
			pev := g.event(EventPulse, side)
			pev.Pulse = &p
			g.publish(pev)
		}
	}
	if st.GameOver {
		g.log.Info("game over", zap.Int("winner", int(st.Winner)), zap.Int("turns", st.TurnCount))
		g.publish(g.event(EventGameOver, side))
	}
	return out
}

// ActivateGhost puts one of the human's units into ghost form. Rule
// refusals come back in the Result, not as an error.
func (g *Game) ActivateGhost(pieceID string) (shadowchess.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.humanPiece(pieceID); err != nil {
		return shadowchess.Result{}, err
	}
	res := g.ghosts.Activate(g.humanSide(), pieceID)
	if res.Success {
		g.updatedAt = g.now()
		g.state.ClearSelection()
		g.publish(g.event(EventGhost, g.humanSide()))
	}
	return res, nil
}

// Ping makes one of the human's units give off an echo without moving.
func (g *Game) Ping(pieceID string) (shadowchess.Pulse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pc, err := g.humanPiece(pieceID)
	if err != nil {
		return shadowchess.Pulse{}, err
	}
	p := shadowchess.EmitPulse(g.state.Board, pc)
	ev := g.event(EventPulse, g.humanSide())
	ev.Pulse = &p
	g.publish(ev)
	return p, nil
}

// CancelGhost returns an activated unit to normal form. The ability stays
// spent.
func (g *Game) CancelGhost(pieceID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.humanPiece(pieceID); err != nil {
		return false, err
	}
	return g.ghosts.Cancel(pieceID), nil
}

// AITurn lets the AI play when it is its turn. With nothing to play the AI
// passes.
func (g *Game) AITurn(ctx context.Context) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := g.state
	if st.GameOver {
		return Outcome{}, ErrGameOver
	}
	side := g.aiSide()
	if st.CurrentTurn != side {
		return Outcome{}, ErrNotYourTurn
	}

	before := unitIDs(st, g.humanSide())
	mv, ok := g.ai.MakeMove(ctx, st)
	if !ok {
		st.ClearSelection()
		shadowchess.UpdateFogFor(st, g.humanSide())
		st.EndTurn()
		g.updatedAt = g.now()
		g.log.Info("ai passes", zap.Int("turn", st.TurnCount))
		g.publish(g.event(EventPass, side))
		return Outcome{Passed: true, Winner: st.Winner}, nil
	}

	if mv.IsGhostMove {
		// already carried out on the live state
		var captured string
		after := unitIDs(st, g.humanSide())
		for id := range before {
			if _, ok := after[id]; !ok {
				captured = id
			}
		}
		return g.finishTurn(side, mv, captured), nil
	}
	return g.apply(side, mv.PieceID, mv.To)
}

func unitIDs(st *shadowchess.State, side shadowchess.Side) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, pc := range st.PiecesByOwner(side) {
		ids[pc.ID] = struct{}{}
	}
	return ids
}

// Undo takes back the human's last move together with the AI reply.
func (g *Game) Undo() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := g.state
	if st.GameOver {
		return ErrGameOver
	}
	if st.CurrentTurn != g.humanSide() {
		return ErrNotYourTurn
	}
	if !st.Undo() {
		return ErrNothingToUndo
	}
	g.ghosts.Rebind(st)
	shadowchess.UpdateFogFor(st, g.humanSide())
	g.updatedAt = g.now()
	g.publish(g.event(EventUndo, g.humanSide()))
	return nil
}
