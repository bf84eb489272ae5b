package engine

import "shadowchess/internal/shadowchess"

const (
	visibilityWeight = 0.5
	ghostUnusedBonus = 2.0
	disguiseBonus    = 3.0
)

// Evaluate scores st from me's point of view: material, difference in
// visible squares, a small bonus while the ghost ability is unspent, and a
// bonus per own decoy.
func Evaluate(st *shadowchess.State, me shadowchess.Side) float64 {
	opp := me.Opponent()

	material := 0
	disguised := 0
	for i := range st.Pieces {
		pc := &st.Pieces[i]
		if pc.Owner == me {
			material += pc.Type.Value()
			if pc.Disguised && !pc.IsKing() {
				disguised++
			}
		} else {
			material -= pc.Type.Value()
		}
	}

	mine := shadowchess.VisibleSquares(st, me).Len()
	theirs := shadowchess.VisibleSquares(st, opp).Len()

	score := float64(material) + visibilityWeight*float64(mine-theirs)
	if p := st.Player(me); p != nil && !p.GhostUsed {
		score += ghostUnusedBonus
	}
	score += disguiseBonus * float64(disguised)
	return score
}
