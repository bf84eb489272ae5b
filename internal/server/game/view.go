package game

import (
	"sort"

	"shadowchess/internal/shadowchess"
)

// UnitView is a unit as one side is allowed to see it.
type UnitView struct {
	ID          string           `json:"id,omitempty"` // empty for enemy units
	Type        string           `json:"type"`
	Owner       shadowchess.Side `json:"owner"`
	Pos         shadowchess.Pos  `json:"position"`
	HasMoved    bool             `json:"has_moved"`
	GhostActive bool             `json:"is_ghost_active,omitempty"`
	Disguised   bool             `json:"is_disguised,omitempty"`
}

// View is the board from one side's seat. Enemy units only show on squares
// that side currently sees, and always under their display type.
type View struct {
	GameID            string            `json:"game_id"`
	Width             int               `json:"width"`
	Height            int               `json:"height"`
	Terrain           [][]string        `json:"terrain"`
	Units             []UnitView        `json:"units"`
	You               shadowchess.Side  `json:"you"`
	CurrentTurn       shadowchess.Side  `json:"current_turn"`
	TurnCount         int               `json:"turn_count"`
	GameOver          bool              `json:"game_over"`
	Winner            shadowchess.Side  `json:"winner"`
	GhostUsed         bool              `json:"ghost_used"`
	OpponentGhostUsed bool              `json:"opponent_ghost_used"`
	Visible           []shadowchess.Pos `json:"visible"`
	Recent            []shadowchess.Pos `json:"recently_revealed"`
	Memory            []shadowchess.Pos `json:"memory"`
	Selected          string            `json:"selected,omitempty"`
	ValidMoves        []shadowchess.Pos `json:"valid_moves,omitempty"`
	CanUndo           bool              `json:"can_undo"`
	Difficulty        string            `json:"difficulty"`
}

// HumanView is View for the human seat.
func (g *Game) HumanView() View {
	return g.View(g.Options().HumanSide)
}

func (g *Game) View(side shadowchess.Side) View {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := g.state
	human := side == g.humanSide()
	v := View{
		GameID:      g.ID,
		Width:       st.Board.Width,
		Height:      st.Board.Height,
		Terrain:     terrainNames(st.Board),
		You:         side,
		CurrentTurn: st.CurrentTurn,
		TurnCount:   st.TurnCount,
		GameOver:    st.GameOver,
		Winner:      st.Winner,
		Difficulty:  string(g.opts.Difficulty),
	}
	if p := st.Player(side); p != nil {
		v.GhostUsed = p.GhostUsed
	}
	if p := st.Player(side.Opponent()); p != nil {
		v.OpponentGhostUsed = p.GhostUsed
	}

	visible := shadowchess.VisibleSquares(st, side)
	v.Units = []UnitView{}
	for i := range st.Pieces {
		pc := &st.Pieces[i]
		if pc.Owner == side {
			v.Units = append(v.Units, UnitView{
				ID:          pc.ID,
				Type:        pc.Type.String(),
				Owner:       pc.Owner,
				Pos:         pc.Pos,
				HasMoved:    pc.HasMoved,
				GhostActive: pc.GhostActive,
				Disguised:   pc.Disguised,
			})
			continue
		}
		if !visible.Has(pc.Pos) {
			continue
		}
		v.Units = append(v.Units, UnitView{
			Type:        pc.DisplayType().String(),
			Owner:       pc.Owner,
			Pos:         pc.Pos,
			HasMoved:    pc.HasMoved,
			GhostActive: pc.GhostActive,
		})
	}

	v.Visible = visible.Sorted()
	if human {
		v.Recent = sortedKeys(st.Fog.RecentlyRevealed)
		v.Memory = st.Fog.Memory.Sorted()
		v.Selected = st.Selected
		v.ValidMoves = st.ValidMoves
		v.CanUndo = st.CanUndo() && !st.GameOver && st.CurrentTurn == side
	}
	return v
}

func terrainNames(b *shadowchess.Board) [][]string {
	rows := make([][]string, b.Height)
	for y := range rows {
		rows[y] = make([]string, b.Width)
		for x := range rows[y] {
			rows[y][x] = b.TerrainAt(shadowchess.Pos{X: x, Y: y}).String()
		}
	}
	return rows
}

func sortedKeys(m map[shadowchess.Pos]int) []shadowchess.Pos {
	out := make([]shadowchess.Pos, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
