package shadowchess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const SnapshotVersion = "1.0"

var (
	ErrIncompatibleVersion = errors.New("incompatible save version")
	ErrInvalidBoard        = errors.New("invalid board data")
	ErrInvalidPieces       = errors.New("invalid pieces data")
)

// Snapshot is the persisted form of a State.
type Snapshot struct {
	Version     string            `json:"version"`
	Timestamp   int64             `json:"timestamp"` // unix millis
	BoardWidth  int               `json:"board_width"`
	BoardHeight int               `json:"board_height"`
	Terrain     [][]string        `json:"terrain"`
	Players     []Player          `json:"players"`
	Pieces      []PieceRecord     `json:"pieces"`
	CurrentTurn int               `json:"current_turn"`
	TurnCount   int               `json:"turn_count"`
	GameOver    bool              `json:"game_over,omitempty"`
	Winner      int               `json:"winner"`
	Fog         FogRecord         `json:"fog"`
	Options     map[string]string `json:"options,omitempty"`
}

type PieceRecord struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Owner       int    `json:"owner"`
	Position    *Pos   `json:"position"`
	HasMoved    bool   `json:"has_moved"`
	GhostActive bool   `json:"is_ghost_active"`
	Disguised   bool   `json:"is_disguised"`
}

type FogRecord struct {
	Visible          []string       `json:"visible"`
	RecentlyRevealed map[string]int `json:"recently_revealed"`
	Memory           []string       `json:"memory"`
}

func NewSnapshot(s *State, options map[string]string, at time.Time) Snapshot {
	snap := Snapshot{
		Version:     SnapshotVersion,
		Timestamp:   at.UnixMilli(),
		BoardWidth:  s.Board.Width,
		BoardHeight: s.Board.Height,
		Players:     append([]Player(nil), s.Players[:]...),
		CurrentTurn: int(s.CurrentTurn),
		TurnCount:   s.TurnCount,
		GameOver:    s.GameOver,
		Winner:      int(s.Winner),
		Options:     options,
	}
	snap.Terrain = make([][]string, s.Board.Height)
	for y, row := range s.Board.Terrain {
		snap.Terrain[y] = make([]string, len(row))
		for x, t := range row {
			snap.Terrain[y][x] = t.String()
		}
	}
	for _, pc := range s.Pieces {
		at := pc.Pos
		snap.Pieces = append(snap.Pieces, PieceRecord{
			ID:          pc.ID,
			Type:        pc.Type.String(),
			Owner:       int(pc.Owner),
			Position:    &at,
			HasMoved:    pc.HasMoved,
			GhostActive: pc.GhostActive,
			Disguised:   pc.Disguised,
		})
	}
	snap.Fog = FogRecord{
		Visible:          s.Fog.Visible.Keys(),
		RecentlyRevealed: make(map[string]int, len(s.Fog.RecentlyRevealed)),
		Memory:           s.Fog.Memory.Keys(),
	}
	for p, t := range s.Fog.RecentlyRevealed {
		snap.Fog.RecentlyRevealed[p.Key()] = t
	}
	return snap
}

// Restore validates the snapshot and rebuilds a State from it.
func (snap Snapshot) Restore() (*State, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %q", ErrIncompatibleVersion, snap.Version)
	}
	board, err := snap.board()
	if err != nil {
		return nil, err
	}
	pieces, err := snap.pieces(board)
	if err != nil {
		return nil, err
	}

	players := DefaultPlayers()
	for _, p := range snap.Players {
		if p.ID.Valid() {
			players[p.ID] = p
		}
	}
	st := NewState(board, players, pieces)
	if snap.CurrentTurn == int(Black) {
		st.CurrentTurn = Black
	}
	st.TurnCount = snap.TurnCount
	st.GameOver = snap.GameOver
	st.Winner = NoSide
	if s := Side(snap.Winner); st.GameOver && s.Valid() {
		st.Winner = s
	}

	for _, k := range snap.Fog.Visible {
		if p, ok := ParseKey(k); ok {
			st.Fog.Visible.Add(p)
		}
	}
	for _, k := range snap.Fog.Memory {
		if p, ok := ParseKey(k); ok {
			st.Fog.Memory.Add(p)
		}
	}
	for k, t := range snap.Fog.RecentlyRevealed {
		if p, ok := ParseKey(k); ok {
			st.Fog.RecentlyRevealed[p] = t
		}
	}
	return st, nil
}

func (snap Snapshot) board() (*Board, error) {
	if snap.BoardWidth <= 0 || snap.BoardHeight <= 0 || len(snap.Terrain) != snap.BoardHeight {
		return nil, ErrInvalidBoard
	}
	terrain := make([][]Terrain, snap.BoardHeight)
	for y, row := range snap.Terrain {
		if len(row) != snap.BoardWidth {
			return nil, fmt.Errorf("%w: row %d", ErrInvalidBoard, y)
		}
		terrain[y] = make([]Terrain, snap.BoardWidth)
		for x, name := range row {
			t, ok := ParseTerrain(name)
			if !ok {
				return nil, fmt.Errorf("%w: terrain %q", ErrInvalidBoard, name)
			}
			terrain[y][x] = t
		}
	}
	return &Board{Width: snap.BoardWidth, Height: snap.BoardHeight, Terrain: terrain}, nil
}

func (snap Snapshot) pieces(b *Board) ([]Piece, error) {
	if snap.Pieces == nil {
		return nil, ErrInvalidPieces
	}
	out := make([]Piece, 0, len(snap.Pieces))
	seen := make(map[Pos]bool, len(snap.Pieces))
	ids := make(map[string]bool, len(snap.Pieces))
	for _, r := range snap.Pieces {
		pt, ok := ParsePieceType(r.Type)
		owner := Side(r.Owner)
		if r.ID == "" || !ok || !owner.Valid() || r.Position == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPieces, r.ID)
		}
		if !b.IsValidPosition(*r.Position) || seen[*r.Position] {
			return nil, fmt.Errorf("%w: %q at %s", ErrInvalidPieces, r.ID, r.Position.Key())
		}
		if ids[r.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidPieces, r.ID)
		}
		seen[*r.Position] = true
		ids[r.ID] = true
		out = append(out, Piece{
			ID:          r.ID,
			Type:        pt,
			Owner:       owner,
			Pos:         *r.Position,
			HasMoved:    r.HasMoved,
			GhostActive: r.GhostActive,
			Disguised:   r.Disguised,
		})
	}
	return out, nil
}

// ParseKey reads the "x,y" square form.
func ParseKey(k string) (Pos, bool) {
	xs, ys, ok := strings.Cut(k, ",")
	if !ok {
		return Pos{}, false
	}
	x, err1 := strconv.Atoi(xs)
	y, err2 := strconv.Atoi(ys)
	if err1 != nil || err2 != nil {
		return Pos{}, false
	}
	return Pos{X: x, Y: y}, true
}
