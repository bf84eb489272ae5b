package shadowchess

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestSnapshotRestore(t *testing.T) {
	st, err := NewInitialState(12)
	if err != nil {
		t.Fatal(err)
	}
	st.PieceByID("p0_PAWN_3").MoveTo(Pos{X: 5, Y: 2})
	st.EndTurn()
	st.Players[White].GhostUsed = true
	UpdateFog(st)
	st.Fog.RecentlyRevealed[Pos{X: 1, Y: 1}] = 0

	snap := NewSnapshot(st, map[string]string{"difficulty": "hard"}, time.UnixMilli(1700000000000))
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	var back Snapshot
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.Timestamp != 1700000000000 || back.Options["difficulty"] != "hard" {
		t.Fatalf("metadata lost: %+v", back)
	}

	got, err := back.Restore()
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if Encode(got) != Encode(st) {
		t.Fatalf("restored position differs:\n got %s\nwant %s", Encode(got), Encode(st))
	}
	for i := range st.Pieces {
		if got.Pieces[i] != st.Pieces[i] {
			t.Fatalf("piece %d: got %+v want %+v", i, got.Pieces[i], st.Pieces[i])
		}
	}
	if got.Fog.Visible.Len() != st.Fog.Visible.Len() || got.Fog.Memory.Len() != st.Fog.Memory.Len() {
		t.Fatalf("fog sets not restored")
	}
	if got.Fog.RecentlyRevealed[Pos{X: 1, Y: 1}] != 0 || len(got.Fog.RecentlyRevealed) != len(st.Fog.RecentlyRevealed) {
		t.Fatalf("recent layer not restored")
	}
	if got.CanUndo() {
		t.Fatalf("restored state should have no history")
	}
}

func TestSnapshotRejects(t *testing.T) {
	base := func() Snapshot {
		st, err := NewInitialState(8)
		if err != nil {
			t.Fatal(err)
		}
		return NewSnapshot(st, nil, time.Now())
	}

	snap := base()
	snap.Version = "0.9"
	if _, err := snap.Restore(); !errors.Is(err, ErrIncompatibleVersion) {
		t.Fatalf("version: err=%v", err)
	}

	snap = base()
	snap.Terrain = snap.Terrain[:3]
	if _, err := snap.Restore(); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("short terrain: err=%v", err)
	}

	snap = base()
	snap.Terrain[0][0] = "LAVA"
	if _, err := snap.Restore(); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("unknown terrain: err=%v", err)
	}

	snap = base()
	snap.Pieces = nil
	if _, err := snap.Restore(); !errors.Is(err, ErrInvalidPieces) {
		t.Fatalf("missing pieces: err=%v", err)
	}

	snap = base()
	dup := *snap.Pieces[1].Position
	snap.Pieces[0].Position = &dup
	if _, err := snap.Restore(); !errors.Is(err, ErrInvalidPieces) {
		t.Fatalf("duplicate square: err=%v", err)
	}

	snap = base()
	snap.Pieces[1].ID = snap.Pieces[0].ID
	if _, err := snap.Restore(); !errors.Is(err, ErrInvalidPieces) {
		t.Fatalf("duplicate id: err=%v", err)
	}

	snap = base()
	snap.Pieces[0].Type = "DRAGON"
	if _, err := snap.Restore(); !errors.Is(err, ErrInvalidPieces) {
		t.Fatalf("unknown type: err=%v", err)
	}
}

func TestParseKey(t *testing.T) {
	if p, ok := ParseKey("3,11"); !ok || p != (Pos{X: 3, Y: 11}) {
		t.Fatalf("ParseKey=%v %v", p, ok)
	}
	for _, bad := range []string{"", "3", "a,b", "1;2"} {
		if _, ok := ParseKey(bad); ok {
			t.Fatalf("ParseKey(%q) accepted", bad)
		}
	}
}
