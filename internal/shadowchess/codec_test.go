package shadowchess

import (
	"errors"
	"strings"
	"testing"
)

const (
	plain8   = "......../......../......../......../......../......../......../........"
	startPcs = "RNBQKBNR/PPPPPPPP/8/2DDD3/2ddd3/8/pppppppp/rnbqkbnr"
)

func TestEncodeInitialPieces(t *testing.T) {
	st, err := NewInitialState(8)
	if err != nil {
		t.Fatal(err)
	}
	st.Board = NewPlainBoard(8, 8)
	want := plain8 + " " + startPcs + " 0 0 --"
	if got := Encode(st); got != want {
		t.Fatalf("Encode:\n got %s\nwant %s", got, want)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	cases := []string{
		plain8 + " " + startPcs + " 0 0 --",
		"..f...../.r....s./......../...w..../......../......../......../........ " +
			"K'7/8/3q4/8/2N'5/8/7d/k7 1 17 g-",
		"........./........./........./........./........./........./........./........./......... " +
			"4k4/9/9/9/9/9/9/9/4K4 0 3 gg",
	}
	for _, enc := range cases {
		st, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v", enc, err)
		}
		if got := Encode(st); got != enc {
			t.Fatalf("round trip:\n got %s\nwant %s", got, enc)
		}
	}
}

func TestDecodeDetails(t *testing.T) {
	st, err := Decode("..f...../.r....s./......../...w..../......../......../......../........ " +
		"K'7/8/3q4/8/2N'5/8/7d/k7 1 17 g-")
	if err != nil {
		t.Fatal(err)
	}
	if st.CurrentTurn != Black || st.TurnCount != 17 {
		t.Fatalf("turn=%v count=%d", st.CurrentTurn, st.TurnCount)
	}
	if !st.Players[White].GhostUsed || st.Players[Black].GhostUsed {
		t.Fatalf("ghost flags=%+v", st.Players)
	}
	if st.Board.TerrainAt(Pos{X: 2, Y: 0}) != Forest || st.Board.TerrainAt(Pos{X: 1, Y: 1}) != Ruins {
		t.Fatalf("terrain not decoded")
	}

	k := st.PieceAt(Pos{X: 0, Y: 0})
	if k == nil || k.Type != King || k.Owner != White || !k.HasMoved || !k.Disguised || k.ID != "p0_KING_0" {
		t.Fatalf("white king=%+v", k)
	}
	d := st.PieceAt(Pos{X: 7, Y: 6})
	if d == nil || !d.IsDecoy() || d.Owner != Black || d.ID != "p1_DECOY_0" {
		t.Fatalf("decoy=%+v", d)
	}
	if n := st.PieceAt(Pos{X: 2, Y: 4}); n == nil || n.Type != Knight || !n.HasMoved {
		t.Fatalf("knight=%+v", n)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"too few fields":  plain8 + " " + startPcs,
		"short terrain":   "......./......../......../......../......../......../......../........ " + startPcs + " 0",
		"bad terrain":     "x......./......../......../......../......../......../......../........ " + startPcs + " 0",
		"row overflow":    plain8 + " RNBQKBNRR/PPPPPPPP/2DDD3/8/8/2ddd3/pppppppp/rnbqkbnr 0",
		"short row":       plain8 + " RNBQKBN/PPPPPPPP/2DDD3/8/8/2ddd3/pppppppp/rnbqkbnr 0",
		"unknown unit":    plain8 + " RNBQKBNX/PPPPPPPP/2DDD3/8/8/2ddd3/pppppppp/rnbqkbnr 0",
		"row count":       plain8 + " 8/8/8 0",
		"bad turn":        plain8 + " " + startPcs + " 2",
		"bad turn count":  plain8 + " " + startPcs + " 0 -4",
		"bad ghost flags": plain8 + " " + startPcs + " 0 0 g",
		"oversized run":   plain8 + " 99999999999999999999/PPPPPPPP/2DDD3/8/8/2ddd3/pppppppp/rnbqkbnr 0",
	}
	for name, enc := range cases {
		if _, err := Decode(enc); !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("%s: err=%v want ErrInvalidEncoding", name, err)
		}
	}
}

func TestDecodeOversizedRun(t *testing.T) {
	enc := plain8 + " 99999999999999999999/PPPPPPPP/2DDD3/8/8/2ddd3/pppppppp/rnbqkbnr 0"
	_, err := Decode(enc)
	if !errors.Is(err, ErrInvalidEncoding) || !strings.Contains(err.Error(), "bad run") {
		t.Fatalf("err=%v want a bad run error", err)
	}
}
