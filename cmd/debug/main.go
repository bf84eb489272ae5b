package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"shadowchess/internal/shadowchess"
)

func main() {
	size := flag.Int("size", 16, "board size")
	enc := flag.String("pos", "", "encoded position to inspect instead of the start position")
	flag.Parse()

	var (
		st  *shadowchess.State
		err error
	)
	if *enc != "" {
		st, err = shadowchess.Decode(*enc)
	} else {
		st, err = shadowchess.NewInitialState(*size)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("Position:", shadowchess.Encode(st))
	fmt.Printf("Board: %dx%d, turn %d, player %d to move\n", st.Board.Width, st.Board.Height, st.TurnCount, st.CurrentTurn)

	counts := map[shadowchess.Terrain]int{}
	for y := 0; y < st.Board.Height; y++ {
		var row strings.Builder
		for x := 0; x < st.Board.Width; x++ {
			p := shadowchess.Pos{X: x, Y: y}
			t := st.Board.TerrainAt(p)
			counts[t]++
			if pc := st.PieceAt(p); pc != nil {
				row.WriteString(unitLetter(pc))
				continue
			}
			row.WriteString(terrainLetter(t))
		}
		fmt.Println(row.String())
	}
	for t, n := range counts {
		fmt.Printf("%-7s %d\n", t, n)
	}

	for _, side := range []shadowchess.Side{shadowchess.White, shadowchess.Black} {
		moves := shadowchess.LegalMoves(st, side)
		sight := shadowchess.VisibleSquares(st, side)
		fmt.Printf("Player %d: %d units, %d legal moves, %d squares in sight\n",
			side, len(st.PiecesByOwner(side)), len(moves), sight.Len())
	}
}

func unitLetter(pc *shadowchess.Piece) string {
	l := "?"
	switch pc.Type {
	case shadowchess.Pawn:
		l = "p"
		if pc.IsDecoy() {
			l = "d"
		}
	case shadowchess.Knight:
		l = "n"
	case shadowchess.Bishop:
		l = "b"
	case shadowchess.Rook:
		l = "r"
	case shadowchess.Queen:
		l = "q"
	case shadowchess.King:
		l = "k"
	}
	if pc.Owner == shadowchess.White {
		return strings.ToUpper(l)
	}
	return l
}

func terrainLetter(t shadowchess.Terrain) string {
	switch t {
	case shadowchess.Forest:
		return "f"
	case shadowchess.Ruins:
		return "#"
	case shadowchess.Swamp:
		return "~"
	case shadowchess.Sacred:
		return "+"
	}
	return "."
}
