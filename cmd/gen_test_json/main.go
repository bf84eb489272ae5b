package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"shadowchess/internal/shadowchess"
)

// TestCase is one position from a random game with the destinations each
// of the mover's units may reach, for checking other move generators.
type TestCase struct {
	Position string              `json:"position"`
	Player   int                 `json:"player"`
	Moves    map[string][]string `json:"moves"` // unit id -> "x,y" targets
	Sight    []string            `json:"sight"`
}

func main() {
	numGames := flag.Int("games", 10, "random games to sample")
	size := flag.Int("size", 10, "board size")
	maxMoves := flag.Int("maxmoves", 200, "move cap per game")
	seed := flag.Uint64("seed", 1, "random seed")
	out := flag.String("out", "move_gen_test_data.json", "output file")
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed^0x5eed))
	var testCases []TestCase

	for g := 0; g < *numGames; g++ {
		st, err := shadowchess.NewInitialState(*size)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for moveCount := 0; moveCount < *maxMoves && !st.GameOver; moveCount++ {
			side := st.CurrentTurn
			legal := shadowchess.LegalMoves(st, side)
			if len(legal) == 0 {
				break
			}

			tc := TestCase{
				Position: shadowchess.Encode(st),
				Player:   int(side),
				Moves:    map[string][]string{},
				Sight:    shadowchess.VisibleSquares(st, side).Keys(),
			}
			for _, mv := range legal {
				tc.Moves[mv.PieceID] = append(tc.Moves[mv.PieceID], mv.To.Key())
			}
			testCases = append(testCases, tc)

			chosen := legal[rng.IntN(len(legal))]
			if _, ok := st.MovePiece(chosen.PieceID, chosen.To); !ok {
				break
			}
			if !st.GameOver {
				st.EndTurn()
			}
		}
	}

	data, err := json.MarshalIndent(testCases, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %d test cases from %d random games to %s\n", len(testCases), *numGames, *out)
}
