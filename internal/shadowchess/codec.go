package shadowchess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Text layout, fields separated by spaces:
//
//	<terrain rows> <piece rows> <turn> [turnCount] [ghost flags]
//
// Rows are joined with '/', top row (y=0) first. Terrain letters are
// '.' plain, 'f' forest, 'r' ruins, 's' sacred, 'w' swamp. Piece letters are
// p n b r q k plus d for a decoy, upper case for player 0; a trailing '\''
// marks a unit that has moved; digits compress runs of empty squares.
// Ghost flags are two characters, 'g' for spent and '-' for available.

var ErrInvalidEncoding = errors.New("invalid position encoding")

var terrainToChar = map[Terrain]byte{
	Plain:  '.',
	Forest: 'f',
	Ruins:  'r',
	Sacred: 's',
	Swamp:  'w',
}

var charToTerrain = map[rune]Terrain{
	'.': Plain,
	'f': Forest,
	'r': Ruins,
	's': Sacred,
	'w': Swamp,
}

var letterToPieceType = map[rune]PieceType{
	'p': Pawn,
	'n': Knight,
	'b': Bishop,
	'r': Rook,
	'q': Queen,
	'k': King,
}

const decoyLetter = 'd'

func pieceToChar(pc *Piece) rune {
	var base rune
	if pc.IsDecoy() {
		base = decoyLetter
	} else {
		for k, v := range letterToPieceType {
			if v == pc.Type {
				base = k
				break
			}
		}
	}
	if pc.Owner == White {
		return unicode.ToUpper(base)
	}
	return base
}

func Encode(s *State) string {
	var sb strings.Builder
	b := s.Board
	for y := 0; y < b.Height; y++ {
		if y > 0 {
			sb.WriteByte('/')
		}
		for x := 0; x < b.Width; x++ {
			c, ok := terrainToChar[b.Terrain[y][x]]
			if !ok {
				c = '.'
			}
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(' ')

	for y := 0; y < b.Height; y++ {
		if y > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for x := 0; x < b.Width; x++ {
			pc := s.PieceAt(Pos{X: x, Y: y})
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteRune(pieceToChar(pc))
			if pc.HasMoved {
				sb.WriteByte('\'')
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(int(s.CurrentTurn)))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(s.TurnCount))
	sb.WriteByte(' ')
	for _, p := range s.Players {
		if p.GhostUsed {
			sb.WriteByte('g')
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Decode builds a State from Encode's layout. Unit ids are assigned in
// reading order as p<owner>_<TYPE>_<n>, decoys as p<owner>_DECOY_<n>.
func Decode(enc string) (*State, error) {
	fields := strings.Fields(enc)
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: want at least 3 fields, got %d", ErrInvalidEncoding, len(fields))
	}

	terrainRows := strings.Split(fields[0], "/")
	height := len(terrainRows)
	width := len(terrainRows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty terrain row", ErrInvalidEncoding)
	}
	terrain := make([][]Terrain, height)
	for y, row := range terrainRows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: terrain row %d has %d columns, want %d", ErrInvalidEncoding, y, len(row), width)
		}
		terrain[y] = make([]Terrain, width)
		for x, ch := range row {
			t, ok := charToTerrain[ch]
			if !ok {
				return nil, fmt.Errorf("%w: terrain %q", ErrInvalidEncoding, ch)
			}
			terrain[y][x] = t
		}
	}

	pieces, err := decodePieces(fields[1], width, height)
	if err != nil {
		return nil, err
	}

	st := NewState(NewBoardWithTerrain(width, height, terrain), DefaultPlayers(), pieces)

	switch fields[2] {
	case "0":
		st.CurrentTurn = White
	case "1":
		st.CurrentTurn = Black
	default:
		return nil, fmt.Errorf("%w: turn %q", ErrInvalidEncoding, fields[2])
	}
	if len(fields) > 3 {
		n, err := strconv.Atoi(fields[3])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: turn count %q", ErrInvalidEncoding, fields[3])
		}
		st.TurnCount = n
	}
	if len(fields) > 4 {
		flags := fields[4]
		if len(flags) != 2 {
			return nil, fmt.Errorf("%w: ghost flags %q", ErrInvalidEncoding, flags)
		}
		for i := 0; i < 2; i++ {
			st.Players[i].GhostUsed = flags[i] == 'g'
		}
	}
	return st, nil
}

func decodePieces(field string, width, height int) ([]Piece, error) {
	rows := strings.Split(field, "/")
	if len(rows) != height {
		return nil, fmt.Errorf("%w: %d piece rows, want %d", ErrInvalidEncoding, len(rows), height)
	}
	var pieces []Piece
	counters := make(map[string]int)
	nextID := func(owner Side, kind string) string {
		key := strconv.Itoa(int(owner)) + kind
		n := counters[key]
		counters[key] = n + 1
		return fmt.Sprintf("p%d_%s_%d", owner, kind, n)
	}

	for y, row := range rows {
		x := 0
		runes := []rune(row)
		for i := 0; i < len(runes); i++ {
			ch := runes[i]
			if unicode.IsDigit(ch) {
				j := i
				for j < len(runes) && unicode.IsDigit(runes[j]) {
					j++
				}
				n, err := strconv.Atoi(string(runes[i:j]))
				if err != nil {
					return nil, fmt.Errorf("%w: bad run %q in row %d", ErrInvalidEncoding, string(runes[i:j]), y)
				}
				x += n
				i = j - 1
				continue
			}
			if ch == '.' {
				x++
				continue
			}
			if x >= width {
				return nil, fmt.Errorf("%w: row %d overflows", ErrInvalidEncoding, y)
			}

			owner := Black
			if unicode.IsUpper(ch) {
				owner = White
			}
			base := unicode.ToLower(ch)
			at := Pos{X: x, Y: y}

			var pc Piece
			switch base {
			case decoyLetter:
				pc = NewDecoy(nextID(owner, "DECOY"), owner, at)
			default:
				pt, ok := letterToPieceType[base]
				if !ok {
					return nil, fmt.Errorf("%w: unknown unit %q", ErrInvalidEncoding, ch)
				}
				if pt == King {
					pc = NewKing(nextID(owner, pt.String()), owner, at)
				} else {
					pc = NewPiece(nextID(owner, pt.String()), pt, owner, at)
				}
			}
			if i+1 < len(runes) && runes[i+1] == '\'' {
				pc.HasMoved = true
				i++
			}
			pieces = append(pieces, pc)
			x++
		}
		if x != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidEncoding, y, x, width)
		}
	}
	return pieces, nil
}
