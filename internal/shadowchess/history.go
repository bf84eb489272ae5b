package shadowchess

// MaxHistory bounds the undo stack.
const MaxHistory = 10

type snapshot struct {
	pieces      []Piece
	players     [2]Player
	currentTurn Side
	turnCount   int
	fog         Fog
	gameOver    bool
	winner      Side
}

func (s *State) SaveToHistory() {
	s.history = append(s.history, snapshot{
		pieces:      append([]Piece(nil), s.Pieces...),
		players:     s.Players,
		currentTurn: s.CurrentTurn,
		turnCount:   s.TurnCount,
		fog:         s.Fog.Clone(),
		gameOver:    s.GameOver,
		winner:      s.Winner,
	})
	if len(s.history) > MaxHistory {
		s.history = append(s.history[:0], s.history[1:]...)
	}
}

// Undo restores the most recent snapshot. Terrain is never part of a snapshot.
func (s *State) Undo() bool {
	n := len(s.history)
	if n == 0 {
		return false
	}
	prev := s.history[n-1]
	s.history = s.history[:n-1]

	s.Pieces = prev.pieces
	s.Players = prev.players
	s.CurrentTurn = prev.currentTurn
	s.TurnCount = prev.turnCount
	s.Fog = prev.fog
	s.GameOver = prev.gameOver
	s.Winner = prev.winner
	s.ClearSelection()
	return true
}

func (s *State) CanUndo() bool { return len(s.history) > 0 }

func (s *State) HistoryLen() int { return len(s.history) }
