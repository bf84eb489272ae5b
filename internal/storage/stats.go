package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// GameStats stores lifetime results of human-vs-AI games.
type GameStats struct {
	GamesPlayed      int            `json:"games_played"`
	Wins             int            `json:"wins"`
	Losses           int            `json:"losses"`
	WinsByDiff       map[string]int `json:"wins_by_difficulty"`
	GhostMovesUsed   int            `json:"ghost_moves_used"`
	TotalPlayTime    time.Duration  `json:"total_play_time"`
	TotalTurns       int            `json:"total_turns"`
	LongestWinStreak int            `json:"longest_win_streak"`
	CurrentStreak    int            `json:"current_streak"`
}

func NewGameStats() *GameStats {
	return &GameStats{WinsByDiff: make(map[string]int)}
}

// GameResult describes one finished game from the human side.
type GameResult struct {
	Won        bool
	Difficulty string
	Turns      int
	UsedGhost  bool
	Duration   time.Duration
}

// WinRate is a percentage, 0-100.
func (s *GameStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

func (s *Store) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})
	if stats.WinsByDiff == nil {
		stats.WinsByDiff = make(map[string]int)
	}
	return stats, err
}

// RecordResult folds one finished game into the stored statistics.
func (s *Store) RecordResult(result GameResult) (*GameStats, error) {
	stats, err := s.LoadStats()
	if err != nil {
		return nil, err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration
	stats.TotalTurns += result.Turns
	if result.UsedGhost {
		stats.GhostMovesUsed++
	}
	if result.Won {
		stats.Wins++
		stats.CurrentStreak++
		stats.LongestWinStreak = max(stats.LongestWinStreak, stats.CurrentStreak)
		if result.Difficulty != "" {
			stats.WinsByDiff[result.Difficulty]++
		}
	} else {
		stats.Losses++
		stats.CurrentStreak = 0
	}

	if err := s.put([]byte(keyStats), stats); err != nil {
		return nil, err
	}
	return stats, nil
}
