package game

import (
	"time"

	"shadowchess/internal/shadowchess"
)

type EventType string

const (
	EventNewGame  EventType = "new_game"
	EventMove     EventType = "move"
	EventPass     EventType = "pass"
	EventGhost    EventType = "ghost_activated"
	EventPulse    EventType = "pulse"
	EventUndo     EventType = "undo"
	EventGameOver EventType = "game_over"
)

// Event is broadcast to watchers. Move is only filled for the human side so
// that an AI move never leaks where an unseen unit went.
type Event struct {
	Type        EventType          `json:"type"`
	GameID      string             `json:"game_id"`
	Move        *shadowchess.Move  `json:"move,omitempty"`
	Side        shadowchess.Side   `json:"side"`
	Captured    bool               `json:"captured,omitempty"`
	Pulse       *shadowchess.Pulse `json:"pulse,omitempty"`
	CurrentTurn shadowchess.Side   `json:"current_turn"`
	TurnCount   int                `json:"turn_count"`
	Winner      shadowchess.Side   `json:"winner"`
	At          time.Time          `json:"at"`
}

func (g *Game) event(t EventType, side shadowchess.Side) Event {
	return Event{
		Type:        t,
		GameID:      g.ID,
		Side:        side,
		CurrentTurn: g.state.CurrentTurn,
		TurnCount:   g.state.TurnCount,
		Winner:      g.state.Winner,
		At:          g.updatedAt,
	}
}

func (g *Game) publish(ev Event) {
	if g.emit != nil {
		g.emit(ev)
	}
}
