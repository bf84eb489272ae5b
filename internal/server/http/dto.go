package httpserver

import (
	"shadowchess/internal/engine"
	"shadowchess/internal/server/game"
	"shadowchess/internal/shadowchess"
	"shadowchess/internal/storage"
)

// NewGameRequest: zero fields fall back to server defaults.
type NewGameRequest struct {
	BoardSize  int    `json:"board_size"`
	Difficulty string `json:"difficulty"`
}

type GameRequest struct {
	GameID string `json:"game_id"`
}

type SelectRequest struct {
	GameID  string `json:"game_id"`
	PieceID string `json:"piece_id"`
}

type SelectResponse struct {
	PieceID    string            `json:"piece_id"`
	ValidMoves []shadowchess.Pos `json:"valid_moves"`
}

type PlayRequest struct {
	GameID  string          `json:"game_id"`
	PieceID string          `json:"piece_id"`
	To      shadowchess.Pos `json:"to"`
}

// PlayResponse answers both /play and /ai_move. For the AI side only
// whether it passed, captured or won is reported; where it moved stays in
// the fog.
type PlayResponse struct {
	Passed   bool               `json:"passed,omitempty"`
	Captured bool               `json:"captured"`
	Ghost    bool               `json:"ghost"`
	Move     *MoveDTO           `json:"move,omitempty"`
	Pulse    *shadowchess.Pulse `json:"pulse,omitempty"`
	GameOver bool               `json:"game_over"`
	Winner   shadowchess.Side   `json:"winner"`
	State    game.View          `json:"state"`
}

type MoveDTO struct {
	PieceID string          `json:"piece_id"`
	From    shadowchess.Pos `json:"from"`
	To      shadowchess.Pos `json:"to"`
}

type GhostRequest struct {
	GameID  string `json:"game_id"`
	PieceID string `json:"piece_id"`
	Action  string `json:"action"` // "activate" or "cancel"
}

type GhostResponse struct {
	Success bool      `json:"success"`
	Reason  string    `json:"reason,omitempty"`
	State   game.View `json:"state"`
}

type SaveRequest struct {
	GameID string `json:"game_id"`
	Slot   string `json:"slot"`
}

type LoadRequest struct {
	Slot     string `json:"slot"`
	Autosave bool   `json:"autosave"`
}

type StatsResponse struct {
	Games   *storage.GameStats `json:"games,omitempty"`
	WinRate float64            `json:"win_rate"`
	Engine  engine.Stats       `json:"engine"`
	Prune   float64            `json:"prune_rate"`
	Live    int                `json:"live_games"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func playResponse(out game.Outcome, human bool, view game.View) PlayResponse {
	resp := PlayResponse{
		Passed:   out.Passed,
		Captured: out.Captured != "",
		Ghost:    out.Move.IsGhostMove,
		Pulse:    out.Pulse,
		GameOver: out.GameOver,
		Winner:   out.Winner,
		State:    view,
	}
	if human && !out.Passed {
		resp.Move = &MoveDTO{PieceID: out.Move.PieceID, From: out.Move.From, To: out.Move.To}
	}
	return resp
}
