package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shadowchess/internal/engine"
	"shadowchess/internal/server/game"
	"shadowchess/internal/shadowchess"
	"shadowchess/internal/storage"
)

var errNoStorage = errors.New("saving is disabled")

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, storage.ErrNoSave):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrNothingToUndo):
		status = http.StatusConflict
	case errors.Is(err, game.ErrIllegalMove), errors.Is(err, game.ErrUnknownPiece),
		errors.Is(err, game.ErrBadOptions), errors.Is(err, storage.ErrBadSlot):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrInvalidSave):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errNoStorage):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad json"})
		return false
	}
	return true
}

func (s *Server) lookup(w http.ResponseWriter, id string) (*game.Game, bool) {
	g, err := s.games.Get(id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return g, true
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	opts := s.defaults
	if req.BoardSize != 0 {
		opts.BoardSize = req.BoardSize
	}
	if req.Difficulty != "" {
		opts.Difficulty = engine.Difficulty(req.Difficulty)
	}
	g, err := s.games.NewGame(opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g.HumanView())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.lookup(w, req.GameID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.HumanView())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.lookup(w, req.GameID)
	if !ok {
		return
	}
	moves, err := g.Select(req.PieceID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SelectResponse{PieceID: req.PieceID, ValidMoves: moves})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.lookup(w, req.GameID)
	if !ok {
		return
	}
	out, err := g.Play(req.PieceID, req.To)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.afterTurn(g, out)
	writeJSON(w, http.StatusOK, playResponse(out, true, g.HumanView()))
}

func (s *Server) handleGhost(w http.ResponseWriter, r *http.Request) {
	var req GhostRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.lookup(w, req.GameID)
	if !ok {
		return
	}
	var resp GhostResponse
	switch req.Action {
	case "", "activate":
		res, err := g.ActivateGhost(req.PieceID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Success, resp.Reason = res.Success, res.Reason
	case "cancel":
		ok, err := g.CancelGhost(req.PieceID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Success = ok
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown ghost action"})
		return
	}
	resp.State = g.HumanView()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePulse(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.lookup(w, req.GameID)
	if !ok {
		return
	}
	p, err := g.Ping(req.PieceID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAiMove(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.lookup(w, req.GameID)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.aiDeadline)
	defer cancel()
	out, err := g.AITurn(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.afterTurn(g, out)
	writeJSON(w, http.StatusOK, playResponse(out, false, g.HumanView()))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.lookup(w, req.GameID)
	if !ok {
		return
	}
	if err := g.Undo(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g.HumanView())
}

// afterTurn books a finished game into the statistics.
func (s *Server) afterTurn(g *game.Game, out game.Outcome) {
	if !out.GameOver || s.store == nil {
		return
	}
	sum := g.Summary()
	_, err := s.store.RecordResult(storage.GameResult{
		Won:        sum.HumanWon,
		Difficulty: string(sum.Difficulty),
		Turns:      sum.Turns,
		UsedGhost:  sum.UsedGhost,
		Duration:   sum.Duration,
	})
	if err != nil {
		s.log.Warn("recording result failed", zap.String("game", g.ID), zap.Error(err))
	}
	if err := s.store.DeleteAutosave(); err != nil {
		s.log.Warn("dropping autosave failed", zap.Error(err))
	}
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errNoStorage)
		return
	}
	var req SaveRequest
	if !decode(w, r, &req) {
		return
	}
	g, ok := s.lookup(w, req.GameID)
	if !ok {
		return
	}
	snap, err := g.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.SaveGame(req.Slot, snap); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Autosave(snap); err != nil {
		s.log.Warn("autosave failed", zap.String("game", g.ID), zap.Error(err))
	}
	slot := req.Slot
	if slot == "" {
		slot = storage.DefaultSlot
	}
	info, err := s.store.SaveInfo(slot)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("game saved", zap.String("game", g.ID), zap.String("slot", slot))
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errNoStorage)
		return
	}
	var req LoadRequest
	if !decode(w, r, &req) {
		return
	}
	var (
		g   *game.Game
		err error
	)
	if req.Autosave {
		g, err = s.restore(s.store.LoadAutosave())
	} else {
		g, err = s.restore(s.store.LoadGame(req.Slot))
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("game loaded", zap.String("game", g.ID), zap.Bool("autosave", req.Autosave))
	writeJSON(w, http.StatusOK, g.HumanView())
}

// restore registers a loaded state as a new live game, using the AI
// settings stored with it.
func (s *Server) restore(st *shadowchess.State, snap shadowchess.Snapshot, err error) (*game.Game, error) {
	if err != nil {
		return nil, err
	}
	return s.games.Restore(st, game.OptionsFromMap(snap.Options))
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errNoStorage)
		return
	}
	infos, err := s.store.ListSaves()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if infos == nil {
		infos = []storage.SaveInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errNoStorage)
		return
	}
	slot := chi.URLParam(r, "slot")
	if ok, err := s.store.HasSave(slot); err != nil {
		s.writeError(w, err)
		return
	} else if !ok {
		s.writeError(w, storage.ErrNoSave)
		return
	}
	if err := s.store.DeleteSave(slot); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	es := s.games.EngineStats()
	resp := StatsResponse{
		Engine: es,
		Prune:  es.PruneRate(),
		Live:   len(s.games.List()),
	}
	if s.store != nil {
		stats, err := s.store.LoadStats()
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.Games = stats
		resp.WinRate = stats.WinRate()
	}
	writeJSON(w, http.StatusOK, resp)
}
