package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"shadowchess/internal/server/game"
	"shadowchess/internal/storage"
)

type Options struct {
	Games      *game.Manager
	Store      *storage.Store // nil disables save, load and stats
	Defaults   game.Options   // for new games that leave fields unset
	AIDeadline time.Duration
	WebDir     string
	MobileDir  string
	Logger     *zap.Logger
}

// Server is the browser-facing API: JSON endpoints under /api and a
// WebSocket event stream under /ws.
type Server struct {
	games      *game.Manager
	store      *storage.Store
	defaults   game.Options
	aiDeadline time.Duration
	hub        *Hub
	log        *zap.Logger
	router     chi.Router
}

func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	games := opts.Games
	if games == nil {
		games = game.NewManager(log.Named("game"))
	}
	deadline := opts.AIDeadline
	if deadline <= 0 {
		deadline = 10 * time.Second
	}
	s := &Server{
		games:      games,
		store:      opts.Store,
		defaults:   opts.Defaults,
		aiDeadline: deadline,
		hub:        NewHub(log.Named("ws")),
		log:        log,
	}
	games.Subscribe(s.hub.Publish)
	s.router = s.routes(opts.WebDir, opts.MobileDir)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run pumps game events to WebSocket clients until done closes.
func (s *Server) Run(done <-chan struct{}) {
	s.hub.Run(done)
}

func (s *Server) routes(webDir, mobileDir string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/new_game", s.handleNewGame)
	r.Post("/api/state", s.handleState)
	r.Post("/api/select", s.handleSelect)
	r.Post("/api/play", s.handlePlay)
	r.Post("/api/ghost", s.handleGhost)
	r.Post("/api/pulse", s.handlePulse)
	r.Post("/api/ai_move", s.handleAiMove)
	r.Post("/api/undo", s.handleUndo)
	r.Post("/api/save", s.handleSave)
	r.Post("/api/load", s.handleLoad)
	r.Get("/api/saves", s.handleListSaves)
	r.Delete("/api/saves/{slot}", s.handleDeleteSave)
	r.Get("/api/stats", s.handleStats)

	r.Get("/ws/game", func(w http.ResponseWriter, r *http.Request) {
		serveGameWS(s.hub, w, r)
	})

	if webDir != "" {
		RegisterStaticRoutes(r, webDir, mobileDir)
	}
	return r
}

// requestLogger is middleware.Logger writing to zap.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Debug("request",
					zap.String("id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("took", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
