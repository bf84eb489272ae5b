// Package mobile is the gomobile entry point: the app unpacks the web
// client, then starts the local server on loopback.
package mobile

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"shadowchess/internal/config"
	"shadowchess/internal/server/game"
	httpserver "shadowchess/internal/server/http"
	"shadowchess/internal/storage"
)

var (
	mu      sync.Mutex
	running *instance
)

type instance struct {
	server *http.Server
	store  *storage.Store
	done   chan struct{}
	log    *zap.Logger
}

// StartServer starts the local HTTP server.
// webDir: physical path to the extracted web assets
// dataDir: app-private directory for saves; empty keeps them in memory
// port: port to listen on, e.g. "2888"
func StartServer(webDir, dataDir, port string) error {
	mu.Lock()
	defer mu.Unlock()
	if running != nil {
		return errors.New("server already running")
	}

	cfg := config.Default()
	cfg.WebDir = webDir
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	store, err := storage.Open(dataDir, log.Named("storage"))
	if err != nil {
		return err
	}

	srv := httpserver.NewServer(httpserver.Options{
		Games:      game.NewManager(log.Named("game")),
		Store:      store,
		Defaults:   cfg.GameOptions(),
		AIDeadline: cfg.AIDeadline.Duration,
		WebDir:     webDir,
		Logger:     log.Named("http"),
	})
	inst := &instance{
		server: &http.Server{Addr: "127.0.0.1:" + port, Handler: srv},
		store:  store,
		done:   make(chan struct{}),
		log:    log,
	}
	go srv.Run(inst.done)

	// Run in background so it doesn't block the Android UI thread
	go func() {
		if err := inst.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
		}
	}()
	running = inst
	return nil
}

// StopServer shuts the server down and closes the save database.
func StopServer() {
	mu.Lock()
	inst := running
	running = nil
	mu.Unlock()
	if inst == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := inst.server.Shutdown(ctx); err != nil {
		inst.log.Warn("shutdown", zap.Error(err))
	}
	close(inst.done)
	if err := inst.store.Close(); err != nil {
		inst.log.Warn("closing storage", zap.Error(err))
	}
	_ = inst.log.Sync()
}
