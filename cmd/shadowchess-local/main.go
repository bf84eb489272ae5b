package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shadowchess/internal/config"
	"shadowchess/internal/server/game"
	httpserver "shadowchess/internal/server/http"
	"shadowchess/internal/storage"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // headless machines have no browser
}

func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	dataDir := cfg.DataDir
	switch dataDir {
	case config.MemoryDataDir:
		dataDir = ""
	case "":
		dir, err := storage.DatabaseDir()
		if err != nil {
			return err
		}
		dataDir = dir
	}
	store, err := storage.Open(dataDir, log.Named("storage"))
	if err != nil {
		return err
	}
	defer store.Close()

	srv := httpserver.NewServer(httpserver.Options{
		Games:      game.NewManager(log.Named("game")),
		Store:      store,
		Defaults:   cfg.GameOptions(),
		AIDeadline: cfg.AIDeadline.Duration,
		WebDir:     cfg.WebDir,
		MobileDir:  cfg.MobileDir,
		Logger:     log.Named("http"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.Run(ctx.Done())

	server := &http.Server{Addr: cfg.Addr, Handler: srv}
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info("listening",
		zap.String("addr", cfg.Addr),
		zap.String("web", cfg.WebDir),
		zap.String("data", dataDir),
		zap.Int("board_size", cfg.BoardSize),
		zap.String("difficulty", cfg.Difficulty),
	)
	if cfg.OpenBrowser {
		// give the listener a moment before the browser connects
		go func() {
			time.Sleep(100 * time.Millisecond)
			openBrowser("http://127.0.0.1" + cfg.Addr)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn("graceful shutdown failed", zap.Error(err))
		_ = server.Close()
	}
	return runErr
}
