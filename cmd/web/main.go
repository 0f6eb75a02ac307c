package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/space-shooter/internal/config"
	"github.com/tomz197/space-shooter/internal/persist"
	"github.com/tomz197/space-shooter/internal/web"
)

// refreshInterval is how often the stored high score is reread. The SSH
// server writes it from another process.
const refreshInterval = 5 * time.Second

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logger := cfg.Log.NewLogger(os.Stderr, "web")

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := persist.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	highScore := persist.NewHighScore(store, logger)
	highScore.Load(ctx)

	server := &http.Server{
		Addr: net.JoinHostPort(cfg.Web.Host, cfg.Web.Port),
		Handler: web.NewHandler(web.Options{
			SSHHost:   cfg.Web.DisplayHost,
			SSHPort:   cfg.SSH.Port,
			HighScore: highScore,
			Logger:    logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting web server", "url", "http://"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				refresh(gctx, store, highScore, logger)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down web server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// refresh rereads the high score, reloading file-backed stores first.
func refresh(ctx context.Context, store persist.Store, highScore *persist.HighScore, logger *log.Logger) {
	if r, ok := store.(interface{ Reload() error }); ok {
		if err := r.Reload(); err != nil {
			logger.Warn("failed to reload storage", "err", err)
			return
		}
	}
	highScore.Load(ctx)
}
