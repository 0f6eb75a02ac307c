package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/space-shooter/internal/config"
	"github.com/tomz197/space-shooter/internal/loop"
	"github.com/tomz197/space-shooter/internal/persist"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	// Logs go to stderr so they do not mix with the frame on stdout.
	logger := cfg.Log.NewLogger(os.Stderr, "game")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	store, err := persist.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	highScore := persist.NewHighScore(store, logger)
	highScore.Load(ctx)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	return loop.Run(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Context:   ctx,
		HighScore: highScore,
		Logger:    logger,
		Username:  os.Getenv("USER"),
	})
}
