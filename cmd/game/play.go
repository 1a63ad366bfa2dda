package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/loop"
	"github.com/tomz197/starfall/internal/storage"
)

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(flagLogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open score store: %w", err)
	}
	defer store.Close()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	session, err := loop.NewSession(cfg, store, rand.New(rand.NewSource(seed)), logger)
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("starfall needs an interactive terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	// Ctrl-C arrives as a key in raw mode; signals cover kill and hangup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("starting game", "seed", seed, "db", flagDBPath, "tick_rate", cfg.Timing.TickRate)

	runner := loop.NewRunner(session, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{Logger: logger})
	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("game error: %w", err)
	}

	score := session.Score()
	logger.Info("game finished", "score", score.Score, "high_score", score.HighScore)
	return nil
}

// openLogger returns a debug logger writing to path, or a discarding logger
// when path is empty. The game owns stdout, so logs never go there.
func openLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}

	expanded, err := config.ExpandHome(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "starfall",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}
