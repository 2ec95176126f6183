package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/feltworks/feltd/internal/game"
	"github.com/feltworks/feltd/internal/randutil"
	"github.com/feltworks/feltd/internal/server"
)

var CLI struct {
	Config   string `short:"c" default:"feltd.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Listen address (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     int64  `help:"Deterministic shuffle seed (0 seeds from the clock)"`
}

func main() {
	_ = godotenv.Load()

	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		kctx.Fatalf("loading config: %v", err)
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		kctx.Fatalf("invalid configuration: %v", err)
	}

	addr := cfg.ServerAddress()
	if CLI.Addr != "" {
		addr = CLI.Addr
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	seed := cfg.Table.Seed
	if CLI.Seed != 0 {
		seed = CLI.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger.Info("starting feltd",
		"addr", addr,
		"seats", cfg.Table.Seats,
		"holeCardDelay", cfg.Table.HoleCardDelayMS,
		"boardDealDelay", cfg.Table.BoardDealDelayMS)

	table := game.New(cfg.TableConfig(), logger, quartz.NewReal(), randutil.New(seed))
	srv := server.NewServer(addr, logger, table)
	table.Subscribe(srv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		table.Run(gctx)
		return nil
	})
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		kctx.Fatalf("server failed: %v", err)
	}
}
