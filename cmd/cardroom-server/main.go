package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/cardroom/internal/game"
	"github.com/cardroom/cardroom/internal/room"
	"github.com/cardroom/cardroom/internal/server"
)

var CLI struct {
	Config   string `short:"c" default:"cardroom.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Listen address as host:port (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	if CLI.Addr != "" {
		if err := cfg.SetAddr(CLI.Addr); err != nil {
			fmt.Printf("Invalid configuration: %v\n", err)
			kctx.Exit(1)
		}
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
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

	roomCfg := room.Config{
		Table: game.Config{
			SmallBlind:        cfg.Game.SmallBlind,
			BigBlind:          cfg.Game.BigBlind,
			ShortAllInReopens: cfg.ShortAllInReopens(),
		},
		BuyIn: cfg.Game.BuyIn,
	}

	logger.Info("starting cardroom server",
		"addr", cfg.Addr(),
		"stakes", fmt.Sprintf("%d/%d", cfg.Game.SmallBlind, cfg.Game.BigBlind),
		"buyIn", cfg.Game.BuyIn)

	manager := server.NewManager(roomCfg, quartz.NewReal(), logger)
	srv := server.NewServer(cfg.Addr(), manager, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", "error", err)
		kctx.Exit(1)
	}
}
