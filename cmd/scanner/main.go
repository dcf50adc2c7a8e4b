package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vwap-alert-bot/internal/app"
	"vwap-alert-bot/internal/config"
	"vwap-alert-bot/internal/logging"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const defaultConfigPath = "internal/config/config.yaml"

func main() {
	cliApp := &cli.App{
		Name:  "scanner",
		Usage: "scan tickers for price above session VWAP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   defaultConfigPath,
				Usage:   "path to config file",
				EnvVars: []string{"SCANNER_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file with API credentials; missing files are ignored",
			},
		},
		Action: scan,
		Commands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "scan every configured ticker once and exit",
				Action: scan,
			},
			{
				Name:  "watch",
				Usage: "scan on the configured cron schedule until interrupted",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "now",
						Usage: "run one scan immediately before waiting for the schedule",
					},
				},
				Action: watch,
			},
			{
				Name:      "bars",
				Usage:     "print one window of bars with running VWAP and RSI",
				ArgsUsage: "SYMBOL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "window",
						Value: "session",
						Usage: "window to fetch (session or monthly)",
					},
				},
				Action: bars,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "scanner: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setup(c *cli.Context) (*app.App, *zap.Logger, error) {
	if err := config.LoadEnv(c.String("env-file")); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", c.String("env-file"), err)
	}
	configPath := c.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.Log)
	log.Info("config loaded", zap.String("path", configPath), zap.String("provider", cfg.Feed.Provider))

	application, err := app.New(cfg, log, os.Stdout)
	if err != nil {
		log.Error("failed to initialize app", zap.Error(err))
		return nil, nil, err
	}
	return application, log, nil
}

func scan(c *cli.Context) error {
	application, log, err := setup(c)
	if err != nil {
		return err
	}
	defer log.Sync()
	if err := application.Run(c.Context); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("scan terminated", zap.Error(err))
		return err
	}
	return nil
}

func watch(c *cli.Context) error {
	application, log, err := setup(c)
	if err != nil {
		return err
	}
	defer log.Sync()
	if err := application.Watch(c.Context, c.Bool("now")); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("watch terminated", zap.Error(err))
		return err
	}
	return nil
}

func bars(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: scanner bars [--window session|monthly] SYMBOL", 2)
	}
	application, log, err := setup(c)
	if err != nil {
		return err
	}
	defer log.Sync()
	return application.DumpBars(c.Context, c.Args().First(), c.String("window"))
}
