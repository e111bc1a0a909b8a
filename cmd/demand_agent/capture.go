package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/jonathan/demand-capture/internal/artifact"
	"github.com/jonathan/demand-capture/internal/browser"
	"github.com/jonathan/demand-capture/internal/capture"
	"github.com/jonathan/demand-capture/internal/config"
	"github.com/jonathan/demand-capture/internal/db"
	"github.com/jonathan/demand-capture/internal/observability"
	"github.com/jonathan/demand-capture/internal/persist"
	"github.com/jonathan/demand-capture/internal/publish"
	"github.com/jonathan/demand-capture/internal/scheduler"
)

var (
	captureConfigPath string
	captureVerbose    bool
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Run the continuous capture loop",
	Long:  `Run the capture loop forever: scrape the dashboard, push the outcome to the downstream API, persist successful captures, then wait for the next cycle. Stop with an interrupt signal.`,
	RunE:  runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureConfigPath, "config", "", "Path to JSON config file")
	captureCmd.Flags().BoolVar(&captureVerbose, "verbose", false, "Print a countdown and per-cycle summaries")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(_ *cobra.Command, _ []string) error {
	cfg, err := loadCaptureConfig()
	if err != nil {
		return err
	}

	if cfg.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		log.SetOutput(io.MultiWriter(os.Stderr, rotating))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	artifacts, err := artifact.NewManager(cfg.ScreenshotDir, cfg.ScreenshotPrefix, cfg.KeepDays)
	if err != nil {
		return err
	}

	cycle := capture.NewCycle(
		cfg.TargetURL,
		capture.Locators{
			Current:   cfg.CurrentLocator,
			Yesterday: cfg.YesterdayLocator,
			TimeBlock: cfg.TimeBlockLocator,
		},
		capture.Timeouts{
			Navigation: cfg.NavigationTimeout(),
			Selector:   cfg.SelectorTimeout(),
			Text:       cfg.TextTimeout(),
			Screenshot: cfg.ScreenshotTimeout(),
		},
		func(ctx context.Context) (capture.Renderer, error) {
			return browser.NewSession(ctx)
		},
		artifacts,
	)

	loop := &scheduler.Loop{
		Cycle:     cycle,
		Publisher: publish.NewPublisher(cfg.APIEndpoint, cfg.PublishTimeout()),
		Writer:    persist.NewWriter(database, cfg.MaxWriteAttempts),
		Interval:  cfg.WaitInterval(),
	}
	if cfg.Verbose {
		loop.Countdown = os.Stdout
		printer := observability.NewPrinter(os.Stdout)
		loop.OnOutcome = printer.PrintOutcome
	}

	log.Printf("Capture agent starting, target: %s", cfg.TargetURL)
	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Println("Capture agent stopped by signal. Exiting...")
		return nil
	}
	return err
}

func loadCaptureConfig() (*config.Config, error) {
	cfg := config.Defaults()
	if captureConfigPath != "" {
		loaded, err := config.LoadConfig(captureConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded.MergeWithDefaults(cfg)
	}
	cfg.ApplyEnv()
	if captureVerbose {
		cfg.Verbose = true
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or database_url config value is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
