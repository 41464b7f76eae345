// Video effects chain: camera frames through a configurable effect pipeline

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"video-effects-chain/internal/capture"
	"video-effects-chain/internal/config"
	"video-effects-chain/internal/core"
	"video-effects-chain/internal/display"
	"video-effects-chain/internal/effects"
	"video-effects-chain/internal/metrics"
)

const (
	AppName    = "Video Effects Chain"
	AppID      = "com.example.video-effects-chain"
	AppVersion = "1.0.0"
)

func main() {
	flags := config.NewFlags(os.Args[0])
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if flags.ListStages() {
		registry, err := newRegistry(display.NewHeadless(), 0, logrus.StandardLogger())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		printKinds(registry)
		return
	}

	if flags.ListDevices() {
		for _, device := range capture.ListDevices() {
			fmt.Printf("%s\t%s\n", device.ID, device.Label)
		}
		return
	}

	cfg, err := flags.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Log)
	logger.WithFields(logrus.Fields{
		"version": AppVersion,
		"source":  cfg.Source.Kind,
		"display": cfg.Display.Backend,
		"stages":  len(cfg.Pipeline.Stages),
	}).Info("Starting video effects chain")

	if cfg.Display.Backend == display.BackendFyne {
		runWithFyne(cfg, logger)
		return
	}

	surface, err := display.Open(cfg.Display.Backend, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open display")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, surface, logger); err != nil {
		cancel()
		logger.WithError(err).Fatal("Video effects chain failed")
	}
	logger.Info("Application shutting down gracefully")
}

// runWithFyne keeps the fyne event loop on the main goroutine and drives
// the pipeline from a second one.
func runWithFyne(cfg config.Config, logger *logrus.Logger) {
	a := app.NewWithID(AppID)
	surface := display.NewFyne(a, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		err := run(ctx, cfg, surface, logger)
		errc <- err
		if err != nil {
			fyne.Do(a.Quit)
		}
	}()

	a.Run()
	cancel()

	if err := <-errc; err != nil {
		logger.WithError(err).Fatal("Video effects chain failed")
	}
	logger.Info("Application shutting down gracefully")
}

// run opens the source, builds the pipeline and drives it to completion.
// The surface is released by the driver.
func run(ctx context.Context, cfg config.Config, surface display.Surface, logger logrus.FieldLogger) error {
	registry, err := newRegistry(surface, cfg.Seed, logger)
	if err != nil {
		surface.Close()
		return err
	}

	pipeline, err := core.Build(cfg.Pipeline, registry)
	if err != nil {
		surface.Close()
		return err
	}

	source, err := capture.Open(cfg.Source.Kind, cfg.CaptureOptions(), logger)
	if err != nil {
		pipeline.Close()
		surface.Close()
		return err
	}

	opts := []core.DriverOption{
		core.WithClosers(surface),
		core.WithStats(metrics.NewStats(cfg.StatsInterval)),
		core.WithLogger(logger),
	}
	if stop, ok := surface.(core.StopRequester); ok {
		opts = append(opts, core.WithStopRequester(stop))
	}

	return core.NewDriver(source, pipeline, opts...).Run(ctx)
}

func newRegistry(surface display.Surface, seed int64, logger logrus.FieldLogger) (*core.Registry, error) {
	registry := core.NewRegistry()
	if err := effects.Register(registry, effects.NewRandSource(seed), logger); err != nil {
		return nil, err
	}
	if err := display.Register(registry, surface); err != nil {
		return nil, err
	}
	return registry, nil
}

func printKinds(registry *core.Registry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	for _, kind := range registry.Kinds() {
		terminal := ""
		if kind.Terminal {
			terminal = " (terminal)"
		}
		fmt.Fprintf(w, "%s%s\t%s\n", kind.Name, terminal, kind.Description)
		for _, p := range kind.Parameters {
			fmt.Fprintf(w, "  %s\t%s [%v..%v] default %v\t%s\n", p.Name, p.Type, p.Min, p.Max, p.Default, p.Description)
		}
	}
}

// initLogger initializes the logger with appropriate level and format
func initLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	format := cfg.Format
	if format == "" {
		format = "json"
		if cfg.Debug {
			format = "text"
		}
	}

	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	logger.Debug("Debug logging enabled")

	return logger
}
