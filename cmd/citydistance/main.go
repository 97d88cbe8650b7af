// Command citydistance runs the city distance guessing game.
//
// Usage:
//
//	CITYDIST_DATASET=cities.csv go run ./cmd/citydistance
//
// Configuration is read from CITYDIST_* environment variables; see
// internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/andreiashu/citydistance"
	"github.com/andreiashu/citydistance/internal/config"
	"github.com/andreiashu/citydistance/internal/console"
)

// fuzzyStartCity is the edit distance allowed when pinning the first city.
const fuzzyStartCity = 2

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	places, err := citydistance.LoadDataset(cfg.Dataset)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	logger.Info("dataset loaded", "path", cfg.Dataset, "places", len(places))

	opts := []citydistance.SourceOption{
		citydistance.WithMaxAttempts(cfg.MaxAttempts),
		citydistance.WithSourceLogger(logger),
	}
	if cfg.Seed != 0 {
		opts = append(opts, citydistance.WithSeed(cfg.Seed))
	}
	if cfg.ResolveCountry {
		resolver := citydistance.NewCellResolver(places)
		logger.Info("country resolver ready", "indexed", resolver.Len())
		opts = append(opts, citydistance.WithCountryResolver(resolver, cfg.ResolveTimeout))
	}
	src, err := citydistance.NewSource(places, opts...)
	if err != nil {
		return fmt.Errorf("creating city source: %w", err)
	}

	var cities citydistance.CitySource = src
	if cfg.StartCity != "" {
		cities, err = pinStartCity(ctx, src, cfg.StartCity)
		if err != nil {
			return err
		}
	}

	session, err := citydistance.NewSession(ctx, cities, citydistance.GreatCircle{},
		citydistance.WithReference(citydistance.Coordinates{Latitude: cfg.RefLat, Longitude: cfg.RefLng}),
		citydistance.WithKeyword(cfg.Keyword),
		citydistance.WithMapCache(cfg.MapCacheSize),
		citydistance.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	if cfg.UI == config.UILine {
		return console.NewLine(session, stdin, stdout, cfg.TurnPause).Run(ctx)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialising screen: %w", err)
	}
	defer screen.Fini()

	err = console.NewUI(screen, session).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func pinStartCity(ctx context.Context, src *citydistance.Source, name string) (citydistance.CitySource, error) {
	p, ok := src.Find(name, fuzzyStartCity)
	if !ok {
		return nil, fmt.Errorf("start city %q not found in dataset", name)
	}
	first, err := src.Candidate(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("start city %q: %w", name, err)
	}
	return citydistance.NewPinnedSource(first, src), nil
}

// newLogger logs to LOG_FILE when set. Without one, the line UI logs to
// stderr and the terminal UI, which owns the screen, discards logs.
func newLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, func(), error) {
	var w io.Writer = stderr
	closeFn := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case cfg.UI == config.UITerminal:
		w = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return logger, closeFn, nil
}
