// Command fetch-dataset downloads the Geonames cities dump and writes it as
// the semicolon dataset read by the game.
//
// Usage:
//
//	go run ./cmd/fetch-dataset -dir geonames-data -out cities.csv
//
// Files already present in -dir are not downloaded again.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreiashu/citydistance"
)

func main() {
	dir := flag.String("dir", "geonames-data", "directory for the raw Geonames files")
	out := flag.String("out", "cities.csv", "dataset file to write")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *dir, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dir, out string) error {
	fmt.Println("Downloading Geonames data...")
	if err := citydistance.DownloadGeonames(ctx, dir); err != nil {
		return err
	}

	places, err := citydistance.LoadGeonames(dir)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := citydistance.WriteDataset(f, places); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}

	fmt.Printf("Wrote %d places to %s.\n", len(places), out)
	return nil
}
