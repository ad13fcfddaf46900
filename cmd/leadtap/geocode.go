package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/orlic/leadtap/internal/config"
	"github.com/orlic/leadtap/internal/geo"
	"github.com/orlic/leadtap/internal/storage"
)

func runGeocode(args []string) error {
	var dbPath string
	var pacing time.Duration

	fs := flag.NewFlagSet("geocode", flag.ExitOnError)
	fs.StringVar(&dbPath, "db", "", "Path to .db file (required)")
	fs.DurationVar(&pacing, "pacing", time.Second, "Delay between Nominatim lookups")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: leadtap geocode [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  leadtap geocode -db ./leads/leadtap_20260828.db\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if dbPath == "" {
		return fmt.Errorf("-db is required")
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening db: %w", err)
	}
	defer store.Close()

	set, err := store.Settings()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	if !set.OSMIntegration {
		return fmt.Errorf("OSM integration is disabled; enable it with 'leadtap settings -db %s -osm=true'", dbPath)
	}

	records, err := store.Businesses()
	if err != nil {
		return fmt.Errorf("loading db: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg := config.Load()
	geocoder := geo.NewGeocoder(cfg.NominatimURL, cfg.UserAgent)

	matched, missed, skipped := 0, 0, 0
	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		if rec.Address == "" || rec.HasGeo() {
			skipped++
			continue
		}

		place, err := geocoder.Lookup(ctx, strings.TrimSpace(rec.Name+" "+rec.Address))
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", rec.Name, err)
			missed++
		} else if place == nil {
			missed++
		} else {
			if err := store.UpdateGeo(rec.ID, *place); err != nil {
				return fmt.Errorf("saving geo for %q: %w", rec.Name, err)
			}
			matched++
		}

		// Nominatim asks for at most one request per second.
		select {
		case <-time.After(pacing):
		case <-ctx.Done():
		}
	}

	fmt.Fprintf(os.Stderr, "Geocoded %d businesses (%d no match, %d skipped)\n", matched, missed, skipped)
	return nil
}
