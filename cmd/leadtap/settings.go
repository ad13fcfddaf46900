package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/orlic/leadtap/internal/storage"
)

func runSettings(args []string) error {
	var dbPath string
	var autoScrape, includeEmails, includePhones, osm bool
	var maxResults int

	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	fs.StringVar(&dbPath, "db", "", "Path to .db file (required)")
	fs.BoolVar(&autoScrape, "auto-scrape", false, "Start scraping automatically")
	fs.IntVar(&maxResults, "max-results", 0, "Max results per platform")
	fs.BoolVar(&includeEmails, "emails", true, "Capture email addresses")
	fs.BoolVar(&includePhones, "phones", true, "Capture phone numbers")
	fs.BoolVar(&osm, "osm", true, "Enable OSM geocoding and the map view")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: leadtap settings -db <file> [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nWithout settings flags, prints the current values.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  leadtap settings -db data.db\n")
		fmt.Fprintf(os.Stderr, "  leadtap settings -db data.db -max-results 100 -osm=false\n")
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

	// Only explicitly passed flags change their setting; the rest keep
	// their stored values. The write itself replaces the whole row.
	changed := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "auto-scrape":
			set.AutoScrape = autoScrape
		case "max-results":
			set.MaxResults = maxResults
		case "emails":
			set.IncludeEmails = includeEmails
		case "phones":
			set.IncludePhones = includePhones
		case "osm":
			set.OSMIntegration = osm
		default:
			return
		}
		changed = true
	})

	if changed {
		if err := store.PutSettings(set); err != nil {
			return fmt.Errorf("writing settings: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "auto-scrape: %v\n", set.AutoScrape)
	fmt.Fprintf(os.Stderr, "max-results: %d\n", set.MaxResults)
	fmt.Fprintf(os.Stderr, "emails:      %v\n", set.IncludeEmails)
	fmt.Fprintf(os.Stderr, "phones:      %v\n", set.IncludePhones)
	fmt.Fprintf(os.Stderr, "osm:         %v\n", set.OSMIntegration)
	return nil
}
