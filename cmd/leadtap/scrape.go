package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/orlic/leadtap/internal/config"
	"github.com/orlic/leadtap/internal/model"
	"github.com/orlic/leadtap/internal/scrape"
	"github.com/orlic/leadtap/internal/storage"
	"github.com/orlic/leadtap/internal/tui"
)

func runScrape(args []string) error {
	var req model.ScrapeRequest
	var platformsStr, outputDir string

	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	fs.StringVar(&req.Keyword, "keyword", "", "Search keyword (required)")
	fs.StringVar(&req.Location, "location", "", "Location to qualify the search (optional)")
	fs.StringVar(&platformsStr, "platforms", "search,maps", "Comma-separated platforms: search,maps,facebook,linkedin")
	fs.IntVar(&req.MaxResults, "max-results", 0, "Max results per platform (default: stored setting)")
	fs.BoolVar(&req.IncludeEmails, "emails", true, "Capture email addresses")
	fs.BoolVar(&req.IncludePhones, "phones", true, "Capture phone numbers")
	fs.BoolVar(&req.Enrich, "enrich", false, "Visit detail pages to fill missing fields")
	fs.StringVar(&outputDir, "output", "", "Output directory for project files (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: leadtap scrape [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  leadtap scrape -keyword \"coffee shops\" -location Seattle -output ./leads\n")
		fmt.Fprintf(os.Stderr, "  leadtap scrape -keyword dentists -platforms search,maps,facebook -enrich -output ./leads\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if req.Keyword == "" {
		return fmt.Errorf("-keyword is required")
	}
	if outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	sel, err := parsePlatforms(platformsStr)
	if err != nil {
		return err
	}
	req.Platforms = sel

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	// Timestamped project files
	ts := time.Now().Format("20060102_150405")
	baseName := fmt.Sprintf("leadtap_%s", ts)
	req.DBPath = filepath.Join(outputDir, baseName+".db")
	logPath := filepath.Join(outputDir, baseName+".log")

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer logFile.Close()
	logger := log.New(logFile, "", log.LstdFlags)
	logger.Printf("=== Session start: keyword=%q location=%q platforms=%v enrich=%v ===",
		req.Keyword, req.Location, sel.Selected(), req.Enrich)

	fmt.Fprintf(os.Stderr, "Log: %s\n", logPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
		cancel()
	}()

	store, err := storage.Open(req.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	// Flags left at their defaults fall back to the stored settings.
	set, err := store.Settings()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if !explicit["max-results"] || req.MaxResults <= 0 {
		req.MaxResults = set.MaxResults
	}
	if !explicit["emails"] {
		req.IncludeEmails = set.IncludeEmails
	}
	if !explicit["phones"] {
		req.IncludePhones = set.IncludePhones
	}

	cfg := config.Load()
	ctrl := scrape.NewController(cfg, store, logger)
	defer ctrl.Close()

	startTime := time.Now()
	ack, err := ctrl.StartScraping(ctx, req, scrape.RunOptions{
		OnReport: func(platform model.Platform, saved, extracted int, errMsg string) {
			if errMsg != "" {
				fmt.Fprintf(os.Stderr, "  ✗ %-14s %s\n", platform, errMsg)
				return
			}
			fmt.Fprintf(os.Stderr, "  ✓ %-14s %d stored / %d extracted\n", platform, saved, extracted)
		},
	})
	if err != nil {
		return fmt.Errorf("starting scrape: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Scraping %q on %d platform(s)...\n", req.Query(), ack.TabsCreated)
	ctrl.Wait()

	duration := time.Since(startTime).Truncate(time.Second)
	total, _ := store.Count()
	snap := ctrl.Stats().Snapshot()

	logger.Printf("Done: extracted=%d saved=%d duplicates=%d errors=%d total_in_db=%d",
		snap.Extracted, snap.Saved, snap.Duplicates, snap.Errors, total)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "══════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  LeadTap Complete\n")
	fmt.Fprintf(os.Stderr, "══════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Keyword:    %s\n", req.Keyword)
	if req.Location != "" {
		fmt.Fprintf(os.Stderr, "  Location:   %s\n", req.Location)
	}
	fmt.Fprintf(os.Stderr, "  Platforms:  %s\n", joinPlatforms(sel.Selected()))
	fmt.Fprintf(os.Stderr, "  Extracted:  %d\n", snap.Extracted)
	fmt.Fprintf(os.Stderr, "  Stored:     %d (unique)\n", total)
	fmt.Fprintf(os.Stderr, "  Duplicates: %d\n", snap.Duplicates)
	fmt.Fprintf(os.Stderr, "  Errors:     %d\n", snap.Errors)
	fmt.Fprintf(os.Stderr, "  Duration:   %s\n", duration)
	fmt.Fprintf(os.Stderr, "  Database:   %s\n", req.DBPath)
	fmt.Fprintf(os.Stderr, "  Log:        %s\n", logPath)
	fmt.Fprintf(os.Stderr, "══════════════════════════════\n")

	tui.SaveRecent(req.DBPath)

	return nil
}

func parsePlatforms(s string) (model.PlatformSelection, error) {
	var sel model.PlatformSelection
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
		case "search", "google", "google-search":
			sel.GoogleSearch = true
		case "maps", "google-maps":
			sel.GoogleMaps = true
		case "facebook", "fb":
			sel.Facebook = true
		case "linkedin", "li":
			sel.LinkedIn = true
		default:
			return sel, fmt.Errorf("unknown platform %q (want search, maps, facebook or linkedin)", part)
		}
	}
	if len(sel.Selected()) == 0 {
		return sel, fmt.Errorf("-platforms must name at least one platform")
	}
	return sel, nil
}

func joinPlatforms(platforms []model.Platform) string {
	parts := make([]string, len(platforms))
	for i, p := range platforms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
