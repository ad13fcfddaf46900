package main

import (
	"fmt"
	"os"

	"github.com/orlic/leadtap/internal/tui"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "scrape":
			if err := runScrape(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "export":
			if err := runExport(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "geocode":
			if err := runGeocode(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "settings":
			if err := runSettings(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "version":
			fmt.Println("leadtap " + version)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	// No subcommand → launch TUI
	if err := tui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `leadtap - business lead scraper

Usage:
  leadtap                  Launch interactive TUI
  leadtap scrape [flags]   Run headless scrape
  leadtap export [flags]   Export .db to csv/json/xlsx or Postgres
  leadtap geocode [flags]  Geocode stored addresses via Nominatim
  leadtap settings [flags] Show or change stored settings
  leadtap version          Show version

Run 'leadtap scrape --help' or 'leadtap export --help' for flags.
`)
}
