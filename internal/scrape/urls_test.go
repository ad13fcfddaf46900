package scrape

import (
	"testing"
	"time"

	"github.com/orlic/leadtap/internal/model"
)

func TestBuildSearchTargets(t *testing.T) {
	req := model.ScrapeRequest{
		Keyword:  "coffee shops",
		Location: "Seattle",
		Platforms: model.PlatformSelection{
			GoogleSearch: true,
			GoogleMaps:   true,
		},
	}

	targets := buildSearchTargets(req)
	if len(targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(targets))
	}

	if targets[0].Platform != model.PlatformGoogleSearch {
		t.Errorf("first target platform = %q, want %q", targets[0].Platform, model.PlatformGoogleSearch)
	}
	wantURL := "https://www.google.com/search?q=coffee+shops+Seattle"
	if targets[0].URL != wantURL {
		t.Errorf("search URL = %q, want %q", targets[0].URL, wantURL)
	}
	if targets[0].Delay != 2*time.Second {
		t.Errorf("search delay = %v, want 2s", targets[0].Delay)
	}

	if targets[1].Platform != model.PlatformGoogleMaps {
		t.Errorf("second target platform = %q, want %q", targets[1].Platform, model.PlatformGoogleMaps)
	}
	wantURL = "https://www.google.com/maps/search/coffee%20shops%20Seattle"
	if targets[1].URL != wantURL {
		t.Errorf("maps URL = %q, want %q", targets[1].URL, wantURL)
	}
	if targets[1].Delay != 3*time.Second {
		t.Errorf("maps delay = %v, want 3s", targets[1].Delay)
	}
}

func TestBuildSearchTargetsSocialUseKeywordOnly(t *testing.T) {
	req := model.ScrapeRequest{
		Keyword:  "coffee shops",
		Location: "Seattle",
		Platforms: model.PlatformSelection{
			Facebook: true,
			LinkedIn: true,
		},
	}

	targets := buildSearchTargets(req)
	if len(targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(targets))
	}

	wantFB := "https://www.facebook.com/search/pages/?q=coffee+shops"
	if targets[0].URL != wantFB {
		t.Errorf("facebook URL = %q, want %q", targets[0].URL, wantFB)
	}
	wantLI := "https://www.linkedin.com/search/results/companies/?keywords=coffee+shops"
	if targets[1].URL != wantLI {
		t.Errorf("linkedin URL = %q, want %q", targets[1].URL, wantLI)
	}
	if targets[0].Delay != 4*time.Second || targets[1].Delay != 5*time.Second {
		t.Errorf("social delays = %v, %v, want 4s, 5s", targets[0].Delay, targets[1].Delay)
	}
}

func TestBuildSearchTargetsEmptySelection(t *testing.T) {
	targets := buildSearchTargets(model.ScrapeRequest{Keyword: "coffee"})
	if len(targets) != 0 {
		t.Fatalf("got %d targets, want 0", len(targets))
	}
}
