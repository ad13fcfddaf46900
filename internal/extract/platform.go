package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orlic/leadtap/internal/model"
)

// PageExtractor is the per-platform entry point. Ready is the selector whose
// appearance signals the page has rendered its listings; Extract walks the
// document and returns zero or more partial records in DOM order.
type PageExtractor struct {
	Platform model.Platform
	Ready    string
	Extract  func(doc *goquery.Document) []model.BusinessRecord
}

// DetectPlatform derives the platform from a page address. Unknown is a
// valid answer and yields zero records downstream.
func DetectPlatform(pageURL string) model.Platform {
	switch {
	case strings.Contains(pageURL, "google.com/maps"), strings.Contains(pageURL, "maps.google.com"):
		return model.PlatformGoogleMaps
	case strings.Contains(pageURL, "google.com/search"):
		return model.PlatformGoogleSearch
	case strings.Contains(pageURL, "facebook.com"):
		return model.PlatformFacebook
	case strings.Contains(pageURL, "linkedin.com"):
		return model.PlatformLinkedIn
	}
	return model.PlatformUnknown
}

// ForPlatform returns the extractor for a platform, or ok=false for Unknown.
func ForPlatform(p model.Platform) (PageExtractor, bool) {
	switch p {
	case model.PlatformGoogleSearch:
		return googleSearchExtractor, true
	case model.PlatformGoogleMaps:
		return googleMapsExtractor, true
	case model.PlatformFacebook:
		return facebookExtractor, true
	case model.PlatformLinkedIn:
		return linkedInExtractor, true
	}
	return PageExtractor{}, false
}
