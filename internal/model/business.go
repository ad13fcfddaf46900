package model

import "time"

// Platform identifies one external site being scraped.
type Platform string

const (
	PlatformGoogleSearch Platform = "Google Search"
	PlatformGoogleMaps   Platform = "Google Maps"
	PlatformFacebook     Platform = "Facebook"
	PlatformLinkedIn     Platform = "LinkedIn"
	PlatformUnknown      Platform = "Unknown"
)

// BusinessRecord represents one scraped business. All descriptive fields are
// optional; a record without a name is never persisted.
type BusinessRecord struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	Address     string  `json:"address,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	Website     string  `json:"website,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`
	Hours       string  `json:"hours,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	Industry    string  `json:"industry,omitempty"`
	CompanySize string  `json:"company_size,omitempty"`

	// Provenance
	Source    Platform  `json:"source,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
	ScrapedAt time.Time `json:"scraped_at,omitempty"`

	// Geo enrichment, filled post-hoc from the gazetteer lookup
	Lat         float64 `json:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty"`
	OSMID       int64   `json:"osm_id,omitempty"`
	OSMType     string  `json:"osm_type,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`

	// DetailURL points at a richer view of the same listing when the
	// extractor captured one. Transient, used only by the enricher.
	DetailURL string `json:"-"`
}

// HasGeo reports whether the record carries coordinates.
func (b BusinessRecord) HasGeo() bool {
	return b.Lat != 0 || b.Lon != 0
}

// OSMPlace is a single gazetteer match for a business.
type OSMPlace struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
	OSMID       int64   `json:"osm_id"`
	OSMType     string  `json:"osm_type"`
}

// Settings is the process-wide user configuration. Writes replace the whole
// object; there is no partial merge.
type Settings struct {
	AutoScrape     bool `json:"auto_scrape"`
	MaxResults     int  `json:"max_results"`
	IncludeEmails  bool `json:"include_emails"`
	IncludePhones  bool `json:"include_phones"`
	OSMIntegration bool `json:"osm_integration"`
}

// DefaultSettings returns the values written at first open.
func DefaultSettings() Settings {
	return Settings{
		AutoScrape:     false,
		MaxResults:     50,
		IncludeEmails:  true,
		IncludePhones:  true,
		OSMIntegration: true,
	}
}

// PlatformSelection is the set of platforms a scrape targets.
type PlatformSelection struct {
	GoogleSearch bool
	GoogleMaps   bool
	Facebook     bool
	LinkedIn     bool
}

// Selected returns the chosen platforms in launch order.
func (s PlatformSelection) Selected() []Platform {
	var out []Platform
	if s.GoogleSearch {
		out = append(out, PlatformGoogleSearch)
	}
	if s.GoogleMaps {
		out = append(out, PlatformGoogleMaps)
	}
	if s.Facebook {
		out = append(out, PlatformFacebook)
	}
	if s.LinkedIn {
		out = append(out, PlatformLinkedIn)
	}
	return out
}

// ScrapeRequest holds one scrape cycle's configuration. Never persisted.
type ScrapeRequest struct {
	Keyword       string
	Location      string
	Platforms     PlatformSelection
	MaxResults    int
	IncludeEmails bool
	IncludePhones bool
	Enrich        bool
	DBPath        string
}

// Query combines keyword and optional location for search-style platforms.
func (r ScrapeRequest) Query() string {
	if r.Location == "" {
		return r.Keyword
	}
	return r.Keyword + " " + r.Location
}
