package scrape

import (
	"net/url"
	"time"

	"github.com/orlic/leadtap/internal/model"
)

// searchTarget is one platform's constructed search URL plus the staggered
// delay before its tab starts scraping, so the platforms don't all hit their
// load peaks at once.
type searchTarget struct {
	Platform model.Platform
	URL      string
	Delay    time.Duration
}

// buildSearchTargets constructs one outbound search URL per selected
// platform. Search-style platforms combine keyword and location; the social
// platforms search on the keyword alone.
func buildSearchTargets(req model.ScrapeRequest) []searchTarget {
	var targets []searchTarget

	keyword := url.QueryEscape(req.Keyword)
	query := url.QueryEscape(req.Query())
	// The maps query rides in the path, where spaces escape as %20.
	pathQuery := url.PathEscape(req.Query())

	if req.Platforms.GoogleSearch {
		targets = append(targets, searchTarget{
			Platform: model.PlatformGoogleSearch,
			URL:      "https://www.google.com/search?q=" + query,
			Delay:    2 * time.Second,
		})
	}

	if req.Platforms.GoogleMaps {
		targets = append(targets, searchTarget{
			Platform: model.PlatformGoogleMaps,
			URL:      "https://www.google.com/maps/search/" + pathQuery,
			Delay:    3 * time.Second,
		})
	}

	if req.Platforms.Facebook {
		targets = append(targets, searchTarget{
			Platform: model.PlatformFacebook,
			URL:      "https://www.facebook.com/search/pages/?q=" + keyword,
			Delay:    4 * time.Second,
		})
	}

	if req.Platforms.LinkedIn {
		targets = append(targets, searchTarget{
			Platform: model.PlatformLinkedIn,
			URL:      "https://www.linkedin.com/search/results/companies/?keywords=" + keyword,
			Delay:    5 * time.Second,
		})
	}

	return targets
}
