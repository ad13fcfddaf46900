package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orlic/leadtap/internal/model"
)

var googleMapsExtractor = PageExtractor{
	Platform: model.PlatformGoogleMaps,
	Ready:    `[role="main"]`,
	Extract:  extractGoogleMaps,
}

var mapsNameStrategies = []strategy{
	{selector: `[role="button"] div[aria-label]`, attr: "aria-label"},
	{selector: "h2"},
	{selector: `[data-value="name"]`},
	{selector: `a[aria-label]`, attr: "aria-label"},
}

var mapsCategoryStrategies = []strategy{
	{selector: `[data-value="category"]`},
	{selector: "div:nth-child(2) span:first-child"},
}

// extractGoogleMaps walks the sidebar listing articles. When the page shows
// no listing at all it degrades to the currently selected detail pane, which
// is the only content in a place-details page state.
func extractGoogleMaps(doc *goquery.Document) []model.BusinessRecord {
	var records []model.BusinessRecord

	doc.Find(`[role="article"]`).Each(func(_ int, frag *goquery.Selection) {
		if rec, ok := tryMapsListing(frag); ok {
			records = append(records, rec)
		}
	})

	if len(records) == 0 {
		if rec, ok := trySelectedPlace(doc); ok {
			records = append(records, rec)
		}
	}

	return records
}

func tryMapsListing(frag *goquery.Selection) (model.BusinessRecord, bool) {
	var rec model.BusinessRecord

	name, ok := first(frag, mapsNameStrategies)
	if !ok {
		return rec, false
	}
	rec.Name = name

	rating := frag.Find(`[role="img"][aria-label*="star"]`).First()
	if rating.Length() > 0 {
		label := labelOrText(rating)
		rec.Rating, _ = Rating(label)
		rec.ReviewCount, _ = ReviewCount(label)
	}

	if cat, ok := first(frag, mapsCategoryStrategies); ok {
		rec.Category = cat
	}

	if addr, ok := first(frag, []strategy{{selector: `[data-value="address"]`}}); ok {
		rec.Address = addr
	} else if addr, ok := firstAnyText(frag, "span", func(t string) bool {
		return addressishRe.MatchString(t) && !strings.Contains(t, "star")
	}); ok {
		rec.Address = addr
	}

	// A place link means a richer detail view exists for the enricher.
	if href, ok := frag.Find(`a[href*="/maps/place/"]`).First().Attr("href"); ok {
		rec.DetailURL = href
	}

	return rec, true
}

// trySelectedPlace reads the expanded place panel.
func trySelectedPlace(doc *goquery.Document) (model.BusinessRecord, bool) {
	var rec model.BusinessRecord

	name, ok := first(doc.Selection, []strategy{{selector: `[role="main"] h1`}})
	if !ok {
		return rec, false
	}
	rec.Name = name

	rating := doc.Find(`[role="img"][aria-label*="star"]`).First()
	if rating.Length() > 0 {
		label := labelOrText(rating)
		rec.Rating, _ = Rating(label)
		rec.ReviewCount, _ = ReviewCount(label)
	}

	if cat, ok := first(doc.Selection, []strategy{
		{selector: `[data-value="category"]`},
		{selector: `button[data-value="category"]`},
	}); ok {
		rec.Category = cat
	}

	if addr, ok := first(doc.Selection, []strategy{
		{selector: `[data-item-id="address"]`},
		{selector: `button[data-item-id="address"]`},
	}); ok {
		rec.Address = addr
	}

	if phoneText, ok := first(doc.Selection, []strategy{
		{selector: `[data-item-id*="phone"]`},
		{selector: `button[data-item-id*="phone"]`},
	}); ok {
		rec.Phone, _ = Phone(phoneText)
	}

	site := doc.Find(`[data-item-id="authority"]`).First()
	if site.Length() > 0 {
		if href, ok := site.Attr("href"); ok && href != "" {
			rec.Website = href
		} else {
			rec.Website = CleanText(site.Text())
		}
	}

	if hours, ok := first(doc.Selection, []strategy{{selector: `[data-item-id="oh"]`}}); ok {
		rec.Hours = hours
	}

	return rec, true
}
