package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orlic/leadtap/internal/model"
)

// Google Search renders local businesses both as organic results and as a
// "map pack" of article cards; both are harvested.

var googleSearchExtractor = PageExtractor{
	Platform: model.PlatformGoogleSearch,
	Ready:    "#search, #rso",
	Extract:  extractGoogleSearch,
}

var addressishRe = regexp.MustCompile(`\d+.*\w+.*\w+`)

var searchNameStrategies = []strategy{
	{selector: "h3"},
	{selector: `[role="heading"]`},
}

func extractGoogleSearch(doc *goquery.Document) []model.BusinessRecord {
	var records []model.BusinessRecord

	doc.Find("div[data-ved]").Each(func(_ int, frag *goquery.Selection) {
		if rec, ok := trySearchFragment(frag); ok {
			records = append(records, rec)
		}
	})

	doc.Find(`[role="article"]`).Each(func(_ int, frag *goquery.Selection) {
		if rec, ok := tryMapPackFragment(frag); ok {
			records = append(records, rec)
		}
	})

	return records
}

func trySearchFragment(frag *goquery.Selection) (model.BusinessRecord, bool) {
	var rec model.BusinessRecord

	name, ok := first(frag, searchNameStrategies)
	if !ok {
		return rec, false
	}
	rec.Name = name

	if addr, ok := firstAnyText(frag, "span", func(t string) bool {
		return strings.Contains(t, "·") && addressishRe.MatchString(t)
	}); ok {
		rec.Address = addr
	}

	if phoneText, ok := firstAnyText(frag, `span, a[href^="tel:"]`, func(t string) bool {
		_, found := Phone(t)
		return found
	}); ok {
		rec.Phone, _ = Phone(phoneText)
	}

	frag.Find(`a[href^="http"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if href == "" || strings.Contains(href, "google.") {
			return true
		}
		rec.Website = href
		return false
	})

	if label, ok := first(frag, []strategy{
		{selector: `[role="img"][aria-label*="star"]`, attr: "aria-label"},
	}); ok {
		rec.Rating, _ = Rating(label)
		rec.ReviewCount, _ = ReviewCount(label)
	}

	if cat, ok := firstAnyText(frag, "span", func(t string) bool {
		return !strings.Contains(t, "·") && !addressishRe.MatchString(t) && len(t) < 60
	}); ok {
		rec.Category = cat
	}

	return rec, true
}

func tryMapPackFragment(frag *goquery.Selection) (model.BusinessRecord, bool) {
	var rec model.BusinessRecord

	name, ok := first(frag, searchNameStrategies)
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

	if addr, ok := firstAnyText(frag, "span", func(t string) bool {
		return addressishRe.MatchString(t) && !strings.Contains(t, "star")
	}); ok {
		rec.Address = addr
	}

	if phoneText, ok := firstAnyText(frag, "span", func(t string) bool {
		_, found := Phone(t)
		return found
	}); ok {
		rec.Phone, _ = Phone(phoneText)
	}

	if cat, ok := firstAnyText(frag, "span", func(t string) bool {
		return !strings.Contains(t, "·") && !addressishRe.MatchString(t) && len(t) < 60
	}); ok {
		rec.Category = cat
	}

	return rec, true
}
