package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orlic/leadtap/internal/model"
)

var facebookExtractor = PageExtractor{
	Platform: model.PlatformFacebook,
	Ready:    `[role="feed"], [data-pagelet*="Search"]`,
	Extract:  extractFacebook,
}

var fbPageSlugRe = regexp.MustCompile(`/pages/([^/]+)`)

var facebookBase = &url.URL{Scheme: "https", Host: "www.facebook.com"}

// absoluteFacebookURL resolves relative page hrefs against the site root so
// the detail link is always navigable.
func absoluteFacebookURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return facebookBase.ResolveReference(u).String()
}

var facebookNameStrategies = []strategy{
	{selector: "h3", accept: plausibleName},
	{selector: "h4", accept: plausibleName},
	{selector: "strong", accept: plausibleName},
	{selector: `[role="heading"]`, accept: plausibleName},
	{selector: `span[dir="auto"]`, accept: plausibleName},
}

// plausibleName filters out icon glyph text and whole-paragraph matches.
func plausibleName(t string) bool {
	return len(t) > 2 && len(t) < 100
}

func extractFacebook(doc *goquery.Document) []model.BusinessRecord {
	var records []model.BusinessRecord

	doc.Find(`[data-pagelet*="SearchResult"], [role="article"]`).Each(func(_ int, frag *goquery.Selection) {
		if rec, ok := tryFacebookResult(frag); ok {
			records = append(records, rec)
		}
	})

	// Fallback: harvest bare page links when the result markup changed
	// underneath the structural selectors.
	doc.Find(`a[href*="/pages/"]`).Each(func(_ int, link *goquery.Selection) {
		if rec, ok := tryFacebookPageLink(link); ok {
			records = append(records, rec)
		}
	})

	return records
}

func tryFacebookResult(frag *goquery.Selection) (model.BusinessRecord, bool) {
	var rec model.BusinessRecord

	if name, ok := first(frag, facebookNameStrategies); ok {
		rec.Name = name
	}

	link := frag.Find(`a[href*="/pages/"], a[href*="facebook.com/"]`).First()
	if href, ok := link.Attr("href"); ok && href != "" {
		abs := absoluteFacebookURL(href)
		rec.Website = abs
		rec.DetailURL = abs
		if rec.Name == "" {
			rec.Name = pageNameFromURL(href)
		}
	}

	if rec.Name == "" {
		return rec, false
	}

	if cat, ok := first(frag, []strategy{
		{selector: `[data-testid*="subtitle"]`, accept: func(t string) bool { return len(t) < 200 }},
	}); ok {
		rec.Category = cat
	}

	loc := frag.Find(`[aria-label*="location"], [title*="location"]`).First()
	if loc.Length() > 0 {
		addr := CleanText(loc.Text())
		if addr == "" {
			addr, _ = loc.Attr("title")
			addr = CleanText(addr)
		}
		rec.Address = addr
	}

	return rec, true
}

func tryFacebookPageLink(link *goquery.Selection) (model.BusinessRecord, bool) {
	var rec model.BusinessRecord

	href, _ := link.Attr("href")
	if !strings.Contains(href, "facebook.com") && !strings.HasPrefix(href, "/pages/") {
		return rec, false
	}

	// Links inside a matched result fragment were already captured above.
	if link.Closest(`[data-pagelet*="SearchResult"], [role="article"]`).Length() > 0 {
		return rec, false
	}

	if name := CleanText(link.Text()); plausibleName(name) {
		rec.Name = name
	} else {
		rec.Name = pageNameFromURL(href)
	}
	if rec.Name == "" {
		return rec, false
	}

	abs := absoluteFacebookURL(href)
	rec.Website = abs
	rec.DetailURL = abs

	parent := link.Closest(`[role="article"], div[data-testid]`)
	if parent.Length() > 0 {
		if cat, ok := first(parent, []strategy{{selector: `[data-testid*="subtitle"]`}}); ok {
			rec.Category = cat
		}
	}

	return rec, true
}

// pageNameFromURL recovers a readable name from a /pages/<slug> URL.
func pageNameFromURL(href string) string {
	m := fbPageSlugRe.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	slug, err := url.PathUnescape(m[1])
	if err != nil {
		slug = m[1]
	}
	slug = strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return CleanText(slug)
}
