package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orlic/leadtap/internal/model"
)

var linkedInExtractor = PageExtractor{
	Platform: model.PlatformLinkedIn,
	Ready:    ".search-results-container, .search-results__list",
	Extract:  extractLinkedIn,
}

var companySizeRe = regexp.MustCompile(`([\d,]+(?:\s*[-–]\s*[\d,]+)?\+?)\s*employee`)

var linkedInNameStrategies = []strategy{
	{selector: ".entity-result__title-text a"},
	{selector: ".search-result__title a"},
	{selector: "h3 a"},
	{selector: ".entity-result__title-text"},
	{selector: ".search-result__title"},
	{selector: "h3"},
}

func extractLinkedIn(doc *goquery.Document) []model.BusinessRecord {
	var records []model.BusinessRecord

	doc.Find(".entity-result, .search-result, .search-result__info").Each(func(_ int, frag *goquery.Selection) {
		if rec, ok := tryLinkedInResult(frag); ok {
			records = append(records, rec)
		}
	})

	return records
}

func tryLinkedInResult(frag *goquery.Selection) (model.BusinessRecord, bool) {
	var rec model.BusinessRecord

	name, ok := first(frag, linkedInNameStrategies)
	if !ok {
		return rec, false
	}
	rec.Name = name

	if href, ok := frag.Find(`a[href*="/company/"]`).First().Attr("href"); ok {
		rec.Website = href
		rec.DetailURL = href
	}

	if ind, ok := first(frag, []strategy{
		{selector: ".entity-result__primary-subtitle"},
		{selector: ".subline-level-1"},
	}); ok {
		rec.Industry = ind
	}

	if desc, ok := first(frag, []strategy{
		{selector: ".entity-result__summary", accept: func(t string) bool { return len(t) < 500 }},
		{selector: ".search-result__snippets", accept: func(t string) bool { return len(t) < 500 }},
	}); ok {
		rec.Category = desc
	} else if rec.Industry != "" {
		rec.Category = rec.Industry
	}

	if loc, ok := first(frag, []strategy{
		{selector: `[data-test-id="location"]`},
		{selector: ".entity-result__secondary-subtitle", accept: func(t string) bool {
			return !strings.Contains(t, "followers")
		}},
	}); ok {
		rec.Address = loc
	}

	if emp, ok := first(frag, []strategy{
		{selector: ".entity-result__employees"},
		{selector: `[data-test-id="employees"]`},
	}); ok && strings.Contains(emp, "employee") {
		rec.Notes = emp
		if m := companySizeRe.FindStringSubmatch(emp); m != nil {
			rec.CompanySize = m[1]
		}
	}

	return rec, true
}
