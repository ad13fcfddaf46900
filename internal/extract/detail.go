package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orlic/leadtap/internal/model"
)

// Detail reads a listing's expanded detail view and returns whatever contact
// fields it exposes. Used by the enricher on every platform, so the
// strategies cover both Maps detail panes and generic about/contact pages.
func Detail(doc *goquery.Document) model.BusinessRecord {
	var rec model.BusinessRecord

	if name, ok := first(doc.Selection, []strategy{
		{selector: `[role="main"] h1`},
		{selector: "h1"},
	}); ok {
		rec.Name = name
	}

	if phoneText, ok := first(doc.Selection, []strategy{
		{selector: `[data-item-id*="phone"]`},
		{selector: `a[href^="tel:"]`},
	}); ok {
		rec.Phone, _ = Phone(phoneText)
	} else if phoneText, ok := firstAnyText(doc.Selection, `[class*="contact"] span, footer span, address`, func(t string) bool {
		_, found := Phone(t)
		return found
	}); ok {
		rec.Phone, _ = Phone(phoneText)
	}

	site := doc.Find(`[data-item-id="authority"], a[data-item-id="authority"]`).First()
	if site.Length() > 0 {
		if href, ok := site.Attr("href"); ok && href != "" {
			rec.Website = href
		} else {
			rec.Website = CleanText(site.Text())
		}
	}

	if hours, ok := first(doc.Selection, []strategy{
		{selector: `[data-item-id="oh"]`},
		{selector: `[aria-label*="hours"]`, attr: "aria-label"},
	}); ok {
		rec.Hours = hours
	}

	if cat, ok := first(doc.Selection, []strategy{
		{selector: `[data-value="category"]`},
		{selector: `button[data-value="category"]`},
	}); ok {
		rec.Category = cat
	}

	if addr, ok := first(doc.Selection, []strategy{
		{selector: `[data-item-id="address"]`},
		{selector: "address"},
	}); ok {
		rec.Address = addr
	}

	if email, ok := Email(doc); ok {
		rec.Email = email
	}

	if label := doc.Find(`[role="img"][aria-label*="star"]`).First(); label.Length() > 0 {
		text := labelOrText(label)
		rec.Rating, _ = Rating(text)
		rec.ReviewCount, _ = ReviewCount(text)
	}

	// Some detail pages only expose the site link as plain anchors.
	if rec.Website == "" {
		doc.Find(`a[href^="http"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if href == "" {
				return true
			}
			for _, own := range []string{"google.", "facebook.", "linkedin."} {
				if strings.Contains(href, own) {
					return true
				}
			}
			rec.Website = href
			return false
		})
	}

	return rec
}
