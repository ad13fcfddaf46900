package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// freemailDomains are personal-email providers. A business address on its own
// domain wins over these when both appear.
var freemailDomains = []string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"aol.com",
}

// candidate regions scanned for addresses, in preference order.
var emailRegionSelectors = []string{
	`a[href^="mailto:"]`,
	"footer",
	`[class*="contact"], [id*="contact"]`,
	"address",
	"body",
}

// Email scans the document's contact-bearing regions and picks the best
// address: any non-freemail one beats a freemail one, but a freemail address
// is accepted when it is all that was found.
func Email(doc *goquery.Document) (string, bool) {
	var freemail string

	for _, sel := range emailRegionSelectors {
		var found []string
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := s.Text()
			if href, ok := s.Attr("href"); ok {
				text += " " + strings.TrimPrefix(href, "mailto:")
			}
			found = append(found, emailRe.FindAllString(text, -1)...)
		})

		for _, addr := range found {
			addr = strings.ToLower(addr)
			if isFreemail(addr) {
				if freemail == "" {
					freemail = addr
				}
				continue
			}
			return addr, true
		}
	}

	if freemail != "" {
		return freemail, true
	}
	return "", false
}

func isFreemail(addr string) bool {
	for _, d := range freemailDomains {
		if strings.HasSuffix(addr, "@"+d) {
			return true
		}
	}
	return false
}
