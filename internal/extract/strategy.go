package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// strategy is one way to locate a field inside a fragment. Strategies for a
// field are tried in order; the first non-absent result wins, so new markup
// variants can be appended without touching control flow.
type strategy struct {
	selector string
	// attr reads an attribute instead of the node text ("href", "aria-label").
	attr string
	// accept rejects candidate text after cleaning; nil accepts anything
	// non-empty.
	accept func(string) bool
}

// first runs the strategies against sel and returns the first usable value.
func first(sel *goquery.Selection, strategies []strategy) (string, bool) {
	for _, st := range strategies {
		found := sel.Find(st.selector).First()
		if found.Length() == 0 {
			continue
		}

		var raw string
		if st.attr != "" {
			raw, _ = found.Attr(st.attr)
		} else {
			raw = found.Text()
		}

		val := CleanText(raw)
		if val == "" {
			continue
		}
		if st.accept != nil && !st.accept(val) {
			continue
		}
		return val, true
	}
	return "", false
}

// firstAnyText scans every node matched by selector and returns the first one
// whose cleaned text passes accept. Used where the field is identified by
// content rather than structure (e.g. "the span that looks like an address").
func firstAnyText(sel *goquery.Selection, selector string, accept func(string) bool) (string, bool) {
	var val string
	sel.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := CleanText(s.Text())
		if t != "" && accept(t) {
			val = t
			return false
		}
		return true
	})
	return val, val != ""
}

// labelOrText prefers the accessible label over the node text, matching how
// rating widgets expose their value.
func labelOrText(s *goquery.Selection) string {
	if label, ok := s.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
		return label
	}
	return s.Text()
}
