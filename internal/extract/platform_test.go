package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/orlic/leadtap/internal/model"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want model.Platform
	}{
		{"https://www.google.com/search?q=coffee", model.PlatformGoogleSearch},
		{"https://www.google.com/maps/search/coffee", model.PlatformGoogleMaps},
		{"https://maps.google.com/?q=coffee", model.PlatformGoogleMaps},
		{"https://www.facebook.com/search/pages/?q=coffee", model.PlatformFacebook},
		{"https://www.linkedin.com/search/results/companies/?keywords=coffee", model.PlatformLinkedIn},
		{"https://example.com/coffee", model.PlatformUnknown},
	}

	for _, tt := range tests {
		if got := DetectPlatform(tt.url); got != tt.want {
			t.Errorf("DetectPlatform(%q) = %q; want %q", tt.url, got, tt.want)
		}
	}
}

func TestForPlatformUnknown(t *testing.T) {
	_, ok := ForPlatform(model.PlatformUnknown)
	require.False(t, ok)
}

func TestExtractGoogleSearch(t *testing.T) {
	html := `<html><body><div id="search">
		<div data-ved="abc">
			<h3>Pine Coffee Roasters</h3>
			<span>Coffee shop</span>
			<span>123 Pine St · Seattle, WA</span>
			<span>(206) 555-0134</span>
			<div role="img" aria-label="4.6 stars 128 reviews"></div>
			<a href="https://pinecoffee.example.com">Website</a>
		</div>
	</div></body></html>`

	ext, ok := ForPlatform(model.PlatformGoogleSearch)
	require.True(t, ok)

	records := ext.Extract(parseDoc(t, html))
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "Pine Coffee Roasters", rec.Name)
	require.Equal(t, "Coffee shop", rec.Category)
	require.Equal(t, "123 Pine St · Seattle, WA", rec.Address)
	require.Equal(t, "(206) 555-0134", rec.Phone)
	require.Equal(t, "https://pinecoffee.example.com", rec.Website)
	require.Equal(t, 4.6, rec.Rating)
	require.Equal(t, 128, rec.ReviewCount)
}

func TestExtractGoogleMapsListing(t *testing.T) {
	html := `<html><body><div role="main">
		<div role="article">
			<h2>Pine Coffee Roasters</h2>
			<div data-value="category">Coffee shop</div>
			<span>123 Pine St, Seattle</span>
			<div role="img" aria-label="4.6 stars 128 reviews"></div>
			<a href="https://www.google.com/maps/place/Pine+Coffee+Roasters/data=!xyz">details</a>
		</div>
	</div></body></html>`

	records := extractGoogleMaps(parseDoc(t, html))
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "Pine Coffee Roasters", rec.Name)
	require.Equal(t, "Coffee shop", rec.Category)
	require.Equal(t, "123 Pine St, Seattle", rec.Address)
	require.Equal(t, 4.6, rec.Rating)
	require.Contains(t, rec.DetailURL, "/maps/place/")
}

func TestExtractGoogleMapsSelectedPlace(t *testing.T) {
	// No listing articles: the selected place panel is the only content.
	html := `<html><body><div role="main">
		<h1>Pine Coffee Roasters</h1>
		<div role="img" aria-label="4.6 stars 128 reviews"></div>
		<button data-item-id="address">123 Pine St, Seattle, WA 98101</button>
		<button data-item-id="phone:tel:2065550134">(206) 555-0134</button>
		<a data-item-id="authority" href="https://pinecoffee.example.com">pinecoffee.example.com</a>
		<div data-item-id="oh">Open Mon-Fri 7am-5pm</div>
	</div></body></html>`

	records := extractGoogleMaps(parseDoc(t, html))
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "Pine Coffee Roasters", rec.Name)
	require.Equal(t, "123 Pine St, Seattle, WA 98101", rec.Address)
	require.Equal(t, "(206) 555-0134", rec.Phone)
	require.Equal(t, "https://pinecoffee.example.com", rec.Website)
	require.Equal(t, "Open Mon-Fri 7am-5pm", rec.Hours)
}

func TestExtractFacebook(t *testing.T) {
	html := `<html><body><div role="feed">
		<div role="article">
			<h3>Pine Coffee Roasters</h3>
			<a href="https://www.facebook.com/pages/Pine-Coffee-Roasters/12345">page</a>
		</div>
		<a href="/pages/Elm-Street-Bakery/678">x</a>
	</div></body></html>`

	records := extractFacebook(parseDoc(t, html))
	require.Len(t, records, 2)

	require.Equal(t, "Pine Coffee Roasters", records[0].Name)
	require.Contains(t, records[0].Website, "facebook.com/pages/")
	require.NotEmpty(t, records[0].DetailURL)

	// Bare link outside any result fragment falls back to the URL slug,
	// and its relative href resolves to a navigable URL.
	require.Equal(t, "Elm Street Bakery", records[1].Name)
	require.Equal(t, "https://www.facebook.com/pages/Elm-Street-Bakery/678", records[1].DetailURL)
	require.Equal(t, records[1].DetailURL, records[1].Website)
}

func TestExtractLinkedIn(t *testing.T) {
	html := `<html><body><div class="search-results-container">
		<div class="entity-result">
			<div class="entity-result__title-text"><a href="https://www.linkedin.com/company/pine-coffee">Pine Coffee Roasters</a></div>
			<div class="entity-result__primary-subtitle">Food &amp; Beverages</div>
			<div class="entity-result__secondary-subtitle">Seattle, Washington</div>
			<div class="entity-result__employees">51-200 employees</div>
		</div>
	</div></body></html>`

	records := extractLinkedIn(parseDoc(t, html))
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "Pine Coffee Roasters", rec.Name)
	require.Equal(t, "Food & Beverages", rec.Industry)
	require.Equal(t, "Food & Beverages", rec.Category)
	require.Equal(t, "Seattle, Washington", rec.Address)
	require.Equal(t, "51-200", rec.CompanySize)
	require.Contains(t, rec.DetailURL, "/company/")
}

func TestExtractUnknownMarkupYieldsNothing(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>nothing to see</p></body></html>`)
	require.Empty(t, extractGoogleSearch(doc))
	require.Empty(t, extractFacebook(doc))
	require.Empty(t, extractLinkedIn(doc))
}
