package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func emailDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestEmailPrefersBusinessDomain(t *testing.T) {
	doc := emailDoc(t, `<html><body>
		<footer>Reach us at owner@gmail.com or info@pinecoffee.com</footer>
	</body></html>`)

	got, ok := Email(doc)
	if !ok || got != "info@pinecoffee.com" {
		t.Errorf("Email() = (%q, %v); want (%q, true)", got, ok, "info@pinecoffee.com")
	}
}

func TestEmailAcceptsFreemailWhenAlone(t *testing.T) {
	doc := emailDoc(t, `<html><body>
		<div class="contact-info">owner@gmail.com</div>
	</body></html>`)

	got, ok := Email(doc)
	if !ok || got != "owner@gmail.com" {
		t.Errorf("Email() = (%q, %v); want (%q, true)", got, ok, "owner@gmail.com")
	}
}

func TestEmailFromMailtoHref(t *testing.T) {
	doc := emailDoc(t, `<html><body>
		<a href="mailto:Hello@PineCoffee.com">Contact</a>
	</body></html>`)

	got, ok := Email(doc)
	if !ok || got != "hello@pinecoffee.com" {
		t.Errorf("Email() = (%q, %v); want (%q, true)", got, ok, "hello@pinecoffee.com")
	}
}

func TestEmailAbsent(t *testing.T) {
	doc := emailDoc(t, `<html><body><p>no contact details</p></body></html>`)

	if got, ok := Email(doc); ok {
		t.Errorf("Email() = (%q, %v); want absent", got, ok)
	}
}
