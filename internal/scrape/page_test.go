package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orlic/leadtap/internal/enrich"
	"github.com/orlic/leadtap/internal/model"
)

const placePaneHTML = `<html><body><div role="main">
	<h1>Pine Coffee Roasters</h1>
	<button data-item-id="address">123 Pine St, Seattle, WA</button>
	<button data-item-id="phone:tel:2065550134">(206) 555-0134</button>
	<a data-item-id="authority" href="https://pinecoffee.example.com">site</a>
	<div data-item-id="oh">Mon-Fri 7:00-17:00</div>
</div></body></html>`

// clickablePage serves the detail pane once its listing has been clicked.
type clickablePage struct {
	clickErr error
	clicked  string
	paneHTML string
	expanded bool
}

func (p *clickablePage) Navigate(context.Context, string) error { return nil }

func (p *clickablePage) WaitVisible(context.Context, string, time.Duration) bool {
	return p.expanded
}

func (p *clickablePage) HTML(context.Context) (string, error) {
	if !p.expanded {
		return "<html><body></body></html>", nil
	}
	return p.paneHTML, nil
}

func (p *clickablePage) Close() {}

func (p *clickablePage) Click(_ context.Context, selector string) error {
	if p.clickErr != nil {
		return p.clickErr
	}
	p.clicked = selector
	p.expanded = true
	return nil
}

// staticPage has no click support at all.
type staticPage struct{}

func (staticPage) Navigate(context.Context, string) error { return nil }
func (staticPage) WaitVisible(context.Context, string, time.Duration) bool {
	return true
}
func (staticPage) HTML(context.Context) (string, error) { return placePaneHTML, nil }
func (staticPage) Close()                               {}

func TestExpandPlaceFillsFromDetailPane(t *testing.T) {
	pg := &clickablePage{paneHTML: placePaneHTML}
	base := model.BusinessRecord{Name: "Pine Coffee Roasters", Category: "Coffee shop"}
	opts := enrich.Options{Wait: time.Second, IncludeEmails: true, IncludePhones: true}

	got := expandPlace(context.Background(), pg, base, opts)

	require.Contains(t, pg.clicked, `aria-label*="Pine Coffee Roasters"`)
	require.Equal(t, "Coffee shop", got.Category)
	require.Equal(t, "123 Pine St, Seattle, WA", got.Address)
	require.Equal(t, "(206) 555-0134", got.Phone)
	require.Equal(t, "https://pinecoffee.example.com", got.Website)
	require.Equal(t, "Mon-Fri 7:00-17:00", got.Hours)
}

func TestExpandPlaceRespectsFieldToggles(t *testing.T) {
	pg := &clickablePage{paneHTML: placePaneHTML}
	base := model.BusinessRecord{Name: "Pine Coffee Roasters"}

	got := expandPlace(context.Background(), pg, base, enrich.Options{Wait: time.Second})
	require.Empty(t, got.Phone)
	require.NotEmpty(t, got.Website)
}

func TestExpandPlaceClickFailureKeepsBase(t *testing.T) {
	pg := &clickablePage{paneHTML: placePaneHTML, clickErr: errors.New("node not found")}
	base := model.BusinessRecord{Name: "Pine Coffee Roasters"}

	got := expandPlace(context.Background(), pg, base, enrich.Options{Wait: time.Second, IncludePhones: true})
	require.Equal(t, base, got)
}

func TestExpandPlaceSkipsNonClickablePages(t *testing.T) {
	base := model.BusinessRecord{Name: "Pine Coffee Roasters"}

	got := expandPlace(context.Background(), staticPage{}, base, enrich.Options{Wait: time.Second, IncludePhones: true})
	require.Equal(t, base, got)
}
