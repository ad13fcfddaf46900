// Package enrich performs the optional second extraction pass: following a
// record's detail link and filling in fields the listing view did not show.
// Enrichment never loses data: any failure returns the base record as-is.
package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/orlic/leadtap/internal/extract"
	"github.com/orlic/leadtap/internal/model"
)

// Page is the minimal navigable view the enricher needs. Both browser tabs
// and the static-page fetcher satisfy it.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) bool
	HTML(ctx context.Context) (string, error)
}

// Options bounds the enrichment pass.
type Options struct {
	Wait          time.Duration
	IncludeEmails bool
	IncludePhones bool
}

// Profile navigates to rec's detail view and merges in additional fields.
// Only absent fields are filled; existing values are never overwritten.
func Profile(ctx context.Context, page Page, rec model.BusinessRecord, opts Options) model.BusinessRecord {
	if rec.DetailURL == "" {
		return rec
	}

	if err := page.Navigate(ctx, rec.DetailURL); err != nil {
		return rec
	}

	wait := opts.Wait
	if wait <= 0 {
		wait = 3 * time.Second
	}
	page.WaitVisible(ctx, "h1", wait)

	html, err := page.HTML(ctx)
	if err != nil {
		return rec
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return rec
	}

	detail := extract.Detail(doc)
	if !opts.IncludeEmails {
		detail.Email = ""
	}
	if !opts.IncludePhones {
		detail.Phone = ""
	}

	return Merge(rec, detail)
}

// Merge fills base's absent fields from extra. The base record wins every
// conflict.
func Merge(base, extra model.BusinessRecord) model.BusinessRecord {
	if base.Category == "" {
		base.Category = extra.Category
	}
	if base.Address == "" {
		base.Address = extra.Address
	}
	if base.Phone == "" {
		base.Phone = extra.Phone
	}
	if base.Email == "" {
		base.Email = extra.Email
	}
	if base.Website == "" {
		base.Website = extra.Website
	}
	if base.Rating == 0 {
		base.Rating = extra.Rating
	}
	if base.ReviewCount == 0 {
		base.ReviewCount = extra.ReviewCount
	}
	if base.Hours == "" {
		base.Hours = extra.Hours
	}
	if base.Notes == "" {
		base.Notes = extra.Notes
	}
	if base.Industry == "" {
		base.Industry = extra.Industry
	}
	if base.CompanySize == "" {
		base.CompanySize = extra.CompanySize
	}
	return base
}
