package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/orlic/leadtap/internal/browser"
	"github.com/orlic/leadtap/internal/enrich"
	"github.com/orlic/leadtap/internal/extract"
	"github.com/orlic/leadtap/internal/model"
)

// page abstracts where a platform's markup comes from: a live browser tab
// for script-rendered platforms, or a plain fetch for server-rendered ones.
// It satisfies enrich.Page so the enricher can reuse the same context.
type page interface {
	enrich.Page
	Close()
}

// clicker is satisfied by page sources that can dispatch input events.
// Static fetches cannot, so click-driven expansion silently skips them.
type clicker interface {
	Click(ctx context.Context, selector string) error
}

// tabPage drives a real background browser tab.
type tabPage struct {
	tab *browser.Tab
}

func (p *tabPage) Navigate(ctx context.Context, url string) error { return p.tab.Navigate(ctx, url) }

func (p *tabPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) bool {
	return p.tab.WaitVisible(ctx, selector, timeout)
}

func (p *tabPage) HTML(ctx context.Context) (string, error) { return p.tab.HTML(ctx) }

func (p *tabPage) Close() { p.tab.Close() }

func (p *tabPage) Click(ctx context.Context, selector string) error {
	return p.tab.Click(ctx, selector)
}

// httpPage fetches static pages through the fingerprinted client. The
// document is complete on arrival, so readiness waits trivially succeed when
// the container is present and there is nothing to poll for otherwise.
type httpPage struct {
	client *Client
	html   string
}

func (p *httpPage) Navigate(ctx context.Context, url string) error {
	body, err := p.client.Fetch(ctx, url)
	if err != nil {
		return err
	}
	p.html = string(body)
	return nil
}

func (p *httpPage) WaitVisible(_ context.Context, selector string, _ time.Duration) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.html))
	if err != nil {
		return false
	}
	return doc.Find(selector).Length() > 0
}

func (p *httpPage) HTML(_ context.Context) (string, error) { return p.html, nil }

func (p *httpPage) Close() {}

// report is one platform tab's completion signal. It is always produced,
// even when the scrape timed out or failed outright.
type report struct {
	Platform  model.Platform
	Saved     int
	Extracted int
	Err       string
}

// expandPlace clicks a listing fragment so its detail pane opens, then
// merges whatever the pane exposes. Any failure keeps the base record.
func expandPlace(ctx context.Context, pg page, rec model.BusinessRecord, opts enrich.Options) model.BusinessRecord {
	cl, ok := pg.(clicker)
	if !ok || rec.Name == "" {
		return rec
	}

	selector := fmt.Sprintf(`[role="article"][aria-label*=%q]`, rec.Name)
	if err := cl.Click(ctx, selector); err != nil {
		return rec
	}
	pg.WaitVisible(ctx, `[role="main"] h1`, opts.Wait)

	html, err := pg.HTML(ctx)
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
	return enrich.Merge(rec, detail)
}

// runPage drives one platform through the scrape states: detect, await
// readiness, extract, optionally enrich, and save each record. ctx carries
// the global per-tab timeout.
func (c *Controller) runPage(ctx context.Context, pg page, target searchTarget, req model.ScrapeRequest) report {
	rep := report{Platform: target.Platform}

	if err := pg.Navigate(ctx, target.URL); err != nil {
		rep.Err = err.Error()
		return rep
	}

	// Initial settle before the platform's own readiness wait.
	select {
	case <-time.After(c.cfg.SettleDelay):
	case <-ctx.Done():
		rep.Err = ctx.Err().Error()
		return rep
	}

	platform := target.Platform
	if platform == "" || platform == model.PlatformUnknown {
		platform = extract.DetectPlatform(target.URL)
	}
	ext, ok := extract.ForPlatform(platform)
	if !ok {
		// Unknown platform extracts nothing, by contract.
		return rep
	}

	if !pg.WaitVisible(ctx, ext.Ready, c.cfg.ReadyTimeout) {
		c.logger.Printf("READY_TIMEOUT platform=%q selector=%q", platform, ext.Ready)
	}

	html, err := pg.HTML(ctx)
	if err != nil {
		rep.Err = err.Error()
		return rep
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		rep.Err = err.Error()
		return rep
	}

	records := ext.Extract(doc)
	if req.MaxResults > 0 && len(records) > req.MaxResults {
		records = records[:req.MaxResults]
	}
	rep.Extracted = len(records)
	c.stats.Extracted.Add(int64(len(records)))

	enrichOpts := enrich.Options{
		Wait:          c.cfg.EnrichWait,
		IncludeEmails: req.IncludeEmails,
		IncludePhones: req.IncludePhones,
	}

	for i, rec := range records {
		if ctx.Err() != nil {
			rep.Err = ctx.Err().Error()
			break
		}
		if rec.Name == "" {
			continue
		}

		if req.Enrich && (rec.DetailURL != "" || platform == model.PlatformGoogleMaps) {
			if i > 0 {
				// Pace detail navigations.
				select {
				case <-time.After(c.cfg.EnrichPacing):
				case <-ctx.Done():
				}
			}
			if rec.DetailURL != "" {
				rec = enrich.Profile(ctx, pg, rec, enrichOpts)
			} else {
				// Maps listings without a place link expand in-pane on
				// click.
				rec = expandPlace(ctx, pg, rec, enrichOpts)
			}
		}

		if !req.IncludeEmails {
			rec.Email = ""
		}
		if !req.IncludePhones {
			rec.Phone = ""
		}

		rec.Source = platform
		rec.SourceURL = target.URL

		res, err := c.store.SaveBusiness(rec)
		if err != nil {
			c.logger.Printf("SAVE_ERROR platform=%q name=%q err=%v", platform, rec.Name, err)
			c.stats.Errors.Add(1)
			continue
		}
		if !res.Duplicate {
			rep.Saved++
			c.stats.Saved.Add(1)
			if c.opts.OnRecord != nil {
				c.opts.OnRecord(rec)
			}
		} else {
			c.stats.Duplicates.Add(1)
		}
	}

	return rep
}
