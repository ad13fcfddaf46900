package scrape

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/orlic/leadtap/internal/browser"
	"github.com/orlic/leadtap/internal/config"
	"github.com/orlic/leadtap/internal/export"
	"github.com/orlic/leadtap/internal/geo"
	"github.com/orlic/leadtap/internal/model"
	"github.com/orlic/leadtap/internal/storage"
)

// ErrScrapeInProgress is returned when a scrape is started while another
// run is still draining its tabs.
var ErrScrapeInProgress = errors.New("scrape already in progress")

// ValidationError reports a request field that fails precondition checks.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Stats tracks live run counters. Tabs update them concurrently, so all
// fields are atomics and safe to read from the TUI tick loop.
type Stats struct {
	TabsLaunched atomic.Int64
	TabsDone     atomic.Int64
	Extracted    atomic.Int64
	Saved        atomic.Int64
	Duplicates   atomic.Int64
	Errors       atomic.Int64
}

// Snapshot copies the counters at a point in time.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		TabsLaunched: s.TabsLaunched.Load(),
		TabsDone:     s.TabsDone.Load(),
		Extracted:    s.Extracted.Load(),
		Saved:        s.Saved.Load(),
		Duplicates:   s.Duplicates.Load(),
		Errors:       s.Errors.Load(),
	}
}

func (s *Stats) String() string {
	snap := s.Snapshot()
	return fmt.Sprintf("tabs=%d/%d extracted=%d saved=%d duplicates=%d errors=%d",
		snap.TabsDone, snap.TabsLaunched, snap.Extracted, snap.Saved, snap.Duplicates, snap.Errors)
}

type StatsSnapshot struct {
	TabsLaunched int64
	TabsDone     int64
	Extracted    int64
	Saved        int64
	Duplicates   int64
	Errors       int64
}

// Ack is the immediate response to a scrape request. Tabs keep working in
// the background after it is returned.
type Ack struct {
	TabsCreated int
	Platforms   []model.Platform
	Message     string
}

// RunOptions carries optional observers for a run. Callbacks fire from tab
// goroutines and must be safe for concurrent use.
type RunOptions struct {
	OnReport func(platform model.Platform, saved, extracted int, errMsg string)
	OnRecord func(rec model.BusinessRecord)
}

// Controller owns a scrape run end to end: it opens browser tabs, fans out
// one extraction task per selected platform, and funnels results into the
// store.
type Controller struct {
	cfg     *config.Config
	store   *storage.Store
	logger  *log.Logger
	client  *Client
	geo     *geo.Geocoder
	session *browser.Session

	opts    RunOptions
	stats   Stats
	running atomic.Bool
	wg      sync.WaitGroup
	mu      sync.Mutex
	reports []report
}

// NewController wires a controller over an open store. The browser session
// is created lazily on the first run that needs one.
func NewController(cfg *config.Config, store *storage.Store, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(log.Writer(), "", log.LstdFlags)
	}
	return &Controller{
		cfg:    cfg,
		store:  store,
		logger: logger,
		client: NewClient(),
		geo:    geo.NewGeocoder(cfg.NominatimURL, cfg.UserAgent),
	}
}

func validate(req model.ScrapeRequest) error {
	if req.Keyword == "" {
		return &ValidationError{Field: "keyword", Reason: "must not be empty"}
	}
	if len(req.Platforms.Selected()) == 0 {
		return &ValidationError{Field: "platforms", Reason: "select at least one platform"}
	}
	return nil
}

// StartScraping validates the request, launches one background tab per
// selected platform with staggered delays, and returns immediately. Use
// Wait to block until every tab has reported.
func (c *Controller) StartScraping(ctx context.Context, req model.ScrapeRequest, opts RunOptions) (Ack, error) {
	if err := validate(req); err != nil {
		return Ack{}, err
	}
	if !c.running.CompareAndSwap(false, true) {
		return Ack{}, ErrScrapeInProgress
	}

	c.opts = opts
	c.mu.Lock()
	c.reports = c.reports[:0]
	c.mu.Unlock()

	targets := buildSearchTargets(req)
	platforms := make([]model.Platform, 0, len(targets))
	for _, t := range targets {
		platforms = append(platforms, t.Platform)
	}

	c.logger.Printf("SCRAPE_START keyword=%q location=%q platforms=%d", req.Keyword, req.Location, len(targets))

	c.wg.Add(len(targets))
	for _, target := range targets {
		go c.launchTab(ctx, target, req)
	}

	go func() {
		c.wg.Wait()
		c.running.Store(false)
		c.logger.Printf("SCRAPE_DONE %s", c.stats.String())
	}()

	return Ack{
		TabsCreated: len(targets),
		Platforms:   platforms,
		Message:     fmt.Sprintf("scraping started on %d platform(s)", len(targets)),
	}, nil
}

// launchTab sleeps out the target's stagger delay, then runs the platform
// task under the tab timeout. One report is recorded no matter what.
func (c *Controller) launchTab(ctx context.Context, target searchTarget, req model.ScrapeRequest) {
	defer c.wg.Done()

	select {
	case <-time.After(target.Delay):
	case <-ctx.Done():
		c.recordReport(report{Platform: target.Platform, Err: ctx.Err().Error()})
		return
	}

	pg, err := c.openPage(target.Platform)
	if err != nil {
		c.logger.Printf("TAB_OPEN_ERROR platform=%q err=%v", target.Platform, err)
		c.stats.Errors.Add(1)
		c.recordReport(report{Platform: target.Platform, Err: err.Error()})
		return
	}
	c.stats.TabsLaunched.Add(1)

	tabCtx, cancel := context.WithTimeout(ctx, c.cfg.TabTimeout)
	rep := c.runPage(tabCtx, pg, target, req)
	cancel()

	// Give the tab a moment to settle before tearing it down.
	time.AfterFunc(c.cfg.TabCloseGrace, pg.Close)
	if rep.Err != "" {
		c.stats.Errors.Add(1)
	}
	c.recordReport(rep)
}

func (c *Controller) recordReport(rep report) {
	c.stats.TabsDone.Add(1)
	c.mu.Lock()
	c.reports = append(c.reports, rep)
	c.mu.Unlock()
	if c.opts.OnReport != nil {
		c.opts.OnReport(rep.Platform, rep.Saved, rep.Extracted, rep.Err)
	}
}

// openPage picks the page source for a platform. Google Search renders
// server side and goes through the fingerprinted HTTP client; everything
// else needs a scripted browser tab.
func (c *Controller) openPage(platform model.Platform) (page, error) {
	if platform == model.PlatformGoogleSearch {
		return &httpPage{client: c.client}, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		sess, err := browser.NewSession(browser.Options{
			ChromeBin: c.cfg.ChromeBin,
			Headless:  c.cfg.Headless,
			UserAgent: c.cfg.UserAgent,
		})
		if err != nil {
			return nil, err
		}
		c.session = sess
	}
	return &tabPage{tab: c.session.NewTab()}, nil
}

// Wait blocks until all tabs from the current run have reported.
func (c *Controller) Wait() []report {
	c.wg.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]report, len(c.reports))
	copy(out, c.reports)
	return out
}

// Running reports whether a scrape run is still active.
func (c *Controller) Running() bool { return c.running.Load() }

// Stats exposes the live counters for progress displays.
func (c *Controller) Stats() *Stats { return &c.stats }

// GetStoredData returns every stored record, oldest first, along with the
// current settings.
func (c *Controller) GetStoredData() ([]model.BusinessRecord, model.Settings, error) {
	records, err := c.store.Businesses()
	if err != nil {
		return nil, model.Settings{}, err
	}
	set, err := c.store.Settings()
	if err != nil {
		return nil, model.Settings{}, err
	}
	return records, set, nil
}

// SaveBusiness stores a single record, deduplicating on name and address.
func (c *Controller) SaveBusiness(rec model.BusinessRecord) (storage.SaveResult, error) {
	return c.store.SaveBusiness(rec)
}

// ClearData removes all stored records. Settings are preserved.
func (c *Controller) ClearData() error {
	return c.store.Clear()
}

// ExportData renders the stored dataset in the requested format.
func (c *Controller) ExportData(format export.Format) ([]byte, error) {
	records, err := c.store.Businesses()
	if err != nil {
		return nil, err
	}
	return export.Render(format, records)
}

// FetchOSMData geocodes a record by name and address and persists the
// match. A nil place without error means the address had no match, or
// that OSM integration is switched off in settings.
func (c *Controller) FetchOSMData(ctx context.Context, rec model.BusinessRecord) (*model.OSMPlace, error) {
	if rec.Address == "" {
		return nil, nil
	}
	set, err := c.store.Settings()
	if err != nil {
		return nil, err
	}
	if !set.OSMIntegration {
		return nil, nil
	}
	query := strings.TrimSpace(rec.Name + " " + rec.Address)
	place, err := c.geo.Lookup(ctx, query)
	if err != nil || place == nil {
		return place, err
	}
	if rec.ID != "" {
		if err := c.store.UpdateGeo(rec.ID, *place); err != nil {
			c.logger.Printf("GEO_SAVE_ERROR id=%s err=%v", rec.ID, err)
		}
	}
	return place, nil
}

// Close releases the browser session if one was started.
func (c *Controller) Close() {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
}
