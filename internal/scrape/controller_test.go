package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orlic/leadtap/internal/export"
	"github.com/orlic/leadtap/internal/geo"
	"github.com/orlic/leadtap/internal/model"
	"github.com/orlic/leadtap/internal/storage"
)

func TestValidateRejectsEmptyKeyword(t *testing.T) {
	err := validate(model.ScrapeRequest{
		Platforms: model.PlatformSelection{GoogleSearch: true},
	})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "keyword", verr.Field)
}

func TestValidateRejectsEmptyPlatformSelection(t *testing.T) {
	err := validate(model.ScrapeRequest{Keyword: "coffee shops"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "platforms", verr.Field)
}

func TestValidateAcceptsMinimalRequest(t *testing.T) {
	err := validate(model.ScrapeRequest{
		Keyword:   "coffee shops",
		Platforms: model.PlatformSelection{GoogleMaps: true},
	})
	require.NoError(t, err)
}

func TestStartScrapingRejectsConcurrentRun(t *testing.T) {
	c := &Controller{}
	c.running.Store(true)

	_, err := c.StartScraping(context.Background(), model.ScrapeRequest{
		Keyword:   "coffee shops",
		Platforms: model.PlatformSelection{GoogleSearch: true},
	}, RunOptions{})
	require.ErrorIs(t, err, ErrScrapeInProgress)
}

func TestControllerDataOperations(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	c := &Controller{store: store}

	res, err := c.SaveBusiness(model.BusinessRecord{
		Name:    "Pine Coffee Roasters",
		Address: "123 Pine St",
	})
	require.NoError(t, err)
	require.False(t, res.Duplicate)
	require.Equal(t, 1, res.Count)

	records, set, err := c.GetStoredData()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, model.DefaultSettings(), set)

	out, err := c.ExportData(export.FormatCSV)
	require.NoError(t, err)
	require.Contains(t, string(out), "Pine Coffee Roasters")

	require.NoError(t, c.ClearData())
	_, err = c.ExportData(export.FormatCSV)
	require.ErrorIs(t, err, export.ErrEmptyDataset)
}

func TestFetchOSMDataPersistsMatch(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "47.6062", "lon": "-122.3321", "display_name": "Pine St, Seattle", "osm_id": 42, "osm_type": "way"}]`))
	}))
	defer srv.Close()

	c := &Controller{store: store, geo: geo.NewGeocoder(srv.URL, "test")}

	res, err := c.SaveBusiness(model.BusinessRecord{Name: "Pine Coffee Roasters", Address: "123 Pine St"})
	require.NoError(t, err)
	require.False(t, res.Duplicate)
	records, _, err := c.GetStoredData()
	require.NoError(t, err)

	place, err := c.FetchOSMData(context.Background(), records[0])
	require.NoError(t, err)
	require.NotNil(t, place)
	require.Equal(t, "Pine Coffee Roasters 123 Pine St", gotQuery)

	records, _, err = c.GetStoredData()
	require.NoError(t, err)
	require.True(t, records[0].HasGeo())

	// No address means nothing to look up.
	place, err = c.FetchOSMData(context.Background(), model.BusinessRecord{Name: "x"})
	require.NoError(t, err)
	require.Nil(t, place)
}

func TestFetchOSMDataRespectsIntegrationToggle(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	set := model.DefaultSettings()
	set.OSMIntegration = false
	require.NoError(t, store.PutSettings(set))

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := &Controller{store: store, geo: geo.NewGeocoder(srv.URL, "test")}

	place, err := c.FetchOSMData(context.Background(), model.BusinessRecord{
		Name:    "Pine Coffee Roasters",
		Address: "123 Pine St",
	})
	require.NoError(t, err)
	require.Nil(t, place)
	require.False(t, called)
}

func TestStartScrapingValidatesBeforeLocking(t *testing.T) {
	c := &Controller{}

	_, err := c.StartScraping(context.Background(), model.ScrapeRequest{}, RunOptions{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.False(t, c.Running())
}
