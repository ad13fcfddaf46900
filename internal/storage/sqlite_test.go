package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orlic/leadtap/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveBusinessAssignsIdentity(t *testing.T) {
	store := openTestStore(t)

	res, err := store.SaveBusiness(model.BusinessRecord{
		Name:    "Pine Coffee Roasters",
		Address: "123 Pine St, Seattle, WA",
		Source:  model.PlatformGoogleMaps,
	})
	require.NoError(t, err)
	require.False(t, res.Duplicate)
	require.Equal(t, 1, res.Count)

	records, err := store.Businesses()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotEmpty(t, records[0].ID)
	require.False(t, records[0].ScrapedAt.IsZero())
	require.Equal(t, model.PlatformGoogleMaps, records[0].Source)
}

func TestSaveBusinessDeduplicatesByNameAndAddress(t *testing.T) {
	store := openTestStore(t)

	rec := model.BusinessRecord{Name: "Elm Street Bakery", Address: "45 Elm St"}
	res, err := store.SaveBusiness(rec)
	require.NoError(t, err)
	require.False(t, res.Duplicate)

	// Same (name, address) from another platform is still the same business.
	rec.Source = model.PlatformFacebook
	rec.Phone = "(206) 555-0134"
	res, err = store.SaveBusiness(rec)
	require.NoError(t, err)
	require.True(t, res.Duplicate)
	require.Equal(t, 1, res.Count)

	// Same name at a different address is a distinct record.
	res, err = store.SaveBusiness(model.BusinessRecord{Name: "Elm Street Bakery", Address: "900 Oak Ave"})
	require.NoError(t, err)
	require.False(t, res.Duplicate)
	require.Equal(t, 2, res.Count)
}

func TestSettingsDefaultsOnFreshDatabase(t *testing.T) {
	store := openTestStore(t)

	set, err := store.Settings()
	require.NoError(t, err)
	require.Equal(t, model.DefaultSettings(), set)
}

func TestPutSettingsRoundTrip(t *testing.T) {
	store := openTestStore(t)

	want := model.Settings{
		AutoScrape:     true,
		MaxResults:     200,
		IncludeEmails:  false,
		IncludePhones:  true,
		OSMIntegration: false,
	}
	require.NoError(t, store.PutSettings(want))

	got, err := store.Settings()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestUpdateGeoPersistsCoordinates(t *testing.T) {
	store := openTestStore(t)

	_, err := store.SaveBusiness(model.BusinessRecord{Name: "Harbor Books", Address: "7 Dock Rd"})
	require.NoError(t, err)

	records, err := store.Businesses()
	require.NoError(t, err)
	require.Len(t, records, 1)

	err = store.UpdateGeo(records[0].ID, model.OSMPlace{
		Lat:         47.6062,
		Lon:         -122.3321,
		OSMID:       123456,
		OSMType:     "node",
		DisplayName: "Harbor Books, Dock Road, Seattle",
	})
	require.NoError(t, err)

	records, err = store.Businesses()
	require.NoError(t, err)
	require.True(t, records[0].HasGeo())
	require.InDelta(t, 47.6062, records[0].Lat, 1e-9)
	require.InDelta(t, -122.3321, records[0].Lon, 1e-9)
	require.Equal(t, "node", records[0].OSMType)
}

func TestClearPreservesSettings(t *testing.T) {
	store := openTestStore(t)

	want := model.DefaultSettings()
	want.MaxResults = 75
	require.NoError(t, store.PutSettings(want))

	_, err := store.SaveBusiness(model.BusinessRecord{Name: "A", Address: "1"})
	require.NoError(t, err)
	_, err = store.SaveBusiness(model.BusinessRecord{Name: "B", Address: "2"})
	require.NoError(t, err)

	require.NoError(t, store.Clear())

	count, err := store.Count()
	require.NoError(t, err)
	require.Zero(t, count)

	got, err := store.Settings()
	require.NoError(t, err)
	require.Equal(t, want, got)
}
