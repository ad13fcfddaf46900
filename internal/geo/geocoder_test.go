package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupParsesMatch(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"lat": "47.6062095",
			"lon": "-122.3320708",
			"display_name": "Seattle, King County, Washington, United States",
			"osm_id": 237385,
			"osm_type": "relation"
		}]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "leadtap/0.1.0")
	place, err := g.Lookup(context.Background(), "Seattle, WA")
	require.NoError(t, err)
	require.NotNil(t, place)

	require.InDelta(t, 47.6062095, place.Lat, 1e-9)
	require.InDelta(t, -122.3320708, place.Lon, 1e-9)
	require.Equal(t, int64(237385), place.OSMID)
	require.Equal(t, "relation", place.OSMType)
	require.Contains(t, place.DisplayName, "Seattle")

	require.Equal(t, "leadtap/0.1.0", gotUA)
	require.Equal(t, "Seattle, WA", gotQuery)
}

func TestLookupNoMatchReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "leadtap/0.1.0")
	place, err := g.Lookup(context.Background(), "nowhere at all")
	require.NoError(t, err)
	require.Nil(t, place)
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "leadtap/0.1.0")
	_, err := g.Lookup(context.Background(), "Seattle, WA")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}
