package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/orlic/leadtap/internal/model"
)

func geoRecord(name string, lat, lon float64) model.BusinessRecord {
	return model.BusinessRecord{Name: name, Lat: lat, Lon: lon}
}

func TestInBoundSkipsUngeocodedRecords(t *testing.T) {
	records := []model.BusinessRecord{
		geoRecord("inside", 47.60, -122.33),
		geoRecord("outside", 48.50, -121.00),
		{Name: "no coords"},
	}
	bound := orb.Bound{
		Min: orb.Point{-122.50, 47.50},
		Max: orb.Point{-122.20, 47.70},
	}

	got := InBound(records, bound)
	require.Len(t, got, 1)
	require.Equal(t, "inside", got[0].Name)
}

func TestWithinRadius(t *testing.T) {
	center := orb.Point{-122.33, 47.60}
	records := []model.BusinessRecord{
		geoRecord("near", 47.605, -122.33),  // roughly half a kilometer north
		geoRecord("far", 47.70, -122.33),    // roughly eleven kilometers north
		{Name: "no coords"},
	}

	got := WithinRadius(records, center, 1000)
	require.Len(t, got, 1)
	require.Equal(t, "near", got[0].Name)
}

func TestBoundOf(t *testing.T) {
	_, ok := BoundOf([]model.BusinessRecord{{Name: "no coords"}})
	require.False(t, ok)

	bound, ok := BoundOf([]model.BusinessRecord{
		geoRecord("a", 47.60, -122.33),
		geoRecord("b", 47.70, -122.20),
	})
	require.True(t, ok)
	require.Equal(t, orb.Point{-122.33, 47.60}, bound.Min)
	require.Equal(t, orb.Point{-122.20, 47.70}, bound.Max)
}
