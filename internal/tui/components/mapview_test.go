package components

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestFitPadsBoundAndResetsZoom(t *testing.T) {
	m := NewMapView(20, 8)
	m.ZoomIn()

	m.Fit(orb.Bound{
		Min: orb.Point{-122.40, 47.50},
		Max: orb.Point{-122.20, 47.70},
	})

	view := m.Viewport()
	require.Less(t, view.Min.Lon(), -122.40)
	require.Greater(t, view.Max.Lon(), -122.20)
	require.Less(t, view.Min.Lat(), 47.50)
	require.Greater(t, view.Max.Lat(), 47.70)
}

func TestZoomInShrinksViewportAroundCenter(t *testing.T) {
	m := NewMapView(20, 8)
	m.Fit(orb.Bound{
		Min: orb.Point{-122.40, 47.50},
		Max: orb.Point{-122.20, 47.70},
	})

	before := m.Viewport()
	m.ZoomIn()
	after := m.Viewport()

	require.Less(t, after.Max.Lon()-after.Min.Lon(), before.Max.Lon()-before.Min.Lon())
	require.Less(t, after.Max.Lat()-after.Min.Lat(), before.Max.Lat()-before.Min.Lat())
	require.InDelta(t, before.Center().Lon(), after.Center().Lon(), 1e-9)
	require.InDelta(t, before.Center().Lat(), after.Center().Lat(), 1e-9)
}

func TestViewPlotsOnlyMarkersInsideViewport(t *testing.T) {
	m := NewMapView(20, 8)
	inside := orb.Point{-122.30, 47.60}
	m.SetMarkers([]orb.Point{inside})
	m.Fit(orb.Bound{Min: inside, Max: inside})

	out := m.View()
	require.NotEqual(t, "", strings.TrimSpace(out))

	// A marker far outside the fitted viewport leaves the plot blank.
	m.SetMarkers([]orb.Point{{-70.0, 40.0}})
	out = m.View()
	require.Equal(t, "", strings.TrimSpace(out))
}
