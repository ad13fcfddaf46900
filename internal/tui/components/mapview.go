package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"github.com/orlic/leadtap/internal/tui/styles"
)

// MapView renders a scatter plot of geocoded businesses using Braille
// characters. The viewport is an orb bound; callers fit it to their
// records and zoom/pan from there.
type MapView struct {
	width   int
	height  int
	markers []orb.Point

	view      orb.Bound // current viewport
	base      orb.Bound // fit reference the zoom works against
	zoomLevel float64   // 1.0 = no zoom, >1 = zoomed in
	panLat    float64   // pan offset in degrees
	panLon    float64
}

func NewMapView(width, height int) MapView {
	return MapView{
		width:     width,
		height:    height,
		zoomLevel: 1.0,
	}
}

func (m *MapView) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetMarkers replaces the plotted points. The viewport is unchanged; call
// Fit to frame them.
func (m *MapView) SetMarkers(points []orb.Point) {
	m.markers = points
}

// Fit frames the viewport around bound with a small margin and resets any
// zoom or pan.
func (m *MapView) Fit(bound orb.Bound) {
	latPad := (bound.Max.Lat() - bound.Min.Lat()) * 0.05
	lonPad := (bound.Max.Lon() - bound.Min.Lon()) * 0.05
	if latPad == 0 {
		latPad = 0.01
	}
	if lonPad == 0 {
		lonPad = 0.01
	}
	m.base = orb.Bound{
		Min: orb.Point{bound.Min.Lon() - lonPad, bound.Min.Lat() - latPad},
		Max: orb.Point{bound.Max.Lon() + lonPad, bound.Max.Lat() + latPad},
	}
	m.zoomLevel = 1.0
	m.panLat = 0
	m.panLon = 0
	m.applyZoom()
}

// Viewport returns the currently visible bound.
func (m *MapView) Viewport() orb.Bound { return m.view }

func (m *MapView) ZoomIn() {
	m.zoomLevel *= 1.5
	if m.zoomLevel > 20 {
		m.zoomLevel = 20
	}
	m.applyZoom()
}

func (m *MapView) ZoomOut() {
	m.zoomLevel /= 1.5
	if m.zoomLevel < 0.5 {
		m.zoomLevel = 0.5
	}
	m.applyZoom()
}

func (m *MapView) ZoomReset() {
	m.zoomLevel = 1.0
	m.panLat = 0
	m.panLon = 0
	m.applyZoom()
}

func (m *MapView) Pan(dLat, dLon float64) {
	latRange := m.base.Max.Lat() - m.base.Min.Lat()
	lonRange := m.base.Max.Lon() - m.base.Min.Lon()
	m.panLat += dLat * latRange * 0.1 / m.zoomLevel
	m.panLon += dLon * lonRange * 0.1 / m.zoomLevel
	m.applyZoom()
}

func (m *MapView) applyZoom() {
	center := m.base.Center()
	centerLat := center.Lat() + m.panLat
	centerLon := center.Lon() + m.panLon
	halfLat := (m.base.Max.Lat() - m.base.Min.Lat()) / 2 / m.zoomLevel
	halfLon := (m.base.Max.Lon() - m.base.Min.Lon()) / 2 / m.zoomLevel
	m.view = orb.Bound{
		Min: orb.Point{centerLon - halfLon, centerLat - halfLat},
		Max: orb.Point{centerLon + halfLon, centerLat + halfLat},
	}
}

// Braille character encoding:
// Each braille char is a 2x4 dot grid.
// Dot positions:  0 3
//
//	1 4
//	2 5
//	6 7
//
// Unicode: 0x2800 + sum of raised dot bits
var brailleDots = [8]rune{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80}

func (m MapView) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	// Each braille char represents 2 columns x 4 rows of dots
	cols := m.width
	rows := m.height
	dotW := cols * 2
	dotH := rows * 4

	minLat, maxLat := m.view.Min.Lat(), m.view.Max.Lat()
	minLon, maxLon := m.view.Min.Lon(), m.view.Max.Lon()
	latRange := maxLat - minLat
	lonRange := maxLon - minLon
	if latRange == 0 || lonRange == 0 {
		return strings.Repeat(strings.Repeat(" ", cols)+"\n", rows)
	}

	// Aspect ratio correction: 1° lon is shorter than 1° lat at higher
	// latitudes. A terminal char is ~2x taller than wide; braille dots are
	// 2 wide x 4 tall per char, so each dot is roughly square on screen.
	avgLat := (minLat + maxLat) / 2
	cosLat := math.Cos(avgLat * math.Pi / 180)
	geoW := lonRange * cosLat
	geoH := latRange

	// Fit into dot grid preserving aspect ratio
	geoAspect := geoW / geoH
	dotAspect := float64(dotW) / float64(dotH)

	effectiveW, effectiveH := dotW, dotH
	offsetX, offsetY := 0, 0
	if geoAspect < dotAspect {
		effectiveW = int(float64(dotH) * geoAspect)
		if effectiveW < 4 {
			effectiveW = 4
		}
		offsetX = (dotW - effectiveW) / 2
	} else {
		effectiveH = int(float64(dotW) / geoAspect)
		if effectiveH < 4 {
			effectiveH = 4
		}
		offsetY = (dotH - effectiveH) / 2
	}

	grid := make([][]bool, dotH)
	for i := range grid {
		grid[i] = make([]bool, dotW)
	}

	toDot := func(p orb.Point) (int, int) {
		x := offsetX + int((p.Lon()-minLon)/lonRange*float64(effectiveW-1))
		y := offsetY + int((maxLat-p.Lat())/latRange*float64(effectiveH-1))
		return x, y
	}

	for _, p := range m.markers {
		if !m.view.Contains(p) {
			continue
		}
		x, y := toDot(p)
		if x >= 0 && x < dotW && y >= 0 && y < dotH {
			grid[y][x] = true
		}
	}

	pointStyle := lipgloss.NewStyle().Foreground(styles.Success)

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var val rune = 0x2800

			dotPositions := [8][2]int{
				{0, 0}, {1, 0}, {2, 0}, {0, 1},
				{1, 1}, {2, 1}, {3, 0}, {3, 1},
			}

			for dot := 0; dot < 8; dot++ {
				dy := row*4 + dotPositions[dot][0]
				dx := col*2 + dotPositions[dot][1]
				if dy < dotH && dx < dotW && grid[dy][dx] {
					val |= brailleDots[dot]
				}
			}

			if val != 0x2800 {
				sb.WriteString(pointStyle.Render(string(val)))
			} else {
				sb.WriteRune(' ')
			}
		}
		if row < rows-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}
