package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/orlic/leadtap/internal/model"
)

// Point returns a record's coordinates as an orb point. Only meaningful
// when the record has been geocoded.
func Point(rec model.BusinessRecord) orb.Point {
	return orb.Point{rec.Lon, rec.Lat}
}

// InBound keeps the geocoded records that fall inside the viewport.
func InBound(records []model.BusinessRecord, bound orb.Bound) []model.BusinessRecord {
	var out []model.BusinessRecord
	for _, rec := range records {
		if rec.HasGeo() && bound.Contains(Point(rec)) {
			out = append(out, rec)
		}
	}
	return out
}

// WithinRadius keeps the geocoded records within radiusMeters of center.
func WithinRadius(records []model.BusinessRecord, center orb.Point, radiusMeters float64) []model.BusinessRecord {
	var out []model.BusinessRecord
	for _, rec := range records {
		if rec.HasGeo() && orbgeo.DistanceHaversine(center, Point(rec)) <= radiusMeters {
			out = append(out, rec)
		}
	}
	return out
}

// BoundOf computes the enclosing viewport of the geocoded records. The
// second return is false when none of them carry coordinates.
func BoundOf(records []model.BusinessRecord) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, rec := range records {
		if !rec.HasGeo() {
			continue
		}
		p := Point(rec)
		if !found {
			bound = orb.Bound{Min: p, Max: p}
			found = true
			continue
		}
		bound = bound.Extend(p)
	}
	return bound, found
}
