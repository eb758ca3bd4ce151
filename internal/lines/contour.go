package lines

import (
	"context"
	"math"
	"sort"
)

// Field is a scalar function over (latitude, longitude), radians. Contour
// fields here are wrapped angle differences, so adjacent samples that
// differ by more than π straddle the ±π wrap seam rather than a zero.
type Field func(lat, lon float64) float64

// ExtractZeroContour locates the zero set of a wrapped angular field on a
// latitude/longitude grid: cells whose edges change sign are refined by
// 1-D bisection along the edge, and refined points are kept when the
// residual is inside the orb tolerance.
//
// Rows are evaluated in chunks with the context checked between rows, so
// a caller-imposed timeout aborts mid-grid while keeping every point
// already produced.
func ExtractZeroContour(ctx context.Context, f Field, cfg GridConfig) []Point {
	latStep := cfg.LatStep
	if latStep <= 0 {
		latStep = DefaultGridConfig().LatStep
	}
	lonStep := cfg.LonStep
	if lonStep <= 0 {
		lonStep = DefaultGridConfig().LonStep
	}
	orb := cfg.Orb
	if orb <= 0 {
		orb = DefaultGridConfig().Orb
	}
	tol := cfg.RefineTol
	if tol <= 0 {
		tol = DefaultGridConfig().RefineTol
	}

	// Grid rows stop short of the polar guard; cells at the boundary are
	// excluded entirely.
	guard := cfg.PolarGuard
	if guard <= 0 {
		guard = DefaultGridConfig().PolarGuard
	}

	nLon := int(math.Ceil(2 * math.Pi / lonStep))
	lons := make([]float64, nLon+1)
	for j := 0; j <= nLon; j++ {
		lons[j] = -math.Pi + float64(j)*lonStep
		if lons[j] > math.Pi {
			lons[j] = math.Pi
		}
	}

	var lats []float64
	for lat := -guard + latStep; lat <= guard-latStep; lat += latStep {
		lats = append(lats, lat)
	}

	var points []Point
	prev := make([]float64, len(lons))
	row := make([]float64, len(lons))

	for i, lat := range lats {
		select {
		case <-ctx.Done():
			sortPoints(points)
			return points
		default:
		}

		for j, lon := range lons {
			row[j] = f(lat, lon)
		}

		// Horizontal edges of this row
		for j := 0; j+1 < len(lons); j++ {
			if p, ok := refineEdge(f, lat, lat, lons[j], lons[j+1], row[j], row[j+1], tol, orb); ok {
				points = append(points, p)
			}
		}

		// Vertical edges between the previous row and this one
		if i > 0 {
			for j := range lons {
				if p, ok := refineEdge(f, lats[i-1], lat, lons[j], lons[j], prev[j], row[j], tol, orb); ok {
					points = append(points, p)
				}
			}
		}

		prev, row = row, prev
	}

	sortPoints(points)
	return points
}

// refineEdge bisects one cell edge with a sign change down to tol and
// returns the crossing when its residual fits the orb. Edges whose values
// differ by more than π straddle the wrap seam, not a zero, and are
// rejected.
func refineEdge(f Field, lat1, lat2, lon1, lon2, f1, f2, tol, orb float64) (Point, bool) {
	if math.IsNaN(f1) || math.IsNaN(f2) {
		return Point{}, false
	}
	if f1*f2 > 0 {
		return Point{}, false
	}
	if math.Abs(f1-f2) > math.Pi {
		return Point{}, false
	}

	a1, a2 := 0.0, 1.0
	fa := f1
	for i := 0; i < 64; i++ {
		span := math.Max(math.Abs(lat2-lat1), math.Abs(lon2-lon1)) * (a2 - a1)
		if span <= tol {
			break
		}
		mid := (a1 + a2) / 2
		fm := f(lerp(lat1, lat2, mid), lerp(lon1, lon2, mid))
		if fa*fm <= 0 {
			a2 = mid
		} else {
			a1 = mid
			fa = fm
		}
	}

	t := (a1 + a2) / 2
	p := Point{Lat: lerp(lat1, lat2, t), Lon: lerp(lon1, lon2, t)}
	if math.Abs(f(p.Lat, p.Lon)) > orb {
		return Point{}, false
	}
	return p, true
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func sortPoints(points []Point) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Lon != points[j].Lon {
			return points[i].Lon < points[j].Lon
		}
		return points[i].Lat < points[j].Lat
	})
}
