package lighting

import "math"

// raySegmentIntersection checks if a ray intersects a line segment
// Returns: (intersects bool, distance float64, intersection point Point)
func raySegmentIntersection(origin Point, dx, dy float64, seg Segment) (bool, float64, Point) {
	// Ray: P = origin + t * (dx, dy) for t >= 0
	// Segment: Q = seg.A + u * (seg.B - seg.A) for 0 <= u <= 1

	// Segment direction
	segDX := seg.B.X - seg.A.X
	segDY := seg.B.Y - seg.A.Y

	// Solve: origin + t*(dx,dy) = seg.A + u*(segDX,segDY)
	// This is a 2x2 linear system
	denominator := dx*segDY - dy*segDX
	if math.Abs(denominator) < 1e-10 {
		// Ray and segment are parallel
		return false, 0, Point{}
	}

	diffX := seg.A.X - origin.X
	diffY := seg.A.Y - origin.Y

	u := (dy*diffX - dx*diffY) / denominator
	t := (segDY*diffX - segDX*diffY) / denominator

	// Check if intersection is within segment and in ray direction
	if u >= 0 && u <= 1 && t >= 0 {
		intersectionPoint := Point{
			X: origin.X + t*dx,
			Y: origin.Y + t*dy,
		}
		return true, t, intersectionPoint
	}

	return false, 0, Point{}
}

// PointInPolygon tests if a point is inside a polygon using ray casting algorithm
func PointInPolygon(point Point, polygon []Point) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// normalizeAngle maps an angle to [0, 2π).
func normalizeAngle(angle float64) float64 {
	normalized := math.Mod(angle, 2.0*math.Pi)
	if normalized < 0 {
		normalized += 2.0 * math.Pi
	}
	return normalized
}

// angleDiff returns the smallest absolute difference between two angles,
// in [0, π].
func angleDiff(a, b float64) float64 {
	d := normalizeAngle(a - b)
	if d > math.Pi {
		d = 2.0*math.Pi - d
	}
	return d
}
