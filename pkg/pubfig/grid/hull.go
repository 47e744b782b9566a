package grid

import "sort"

// convexHull returns the hull of pts in counter-clockwise order using the
// monotone chain algorithm. Collinear points are dropped.
func convexHull(pts []point) []point {
	if len(pts) < 3 {
		return nil
	}
	s := append([]point(nil), pts...)
	sort.Slice(s, func(i, j int) bool {
		if s[i].x != s[j].x {
			return s[i].x < s[j].x
		}
		return s[i].y < s[j].y
	})

	hull := make([]point, 0, 2*len(s))
	for _, p := range s {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(s) - 2; i >= 0; i-- {
		p := s[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func cross(o, a, b point) float64 {
	return (a.x-o.x)*(b.y-o.y) - (a.y-o.y)*(b.x-o.x)
}

// insideHull reports whether (x, y) lies inside or on a counter-clockwise hull.
func insideHull(hull []point, x, y float64) bool {
	const eps = 1e-9
	p := point{x: x, y: y}
	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		if cross(a, b, p) < -eps {
			return false
		}
	}
	return true
}
