package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// PointSegmentDistance is the Euclidean distance from p to the segment ab
func PointSegmentDistance(p, a, b r3.Vec) float64 {
	ab := r3.Sub(b, a)
	ap := r3.Sub(p, a)
	len2 := r3.Norm2(ab)
	if len2 == 0 {
		return r3.Norm(ap)
	}
	t := r3.Dot(ap, ab) / len2
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return r3.Norm(r3.Sub(p, r3.Add(a, r3.Scale(t, ab))))
}

// ClosestPointTriangle returns the point of triangle abc nearest to p, using
// the Voronoi region classification of the triangle features
func ClosestPointTriangle(p, a, b, c r3.Vec) r3.Vec {
	ab := r3.Sub(b, a)
	ac := r3.Sub(c, a)
	ap := r3.Sub(p, a)
	d1 := r3.Dot(ab, ap)
	d2 := r3.Dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := r3.Sub(p, b)
	d3 := r3.Dot(ab, bp)
	d4 := r3.Dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return r3.Add(a, r3.Scale(v, ab))
	}

	cp := r3.Sub(p, c)
	d5 := r3.Dot(ab, cp)
	d6 := r3.Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return r3.Add(a, r3.Scale(w, ac))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return r3.Add(b, r3.Scale(w, r3.Sub(c, b)))
	}

	// Interior, barycentric coordinates (u,v,w)
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return r3.Add(a, r3.Add(r3.Scale(v, ab), r3.Scale(w, ac)))
}

// PointTriangleDistance is the Euclidean distance from p to triangle abc.
// Degenerate triangles fall back to their edges.
func PointTriangleDistance(p, a, b, c r3.Vec) float64 {
	if r3.Norm2(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) == 0 {
		return min(
			PointSegmentDistance(p, a, b),
			PointSegmentDistance(p, b, c),
			PointSegmentDistance(p, c, a))
	}
	return r3.Norm(r3.Sub(p, ClosestPointTriangle(p, a, b, c)))
}

// PointQuadDistance is the distance from p to the bilinear quadrilateral
// abcd, approximated by its split into the triangles abc and acd
func PointQuadDistance(p, a, b, c, d r3.Vec) float64 {
	return min(PointTriangleDistance(p, a, b, c), PointTriangleDistance(p, a, c, d))
}
