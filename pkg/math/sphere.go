package math

import "github.com/chewxy/math32"

// Sphere is a bounding sphere.
// The zero value is a degenerate zero-radius sphere at the origin.
type Sphere struct {
	Center Vec3
	Radius float32
}

// SphereFromBox returns the sphere centered in the box that encloses it.
func SphereFromBox(b Box3) Sphere {
	if b.IsEmpty() {
		return Sphere{}
	}
	c := b.Center()
	return Sphere{Center: c, Radius: b.Max.Sub(c).Length()}
}

// SphereFromPoints returns a sphere centered at the centroid of the
// points' bounding box, with radius reaching the farthest point.
func SphereFromPoints(points []Vec3) Sphere {
	if len(points) == 0 {
		return Sphere{}
	}
	c := Box3FromPoints(points).Center()
	var r float32
	for _, p := range points {
		r = math32.Max(r, p.Sub(c).Length())
	}
	return Sphere{Center: c, Radius: r}
}

// ContainsPoint reports whether p lies inside or on the sphere.
func (s Sphere) ContainsPoint(p Vec3) bool {
	return p.Sub(s.Center).Length() <= s.Radius
}

// Intersects reports whether the two spheres overlap.
func (s Sphere) Intersects(other Sphere) bool {
	return s.Center.Distance(other.Center) <= s.Radius+other.Radius
}

// Transformed returns the sphere with its center transformed by m and
// its radius scaled by the matrix's largest axis scale factor.
// Conservative under non-uniform scale.
func (s Sphere) Transformed(m Mat4) Sphere {
	return Sphere{
		Center: m.TransformVec3(s.Center),
		Radius: s.Radius * m.MaxAxisScale(),
	}
}
