// Package picking provides ray casting and object picking utilities.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/geoscene/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
// Direction does not have to be normalized; intersection distances are
// parametric along Direction as given.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at parametric distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Transformed returns the ray with origin transformed as a point and
// direction as a direction by m. Used to move a world-space ray into a
// mesh's object space via the inverse world matrix.
func (r Ray) Transformed(m math.Mat4) Ray {
	return Ray{
		Origin:    m.TransformVec3(r.Origin),
		Direction: m.TransformDirVec3(r.Direction),
	}
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	// Unproject near and far points
	nearWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 1.0, 1.0})

	// Perspective divide
	if nearWorld[3] != 0 {
		nearWorld[0] /= nearWorld[3]
		nearWorld[1] /= nearWorld[3]
		nearWorld[2] /= nearWorld[3]
	}
	if farWorld[3] != 0 {
		farWorld[0] /= farWorld[3]
		farWorld[1] /= farWorld[3]
		farWorld[2] /= farWorld[3]
	}

	origin := math.Vec3{X: nearWorld[0], Y: nearWorld[1], Z: nearWorld[2]}
	dir := math.Vec3{
		X: farWorld[0] - nearWorld[0],
		Y: farWorld[1] - nearWorld[1],
		Z: farWorld[2] - nearWorld[2],
	}

	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// Box3Span computes the parametric interval [tmin, tmax] over which the
// ray is inside the box, using the slab method. hit is false when the
// ray misses the box entirely or the box lies behind the origin.
func (r Ray) Box3Span(box math.Box3) (tmin, tmax float32, hit bool) {
	tmin = -math32.MaxFloat32
	tmax = math32.MaxFloat32

	// X slab
	if r.Direction.X != 0 {
		t1 := (box.Min.X - r.Origin.X) / r.Direction.X
		t2 := (box.Max.X - r.Origin.X) / r.Direction.X
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if r.Origin.X < box.Min.X || r.Origin.X > box.Max.X {
		return 0, 0, false
	}

	// Y slab
	if r.Direction.Y != 0 {
		t1 := (box.Min.Y - r.Origin.Y) / r.Direction.Y
		t2 := (box.Max.Y - r.Origin.Y) / r.Direction.Y
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if r.Origin.Y < box.Min.Y || r.Origin.Y > box.Max.Y {
		return 0, 0, false
	}

	// Z slab
	if r.Direction.Z != 0 {
		t1 := (box.Min.Z - r.Origin.Z) / r.Direction.Z
		t2 := (box.Max.Z - r.Origin.Z) / r.Direction.Z
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	} else if r.Origin.Z < box.Min.Z || r.Origin.Z > box.Max.Z {
		return 0, 0, false
	}

	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// IntersectBox3 tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBox3(box math.Box3) (t float32, hit bool) {
	tmin, tmax, ok := r.Box3Span(box)
	if !ok {
		return 0, false
	}
	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// triEpsilon rejects near-parallel ray/triangle configurations.
const triEpsilon = 1e-7

// IntersectTriangle tests the ray against a single triangle using the
// Moller-Trumbore algorithm. Returns the parametric distance and whether
// the triangle was hit strictly in front of the origin (t > 0).
// Degenerate (zero-area) triangles and rays parallel to the triangle
// plane never hit.
func (r Ray) IntersectTriangle(p0, p1, p2 math.Vec3) (t float32, hit bool) {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)

	pvec := r.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if math32.Abs(det) < triEpsilon {
		return 0, false
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(p0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(e1)
	v := r.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(qvec) * invDet
	if t <= 0 {
		return 0, false
	}
	return t, true
}
