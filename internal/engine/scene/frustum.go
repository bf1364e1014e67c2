package scene

import "github.com/Faultbox/geoscene/pkg/math"

// Plane represents a half-space: ax + by + cz + d = 0.
// Normal (a, b, c) points into the inside of the frustum.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the inside (same side as Normal).
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromViewProj extracts the six frustum planes from a combined
// view-projection matrix (Gribb/Hartmann). The matrix is column-major,
// so row r of the projective matrix is (m[r], m[4+r], m[8+r], m[12+r]).
// Planes are normalized so DistanceTo returns world-unit distances.
func FrustumFromViewProj(m math.Mat4) Frustum {
	row := func(r int) math.Vec4 {
		return math.Vec4{m[r], m[4+r], m[8+r], m[12+r]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3[0]+r0[0], r3[1]+r0[1], r3[2]+r0[2], r3[3]+r0[3]) // Left
	f.Planes[1] = normalizePlane(r3[0]-r0[0], r3[1]-r0[1], r3[2]-r0[2], r3[3]-r0[3]) // Right
	f.Planes[2] = normalizePlane(r3[0]+r1[0], r3[1]+r1[1], r3[2]+r1[2], r3[3]+r1[3]) // Bottom
	f.Planes[3] = normalizePlane(r3[0]-r1[0], r3[1]-r1[1], r3[2]-r1[2], r3[3]-r1[3]) // Top
	f.Planes[4] = normalizePlane(r3[0]+r2[0], r3[1]+r2[1], r3[2]+r2[2], r3[3]+r2[3]) // Near
	f.Planes[5] = normalizePlane(r3[0]-r2[0], r3[1]-r2[1], r3[2]-r2[2], r3[3]-r2[3]) // Far
	return f
}

func normalizePlane(a, b, c, d float32) Plane {
	l := math.Vec3{X: a, Y: b, Z: c}.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: math.Vec3{X: a / l, Y: b / l, Z: c / l}, D: d / l}
}

// IntersectsBox returns false only if the box is completely outside the
// frustum. Uses the positive-vertex test: for each plane, check the
// corner most aligned with the plane normal.
func (f *Frustum) IntersectsBox(box math.Box3) bool {
	for i := 0; i < 6; i++ {
		p := f.Planes[i]
		v := box.Max
		if p.Normal.X < 0 {
			v.X = box.Min.X
		}
		if p.Normal.Y < 0 {
			v.Y = box.Min.Y
		}
		if p.Normal.Z < 0 {
			v.Z = box.Min.Z
		}
		if p.DistanceTo(v) < 0 {
			return false
		}
	}
	return true
}
