package picking

import "github.com/Faultbox/geoscene/pkg/math"

// Target identifies the scene object a hit result belongs to.
type Target interface {
	Name() string
}

// HitResult describes a single ray/mesh intersection in world space.
type HitResult struct {
	// Valid is false for the zero value; a populated result is always valid.
	Valid bool
	// Point is the intersection point in world space.
	Point math.Vec3
	// Distance is the parametric distance along the casting ray, > 0.
	Distance float32
	// Normal is the unit normal of the hit triangle. Computed from the
	// object-space winding; its sign follows the triangle winding.
	Normal math.Vec3
	// Target is the scene object that owns the hit triangle.
	Target Target
	// Indices is the vertex-index triple of the hit triangle.
	Indices [3]uint32
	// TriangleTag is the ordinal of the hit triangle within its mesh.
	TriangleTag int
}
