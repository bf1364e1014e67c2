package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/geoscene/internal/engine/picking"
)

// HitTest casts a world-space ray against the node's mesh and appends at
// most one result (the nearest triangle hit) to hits. Existing entries
// in hits are never modified. Returns true when a result was appended.
//
// Short-circuits, in order: collapsed visibility, hit-testing disabled,
// missing or incomplete mesh, frustum rejection (when the context
// enables it), world-bounds miss. When a spatial index is installed the
// narrow phase is delegated to it and its results are used verbatim.
func (n *GeometryNode) HitTest(ctx *RenderContext, ray picking.Ray, hits *[]picking.HitResult) bool {
	if n.visibility == Collapsed {
		return false
	}
	if !n.hitTestable || n.m == nil {
		return false
	}
	if !n.m.IsComplete() {
		return false
	}
	// The cached world box tracks the mesh only while the mesh
	// subscription is live. A detached node rebuilds it from the mesh so
	// a mutation made without a subscriber cannot strand the broad phase
	// on stale bounds.
	world := n.boundsWithTransform
	if !n.attached {
		world = n.m.Bounds().Transformed(n.transform)
	}
	if ctx != nil && ctx.FrustumCulling && ctx.Frustum != nil &&
		!ctx.Frustum.IntersectsBox(world) {
		return false
	}

	if n.index != nil {
		results := n.index.HitTest(ctx, n, n.transform, ray)
		if len(results) == 0 {
			return false
		}
		*hits = append(*hits, results...)
		return true
	}

	// Broad phase against the world-space box.
	if _, ok := ray.IntersectBox3(world); !ok {
		return false
	}

	best := picking.HitResult{Distance: math32.Inf(1)}
	for i := 0; i < n.m.TriangleCount(); i++ {
		tri := n.m.Triangle(i)
		p0 := n.transform.TransformVec3(tri.P0)
		p1 := n.transform.TransformVec3(tri.P1)
		p2 := n.transform.TransformVec3(tri.P2)

		d, ok := ray.IntersectTriangle(p0, p1, p2)
		// NaN distances fail both comparisons and are excluded. Exact
		// ties keep the triangle encountered first.
		if !ok || !(d > 0 && d < best.Distance) {
			continue
		}
		best = picking.HitResult{
			Valid:    true,
			Point:    ray.At(d),
			Distance: d,
			// Object-space winding normal; deliberately not corrected
			// by the inverse-transpose under non-uniform scale.
			Normal:      tri.Normal(),
			Target:      n,
			Indices:     [3]uint32{tri.I0, tri.I1, tri.I2},
			TriangleTag: i,
		}
	}
	if !best.Valid {
		return false
	}
	*hits = append(*hits, best)
	return true
}
