// Package spatial provides an R-tree backed hit-test accelerator for
// triangle meshes. Triangles are indexed by their object-space bounding
// boxes; a query walks only the triangles whose boxes overlap the ray's
// path through the mesh bounds.
package spatial

import (
	"github.com/chewxy/math32"
	"github.com/dhconnelly/rtreego"

	"github.com/Faultbox/geoscene/internal/engine/mesh"
	"github.com/Faultbox/geoscene/internal/engine/picking"
	"github.com/Faultbox/geoscene/internal/engine/scene"
	"github.com/Faultbox/geoscene/pkg/math"
)

// R-tree node fan-out, following the library's recommended defaults.
const (
	minBranch = 25
	maxBranch = 50
)

// rectPadding keeps axis-flat triangles from producing zero-extent
// rectangles, which the R-tree rejects.
const rectPadding = 1e-5

// triEntry is one indexed triangle.
type triEntry struct {
	rect rtreego.Rect
	tri  int
}

func (e *triEntry) Bounds() rtreego.Rect { return e.rect }

// MeshIndex implements scene.SpatialIndex for a single mesh. The index
// is built once from a mesh snapshot; rebuild it after mesh mutation.
type MeshIndex struct {
	m    *mesh.TriMesh
	tree *rtreego.Rtree
}

// NewMeshIndex builds an index over every triangle of the mesh.
func NewMeshIndex(m *mesh.TriMesh) (*MeshIndex, error) {
	tree := rtreego.NewTree(3, minBranch, maxBranch)
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		box := math.Box3FromPoints([]math.Vec3{tri.P0, tri.P1, tri.P2}).ExpandedByMargin(rectPadding)
		rect, err := boxToRect(box)
		if err != nil {
			return nil, err
		}
		tree.Insert(&triEntry{rect: rect, tri: i})
	}
	return &MeshIndex{m: m, tree: tree}, nil
}

// TriangleCount returns the number of indexed triangles.
func (x *MeshIndex) TriangleCount() int { return x.tree.Size() }

// HitTest implements scene.SpatialIndex. The world-space ray is moved
// into object space through the inverse world matrix, candidate
// triangles are collected from the R-tree along the ray's span through
// the mesh bounds, and the narrow phase runs in world space so returned
// results match the brute-force path exactly.
func (x *MeshIndex) HitTest(ctx *scene.RenderContext, n *scene.GeometryNode, world math.Mat4, ray picking.Ray) []picking.HitResult {
	objRay := ray.Transformed(world.Inverse())

	tmin, tmax, ok := objRay.Box3Span(x.m.Bounds())
	if !ok {
		return nil
	}
	if tmin < 0 {
		tmin = 0
	}

	span := math.NewBox3(objRay.At(tmin), objRay.At(tmax)).ExpandedByMargin(rectPadding)
	queryRect, err := boxToRect(span)
	if err != nil {
		return nil
	}

	best := picking.HitResult{Distance: math32.Inf(1)}
	for _, candidate := range x.tree.SearchIntersect(queryRect) {
		entry := candidate.(*triEntry)
		tri := x.m.Triangle(entry.tri)
		p0 := world.TransformVec3(tri.P0)
		p1 := world.TransformVec3(tri.P1)
		p2 := world.TransformVec3(tri.P2)

		d, hit := ray.IntersectTriangle(p0, p1, p2)
		if !hit || !(d > 0 && d < best.Distance) {
			continue
		}
		best = picking.HitResult{
			Valid:       true,
			Point:       ray.At(d),
			Distance:    d,
			Normal:      tri.Normal(),
			Target:      n,
			Indices:     [3]uint32{tri.I0, tri.I1, tri.I2},
			TriangleTag: entry.tri,
		}
	}
	if !best.Valid {
		return nil
	}
	return []picking.HitResult{best}
}

// boxToRect converts a Box3 to the R-tree's corner+lengths rectangle.
func boxToRect(b math.Box3) (rtreego.Rect, error) {
	size := b.Size()
	return rtreego.NewRect(
		rtreego.Point{float64(b.Min.X), float64(b.Min.Y), float64(b.Min.Z)},
		[]float64{float64(size.X), float64(size.Y), float64(size.Z)},
	)
}
