package scene

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/geoscene/internal/engine/mesh"
	"github.com/Faultbox/geoscene/internal/engine/picking"
	"github.com/Faultbox/geoscene/pkg/math"
)

func downRay(x, y, z float32) picking.Ray {
	return picking.Ray{
		Origin:    math.Vec3{X: x, Y: y, Z: z},
		Direction: math.Vec3{X: 0, Y: 0, Z: -1},
	}
}

func TestHitTestSingleTriangle(t *testing.T) {
	n := NewGeometryNode("tri")
	n.SetMesh(unitTriangle())

	var hits []picking.HitResult
	if !n.HitTest(nil, downRay(0.2, 0.2, 1), &hits) {
		t.Fatal("expected hit")
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}

	hit := hits[0]
	if !hit.Valid {
		t.Error("hit should be valid")
	}
	if math32.Abs(hit.Distance-1) > 1e-5 {
		t.Errorf("Distance = %f, want 1", hit.Distance)
	}
	want := math.Vec3{X: 0.2, Y: 0.2, Z: 0}
	if hit.Point.Distance(want) > 1e-5 {
		t.Errorf("Point = %+v, want %+v", hit.Point, want)
	}
	if hit.Normal != (math.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Errorf("Normal = %+v, want (0, 0, 1)", hit.Normal)
	}
	if hit.Target != n {
		t.Errorf("Target = %v, want the node", hit.Target)
	}
	if hit.Indices != [3]uint32{0, 1, 2} {
		t.Errorf("Indices = %v, want [0 1 2]", hit.Indices)
	}
	if hit.TriangleTag != 0 {
		t.Errorf("TriangleTag = %d, want 0", hit.TriangleTag)
	}
}

func TestHitTestNearestTriangleWins(t *testing.T) {
	// Two stacked triangles; the far one comes first in index order so
	// nearest selection must be by distance, not iteration order.
	positions := []math.Vec3{
		// Triangle 0 at z = 0 (far)
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
		// Triangle 1 at z = 0.5 (near)
		{X: 0, Y: 0, Z: 0.5}, {X: 1, Y: 0, Z: 0.5}, {X: 0, Y: 1, Z: 0.5},
	}
	m, err := mesh.NewTriMesh(positions, []uint32{0, 1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("NewTriMesh: %v", err)
	}
	n := NewGeometryNode("stack")
	n.SetMesh(m)

	var hits []picking.HitResult
	if !n.HitTest(nil, downRay(0.2, 0.2, 1), &hits) {
		t.Fatal("expected hit")
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want exactly the nearest hit", len(hits))
	}
	if hits[0].TriangleTag != 1 {
		t.Errorf("TriangleTag = %d, want 1 (the nearer triangle)", hits[0].TriangleTag)
	}
	if math32.Abs(hits[0].Distance-0.5) > 1e-5 {
		t.Errorf("Distance = %f, want 0.5", hits[0].Distance)
	}
}

func TestHitTestTieKeepsFirstTriangle(t *testing.T) {
	// Two coincident triangles; an exact distance tie keeps the triangle
	// encountered first.
	positions := []math.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
	}
	m, err := mesh.NewTriMesh(positions, []uint32{0, 1, 2, 0, 1, 2})
	if err != nil {
		t.Fatalf("NewTriMesh: %v", err)
	}
	n := NewGeometryNode("tie")
	n.SetMesh(m)

	var hits []picking.HitResult
	if !n.HitTest(nil, downRay(0.2, 0.2, 1), &hits) {
		t.Fatal("expected hit")
	}
	if hits[0].TriangleTag != 0 {
		t.Errorf("TriangleTag = %d, want 0 (first encountered)", hits[0].TriangleTag)
	}
}

func TestHitTestAfterRejectedPositionShrink(t *testing.T) {
	// A position replacement that would strand the indices is rejected at
	// the mesh boundary, so the mesh stays consistent and hit-testing
	// keeps working on the unchanged triangles.
	m := unitTriangle()
	n := NewGeometryNode("n")
	n.SetMesh(m)

	if err := m.SetPositions([]math.Vec3{{X: 0, Y: 0, Z: 0}}); err == nil {
		t.Fatal("expected shrink below the indexed range to be rejected")
	}
	if !m.IsComplete() {
		t.Fatal("mesh should stay complete after the rejected replacement")
	}

	var hits []picking.HitResult
	if !n.HitTest(nil, downRay(0.2, 0.2, 1), &hits) {
		t.Fatal("expected hit on the unchanged mesh")
	}
	if math32.Abs(hits[0].Distance-1) > 1e-5 {
		t.Errorf("Distance = %f, want 1", hits[0].Distance)
	}
}

func TestHitTestDetachedFollowsMeshGrowth(t *testing.T) {
	// Without a host there is no mesh subscription, so the node's cached
	// bounds stay where SetMesh seeded them. The broad phase must still
	// see the mesh's current extent.
	m := unitTriangle()
	n := NewGeometryNode("n")
	n.SetMesh(m)

	if err := m.SetPositions([]math.Vec3{
		{X: 10, Y: 0, Z: 0},
		{X: 11, Y: 0, Z: 0},
		{X: 10, Y: 1, Z: 0},
	}); err != nil {
		t.Fatalf("SetPositions: %v", err)
	}

	var hits []picking.HitResult
	if !n.HitTest(nil, downRay(10.2, 0.2, 1), &hits) {
		t.Fatal("expected hit at the mesh's new position")
	}
	if math32.Abs(hits[0].Distance-1) > 1e-5 {
		t.Errorf("Distance = %f, want 1", hits[0].Distance)
	}
	if n.HitTest(nil, downRay(0.2, 0.2, 1), &hits) {
		t.Error("ray at the old position should miss")
	}
}

func TestHitTestTransformedNode(t *testing.T) {
	n := NewGeometryNode("moved")
	n.SetMesh(unitTriangle())
	n.SetTransform(math.Translate(10, 0, 0))

	var hits []picking.HitResult

	// The old position no longer hits.
	if n.HitTest(nil, downRay(0.2, 0.2, 1), &hits) {
		t.Error("ray at the untransformed position should miss")
	}

	// The translated position does.
	if !n.HitTest(nil, downRay(10.2, 0.2, 1), &hits) {
		t.Fatal("expected hit at the translated position")
	}
	want := math.Vec3{X: 10.2, Y: 0.2, Z: 0}
	if hits[0].Point.Distance(want) > 1e-4 {
		t.Errorf("Point = %+v, want %+v", hits[0].Point, want)
	}
}

func TestHitTestShortCircuits(t *testing.T) {
	seed := picking.HitResult{Valid: true, Distance: 42}

	tests := []struct {
		name string
		node func() *GeometryNode
		ray  picking.Ray
	}{
		{
			name: "collapsed",
			node: func() *GeometryNode {
				n := NewGeometryNode("n")
				n.SetMesh(unitTriangle())
				n.SetVisibility(Collapsed)
				return n
			},
			ray: downRay(0.2, 0.2, 1),
		},
		{
			name: "not hit-testable",
			node: func() *GeometryNode {
				n := NewGeometryNode("n")
				n.SetMesh(unitTriangle())
				n.SetHitTestable(false)
				return n
			},
			ray: downRay(0.2, 0.2, 1),
		},
		{
			name: "no mesh",
			node: func() *GeometryNode {
				return NewGeometryNode("n")
			},
			ray: downRay(0.2, 0.2, 1),
		},
		{
			name: "incomplete mesh",
			node: func() *GeometryNode {
				n := NewGeometryNode("n")
				m := mesh.New()
				m.SetPositions([]math.Vec3{{X: 0, Y: 0, Z: 0}})
				n.SetMesh(m)
				return n
			},
			ray: downRay(0.2, 0.2, 1),
		},
		{
			name: "bounding box miss",
			node: func() *GeometryNode {
				n := NewGeometryNode("n")
				n.SetMesh(unitTriangle())
				return n
			},
			ray: downRay(50, 50, 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := []picking.HitResult{seed}
			if tt.node().HitTest(nil, tt.ray, &hits) {
				t.Error("expected no hit")
			}
			// The accumulator must be untouched on a miss.
			if len(hits) != 1 || hits[0] != seed {
				t.Errorf("hits = %+v, want the seed entry untouched", hits)
			}
		})
	}
}

func TestHitTestHiddenStillHits(t *testing.T) {
	// Hidden only blocks rendering; hit-testing still sees the node.
	n := NewGeometryNode("hidden")
	n.SetMesh(unitTriangle())
	n.SetVisibility(Hidden)

	var hits []picking.HitResult
	if !n.HitTest(nil, downRay(0.2, 0.2, 1), &hits) {
		t.Error("hidden node should still hit-test")
	}
}

func TestHitTestFrustumRejection(t *testing.T) {
	n := NewGeometryNode("n")
	n.SetMesh(unitTriangle())
	// Seed the node's cached bounds the way Attach would.
	n.SetBounds(n.Mesh().Bounds())
	n.SetTransform(math.Translate(0, 0, 10))

	// Camera at origin looking down -Z; the node sits behind it.
	viewProj := math.Perspective(1.0, 1.0, 0.1, 100).Mul(
		math.LookAt(math.Vec3{}, math.Vec3{Z: -1}, math.Vec3{Y: 1}))
	ctx := NewRenderContext(viewProj)

	var hits []picking.HitResult
	if n.HitTest(ctx, downRay(0.2, 0.2, 11), &hits) {
		t.Error("node outside the frustum should be rejected when culling is on")
	}

	ctx.FrustumCulling = false
	if !n.HitTest(ctx, downRay(0.2, 0.2, 11), &hits) {
		t.Error("node should hit when culling is off")
	}
}

// cannedIndex returns fixed results regardless of the query.
type cannedIndex struct {
	results []picking.HitResult
	calls   int
}

func (x *cannedIndex) HitTest(ctx *RenderContext, n *GeometryNode, world math.Mat4, ray picking.Ray) []picking.HitResult {
	x.calls++
	return x.results
}

func TestHitTestDelegatesToSpatialIndex(t *testing.T) {
	n := NewGeometryNode("indexed")
	n.SetMesh(unitTriangle())

	canned := []picking.HitResult{
		{Valid: true, Distance: 7, TriangleTag: 3},
		{Valid: true, Distance: 9, TriangleTag: 5},
	}
	idx := &cannedIndex{results: canned}
	n.SetSpatialIndex(idx)

	var hits []picking.HitResult
	if !n.HitTest(nil, downRay(0.2, 0.2, 1), &hits) {
		t.Fatal("expected delegated hit")
	}
	if idx.calls != 1 {
		t.Errorf("index calls = %d, want 1", idx.calls)
	}
	// Results are appended verbatim, bypassing the brute-force phase.
	if len(hits) != 2 || hits[0] != canned[0] || hits[1] != canned[1] {
		t.Errorf("hits = %+v, want the index results verbatim", hits)
	}

	// An empty index answer is a miss even when the brute-force phase
	// would have hit.
	idx.results = nil
	hits = hits[:0]
	if n.HitTest(nil, downRay(0.2, 0.2, 1), &hits) {
		t.Error("empty index answer should be a miss")
	}
	if len(hits) != 0 {
		t.Errorf("hits = %+v, want empty", hits)
	}

	// Removing the index restores the brute-force path.
	n.SetSpatialIndex(nil)
	if !n.HitTest(nil, downRay(0.2, 0.2, 1), &hits) {
		t.Error("expected brute-force hit after index removal")
	}
}
