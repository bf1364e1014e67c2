// Package scene provides the geometry scene node: a renderable triangle
// mesh with cached local/world bounding volumes, attach/detach lifecycle,
// and ray hit-testing.
package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/geoscene/internal/engine/mesh"
	"github.com/Faultbox/geoscene/internal/engine/picking"
	"github.com/Faultbox/geoscene/internal/logger"
	"github.com/Faultbox/geoscene/pkg/math"
)

// Visibility is the node's visibility state.
type Visibility int

const (
	// Visible nodes render and hit-test normally.
	Visible Visibility = iota
	// Hidden nodes do not render but still participate in hit-testing.
	Hidden
	// Collapsed nodes neither render nor hit-test.
	Collapsed
)

// Host receives attach-side effects so render resources tied to mesh
// layout (vertex buffers, rasterizer state) can be built and released
// outside the core.
type Host interface {
	MeshAttached(n *GeometryNode)
	MeshDetached(n *GeometryNode)
}

// SpatialIndex accelerates hit-testing for a mesh. Implementations
// perform their own narrow-phase triangle tests and return world-space
// results; the node uses the returned slice verbatim.
type SpatialIndex interface {
	HitTest(ctx *RenderContext, n *GeometryNode, world math.Mat4, ray picking.Ray) []picking.HitResult
}

// GeometryNode is a single renderable object in the scene graph.
//
// The node caches object-space bounds seeded from its mesh and keeps the
// world-space counterparts exactly in sync: any write to the bounds, the
// bounding sphere, or the transform synchronously recomputes the
// transformed volume and raises change events, but only when the stored
// value actually differs. All mutation is single-threaded; events are
// delivered inline during the triggering call.
type GeometryNode struct {
	name string

	m       *mesh.TriMesh
	meshSub int

	transform math.Mat4

	bounds                    math.Box3
	boundsWithTransform       math.Box3
	boundsSphere              math.Sphere
	boundsSphereWithTransform math.Sphere

	visibility  Visibility
	castsShadow bool
	hitTestable bool

	attached bool
	host     Host
	index    SpatialIndex

	// Callbacks are invoked by the host after its picking sweep.
	Callbacks NodeCallbacks

	boundsChanged              boxSignal
	boundsWithTransformChanged boxSignal
	sphereChanged              sphereSignal
	sphereWithTransformChanged sphereSignal
}

// NewGeometryNode creates a detached node with an identity transform,
// degenerate zero-volume bounds, and no mesh.
func NewGeometryNode(name string) *GeometryNode {
	return &GeometryNode{
		name:        name,
		transform:   math.Identity(),
		castsShadow: true,
		hitTestable: true,
	}
}

// Name returns the node's name. Satisfies picking.Target.
func (n *GeometryNode) Name() string { return n.name }

// Mesh returns the node's mesh, which may be nil.
func (n *GeometryNode) Mesh() *mesh.TriMesh { return n.m }

// Transform returns the current world transform.
func (n *GeometryNode) Transform() math.Mat4 { return n.transform }

// Bounds returns the cached object-space bounding box.
func (n *GeometryNode) Bounds() math.Box3 { return n.bounds }

// BoundsWithTransform returns the world-space bounding box. It is always
// exactly the image of Bounds under the current transform.
func (n *GeometryNode) BoundsWithTransform() math.Box3 { return n.boundsWithTransform }

// BoundsSphere returns the cached object-space bounding sphere.
func (n *GeometryNode) BoundsSphere() math.Sphere { return n.boundsSphere }

// BoundsSphereWithTransform returns the world-space bounding sphere.
func (n *GeometryNode) BoundsSphereWithTransform() math.Sphere {
	return n.boundsSphereWithTransform
}

// Visibility returns the node's visibility state.
func (n *GeometryNode) Visibility() Visibility { return n.visibility }

// SetVisibility sets the node's visibility state.
func (n *GeometryNode) SetVisibility(v Visibility) { n.visibility = v }

// CastsShadow reports whether the node renders into shadow passes.
func (n *GeometryNode) CastsShadow() bool { return n.castsShadow }

// SetCastsShadow controls shadow-pass participation.
func (n *GeometryNode) SetCastsShadow(casts bool) { n.castsShadow = casts }

// HitTestable reports whether HitTest considers this node.
func (n *GeometryNode) HitTestable() bool { return n.hitTestable }

// SetHitTestable controls hit-test participation.
func (n *GeometryNode) SetHitTestable(enabled bool) { n.hitTestable = enabled }

// Attached reports whether the node is attached to a host.
func (n *GeometryNode) Attached() bool { return n.attached }

// SetSpatialIndex installs (or, with nil, removes) a hit-test
// accelerator for the node's mesh.
func (n *GeometryNode) SetSpatialIndex(idx SpatialIndex) { n.index = idx }

// SpatialIndex returns the installed accelerator, if any.
func (n *GeometryNode) SpatialIndex() SpatialIndex { return n.index }

// OnBoundsChanged registers a listener for object-space box changes.
func (n *GeometryNode) OnBoundsChanged(fn BoxListener) int { return n.boundsChanged.add(fn) }

// RemoveBoundsChanged removes a listener registered with OnBoundsChanged.
func (n *GeometryNode) RemoveBoundsChanged(id int) { n.boundsChanged.remove(id) }

// OnBoundsWithTransformChanged registers a listener for world-space box changes.
func (n *GeometryNode) OnBoundsWithTransformChanged(fn BoxListener) int {
	return n.boundsWithTransformChanged.add(fn)
}

// RemoveBoundsWithTransformChanged removes a world-space box listener.
func (n *GeometryNode) RemoveBoundsWithTransformChanged(id int) {
	n.boundsWithTransformChanged.remove(id)
}

// OnBoundsSphereChanged registers a listener for object-space sphere changes.
func (n *GeometryNode) OnBoundsSphereChanged(fn SphereListener) int {
	return n.sphereChanged.add(fn)
}

// RemoveBoundsSphereChanged removes an object-space sphere listener.
func (n *GeometryNode) RemoveBoundsSphereChanged(id int) { n.sphereChanged.remove(id) }

// OnBoundsSphereWithTransformChanged registers a listener for
// world-space sphere changes.
func (n *GeometryNode) OnBoundsSphereWithTransformChanged(fn SphereListener) int {
	return n.sphereWithTransformChanged.add(fn)
}

// RemoveBoundsSphereWithTransformChanged removes a world-space sphere listener.
func (n *GeometryNode) RemoveBoundsSphereWithTransformChanged(id int) {
	n.sphereWithTransformChanged.remove(id)
}

// SetBounds replaces the object-space bounding box. Setting the current
// value is a no-op; otherwise the world-space box is recomputed
// synchronously and both change events fire with (old, new) values.
func (n *GeometryNode) SetBounds(b math.Box3) {
	if b == n.bounds {
		return
	}
	old := n.bounds
	n.bounds = b
	n.boundsChanged.emit(&old, &n.bounds)
	n.updateBoundsWithTransform()
}

// SetBoundsSphere replaces the object-space bounding sphere with the
// same change-detection semantics as SetBounds.
func (n *GeometryNode) SetBoundsSphere(s math.Sphere) {
	if s == n.boundsSphere {
		return
	}
	old := n.boundsSphere
	n.boundsSphere = s
	n.sphereChanged.emit(&old, &n.boundsSphere)
	n.updateSphereWithTransform()
}

// SetTransform replaces the world transform. Setting the current value
// is a no-op; otherwise both world-space volumes are recomputed and
// their change events fire. The attach state is not affected.
func (n *GeometryNode) SetTransform(m math.Mat4) {
	if m == n.transform {
		return
	}
	n.transform = m
	n.updateBoundsWithTransform()
	n.updateSphereWithTransform()
}

func (n *GeometryNode) updateBoundsWithTransform() {
	next := n.bounds.Transformed(n.transform)
	if next == n.boundsWithTransform {
		return
	}
	old := n.boundsWithTransform
	n.boundsWithTransform = next
	n.boundsWithTransformChanged.emit(&old, &n.boundsWithTransform)
}

func (n *GeometryNode) updateSphereWithTransform() {
	next := n.boundsSphere.Transformed(n.transform)
	if next == n.boundsSphereWithTransform {
		return
	}
	old := n.boundsSphereWithTransform
	n.boundsSphereWithTransform = next
	n.sphereWithTransformChanged.emit(&old, &n.boundsSphereWithTransform)
}

// Attach binds the node to a render host. Attaching requires a complete
// mesh; on an incomplete or missing mesh the node stays detached and
// Attach returns false. Attaching an already-attached node is a no-op.
func (n *GeometryNode) Attach(host Host) bool {
	if n.attached {
		return true
	}
	if n.m == nil || !n.m.IsComplete() {
		logger.Debug("attach rejected: incomplete mesh", zap.String("node", n.name))
		return false
	}
	n.host = host
	n.attached = true
	n.seedBoundsFromMesh()
	n.subscribeMesh()
	if n.host != nil {
		n.host.MeshAttached(n)
	}
	return true
}

// Detach releases the host-side resources and the mesh subscription.
// Detaching a detached node is a no-op.
func (n *GeometryNode) Detach() {
	if !n.attached {
		return
	}
	n.unsubscribeMesh()
	if n.host != nil {
		n.host.MeshDetached(n)
	}
	n.host = nil
	n.attached = false
}

// SetMesh replaces the node's mesh. While attached this re-runs the
// attach side-effect pipeline (release old resources, reseed bounds,
// rebuild) so host resources tied to mesh layout are rebuilt. Unlike
// Attach, replacement does not re-validate completeness; an incomplete
// replacement mesh leaves the node attached with degenerate bounds.
func (n *GeometryNode) SetMesh(m *mesh.TriMesh) {
	if m == n.m {
		return
	}
	if n.attached {
		n.unsubscribeMesh()
		if n.host != nil {
			n.host.MeshDetached(n)
		}
		n.m = m
		n.seedBoundsFromMesh()
		n.subscribeMesh()
		if n.host != nil {
			n.host.MeshAttached(n)
		}
		return
	}
	n.m = m
	n.seedBoundsFromMesh()
}

// seedBoundsFromMesh copies the mesh bounds into the node's cache, or
// resets to degenerate zero-volume defaults when no mesh is present.
func (n *GeometryNode) seedBoundsFromMesh() {
	if n.m == nil {
		n.SetBounds(math.Box3{})
		n.SetBoundsSphere(math.Sphere{})
		return
	}
	n.SetBounds(n.m.Bounds())
	n.SetBoundsSphere(n.m.BoundingSphere())
}

func (n *GeometryNode) subscribeMesh() {
	if n.m == nil {
		return
	}
	n.meshSub = n.m.Subscribe(func(property string) {
		switch property {
		case mesh.PropBounds:
			n.SetBounds(n.m.Bounds())
		case mesh.PropBoundingSphere:
			n.SetBoundsSphere(n.m.BoundingSphere())
		}
	})
}

func (n *GeometryNode) unsubscribeMesh() {
	if n.m == nil {
		return
	}
	n.m.Unsubscribe(n.meshSub)
}

// ShouldRender reports whether the node is eligible for the given pass:
// attached, visible, shadow-casting when the pass is a shadow pass, and
// inside the frustum when culling is enabled.
func (n *GeometryNode) ShouldRender(ctx *RenderContext) bool {
	if !n.attached || n.m == nil {
		return false
	}
	if n.visibility != Visible {
		return false
	}
	if ctx == nil {
		return true
	}
	if ctx.ShadowPass && !n.castsShadow {
		return false
	}
	if ctx.FrustumCulling && ctx.Frustum != nil && !ctx.Frustum.IntersectsBox(n.boundsWithTransform) {
		return false
	}
	return true
}
