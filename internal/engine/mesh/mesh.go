// Package mesh provides triangle mesh geometry with cached object-space
// bounding volumes and named property-change notifications.
package mesh

import (
	"fmt"

	"github.com/Faultbox/geoscene/pkg/math"
)

// Property names delivered to change listeners.
const (
	PropPositions      = "Positions"
	PropIndices        = "Indices"
	PropBounds         = "Bounds"
	PropBoundingSphere = "BoundingSphere"
)

// Listener receives the name of a changed mesh property.
type Listener func(property string)

// Triangle is a read-only view over three mesh positions.
type Triangle struct {
	P0, P1, P2 math.Vec3
	I0, I1, I2 uint32
}

// Normal returns the unit normal from the triangle's winding
// (counter-clockwise positive).
func (t Triangle) Normal() math.Vec3 {
	return t.P1.Sub(t.P0).Cross(t.P2.Sub(t.P0)).Normalize()
}

// TriMesh is an indexed triangle mesh. Positions and indices are
// replaced wholesale; every replacement recomputes the object-space
// bounding box and sphere and notifies subscribers of the properties
// that actually changed.
//
// A TriMesh may be shared by reference across scene nodes; it is not
// safe for concurrent mutation.
type TriMesh struct {
	positions []math.Vec3
	indices   []uint32

	bounds math.Box3
	sphere math.Sphere

	nextSub   int
	listeners map[int]Listener
}

// New returns an empty (incomplete) mesh.
func New() *TriMesh {
	return &TriMesh{}
}

// NewTriMesh builds a mesh from positions and indices.
// The index list length must be a multiple of 3 and every index must be
// in range; malformed input is rejected here so downstream consumers can
// assume a consistent mesh.
func NewTriMesh(positions []math.Vec3, indices []uint32) (*TriMesh, error) {
	m := New()
	if err := m.SetPositions(positions); err != nil {
		return nil, err
	}
	if err := m.SetIndices(indices); err != nil {
		return nil, err
	}
	return m, nil
}

// Positions returns the mesh positions. Callers must not mutate.
func (m *TriMesh) Positions() []math.Vec3 { return m.positions }

// Indices returns the mesh indices. Callers must not mutate.
func (m *TriMesh) Indices() []uint32 { return m.indices }

// Bounds returns the object-space axis-aligned bounding box.
func (m *TriMesh) Bounds() math.Box3 { return m.bounds }

// BoundingSphere returns the object-space bounding sphere.
func (m *TriMesh) BoundingSphere() math.Sphere { return m.sphere }

// TriangleCount returns len(indices) / 3.
func (m *TriMesh) TriangleCount() int { return len(m.indices) / 3 }

// Triangle returns the i-th triangle view.
func (m *TriMesh) Triangle(i int) Triangle {
	i0, i1, i2 := m.indices[i*3], m.indices[i*3+1], m.indices[i*3+2]
	return Triangle{
		P0: m.positions[i0], P1: m.positions[i1], P2: m.positions[i2],
		I0: i0, I1: i1, I2: i2,
	}
}

// IsComplete reports whether the mesh holds at least one position and
// one full triangle. Incomplete meshes must not be attached for
// rendering or hit-tested.
func (m *TriMesh) IsComplete() bool {
	return len(m.positions) > 0 && len(m.indices) >= 3
}

// SetPositions replaces the mesh positions and recomputes the bounding
// volumes. A replacement that leaves any existing index out of range is
// rejected without touching the mesh, so a complete mesh always has
// every index addressing a position; callers shrinking both should
// replace the indices first.
func (m *TriMesh) SetPositions(positions []math.Vec3) error {
	for _, idx := range m.indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("existing index %d out of range for %d replacement positions", idx, len(positions))
		}
	}
	m.positions = positions
	m.notify(PropPositions)
	m.recomputeBounds()
	return nil
}

// SetIndices replaces the index list. The length must be a multiple of 3
// and every index must address an existing position.
func (m *TriMesh) SetIndices(indices []uint32) error {
	if len(indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= len(m.positions) {
			return fmt.Errorf("index %d out of range for %d positions", idx, len(m.positions))
		}
	}
	m.indices = indices
	m.notify(PropIndices)
	return nil
}

// Subscribe registers a change listener and returns its id.
func (m *TriMesh) Subscribe(fn Listener) int {
	if m.listeners == nil {
		m.listeners = make(map[int]Listener)
	}
	id := m.nextSub
	m.nextSub++
	m.listeners[id] = fn
	return id
}

// Unsubscribe removes a previously registered listener.
// Unknown ids are ignored.
func (m *TriMesh) Unsubscribe(id int) {
	delete(m.listeners, id)
}

func (m *TriMesh) notify(property string) {
	for _, fn := range m.listeners {
		fn(property)
	}
}

// recomputeBounds refreshes the cached box and sphere, notifying only
// the volumes that actually changed.
func (m *TriMesh) recomputeBounds() {
	bounds := math.Box3{}
	sphere := math.Sphere{}
	if len(m.positions) > 0 {
		bounds = math.Box3FromPoints(m.positions)
		sphere = math.SphereFromPoints(m.positions)
	}
	if bounds != m.bounds {
		m.bounds = bounds
		m.notify(PropBounds)
	}
	if sphere != m.sphere {
		m.sphere = sphere
		m.notify(PropBoundingSphere)
	}
}
