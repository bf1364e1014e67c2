package mesh

import "github.com/Faultbox/geoscene/pkg/math"

// NewTriangle returns a single-triangle mesh with the given corners.
func NewTriangle(p0, p1, p2 math.Vec3) *TriMesh {
	m, _ := NewTriMesh([]math.Vec3{p0, p1, p2}, []uint32{0, 1, 2})
	return m
}

// NewQuad returns a two-triangle quad of the given size in the XY plane,
// anchored at the origin, facing +Z.
func NewQuad(width, height float32) *TriMesh {
	positions := []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: width, Y: 0, Z: 0},
		{X: width, Y: height, Z: 0},
		{X: 0, Y: height, Z: 0},
	}
	m, _ := NewTriMesh(positions, []uint32{0, 1, 2, 0, 2, 3})
	return m
}

// NewBox returns a 12-triangle box centered at the origin.
func NewBox(width, height, depth float32) *TriMesh {
	hw, hh, hd := width/2, height/2, depth/2
	positions := []math.Vec3{
		{X: -hw, Y: -hh, Z: -hd},
		{X: hw, Y: -hh, Z: -hd},
		{X: hw, Y: hh, Z: -hd},
		{X: -hw, Y: hh, Z: -hd},
		{X: -hw, Y: -hh, Z: hd},
		{X: hw, Y: -hh, Z: hd},
		{X: hw, Y: hh, Z: hd},
		{X: -hw, Y: hh, Z: hd},
	}
	indices := []uint32{
		// -Z face
		0, 2, 1, 0, 3, 2,
		// +Z face
		4, 5, 6, 4, 6, 7,
		// -X face
		0, 4, 7, 0, 7, 3,
		// +X face
		1, 2, 6, 1, 6, 5,
		// -Y face
		0, 1, 5, 0, 5, 4,
		// +Y face
		3, 7, 6, 3, 6, 2,
	}
	m, _ := NewTriMesh(positions, indices)
	return m
}
