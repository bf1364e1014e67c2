// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/geoscene/pkg/math"

// BoxWireframeVertexCount is the number of vertices for a box wireframe
// (12 edges x 2 endpoints).
const BoxWireframeVertexCount = 24

// DefaultSelectionPadding is the default padding for selection boxes.
const DefaultSelectionPadding = 0.05

// BoxWireframeVertices creates line vertices for a wireframe bounding
// box, format [x, y, z] per vertex, two vertices per edge. Feed the
// result to a GL_LINES draw.
func BoxWireframeVertices(b math.Box3) []float32 {
	mn, mx := b.Min, b.Max
	return []float32{
		// Bottom face (4 edges)
		mn.X, mn.Y, mn.Z, mx.X, mn.Y, mn.Z,
		mx.X, mn.Y, mn.Z, mx.X, mn.Y, mx.Z,
		mx.X, mn.Y, mx.Z, mn.X, mn.Y, mx.Z,
		mn.X, mn.Y, mx.Z, mn.X, mn.Y, mn.Z,
		// Top face (4 edges)
		mn.X, mx.Y, mn.Z, mx.X, mx.Y, mn.Z,
		mx.X, mx.Y, mn.Z, mx.X, mx.Y, mx.Z,
		mx.X, mx.Y, mx.Z, mn.X, mx.Y, mx.Z,
		mn.X, mx.Y, mx.Z, mn.X, mx.Y, mn.Z,
		// Vertical edges (4 edges)
		mn.X, mn.Y, mn.Z, mn.X, mx.Y, mn.Z,
		mx.X, mn.Y, mn.Z, mx.X, mx.Y, mn.Z,
		mx.X, mn.Y, mx.Z, mx.X, mx.Y, mx.Z,
		mn.X, mn.Y, mx.Z, mn.X, mx.Y, mx.Z,
	}
}

// SelectionWireframe creates wireframe vertices for a selection outline
// around a world-space box, expanded by padding on all sides.
func SelectionWireframe(b math.Box3, padding float32) []float32 {
	return BoxWireframeVertices(b.ExpandedByMargin(padding))
}
