package debug

// GridVertices generates line vertices for a square reference grid on
// the XZ plane at the given height, format [x, y, z] per vertex, two
// vertices per line. The grid spans [-halfExtent, halfExtent] on both
// axes with one line every spacing units.
func GridVertices(halfExtent, spacing, height float32) []float32 {
	if spacing <= 0 || halfExtent <= 0 {
		return nil
	}

	var verts []float32
	for d := -halfExtent; d <= halfExtent; d += spacing {
		// Line parallel to Z at x = d
		verts = append(verts,
			d, height, -halfExtent,
			d, height, halfExtent,
		)
		// Line parallel to X at z = d
		verts = append(verts,
			-halfExtent, height, d,
			halfExtent, height, d,
		)
	}
	return verts
}
