package math

import "github.com/chewxy/math32"

// Box3 is an axis-aligned bounding box in 3D space.
// The zero value is a degenerate zero-volume box at the origin.
type Box3 struct {
	Min Vec3
	Max Vec3
}

// EmptyBox3 returns a box that contains nothing: expanding it by any
// point yields exactly that point.
func EmptyBox3() Box3 {
	return Box3{
		Min: Vec3{X: math32.MaxFloat32, Y: math32.MaxFloat32, Z: math32.MaxFloat32},
		Max: Vec3{X: -math32.MaxFloat32, Y: -math32.MaxFloat32, Z: -math32.MaxFloat32},
	}
}

// NewBox3 creates a box from two opposite corners, swapping per axis so
// that Min <= Max (handles negative scales).
func NewBox3(a, b Vec3) Box3 {
	return Box3{
		Min: Vec3{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)},
		Max: Vec3{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)},
	}
}

// Box3FromPoints returns the tightest box enclosing the given points.
// Returns an empty box when no points are given.
func Box3FromPoints(points []Vec3) Box3 {
	b := EmptyBox3()
	for _, p := range points {
		b = b.ExpandedByPoint(p)
	}
	return b
}

// IsEmpty reports whether the box contains no volume and no point.
func (b Box3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the midpoint of the box.
func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the per-axis extent of the box.
func (b Box3) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// ExpandedByPoint returns the box grown to include p.
func (b Box3) ExpandedByPoint(p Vec3) Box3 {
	return Box3{
		Min: Vec3{X: math32.Min(b.Min.X, p.X), Y: math32.Min(b.Min.Y, p.Y), Z: math32.Min(b.Min.Z, p.Z)},
		Max: Vec3{X: math32.Max(b.Max.X, p.X), Y: math32.Max(b.Max.Y, p.Y), Z: math32.Max(b.Max.Z, p.Z)},
	}
}

// ExpandedByMargin returns the box grown by m on all sides.
func (b Box3) ExpandedByMargin(m float32) Box3 {
	d := Vec3{X: m, Y: m, Z: m}
	return Box3{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(other Box3) Box3 {
	return b.ExpandedByPoint(other.Min).ExpandedByPoint(other.Max)
}

// ContainsPoint reports whether p lies inside or on the box.
func (b Box3) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether the two boxes overlap.
func (b Box3) Intersects(other Box3) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// Corners returns the 8 corners of the box.
func (b Box3) Corners() [8]Vec3 {
	mn, mx := b.Min, b.Max
	return [8]Vec3{
		{X: mn.X, Y: mn.Y, Z: mn.Z},
		{X: mx.X, Y: mn.Y, Z: mn.Z},
		{X: mn.X, Y: mx.Y, Z: mn.Z},
		{X: mx.X, Y: mx.Y, Z: mn.Z},
		{X: mn.X, Y: mn.Y, Z: mx.Z},
		{X: mx.X, Y: mn.Y, Z: mx.Z},
		{X: mn.X, Y: mx.Y, Z: mx.Z},
		{X: mx.X, Y: mx.Y, Z: mx.Z},
	}
}

// Transformed returns the axis-aligned box enclosing this box after
// transforming its 8 corners by m. Conservative under rotation (the
// result may be larger than the rotated box), exact under translation
// and axis-aligned scale.
func (b Box3) Transformed(m Mat4) Box3 {
	corners := b.Corners()
	out := Box3{Min: m.TransformVec3(corners[0]), Max: m.TransformVec3(corners[0])}
	for i := 1; i < 8; i++ {
		out = out.ExpandedByPoint(m.TransformVec3(corners[i]))
	}
	return out
}
