package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestSphereFromBox(t *testing.T) {
	b := NewBox3(Vec3{X: -1, Y: -1, Z: -1}, Vec3{X: 1, Y: 1, Z: 1})
	s := SphereFromBox(b)

	if s.Center != (Vec3{}) {
		t.Errorf("Center = %+v, want origin", s.Center)
	}
	want := math32.Sqrt(3)
	if math32.Abs(s.Radius-want) > 1e-5 {
		t.Errorf("Radius = %f, want %f", s.Radius, want)
	}

	if got := SphereFromBox(EmptyBox3()); got != (Sphere{}) {
		t.Errorf("SphereFromBox(empty) = %+v, want zero sphere", got)
	}
}

func TestSphereFromPoints(t *testing.T) {
	points := []Vec3{
		{X: -2, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	s := SphereFromPoints(points)

	// Centroid of the bounding box is (0, 0.5, 0); farthest point is
	// (+/-2, 0, 0) at sqrt(4.25).
	if s.Center != (Vec3{X: 0, Y: 0.5, Z: 0}) {
		t.Errorf("Center = %+v, want (0, 0.5, 0)", s.Center)
	}
	want := math32.Sqrt(4.25)
	if math32.Abs(s.Radius-want) > 1e-5 {
		t.Errorf("Radius = %f, want %f", s.Radius, want)
	}

	if got := SphereFromPoints(nil); got != (Sphere{}) {
		t.Errorf("SphereFromPoints(nil) = %+v, want zero sphere", got)
	}
}

func TestSphereContainsPoint(t *testing.T) {
	s := Sphere{Center: Vec3{X: 1, Y: 0, Z: 0}, Radius: 2}

	if !s.ContainsPoint(Vec3{X: 1, Y: 0, Z: 0}) {
		t.Error("sphere should contain its own center")
	}
	if !s.ContainsPoint(Vec3{X: 3, Y: 0, Z: 0}) {
		t.Error("sphere should contain a point on its surface")
	}
	if s.ContainsPoint(Vec3{X: 3.1, Y: 0, Z: 0}) {
		t.Error("sphere should not contain a point outside its radius")
	}
}

func TestSphereIntersects(t *testing.T) {
	a := Sphere{Center: Vec3{}, Radius: 1}

	tests := []struct {
		name string
		b    Sphere
		want bool
	}{
		{"overlapping", Sphere{Center: Vec3{X: 1.5}, Radius: 1}, true},
		{"touching", Sphere{Center: Vec3{X: 2}, Radius: 1}, true},
		{"disjoint", Sphere{Center: Vec3{X: 5}, Radius: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSphereTransformed(t *testing.T) {
	s := Sphere{Center: Vec3{X: 1, Y: 0, Z: 0}, Radius: 2}

	// Translation moves the center, radius unchanged.
	got := s.Transformed(Translate(0, 5, 0))
	if got.Center != (Vec3{X: 1, Y: 5, Z: 0}) {
		t.Errorf("Center = %+v, want (1, 5, 0)", got.Center)
	}
	if math32.Abs(got.Radius-2) > 1e-5 {
		t.Errorf("Radius = %f, want 2", got.Radius)
	}

	// Non-uniform scale uses the largest axis factor, conservative.
	got = s.Transformed(Scale(1, 3, 2))
	if math32.Abs(got.Radius-6) > 1e-5 {
		t.Errorf("Radius = %f, want 6", got.Radius)
	}
}

func TestMat4MaxAxisScale(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		want float32
	}{
		{"identity", Identity(), 1},
		{"uniform scale", Scale(2, 2, 2), 2},
		{"non-uniform scale", Scale(1, 4, 2), 4},
		{"rotation preserves scale", RotateY(0.8), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.MaxAxisScale(); math32.Abs(got-tt.want) > 1e-5 {
				t.Errorf("MaxAxisScale = %f, want %f", got, tt.want)
			}
		})
	}
}
