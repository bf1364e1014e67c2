package picking

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/geoscene/pkg/math"
)

func vecNear(a, b math.Vec3, eps float32) bool {
	return math32.Abs(a.X-b.X) < eps &&
		math32.Abs(a.Y-b.Y) < eps &&
		math32.Abs(a.Z-b.Z) < eps
}

func TestRayAt(t *testing.T) {
	r := Ray{
		Origin:    math.Vec3{X: 1, Y: 2, Z: 3},
		Direction: math.Vec3{X: 0, Y: 0, Z: -1},
	}
	if got, want := r.At(2), (math.Vec3{X: 1, Y: 2, Z: 1}); got != want {
		t.Errorf("At(2) = %+v, want %+v", got, want)
	}
	if got := r.At(0); got != r.Origin {
		t.Errorf("At(0) = %+v, want origin", got)
	}
}

func TestRayTransformed(t *testing.T) {
	r := Ray{
		Origin:    math.Vec3{X: 0, Y: 0, Z: 0},
		Direction: math.Vec3{X: 0, Y: 0, Z: -1},
	}
	got := r.Transformed(math.Translate(5, 0, 0))

	// Translation moves the origin but not the direction.
	if got.Origin != (math.Vec3{X: 5, Y: 0, Z: 0}) {
		t.Errorf("Origin = %+v, want (5, 0, 0)", got.Origin)
	}
	if got.Direction != r.Direction {
		t.Errorf("Direction = %+v, want %+v", got.Direction, r.Direction)
	}
}

func TestScreenToRayCenter(t *testing.T) {
	// With an identity inverse view-projection the NDC cube is the world:
	// the screen center unprojects to (0,0,-1) near, (0,0,1) far.
	r := ScreenToRay(400, 300, 800, 600, math.Identity())

	if !vecNear(r.Origin, math.Vec3{X: 0, Y: 0, Z: -1}, 1e-5) {
		t.Errorf("Origin = %+v, want (0, 0, -1)", r.Origin)
	}
	if !vecNear(r.Direction, math.Vec3{X: 0, Y: 0, Z: 1}, 1e-5) {
		t.Errorf("Direction = %+v, want (0, 0, 1)", r.Direction)
	}
}

func TestBox3Span(t *testing.T) {
	box := math.NewBox3(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	tests := []struct {
		name     string
		ray      Ray
		wantHit  bool
		wantTmin float32
		wantTmax float32
	}{
		{
			name:     "straight through",
			ray:      Ray{Origin: math.Vec3{X: 0, Y: 0, Z: 5}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}},
			wantHit:  true,
			wantTmin: 4,
			wantTmax: 6,
		},
		{
			name:     "from inside",
			ray:      Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}},
			wantHit:  true,
			wantTmin: -1,
			wantTmax: 1,
		},
		{
			name:    "miss to the side",
			ray:     Ray{Origin: math.Vec3{X: 5, Y: 0, Z: 5}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}},
			wantHit: false,
		},
		{
			name:    "box behind origin",
			ray:     Ray{Origin: math.Vec3{X: 0, Y: 0, Z: 5}, Direction: math.Vec3{X: 0, Y: 0, Z: 1}},
			wantHit: false,
		},
		{
			name:    "axis-parallel outside slab",
			ray:     Ray{Origin: math.Vec3{X: 2, Y: 0, Z: 5}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}},
			wantHit: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmin, tmax, hit := tt.ray.Box3Span(box)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if !hit {
				return
			}
			if math32.Abs(tmin-tt.wantTmin) > 1e-5 {
				t.Errorf("tmin = %f, want %f", tmin, tt.wantTmin)
			}
			if math32.Abs(tmax-tt.wantTmax) > 1e-5 {
				t.Errorf("tmax = %f, want %f", tmax, tt.wantTmax)
			}
		})
	}
}

func TestIntersectBox3(t *testing.T) {
	box := math.NewBox3(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	// From outside: entry distance.
	r := Ray{Origin: math.Vec3{X: 0, Y: 0, Z: 5}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}}
	d, hit := r.IntersectBox3(box)
	if !hit {
		t.Fatal("expected hit from outside")
	}
	if math32.Abs(d-4) > 1e-5 {
		t.Errorf("entry distance = %f, want 4", d)
	}

	// From inside: exit distance.
	r = Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}}
	d, hit = r.IntersectBox3(box)
	if !hit {
		t.Fatal("expected hit from inside")
	}
	if math32.Abs(d-1) > 1e-5 {
		t.Errorf("exit distance = %f, want 1", d)
	}

	// Miss.
	r = Ray{Origin: math.Vec3{X: 5, Y: 5, Z: 5}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}}
	if _, hit = r.IntersectBox3(box); hit {
		t.Error("expected miss")
	}
}

func TestIntersectTriangle(t *testing.T) {
	p0 := math.Vec3{X: 0, Y: 0, Z: 0}
	p1 := math.Vec3{X: 1, Y: 0, Z: 0}
	p2 := math.Vec3{X: 0, Y: 1, Z: 0}

	// Straight down onto the interior of the triangle.
	r := Ray{Origin: math.Vec3{X: 0.2, Y: 0.2, Z: 1}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}}
	d, hit := r.IntersectTriangle(p0, p1, p2)
	if !hit {
		t.Fatal("expected hit")
	}
	if math32.Abs(d-1) > 1e-5 {
		t.Errorf("distance = %f, want 1", d)
	}
	if got := r.At(d); !vecNear(got, math.Vec3{X: 0.2, Y: 0.2, Z: 0}, 1e-5) {
		t.Errorf("hit point = %+v, want (0.2, 0.2, 0)", got)
	}
}

func TestIntersectTriangleMisses(t *testing.T) {
	p0 := math.Vec3{X: 0, Y: 0, Z: 0}
	p1 := math.Vec3{X: 1, Y: 0, Z: 0}
	p2 := math.Vec3{X: 0, Y: 1, Z: 0}

	tests := []struct {
		name string
		ray  Ray
	}{
		{
			name: "outside barycentric range",
			ray:  Ray{Origin: math.Vec3{X: 0.9, Y: 0.9, Z: 1}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}},
		},
		{
			name: "parallel to plane",
			ray:  Ray{Origin: math.Vec3{X: 0.2, Y: 0.2, Z: 1}, Direction: math.Vec3{X: 1, Y: 0, Z: 0}},
		},
		{
			name: "triangle behind origin",
			ray:  Ray{Origin: math.Vec3{X: 0.2, Y: 0.2, Z: -1}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, hit := tt.ray.IntersectTriangle(p0, p1, p2); hit {
				t.Error("expected miss")
			}
		})
	}
}

func TestIntersectTriangleDegenerate(t *testing.T) {
	// Zero-area triangle never hits.
	p := math.Vec3{X: 1, Y: 1, Z: 0}
	r := Ray{Origin: math.Vec3{X: 1, Y: 1, Z: 1}, Direction: math.Vec3{X: 0, Y: 0, Z: -1}}
	if _, hit := r.IntersectTriangle(p, p, p); hit {
		t.Error("expected degenerate triangle to miss")
	}
}
