// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/geoscene/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        10.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     0.5,
		MaxDistance:     500.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	pos := c.Position()
	center := math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(pos, center, up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	// Calculate movement direction based on current camera rotation
	dirX := float32(gomath.Sin(float64(c.RotationY)))
	dirZ := float32(gomath.Cos(float64(c.RotationY)))

	// Right direction (perpendicular to forward)
	rightX := float32(gomath.Cos(float64(c.RotationY)))
	rightZ := float32(-gomath.Sin(float64(c.RotationY)))

	// Apply movement to center point (negate forward so W moves "into" the scene)
	c.CenterX += (-dirX*forward + rightX*right) * speed
	c.CenterZ += (-dirZ*forward + rightZ*right) * speed
	c.CenterY += up * speed
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
}

// FitToBounds adjusts camera to view the given bounding box.
func (c *OrbitCamera) FitToBounds(b math.Box3) {
	center := b.Center()
	c.CenterX = center.X
	c.CenterY = center.Y
	c.CenterZ = center.Z

	// Calculate distance based on the largest extent
	size := b.Size()
	maxSize := size.X
	if size.Y > maxSize {
		maxSize = size.Y
	}
	if size.Z > maxSize {
		maxSize = size.Z
	}

	c.Distance = maxSize * 2
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}

	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0.0
}
