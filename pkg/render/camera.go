package render

import (
	"math"

	"github.com/taigrr/nova/pkg/math3d"
)

// Camera represents a 3D camera with position and orientation. It produces
// the view half of the model-view matrix passed to Context.Render; the
// projection belongs to the Context.
type Camera struct {
	// Position in world space
	Position math3d.Vec4

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)
	Roll  float64 // Rotation around Z axis (tilt)

	// Cached view matrix (computed on demand)
	viewMatrix math3d.Mat4
	viewDirty  bool
}

// NewCamera creates a camera at (0, 0, 3) looking down -Z.
func NewCamera() *Camera {
	return &Camera{
		Position:  math3d.Point(0, 0, 3),
		viewDirty: true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec4) {
	c.Position = math3d.Point(pos.X, pos.Y, pos.Z)
	c.viewDirty = true
}

// SetRotation sets the camera rotation (pitch, yaw, roll in radians).
func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.Pitch = pitch
	c.Yaw = yaw
	c.Roll = roll
	c.viewDirty = true
}

// Forward returns the forward direction vector.
func (c *Camera) Forward() math3d.Vec4 {
	// Forward is -Z in camera space, rotated by yaw and pitch
	return math3d.Dir(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the right direction vector.
func (c *Camera) Right() math3d.Vec4 {
	return math3d.Dir(
		math.Cos(c.Yaw),
		0,
		-math.Sin(c.Yaw),
	)
}

// Up returns the up direction vector.
func (c *Camera) Up() math3d.Vec4 {
	return c.Right().Cross3(c.Forward())
}

// ViewMatrix returns the world-to-view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.computeViewMatrix()
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ModelView combines the view matrix with a model matrix, ready for Render.
func (c *Camera) ModelView(model math3d.Mat4) math3d.Mat4 {
	return c.ViewMatrix().Mul(model)
}

func (c *Camera) computeViewMatrix() {
	// View = Rotation * Translation(-position)
	rot := math3d.RotateZ(-c.Roll).Mul(
		math3d.RotateX(-c.Pitch)).Mul(
		math3d.RotateY(-c.Yaw))

	trans := math3d.Translate(-c.Position.X, -c.Position.Y, -c.Position.Z)

	c.viewMatrix = rot.Mul(trans)
}

// MoveForward moves the camera forward (or backward if negative).
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
	c.viewDirty = true
}

// MoveRight moves the camera right (or left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
	c.viewDirty = true
}

// Rotate rotates the camera by the given angles (in radians).
func (c *Camera) Rotate(deltaPitch, deltaYaw, deltaRoll float64) {
	c.Pitch += deltaPitch
	c.Yaw += deltaYaw
	c.Roll += deltaRoll
	c.clampPitch()
	c.viewDirty = true
}

func (c *Camera) clampPitch() {
	const maxPitch = math.Pi/2 - 0.01
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch))
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec4) {
	dir := target.Sub(c.Position)
	dir.W = 0
	dir = dir.Normalize()

	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0

	c.viewDirty = true
}

// Orbit places the camera distance units from target along the current
// yaw and pitch, looking at target.
func (c *Camera) Orbit(target math3d.Vec4, yaw, pitch, distance float64) {
	c.Yaw = yaw
	c.Pitch = pitch
	c.Roll = 0
	c.clampPitch()
	back := c.Forward().Scale(-distance)
	c.Position = math3d.Point(target.X+back.X, target.Y+back.Y, target.Z+back.Z)
	c.viewDirty = true
}

// WorldToScreen projects a world point through ctx.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(ctx *Context, worldPos math3d.Vec4) (x, y, depth float64, visible bool) {
	p := ctx.project(c.ViewMatrix().MulVec4(worldPos))

	// Behind the camera
	if !(p.W > 0) {
		return 0, 0, 0, false
	}
	if p.X < 0 || p.X > float64(ctx.Width()) || p.Y < 0 || p.Y > float64(ctx.Height()) {
		return 0, 0, 0, false
	}
	return p.X, p.Y, p.Z, true
}
