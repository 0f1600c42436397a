package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taigrr/nova/pkg/math3d"
)

func assertVecNear(t *testing.T, want, got math3d.Vec4) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "X")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "Y")
	assert.InDelta(t, want.Z, got.Z, 1e-9, "Z")
	assert.InDelta(t, want.W, got.W, 1e-9, "W")
}

func TestCameraDefaultView(t *testing.T) {
	cam := NewCamera()
	assertVecNear(t, math3d.Dir(0, 0, -1), cam.Forward())
	assertVecNear(t, math3d.Point(0, 0, -3), cam.ViewMatrix().MulVec4(math3d.Point(0, 0, 0)))
}

func TestCameraLookAt(t *testing.T) {
	cam := NewCamera()
	cam.SetPosition(math3d.Point(3, 0, 0))
	cam.LookAt(math3d.Point(0, 0, 0))

	assert.InDelta(t, math.Pi/2, cam.Yaw, 1e-12)
	assertVecNear(t, math3d.Dir(-1, 0, 0), cam.Forward())
	assertVecNear(t, math3d.Point(0, 0, -3), cam.ViewMatrix().MulVec4(math3d.Point(0, 0, 0)))
}

func TestCameraOrbit(t *testing.T) {
	cam := NewCamera()
	target := math3d.Point(1, 2, 3)

	cam.Orbit(target, 0, 0, 5)
	assertVecNear(t, math3d.Point(1, 2, 8), cam.Position)

	cam.Orbit(target, math.Pi/2, 0, 5)
	assertVecNear(t, math3d.Point(6, 2, 3), cam.Position)

	// The target always lands on the view axis.
	cam.Orbit(target, 0.7, -0.4, 4)
	assertVecNear(t, math3d.Point(0, 0, -4), cam.ViewMatrix().MulVec4(target))

	// Pitch is clamped short of the poles.
	cam.Orbit(target, 0, 10, 4)
	assert.Less(t, cam.Pitch, math.Pi/2)
}

func TestCameraModelView(t *testing.T) {
	cam := NewCamera()
	model := math3d.Translate(1, 0, 0)
	p := cam.ModelView(model).MulVec4(math3d.Point(0, 0, 0))
	assertVecNear(t, math3d.Point(1, 0, -3), p)
}

func TestCameraMovement(t *testing.T) {
	cam := NewCamera()
	cam.MoveForward(1)
	assertVecNear(t, math3d.Point(0, 0, 2), cam.Position)
	cam.MoveRight(2)
	assertVecNear(t, math3d.Point(2, 0, 2), cam.Position)

	cam.Rotate(0, math.Pi, 0)
	assertVecNear(t, math3d.Dir(0, 0, 1), cam.Forward())
	assertVecNear(t, math3d.Dir(0, 1, 0), cam.Up())
}

func TestWorldToScreen(t *testing.T) {
	ctx := newTestContext(t, 100, 100)
	cam := NewCamera()

	x, y, _, ok := cam.WorldToScreen(ctx, math3d.Point(0, 0, 0))
	assert.True(t, ok)
	assert.InDelta(t, 50.0, x, 1e-9)
	assert.InDelta(t, 50.0, y, 1e-9)

	_, _, _, ok = cam.WorldToScreen(ctx, math3d.Point(0, 0, 10))
	assert.False(t, ok, "behind the camera")

	_, _, _, ok = cam.WorldToScreen(ctx, math3d.Point(50, 0, 0))
	assert.False(t, ok, "outside the surface")
}
