package main

import "github.com/charmbracelet/harmonica"

// Spin tracks one rotation axis. Velocity eases back to zero on a
// critically damped spring, so a flick coasts to a stop without overshoot.
type Spin struct {
	Angle    float64
	Velocity float64

	spring harmonica.Spring
	accel  float64
}

// NewSpin creates an axis stepped at fps updates per second.
func NewSpin(fps int) Spin {
	return Spin{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Update advances the angle by one frame and decays the velocity.
func (s *Spin) Update() {
	s.Angle += s.Velocity
	s.Velocity, s.accel = s.spring.Update(s.Velocity, s.accel, 0)
}

// Orientation is the model's pitch, yaw and roll.
type Orientation struct {
	Pitch, Yaw, Roll Spin
	fps              int
}

// NewOrientation creates an orientation at rest, stepped at fps.
func NewOrientation(fps int) *Orientation {
	o := &Orientation{fps: fps}
	o.Reset()
	return o
}

// Update advances all three axes by one frame.
func (o *Orientation) Update() {
	o.Pitch.Update()
	o.Yaw.Update()
	o.Roll.Update()
}

// Push adds angular velocity in radians per frame.
func (o *Orientation) Push(pitch, yaw, roll float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
	o.Roll.Velocity += roll
}

// Reset zeroes every angle and velocity.
func (o *Orientation) Reset() {
	o.Pitch = NewSpin(o.fps)
	o.Yaw = NewSpin(o.fps)
	o.Roll = NewSpin(o.fps)
}
