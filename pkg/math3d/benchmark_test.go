package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(1, 2, 3)
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(1, 2, 3).Mul(RotateY(0.5))
	v := Point(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkMat4InvertRigid(b *testing.B) {
	m := Translate(1, 2, 3).Mul(RotateY(0.5)).Mul(RotateX(0.25))

	for b.Loop() {
		_ = m.InvertRigid()
	}
}

func BenchmarkVec4Normalize(b *testing.B) {
	v := Dir(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec4Cross3(b *testing.B) {
	v1 := Dir(1, 2, 3)
	v2 := Dir(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross3(v2)
	}
}

func BenchmarkPerspective(b *testing.B) {
	for b.Loop() {
		_ = Perspective(60.0, 45.0, 0.5, 10.0)
	}
}

func BenchmarkScreenProjection(b *testing.B) {
	// The combined matrix a context applies after the model-view stage
	proj := Perspective(60.0, 45.0, 0.5, 10.0)
	screen := Viewport(640, 480)

	for b.Loop() {
		_ = screen.Mul(proj)
	}
}
