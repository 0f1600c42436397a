package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taigrr/nova/pkg/math3d"
	"github.com/taigrr/nova/pkg/models"
)

func TestVertexLight(t *testing.T) {
	ctx := NewContext()

	tests := []struct {
		name   string
		normal math3d.Vec4
		want   float64
	}{
		{"facing light", math3d.Dir(0, 0, 1), 1},
		{"edge on", math3d.Dir(1, 0, 0), AmbientFloor},
		{"facing away", math3d.Dir(0, 0, -1), AmbientFloor},
		{"oblique", math3d.Dir(0, 0.6, 0.8), 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ctx.vertexLight(tt.normal), 1e-12)
		})
	}

	ctx.SetLightDirection(math3d.Dir(0, -2, 0))
	assert.InDelta(t, 1.0, ctx.vertexLight(math3d.Dir(0, 1, 0)), 1e-12)
}

func TestSampleNearest(t *testing.T) {
	tex := models.NewTextureMap(2, 2)
	tex.Set(0, 0, 1)
	tex.Set(1, 0, 2)
	tex.Set(0, 1, 3)
	tex.Set(1, 1, 4)

	tests := []struct {
		name string
		u, v float64
		want uint32
	}{
		{"origin", 0, 0, 1},
		{"rounds down", 0.49, 0.49, 1},
		{"rounds up", 0.5, 0, 2},
		{"top right", 1, 1, 4},
		{"top left", 0, 0.75, 3},
		{"clamped low", -3, -1, 1},
		{"clamped high", 7, 1.5, 4},
		{"nan", math.NaN(), 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sampleNearest(tex, tt.u, tt.v))
		})
	}

	assert.Equal(t, White, sampleNearest(nil, 0.3, 0.3))
}

func TestModulate(t *testing.T) {
	c := models.PackRGBA(200, 100, 50, 128)

	tests := []struct {
		name  string
		light float64
		want  uint32
	}{
		{"unit", 1, c},
		{"half", 0.5, models.PackRGBA(100, 50, 25, 128)},
		{"clamps high", 2, models.PackRGBA(255, 200, 100, 128)},
		{"clamps low", -1, models.PackRGBA(0, 0, 0, 128)},
		{"ambient floor", AmbientFloor, models.PackRGBA(50, 25, 13, 128)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Modulate(c, tt.light))
		})
	}
}

func TestPackFloatRGBA(t *testing.T) {
	assert.Equal(t, models.PackRGBA(255, 128, 0, 255), PackFloatRGBA(1, 0.5, 0, 1))
	assert.Equal(t, models.PackRGBA(255, 0, 0, 255), PackFloatRGBA(2, -1, math.NaN(), 1))
}
