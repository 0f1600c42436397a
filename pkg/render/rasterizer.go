package render

import (
	"math"

	"github.com/taigrr/nova/pkg/models"
)

// edgeCoeffs returns A, B, C for the edge function of a -> b:
// edge(x,y) = A*x + B*y + C, positive on the inside of a front-facing
// triangle once the screen y axis points down.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y1 - y0 // dy
	B = x0 - x1 // -dx
	C = x1*y0 - x0*y1
	return
}

// edgeFunc evaluates edge function at point (x, y)
func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

// signedArea returns twice the signed screen area of a triangle. It is
// positive when the object-space winding is counter-clockwise.
func signedArea(x0, y0, x1, y1, x2, y2 float64) float64 {
	return (x2-x0)*(y1-y0) - (y2-y0)*(x1-x0)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// drawTriangle rasterizes one transformed triangle with incremental
// barycentric weights. Pixels are sampled at their centers and covered when
// all three weights are >= 0, so shared edges may be drawn twice.
func (c *Context) drawTriangle(mesh *models.Mesh, tri *models.Triangle, tex *models.TextureMap) {
	p0 := c.verts[tri.V[0]].Pos
	p1 := c.verts[tri.V[1]].Pos
	p2 := c.verts[tri.V[2]].Pos

	// Back-face culling. The negated test also rejects NaN; infinite areas
	// come from vertices at w=0.
	area := signedArea(p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y)
	if !(area > 0) || math.IsInf(area, 1) {
		c.stats.Culled++
		return
	}

	// Bounding box (clamped to screen), kept in float until known non-empty.
	fMinX := math.Max(0, math.Floor(min3(p0.X, p1.X, p2.X)))
	fMaxX := math.Min(float64(c.width-1), math.Ceil(max3(p0.X, p1.X, p2.X)))
	fMinY := math.Max(0, math.Floor(min3(p0.Y, p1.Y, p2.Y)))
	fMaxY := math.Min(float64(c.height-1), math.Ceil(max3(p0.Y, p1.Y, p2.Y)))
	if fMinX > fMaxX || fMinY > fMaxY {
		return
	}
	minX, maxX := int(fMinX), int(fMaxX)
	minY, maxY := int(fMinY), int(fMaxY)
	c.stats.Rasterized++

	// Per-vertex light, computed for every triangle that uses the vertex.
	a, b, d := &c.verts[tri.V[0]], &c.verts[tri.V[1]], &c.verts[tri.V[2]]
	a.Light = c.vertexLight(c.normals[tri.N[0]])
	b.Light = c.vertexLight(c.normals[tri.N[1]])
	d.Light = c.vertexLight(c.normals[tri.N[2]])

	// Attributes divided by w (W already holds 1/w) interpolate linearly.
	q0, q1, q2 := p0.W, p1.W, p2.W
	uv0, uv1, uv2 := mesh.UVs[tri.UV[0]], mesh.UVs[tri.UV[1]], mesh.UVs[tri.UV[2]]
	u0, u1, u2 := uv0.U*q0, uv1.U*q1, uv2.U*q2
	v0, v1, v2 := uv0.V*q0, uv1.V*q1, uv2.V*q2
	l0, l1, l2 := a.Light*q0, b.Light*q1, d.Light*q2

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(p1.X, p1.Y, p2.X, p2.Y)
	A1, B1, C1 := edgeCoeffs(p2.X, p2.Y, p0.X, p0.Y)
	A2, B2, C2 := edgeCoeffs(p0.X, p0.Y, p1.X, p1.Y)

	// Normalize so the edge functions are the barycentric weights.
	invArea := 1.0 / area
	A0, B0, C0 = A0*invArea, B0*invArea, C0*invArea
	A1, B1, C1 = A1*invArea, B1*invArea, C1*invArea
	A2, B2, C2 = A2*invArea, B2*invArea, C2*invArea

	z0, z1, z2 := p0.Z, p1.Z, p2.Z

	// Evaluate edge functions at the center of the top-left pixel
	px := float64(minX) + 0.5
	py := float64(minY) + 0.5

	w0Row := edgeFunc(A0, B0, C0, px, py)
	w1Row := edgeFunc(A1, B1, C1, px, py)
	w2Row := edgeFunc(A2, B2, C2, px, py)

	width := c.width

	for y := minY; y <= maxY; y++ {
		w0 := w0Row
		w1 := w1Row
		w2 := w2Row
		rowOffset := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				z := w0*z0 + w1*z1 + w2*z2

				idx := rowOffset + x
				if c.testAndUpdate(idx, z) {
					inv := 1 / (w0*q0 + w1*q1 + w2*q2)
					u := (w0*u0 + w1*u1 + w2*u2) * inv
					v := (w0*v0 + w1*v1 + w2*v2) * inv
					light := (w0*l0 + w1*l1 + w2*l2) * inv

					c.color[idx] = Modulate(sampleNearest(tex, u, v), light)
					c.stats.PixelsWritten++
				} else {
					c.stats.DepthRejected++
				}
			}

			// Step in X direction
			w0 += A0
			w1 += A1
			w2 += A2
		}

		// Step in Y direction
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}
