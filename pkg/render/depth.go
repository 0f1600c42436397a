package render

// testAndUpdate stores z at pixel i and reports true iff z is strictly nearer
// than the stored depth. Smaller post-divide z is nearer.
func (c *Context) testAndUpdate(i int, z float64) bool {
	if z < c.depth[i] {
		c.depth[i] = z
		return true
	}
	return false
}
