package murmur

import "math"

// Projection relates the host's screen space to the simulation's world
// plane. The host supplies its viewport size along with the perspective
// parameters (vertical field of view, camera distance); the world plane is
// the z = 0 slice the image assembles on.
type Projection struct {
	Width, Height float64 // viewport in host pixels
	FOV           float64 // vertical field of view in degrees
	Distance      float64 // camera distance from the world plane
}

// planeSize returns the world-plane extents visible through the viewport.
func (p Projection) planeSize() (w, h float64) {
	h = 2 * p.Distance * math.Tan(p.FOV*math.Pi/360)
	w = h * p.Width / p.Height
	return w, h
}

// ScreenToWorld maps a host screen-space point onto the world plane.
// Screen origin is top-left with Y down; world origin is the plane center
// with Y up.
func (p Projection) ScreenToWorld(sx, sy float64) Vec3 {
	w, h := p.planeSize()
	return Vec3{
		X: (sx/p.Width - 0.5) * w,
		Y: (0.5 - sy/p.Height) * h,
	}
}

// WorldToScreen maps a world-plane point back into host screen space,
// ignoring the point's depth.
func (p Projection) WorldToScreen(v Vec3) (sx, sy float64) {
	w, h := p.planeSize()
	return (v.X/w + 0.5) * p.Width, (0.5 - v.Y/h) * p.Height
}

// Scale returns the screen pixels per world unit on the plane.
func (p Projection) Scale() float64 {
	w, _ := p.planeSize()
	return p.Width / w
}

// worldBounds returns the flight box: the visible plane slab plus a thin
// depth extent for the flock to weave through.
func (p Projection) worldBounds() Bounds {
	w, h := p.planeSize()
	const depth = 120.0
	return Bounds{
		Min: Vec3{X: -w / 2, Y: -h / 2, Z: -depth / 2},
		Max: Vec3{X: w / 2, Y: h / 2, Z: depth / 2},
	}
}

// displayArea returns the centered world-plane rectangle the sampled image
// may occupy, as a fraction of the visible plane.
func (p Projection) displayArea(fraction float64) Rect {
	w, h := p.planeSize()
	aw := w * fraction
	ah := h * fraction
	return Rect{X: -aw / 2, Y: -ah / 2, Width: aw, Height: ah}
}
