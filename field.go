package murmur

import "math"

// InteractionField is a low-resolution grid that accumulates a decaying
// bright spot wherever the pointer moves and fades uniformly every tick.
// The renderer samples it per particle, by the particle's normalized
// position within the sampled-image bounds, to displace nearby particles.
//
// Pointer updates can arrive at any rate; deposits just sum, so dropping
// or coalescing events only softens the trail.
type InteractionField struct {
	size      int
	intensity []float64
	decay     float64
}

// depositRadius is the deposit footprint in cells.
const depositRadius = 2

// newInteractionField creates a size x size field with the given per-second
// exponential decay.
func newInteractionField(size int, decay float64) *InteractionField {
	if size <= 0 {
		size = 16
	}
	return &InteractionField{
		size:      size,
		intensity: make([]float64, size*size),
		decay:     decay,
	}
}

// Size returns the grid resolution per axis.
func (f *InteractionField) Size() int {
	return f.size
}

// Deposit adds a soft spot of the given strength at the normalized
// position (u, v), both in [0, 1]. Out-of-range positions are ignored.
func (f *InteractionField) Deposit(u, v, strength float64) {
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return
	}
	cx := u * float64(f.size-1)
	cy := v * float64(f.size-1)
	for dy := -depositRadius; dy <= depositRadius; dy++ {
		for dx := -depositRadius; dx <= depositRadius; dx++ {
			x := int(cx) + dx
			y := int(cy) + dy
			if x < 0 || x >= f.size || y < 0 || y >= f.size {
				continue
			}
			ddx := float64(x) - cx
			ddy := float64(y) - cy
			falloff := 1 - math.Sqrt(ddx*ddx+ddy*ddy)/float64(depositRadius+1)
			if falloff <= 0 {
				continue
			}
			f.intensity[y*f.size+x] += strength * falloff * falloff
		}
	}
}

// Step fades the whole field by one tick of exponential decay.
func (f *InteractionField) Step(dt float64) {
	k := math.Exp(-f.decay * dt)
	for i := range f.intensity {
		f.intensity[i] *= k
		if f.intensity[i] < 1e-4 {
			f.intensity[i] = 0
		}
	}
}

// Sample returns the bilinearly interpolated intensity at the normalized
// position (u, v). Positions outside [0, 1] sample as zero.
func (f *InteractionField) Sample(u, v float64) float64 {
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0
	}
	fx := u * float64(f.size-1)
	fy := v * float64(f.size-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := min(x0+1, f.size-1)
	y1 := min(y0+1, f.size-1)
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	top := lerp(f.at(x0, y0), f.at(x1, y0), tx)
	bottom := lerp(f.at(x0, y1), f.at(x1, y1), tx)
	return lerp(top, bottom, ty)
}

func (f *InteractionField) at(x, y int) float64 {
	return f.intensity[y*f.size+x]
}
