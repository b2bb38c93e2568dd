package murmur

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer draws a Sim every frame: the interaction-field trail underneath,
// then the particle buffer as point sprites, then the bird meshes on top.
// Vertex assembly is separated from submission so the geometry paths are
// testable without a GPU surface.
type Renderer struct {
	birdVerts     []ebiten.Vertex
	birdInds      []uint16
	particleVerts []ebiten.Vertex
	particleInds  []uint16
	fieldVerts    []ebiten.Vertex
	fieldInds     []uint16

	white *ebiten.Image
}

// NewRenderer creates a Renderer with empty geometry buffers. Buffers grow
// to a high-water mark and never shrink.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Draw assembles and submits all geometry for the sim's current state.
// Call strictly after Sim.Update within the same frame.
func (r *Renderer) Draw(screen *ebiten.Image, s *Sim) {
	r.build(s)

	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}

	if len(r.fieldInds) > 0 {
		op := &ebiten.DrawTrianglesOptions{Blend: ebiten.BlendLighter}
		screen.DrawTriangles(r.fieldVerts, r.fieldInds, r.white, op)
	}
	if len(r.particleInds) > 0 {
		screen.DrawTriangles(r.particleVerts, r.particleInds, r.white, nil)
	}
	if len(r.birdInds) > 0 {
		screen.DrawTriangles(r.birdVerts, r.birdInds, r.white, nil)
	}
}

// build regenerates all vertex buffers from the sim state.
func (r *Renderer) build(s *Sim) {
	r.birdVerts = r.birdVerts[:0]
	r.birdInds = r.birdInds[:0]
	r.particleVerts = r.particleVerts[:0]
	r.particleInds = r.particleInds[:0]
	r.fieldVerts = r.fieldVerts[:0]
	r.fieldInds = r.fieldInds[:0]

	r.buildField(s)
	r.buildParticles(s)
	r.buildBirds(s)
}

// buildBirds emits one oriented 4-vertex mesh per visible agent: nose,
// tail, and two symmetric wing tips deformed by the flap phase.
func (r *Renderer) buildBirds(s *Sim) {
	proj := s.Projection()
	pxPerUnit := proj.Scale()
	cfg := s.Config()
	agents := s.Agents()

	for i := range agents {
		a := &agents[i]
		if !a.visible() {
			continue
		}
		sx, sy := proj.WorldToScreen(a.Position)

		// Yaw from the horizontal velocity, in screen coordinates (Y down).
		yaw := math.Atan2(-a.Velocity.Y, a.Velocity.X)
		speed := a.Velocity.Length()
		pitch := 0.0
		if speed > 0 {
			pitch = math.Asin(clamp01(math.Abs(a.Velocity.Z) / speed))
		}

		size := cfg.BirdScale * a.Scale * pxPerUnit
		// Climbing or diving foreshortens the body.
		bodyLen := size * (1 - 0.4*pitch/(math.Pi/2))
		wingSpan := size * 0.9
		flap := math.Sin(a.flapPhase) * wingSpan * 0.6

		cosY, sinY := math.Cos(yaw), math.Sin(yaw)
		rot := func(x, y float64) (float32, float32) {
			return float32(sx + x*cosY - y*sinY), float32(sy + x*sinY + y*cosY)
		}

		nx, ny := rot(bodyLen, 0)
		tx, ty := rot(-bodyLen*0.8, 0)
		lx, ly := rot(-bodyLen*0.2, -wingSpan+flap)
		wx, wy := rot(-bodyLen*0.2, wingSpan-flap)

		cr := float32(a.Color.R * a.Alpha)
		cg := float32(a.Color.G * a.Alpha)
		cb := float32(a.Color.B * a.Alpha)
		ca := float32(a.Alpha)

		base := uint16(len(r.birdVerts))
		for _, p := range [4][2]float32{{nx, ny}, {tx, ty}, {lx, ly}, {wx, wy}} {
			r.birdVerts = append(r.birdVerts, ebiten.Vertex{
				DstX: p[0], DstY: p[1],
				SrcX: 0.5, SrcY: 0.5,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			})
		}
		r.birdInds = append(r.birdInds,
			base, base+1, base+2,
			base, base+1, base+3,
		)
	}
}

// buildParticles emits one quad per visible particle slot. Point size is
// derived from inverted brightness (darker source pixels render larger, for
// compositional density) and the slot is displaced by the interaction field
// sampled at its normalized position within the image bounds.
func (r *Renderer) buildParticles(s *Sim) {
	p := s.Particles()
	if p == nil {
		return
	}
	proj := s.Projection()
	pxPerUnit := proj.Scale()
	cfg := s.Config()
	area := s.DisplayArea()
	field := s.Field()

	for i := 0; i < p.Len(); i++ {
		alpha := p.Opacity(i)
		if alpha <= 0 {
			continue
		}
		pos := p.Position(i)
		sx, sy := proj.WorldToScreen(pos)

		u := (pos.X - area.X) / area.Width
		v := (pos.Y - area.Y) / area.Height
		if bounce := field.Sample(u, v); bounce > 0 {
			sy -= bounce * cfg.FieldDisplacement
		}

		half := lerp(cfg.PointSizeMax, cfg.PointSizeMin, p.Brightness(i)) * pxPerUnit / 2
		col := p.Color(i)
		cr := float32(col.R * alpha)
		cg := float32(col.G * alpha)
		cb := float32(col.B * alpha)
		ca := float32(alpha)

		base := uint16(len(r.particleVerts))
		for _, d := range [4][2]float64{{-half, -half}, {half, -half}, {half, half}, {-half, half}} {
			r.particleVerts = append(r.particleVerts, ebiten.Vertex{
				DstX: float32(sx + d[0]), DstY: float32(sy + d[1]),
				SrcX: 0.5, SrcY: 0.5,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			})
		}
		r.particleInds = append(r.particleInds,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
}

// fieldTrailAlpha scales the rendered brightness of the pointer trail.
const fieldTrailAlpha = 0.12

// buildField emits translucent additive quads for interaction-field cells
// with visible intensity, rendering the soft pointer trail.
func (r *Renderer) buildField(s *Sim) {
	field := s.Field()
	if field == nil {
		return
	}
	proj := s.Projection()
	area := s.DisplayArea()
	n := field.Size()
	cellW := area.Width / float64(n)
	cellH := area.Height / float64(n)
	halfW := cellW * proj.Scale() / 2 * 1.6
	halfH := cellH * proj.Scale() / 2 * 1.6

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			it := field.at(x, y)
			if it <= 0.01 {
				continue
			}
			wx := area.X + (float64(x)+0.5)*cellW
			wy := area.Y + (float64(y)+0.5)*cellH
			sx, sy := proj.WorldToScreen(Vec3{X: wx, Y: wy})

			a := float32(math.Min(it, 1) * fieldTrailAlpha)
			base := uint16(len(r.fieldVerts))
			for _, d := range [4][2]float64{{-halfW, -halfH}, {halfW, -halfH}, {halfW, halfH}, {-halfW, halfH}} {
				r.fieldVerts = append(r.fieldVerts, ebiten.Vertex{
					DstX: float32(sx + d[0]), DstY: float32(sy + d[1]),
					SrcX: 0.5, SrcY: 0.5,
					ColorR: a, ColorG: a, ColorB: a, ColorA: a,
				})
			}
			r.fieldInds = append(r.fieldInds,
				base, base+1, base+2,
				base, base+2, base+3,
			)
		}
	}
}
