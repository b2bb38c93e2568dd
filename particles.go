package murmur

import (
	"math"
	"sort"
)

// slotState tracks one particle slot through its life. States only move
// forward; slotArrived is terminal.
type slotState uint8

const (
	slotIdle     slotState = iota // unclaimed, invisible
	slotTracking                  // claimed; position follows the morphing bird
	slotFlight                    // flying to its target on its own
	slotAmbient                   // unclaimed, fading in at its target
	slotArrived                   // snapped to target; never moves again
)

// ParticleBuffer holds the flattened per-slot arrays that back the render
// step: one slot per target sample. The phase controller writes it during
// update; the renderer reads it during draw. All opacity writes clamp to
// [0, 1].
type ParticleBuffer struct {
	cfg     *Config
	targets []TargetSample

	pos     []Vec3
	vel     []Vec3 // neighbor-force velocity, relative to the eased base path
	off     []Vec3 // accumulated neighbor displacement
	col     []Color
	opacity []float64
	bright  []float64
	state   []slotState
	claimed []bool // held by an agent; at most one owner per slot

	launch      []Vec3
	flightStart []float64

	ambientStart  []float64
	ambientOrder  []int
	ambientCursor int
	ambientAccum  float64
	ambientActive bool

	arrived int
	scratch []int // in-flight index gather buffer
}

// newParticleBuffer allocates one slot per target sample. Slots start at
// their target position, fully transparent.
func newParticleBuffer(targets []TargetSample, cfg *Config) *ParticleBuffer {
	n := len(targets)
	b := &ParticleBuffer{
		cfg:          cfg,
		targets:      targets,
		pos:          make([]Vec3, n),
		vel:          make([]Vec3, n),
		off:          make([]Vec3, n),
		col:          make([]Color, n),
		opacity:      make([]float64, n),
		bright:       make([]float64, n),
		state:        make([]slotState, n),
		claimed:      make([]bool, n),
		launch:       make([]Vec3, n),
		flightStart:  make([]float64, n),
		ambientStart: make([]float64, n),
	}
	for i, t := range targets {
		b.pos[i] = t.Position
		b.col[i] = t.Color
		b.bright[i] = t.Brightness
	}
	return b
}

// Len returns the slot count.
func (b *ParticleBuffer) Len() int {
	return len(b.state)
}

// Target returns the sample backing slot i.
func (b *ParticleBuffer) Target(i int) TargetSample {
	return b.targets[i]
}

// Position returns slot i's current world position.
func (b *ParticleBuffer) Position(i int) Vec3 { return b.pos[i] }

// Color returns slot i's current color.
func (b *ParticleBuffer) Color(i int) Color { return b.col[i] }

// Opacity returns slot i's current opacity, always in [0, 1].
func (b *ParticleBuffer) Opacity(i int) float64 { return b.opacity[i] }

// Brightness returns slot i's source-pixel luminance.
func (b *ParticleBuffer) Brightness(i int) float64 { return b.bright[i] }

// ArrivedCount returns the number of slots locked at their target.
func (b *ParticleBuffer) ArrivedCount() int { return b.arrived }

// setOpacity is the single opacity write point; it clamps to [0, 1] and
// leaves arrived slots locked at full opacity.
func (b *ParticleBuffer) setOpacity(i int, v float64) {
	if b.state[i] == slotArrived {
		b.opacity[i] = 1
		return
	}
	b.opacity[i] = clamp01(v)
}

// claim marks slot i as owned by a morphing agent; first claim wins. An
// idle or ambient-fading slot is taken over outright, its color snapped to
// the agent's blended color so the particle visually continues the bird. A
// slot the ambient pass already locked stays arrived; the agent simply
// latches onto the finished result.
func (b *ParticleBuffer) claim(i int, birdColor Color) {
	if b.claimed[i] {
		return
	}
	b.claimed[i] = true
	switch b.state[i] {
	case slotIdle, slotAmbient:
		b.state[i] = slotTracking
		b.col[i] = birdColor
	}
}

// track pins slot i to the morphing bird's position and ramps its opacity
// in once the bird is within the proximity threshold of the eventual
// target, so the particle originates from the bird's body.
func (b *ParticleBuffer) track(i int, birdPos Vec3, birdColor Color) {
	if b.state[i] != slotTracking {
		return
	}
	b.pos[i] = birdPos
	b.col[i] = birdColor
	d := birdPos.Distance(b.targets[i].Position)
	b.setOpacity(i, 1-d/b.cfg.ProximityThreshold)
}

// beginFlight releases slot i from its bird: from now on the slot flies to
// its target on its own.
func (b *ParticleBuffer) beginFlight(i int, now float64) {
	if b.state[i] != slotTracking {
		return
	}
	b.state[i] = slotFlight
	b.launch[i] = b.pos[i]
	b.flightStart[i] = now
	b.vel[i] = Vec3{}
	b.off[i] = Vec3{}
}

// arrive locks slot i at its target: exact position, full opacity, zero
// velocity. Terminal by invariant.
func (b *ParticleBuffer) arrive(i int) {
	if b.state[i] == slotArrived {
		return
	}
	b.state[i] = slotArrived
	b.pos[i] = b.targets[i].Position
	b.col[i] = b.targets[i].Color
	b.vel[i] = Vec3{}
	b.off[i] = Vec3{}
	b.opacity[i] = 1
	b.arrived++
}

// atTarget reports whether slot i has locked.
func (b *ParticleBuffer) atTarget(i int) bool {
	return b.state[i] == slotArrived
}

// update advances in-flight slots and ambient fades by one tick.
func (b *ParticleBuffer) update(dt, now float64) {
	b.scratch = b.scratch[:0]
	for i := range b.state {
		if b.state[i] == slotFlight {
			b.scratch = append(b.scratch, i)
		}
	}
	for _, i := range b.scratch {
		b.updateFlight(i, dt, now)
	}
	b.updateAmbient(dt, now)
}

// updateFlight moves one in-flight slot: an ease-out-cubic blend from launch
// to target, a decaying deterministic swoop, and light flocking among
// in-flight slots only, all weighted down as the slot nears arrival.
func (b *ParticleBuffer) updateFlight(i int, dt, now float64) {
	cfg := b.cfg
	target := b.targets[i].Position
	elapsed := now - b.flightStart[i]
	t := elapsed / cfg.FlightDuration
	ct := math.Min(t, 1)

	base := b.launch[i].Lerp(target, easeOutCubic(ct))

	// Decaying organic swoop, perpendicular to the flight path, phase and
	// frequency derived from the slot index.
	path := target.Sub(b.launch[i]).Normalize()
	perp := Vec3{X: -path.Y, Y: path.X}
	freq := 1 + indexNoise(i, 4.2)
	side := indexNoise(i, 8.8)*2 - 1
	swoop := math.Sin(ct*math.Pi*freq) * side * cfg.SwoopAmplitude

	// Light flocking among in-flight neighbors.
	accel := b.flightNeighborForce(i)
	b.vel[i] = b.vel[i].Add(accel.Scale(dt * cfg.FlightFlockScale))
	b.off[i] = b.off[i].Add(b.vel[i].Scale(dt))

	organic := perp.Scale(swoop).Add(b.off[i]).Scale(1 - ct)
	b.pos[i] = base.Add(organic)

	eps := cfg.ArriveEpsilon
	if t >= 1 {
		eps = cfg.RelaxedEpsilon
	}
	if b.pos[i].Distance(target) < eps || elapsed > cfg.HardSnapTimeout {
		b.arrive(i)
		return
	}
	// Continue from whatever the proximity ramp reached at launch; a slot
	// released far from its target fades in over the early flight instead
	// of popping to full.
	b.setOpacity(i, math.Max(b.opacity[i], easeOutCubic(ct)))
	b.col[i] = b.col[i].Lerp(b.targets[i].Color, clamp01(ct))
}

// flightNeighborForce returns separation/alignment/cohesion against the
// other in-flight slots, already gathered into scratch.
func (b *ParticleBuffer) flightNeighborForce(i int) Vec3 {
	cfg := b.cfg
	radius := cfg.FlightFlockRadius
	var force Vec3
	for _, j := range b.scratch {
		if j == i {
			continue
		}
		offset := b.pos[j].Sub(b.pos[i])
		dist := offset.Length()
		if dist <= 0 || dist >= radius {
			continue
		}
		switch {
		case dist < radius*0.4:
			force = force.Add(offset.Scale(-1 / dist * (radius*0.4/dist - 1)))
		case dist < radius*0.7:
			force = force.Add(b.vel[j].Normalize())
		default:
			force = force.Add(offset.Scale(1 / dist))
		}
	}
	return force
}

// beginAmbient starts the unassigned-slot fade-in. The reveal order is
// computed once, deterministically: near the display center first, biased
// toward slots close to currently moving particles (so the reveal ripples
// outward from active motion), perturbed by per-slot index noise.
func (b *ParticleBuffer) beginAmbient(now float64) {
	if b.ambientActive {
		return
	}
	b.ambientActive = true

	var motion []Vec3
	for i := range b.state {
		if b.state[i] == slotFlight {
			motion = append(motion, b.pos[i])
		}
	}
	center, radius := b.targetExtent()

	type scored struct {
		slot  int
		score float64
	}
	var pending []scored
	for i := range b.state {
		if b.state[i] != slotIdle {
			continue
		}
		p := b.targets[i].Position
		centerDist := p.Distance(center) / radius
		motionDist := 1.0
		for _, m := range motion {
			if d := p.Distance(m) / radius; d < motionDist {
				motionDist = d
			}
		}
		pending = append(pending, scored{
			slot:  i,
			score: 0.45*centerDist + 0.35*motionDist + 0.2*indexNoise(i, 5.5),
		})
	}
	sort.Slice(pending, func(x, y int) bool {
		if pending[x].score != pending[y].score {
			return pending[x].score < pending[y].score
		}
		return pending[x].slot < pending[y].slot
	})

	b.ambientOrder = b.ambientOrder[:0]
	for _, s := range pending {
		b.ambientOrder = append(b.ambientOrder, s.slot)
	}
	b.ambientCursor = 0
	b.ambientAccum = 0
}

// targetExtent returns the centroid of all targets and a normalizing radius.
func (b *ParticleBuffer) targetExtent() (Vec3, float64) {
	if len(b.targets) == 0 {
		return Vec3{}, 1
	}
	var center Vec3
	for _, t := range b.targets {
		center = center.Add(t.Position)
	}
	center = center.Scale(1 / float64(len(b.targets)))
	radius := 1.0
	for _, t := range b.targets {
		if d := t.Position.Distance(center); d > radius {
			radius = d
		}
	}
	return center, radius
}

// updateAmbient releases pending slots at the configured rate and advances
// their fades.
func (b *ParticleBuffer) updateAmbient(dt, now float64) {
	if !b.ambientActive {
		return
	}
	b.ambientAccum += b.cfg.AmbientPerSecond * dt
	for b.ambientAccum >= 1 && b.ambientCursor < len(b.ambientOrder) {
		b.ambientAccum--
		i := b.ambientOrder[b.ambientCursor]
		b.ambientCursor++
		if b.state[i] != slotIdle {
			continue // claimed by a late reveal after the order was computed
		}
		b.state[i] = slotAmbient
		b.ambientStart[i] = now
	}

	for i := range b.state {
		if b.state[i] != slotAmbient {
			continue
		}
		t := (now - b.ambientStart[i]) / b.cfg.AmbientFadeDuration
		if t >= 1 {
			b.arrive(i)
			continue
		}
		b.setOpacity(i, easeOutCubic(clamp01(t)))
	}
}
