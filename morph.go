package murmur

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// morphTween animates up to 5 float64 fields on an Agent simultaneously.
// Used for the forming fade-in and the bird-to-particle morph. Call
// Update(dt) each tick; values are written straight into the agent fields.
//
// There is no global animation manager; the phase controller owns each
// agent's tween and drops it once Done.
type morphTween struct {
	tweens [5]*gween.Tween
	fields [5]*float64
	count  int
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *morphTween) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// add appends one field animation to the group.
func (g *morphTween) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// newFormingTween fades an agent in: alpha and scale grow from their current
// values to full over the forming duration.
func newFormingTween(a *Agent, duration float64) *morphTween {
	g := &morphTween{}
	g.add(&a.Alpha, 1, float32(duration), ease.OutQuad)
	g.add(&a.Scale, 1, float32(duration), ease.OutBack)
	return g
}

// newBirdMorph shrinks an agent to particle scale while blending its color
// toward the target sample. The leader blends only partially, keeping a
// recognizable identity color for most of the morph. Alpha is not part of
// the group; it fades over the back half of the morph, driven directly from
// MorphProgress.
func newBirdMorph(a *Agent, target Color, cfg *Config) *morphTween {
	blend := 1.0
	if a.IsLeader {
		blend = cfg.LeaderColorBlend
	}
	to := a.Color.Lerp(target, blend)

	g := &morphTween{}
	dur := float32(cfg.MorphDuration)
	g.add(&a.Scale, cfg.ParticleScale, dur, ease.InQuad)
	g.add(&a.Color.R, to.R, dur, ease.OutQuad)
	g.add(&a.Color.G, to.G, dur, ease.OutQuad)
	g.add(&a.Color.B, to.B, dur, ease.OutQuad)
	return g
}

// easeOutCubic is the particle-flight easing: fast departure, soft arrival.
// Wraps the gween easing so float64 callers avoid per-call conversions at
// the signature boundary.
func easeOutCubic(t float64) float64 {
	return float64(ease.OutCubic(float32(t), 0, 1, 1))
}
