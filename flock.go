package murmur

import "math"

// Bounds is the world-space axis-aligned box that contains the flock.
// Derived from the projection every resize; soft forces keep agents inside,
// there is no hard clamp.
type Bounds struct {
	Min, Max Vec3
}

// Center returns the box center.
func (b Bounds) Center() Vec3 {
	return Vec3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Contains reports whether p lies inside the box. Points on a face are
// considered inside.
func (b Bounds) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Inset returns the box shrunk by d on every face.
func (b Bounds) Inset(d float64) Bounds {
	return Bounds{
		Min: Vec3{b.Min.X + d, b.Min.Y + d, b.Min.Z + d},
		Max: Vec3{b.Max.X - d, b.Max.Y - d, b.Max.Z - d},
	}
}

// flockEnv carries the per-tick context the solver reads but never writes.
type flockEnv struct {
	bounds        Bounds
	pointer       Vec3
	pointerActive bool
	centroid      Vec3 // centroid of the non-leader flock
	flockCount    int  // agents contributing to centroid
}

// maxSeparationPush caps the per-neighbor separation multiplier, which
// otherwise diverges as two agents approach the same point.
const maxSeparationPush = 4.0

// flockSteer computes the steering acceleration for agents[i]: zone-based
// separation/alignment/cohesion over its neighborhood, soft containment
// toward the world center, boundary push-back, pointer avoidance, and the
// leader's forward bias.
func flockSteer(agents []Agent, i int, env flockEnv, cfg *Config) Vec3 {
	a := &agents[i]
	zone := cfg.zoneRadius()
	sepFrac := cfg.SeparationDistance / zone
	alignFrac := cfg.AlignmentDistance / zone

	var force Vec3

	for j := range agents {
		if j == i {
			continue
		}
		other := &agents[j]
		if !other.flockable() {
			continue
		}
		offset := other.Position.Sub(a.Position)
		dist := offset.Length()
		if dist <= 0 || dist >= zone {
			continue
		}
		percent := dist / zone
		dir := offset.Scale(1 / dist)

		switch {
		case percent < sepFrac:
			// Repulsion grows without bound as the gap closes; cap it.
			f := sepFrac/percent - 1
			if f > maxSeparationPush {
				f = maxSeparationPush
			}
			force = force.Add(dir.Scale(-f * cfg.SeparationScale))
		case percent < sepFrac+alignFrac:
			adj := (percent - sepFrac) / alignFrac
			force = force.Add(other.Velocity.Normalize().Scale(cosineRamp(adj) * cfg.AlignmentScale))
		default:
			adj := (percent - sepFrac - alignFrac) / (1 - sepFrac - alignFrac)
			force = force.Add(dir.Scale(cosineRamp(adj) * cfg.CohesionScale))
		}
	}

	force = force.Add(containForce(a.Position, env.bounds, cfg))
	force = force.Add(boundsForce(a.Position, env.bounds, cfg))

	if env.pointerActive {
		force = force.Add(avoidForce(a.Position, env.pointer, i, cfg))
	}

	if a.IsLeader {
		heading := a.Velocity.Normalize()
		if heading == (Vec3{}) {
			heading = Vec3{X: 1}
		}
		force = force.Add(heading.Scale(cfg.LeaderForwardBias))
		if env.flockCount > 0 && a.Position.Distance(env.centroid) < cfg.LeaderMinLead {
			force = force.Add(a.Position.Sub(env.centroid).Normalize().Scale(cfg.LeaderLeadImpulse))
		}
	}

	return force
}

// cosineRamp maps t in [0, 1] to a smooth bump that is zero at both band
// edges and one at the band center.
func cosineRamp(t float64) float64 {
	return 0.5 - math.Cos(t*2*math.Pi)*0.5
}

// containForce pulls toward the world center once the agent is outside the
// comfortable radius, growing linearly with the excess distance.
func containForce(pos Vec3, bounds Bounds, cfg *Config) Vec3 {
	offset := pos.Sub(bounds.Center())
	dist := offset.Length()
	if dist <= cfg.ComfortRadius {
		return Vec3{}
	}
	return offset.Scale(-(dist - cfg.ComfortRadius) * cfg.CenterPull / dist)
}

// boundsForce pushes back from each face once the agent enters the soft
// margin band, strength increasing with penetration depth. Depth can exceed
// 1 when the agent is fully outside the bounds.
func boundsForce(pos Vec3, b Bounds, cfg *Config) Vec3 {
	m := cfg.BoundsMargin
	var force Vec3
	force.X += axisPush(pos.X, b.Min.X, b.Max.X, m) * cfg.BoundsPush
	force.Y += axisPush(pos.Y, b.Min.Y, b.Max.Y, m) * cfg.BoundsPush
	force.Z += axisPush(pos.Z, b.Min.Z, b.Max.Z, m) * cfg.BoundsPush
	return force
}

// axisPush returns the normalized inward push for one axis: positive when
// too close to the min face, negative when too close to the max face.
func axisPush(v, min, max, margin float64) float64 {
	if d := (min + margin) - v; d > 0 {
		return d / margin
	}
	if d := v - (max - margin); d > 0 {
		return -d / margin
	}
	return 0
}

// avoidForce flees the pointer with magnitude (1 - d/r), plus a small
// deterministic lateral component derived from the agent index so flight
// paths vary between agents but are identical between runs.
func avoidForce(pos, pointer Vec3, index int, cfg *Config) Vec3 {
	offset := pos.Sub(pointer)
	dist := offset.Length()
	if dist >= cfg.AvoidRadius {
		return Vec3{}
	}
	m := 1 - dist/cfg.AvoidRadius
	away := offset.Normalize()
	if away == (Vec3{}) {
		away = Vec3{Y: 1}
	}
	perp := Vec3{X: -away.Y, Y: away.X}
	side := indexNoise(index, 7.31)*2 - 1
	return away.Scale(m * cfg.AvoidStrength).
		Add(perp.Scale(side * m * cfg.AvoidLateral))
}

// integrate applies the steering acceleration to agents[i]: velocity update,
// outward-velocity damping inside the boundary band, speed clamp, then
// position integration with the apparent-speed multiplier.
func integrate(a *Agent, accel Vec3, bounds Bounds, dt float64, cfg *Config) {
	a.Velocity = a.Velocity.Add(accel.Scale(dt))

	dampOutward(&a.Velocity.X, a.Position.X, bounds.Min.X, bounds.Max.X, cfg.BoundsMargin, cfg.BoundsDamp*dt)
	dampOutward(&a.Velocity.Y, a.Position.Y, bounds.Min.Y, bounds.Max.Y, cfg.BoundsMargin, cfg.BoundsDamp*dt)
	dampOutward(&a.Velocity.Z, a.Position.Z, bounds.Min.Z, bounds.Max.Z, cfg.BoundsMargin, cfg.BoundsDamp*dt)

	speed := a.Velocity.Length()
	if speed > cfg.MaxSpeed {
		a.Velocity = a.Velocity.Scale(cfg.MaxSpeed / speed)
	} else if speed > 0 && speed < cfg.MinSpeed {
		a.Velocity = a.Velocity.Scale(cfg.MinSpeed / speed)
	}

	a.Position = a.Position.Add(a.Velocity.Scale(dt * cfg.SpeedMultiplier))
}

// dampOutward bleeds off the velocity component pointing out of the bounds
// while inside the margin band, scaled by penetration depth.
func dampOutward(vel *float64, pos, min, max, margin, damp float64) {
	if d := (min + margin) - pos; d > 0 && *vel < 0 {
		*vel *= 1 - clamp01(damp*clamp01(d/margin))
	}
	if d := pos - (max - margin); d > 0 && *vel > 0 {
		*vel *= 1 - clamp01(damp*clamp01(d/margin))
	}
}
